// Package wallet provides a local key wallet that signs personal messages.
package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/internal/eth"
	"github.com/gokmency/web3turkiyetoplulugu/ports"
)

// ConfirmFunc asks the key holder to approve signing message.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

// AutoApprove signs every request.
func AutoApprove(context.Context, string) (bool, error) { return true, nil }

// KeyWallet signs with a local key and reports connection changes on Events.
type KeyWallet struct {
	signer  eth.Signer
	confirm ConfirmFunc

	mu        sync.RWMutex
	connected bool
	closed    bool
	events    chan ports.WalletEvent
}

// NewKeyWallet creates a disconnected wallet for signer.
func NewKeyWallet(signer eth.Signer, confirm ConfirmFunc) *KeyWallet {
	if confirm == nil {
		confirm = AutoApprove
	}
	return &KeyWallet{
		signer:  signer,
		confirm: confirm,
		events:  make(chan ports.WalletEvent, 8),
	}
}

// Events delivers connection changes until Close.
func (w *KeyWallet) Events() <-chan ports.WalletEvent {
	return w.events
}

func (w *KeyWallet) Connect() {
	w.setConnected(true, ports.WalletConnected)
}

func (w *KeyWallet) Disconnect() {
	w.setConnected(false, ports.WalletDisconnected)
}

func (w *KeyWallet) setConnected(connected bool, ev ports.WalletEventType) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.connected == connected || w.closed {
		return
	}
	w.connected = connected

	select {
	case w.events <- ports.WalletEvent{Type: ev, Address: w.signer.Address().Hex()}:
	default:
		// listener is not keeping up; connection state is still readable via Address
	}
}

// Close ends the event stream.
func (w *KeyWallet) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.closed {
		w.closed = true
		close(w.events)
	}
}

func (w *KeyWallet) Address() (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.connected {
		return "", false
	}
	return w.signer.Address().Hex(), true
}

func (w *KeyWallet) SignMessage(ctx context.Context, message string) (string, error) {
	if _, ok := w.Address(); !ok {
		return "", core.ErrWalletNotConnected
	}

	approved, err := w.confirm(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to confirm signature: %w", err)
	}
	if !approved {
		return "", core.ErrUserRejectedSignature
	}

	sig, err := w.signer.SignText([]byte(message))
	if err != nil {
		return "", err
	}
	return hexutil.Encode(sig), nil
}
