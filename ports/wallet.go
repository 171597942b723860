package ports

import "context"

// WalletEventType is a wallet connection change.
type WalletEventType int

const (
	WalletConnected WalletEventType = iota + 1
	WalletDisconnected
)

// WalletEvent reports a connection change of the wallet.
type WalletEvent struct {
	Type    WalletEventType
	Address string
}

// Wallet is the signing device of the user.
type Wallet interface {
	// Address returns the active account and whether the wallet is connected.
	Address() (string, bool)
	// SignMessage signs message with personal_sign semantics and returns a 0x-prefixed signature.
	// A declined request fails with core.ErrUserRejectedSignature.
	SignMessage(ctx context.Context, message string) (string, error)
}
