package siwe

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/internal/eth"
)

// Verifier checks signed sign-in messages. It performs no I/O.
type Verifier struct {
	now func() time.Time
}

// VerifierOption customizes a Verifier.
type VerifierOption func(*Verifier)

// WithClock sets the time source used for the expiration window.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier creates a verifier using the wall clock unless overridden.
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify parses message and checks that signature was produced by the address it names.
// It fails with core.ErrMalformedMessage when the message cannot be parsed,
// core.ErrInvalidSignature when recovery fails or yields another address and
// core.ErrExpiredMessage outside the message time window.
func (v *Verifier) Verify(message, signature string) (*Message, error) {
	msg, err := Parse(message)
	if err != nil {
		return nil, err
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", core.ErrInvalidSignature)
	}
	if len(sig) != eth.SignatureLength {
		return nil, fmt.Errorf("signature must be %d bytes: %w", eth.SignatureLength, core.ErrInvalidSignature)
	}

	if _, err := msg.raw.VerifyEIP191(signature); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidSignature, err)
	}

	if ok, err := msg.raw.ValidAt(v.now()); err != nil || !ok {
		return nil, core.ErrExpiredMessage
	}
	return msg, nil
}
