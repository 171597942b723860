package ports

import (
	"context"
	"time"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

// SessionStore keeps the single locally persisted session.
type SessionStore interface {
	// SaveSession overwrites any stored session.
	SaveSession(ctx context.Context, session *core.Session) error
	// GetSession returns nil without error when no usable session is stored.
	// Expired and undecodable sessions are removed on read.
	GetSession(ctx context.Context) (*core.Session, error)
	// ClearSession is idempotent.
	ClearSession(ctx context.Context) error
}

// NonceStore records issued challenge nonces so that each is accepted once.
type NonceStore interface {
	IssueNonce(ctx context.Context, nonce string, ttl time.Duration) error
	// ConsumeNonce fails with core.ErrNonceNotIssued for unknown, expired or reused nonces.
	ConsumeNonce(ctx context.Context, nonce string) error
}
