package core

import "time"

// SessionTTL is how long a locally persisted session stays valid.
const SessionTTL = 24 * time.Hour

// User is a row of the user profile registry as seen by an authenticated client.
type User struct {
	ID            string    `json:"id" db:"id"`
	WalletAddress string    `json:"wallet_address" db:"wallet_address"`
	ENS           *string   `json:"ens,omitempty" db:"ens"`
	Email         *string   `json:"email,omitempty" db:"email"`
	Role          Role      `json:"role" db:"role"`
	IsVerified    bool      `json:"is_verified" db:"is_verified"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileUpdate carries the user fields a wallet owner may change.
type ProfileUpdate struct {
	ENS   *string `json:"ens,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Session is the locally persisted proof of a completed sign-in.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TokenClaims is the decoded content of a server issued bearer token.
type TokenClaims struct {
	ID        string
	UserID    string
	Address   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
