package ports

import (
	"time"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

// Tokenizer converts between users and signed bearer tokens
type Tokenizer interface {
	IssueSessionToken(user *core.User, issuedAt, expiresAt time.Time) (string, error)
	ParseSessionToken(token string) (*core.TokenClaims, error)
}
