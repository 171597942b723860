package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines standard claims with the user fields needed for authorization
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}
