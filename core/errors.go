package core

import "errors"

// Signature and challenge errors
var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMalformedMessage = errors.New("malformed message")
	ErrExpiredMessage   = errors.New("message expired or not yet valid")
	ErrDomainMismatch   = errors.New("message domain mismatch")
	ErrNonceNotIssued   = errors.New("nonce was not issued or was already used")
)

// Wallet and orchestration errors
var (
	ErrWalletNotConnected    = errors.New("wallet not connected")
	ErrUserRejectedSignature = errors.New("user rejected signature request")
	ErrSignInInProgress      = errors.New("sign-in already in progress")
)

// Gateway errors
var (
	ErrGatewayUnavailable = errors.New("gateway unavailable")
	ErrNotFound           = errors.New("not found")
	ErrLookupFailed       = errors.New("database error")
	ErrUpdateFailed       = errors.New("update failed")
	ErrCreateFailed       = errors.New("failed to create user")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrReadOnly           = errors.New("data source is read-only")
	ErrProfileExists      = errors.New("profile already exists for this wallet")
	ErrInvalidInput       = errors.New("invalid input")
)

// Object storage errors
var (
	ErrAvatarTooLarge = errors.New("avatar exceeds size limit")
	ErrAvatarType     = errors.New("avatar must be an image")
	ErrObjectExists   = errors.New("object already exists")
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
	ErrForbidden    = errors.New("forbidden")
)

// UserMessage returns the text shown to a user for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrWalletNotConnected):
		return "Please connect your wallet first"
	case errors.Is(err, ErrUserRejectedSignature):
		return "Signature request was rejected"
	case errors.Is(err, ErrInvalidSignature):
		return "Invalid signature"
	case errors.Is(err, ErrMalformedMessage):
		return "Invalid message format"
	case errors.Is(err, ErrExpiredMessage):
		return "Sign-in message has expired"
	case errors.Is(err, ErrDomainMismatch):
		return "Sign-in message was issued for another site"
	case errors.Is(err, ErrNonceNotIssued):
		return "Sign-in challenge is no longer valid"
	case errors.Is(err, ErrSignInInProgress):
		return "Sign-in already in progress"
	case errors.Is(err, ErrLookupFailed):
		return "Database error"
	case errors.Is(err, ErrUpdateFailed):
		return "Update failed"
	case errors.Is(err, ErrCreateFailed):
		return "Failed to create user"
	case errors.Is(err, ErrAvatarTooLarge):
		return "File size must be less than 5MB"
	case errors.Is(err, ErrAvatarType):
		return "File must be an image"
	default:
		return "Authentication failed"
	}
}
