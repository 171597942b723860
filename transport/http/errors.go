package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gokmency/web3turkiyetoplulugu/adapters/objects"
	"github.com/gokmency/web3turkiyetoplulugu/core"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{core.ErrInvalidInput, http.StatusBadRequest},
	{core.ErrMalformedMessage, http.StatusBadRequest},
	{objects.ErrInvalidKey, http.StatusBadRequest},
	{core.ErrInvalidSignature, http.StatusUnauthorized},
	{core.ErrExpiredMessage, http.StatusUnauthorized},
	{core.ErrDomainMismatch, http.StatusUnauthorized},
	{core.ErrNonceNotIssued, http.StatusUnauthorized},
	{core.ErrForbidden, http.StatusForbidden},
	{core.ErrNotFound, http.StatusNotFound},
	{core.ErrProfileExists, http.StatusConflict},
	{core.ErrObjectExists, http.StatusConflict},
	{core.ErrUserAlreadyExists, http.StatusConflict},
	{core.ErrAvatarTooLarge, http.StatusRequestEntityTooLarge},
	{core.ErrAvatarType, http.StatusUnsupportedMediaType},
	{core.ErrReadOnly, http.StatusServiceUnavailable},
}

func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// abortWithError maps err to a status and a message safe to show to clients.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := statusFor(err)
	var msg string
	switch {
	case status == http.StatusUnauthorized,
		status == http.StatusRequestEntityTooLarge,
		status == http.StatusUnsupportedMediaType,
		errors.Is(err, core.ErrMalformedMessage),
		errors.Is(err, core.ErrLookupFailed),
		errors.Is(err, core.ErrUpdateFailed),
		errors.Is(err, core.ErrCreateFailed):
		msg = core.UserMessage(err)
	case status == http.StatusInternalServerError:
		msg = "Internal server error"
	default:
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
