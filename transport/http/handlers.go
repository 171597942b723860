package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/service"
)

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// Challenge returns a sign-in message for the address to sign
func (h *AuthHandlers) Challenge(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
		ChainID int64  `json:"chain_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	msg, err := h.authService.IssueChallenge(c.Request.Context(), req.Address, req.ChainID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := gin.H{
		"message": msg.String(),
		"nonce":   msg.Nonce(),
	}
	if expiresAt := msg.ExpiresAt(); expiresAt != nil {
		resp["expires_at"] = expiresAt
	}
	c.JSON(http.StatusOK, resp)
}

// Login verifies the signed challenge and issues a bearer token
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Address   string `json:"address" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Address, req.Signature, req.Message)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": res.Token,
		"token_type":   "Bearer",
		"expires_in":   int(time.Until(res.ExpiresAt).Seconds()),
		"user":         res.User,
	})
}

// Logout ends the session of the bearer token
func (h *AuthHandlers) Logout(c *gin.Context) {
	h.authService.Logout(c.Request.Context(), claimsFrom(c))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the profile of the authenticated user
func (h *AuthHandlers) Me(c *gin.Context) {
	claims := claimsFrom(c)

	user, err := h.authService.GetUserProfile(c.Request.Context(), claims.Address)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe changes the ENS name and email of the authenticated user
func (h *AuthHandlers) UpdateMe(c *gin.Context) {
	var req core.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.authService.UpdateUserProfile(c.Request.Context(), claimsFrom(c).Address, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Users lists every registered user
func (h *AuthHandlers) Users(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
