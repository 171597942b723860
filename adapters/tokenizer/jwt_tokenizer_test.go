package tokenizer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

func newTestTokenizer(t *testing.T) *JWTTokenizer {
	t.Helper()
	key, err := LoadSigningKey("")
	require.NoError(t, err)
	return NewJWTTokenizer(key, "web3turkiye.org")
}

func TestJWTTokenizer_RoundTrip(t *testing.T) {
	tok := newTestTokenizer(t)
	user := &core.User{
		ID:            "0b8f4a57-2c61-4d0e-8f55-3f1a4e2d6c01",
		WalletAddress: "0x742d35Cc6634C0532925a3b8D4C6A7e6e3b5a8d6",
		Role:          core.RoleAdmin,
	}
	now := time.Now().Truncate(time.Second)

	token, err := tok.IssueSessionToken(user, now, now.Add(core.SessionTTL))
	require.NoError(t, err)

	claims, err := tok.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.WalletAddress, claims.Address)
	assert.Equal(t, core.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.Equal(now.Add(core.SessionTTL)))
}

func TestJWTTokenizer_Rejects(t *testing.T) {
	tok := newTestTokenizer(t)
	user := &core.User{ID: "u1", WalletAddress: "0xabc", Role: core.RoleUser}
	now := time.Now()

	t.Run("expired", func(t *testing.T) {
		token, err := tok.IssueSessionToken(user, now.Add(-2*time.Hour), now.Add(-time.Hour))
		require.NoError(t, err)
		_, err = tok.ParseSessionToken(token)
		assert.ErrorIs(t, err, core.ErrTokenExpired)
	})

	t.Run("other key", func(t *testing.T) {
		otherKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		other := NewJWTTokenizer(otherKey, "web3turkiye.org")
		token, err := other.IssueSessionToken(user, now, now.Add(time.Hour))
		require.NoError(t, err)
		_, err = tok.ParseSessionToken(token)
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		other := NewJWTTokenizer(tok.signKey, "elsewhere.org")
		token, err := other.IssueSessionToken(user, now, now.Add(time.Hour))
		require.NoError(t, err)
		_, err = tok.ParseSessionToken(token)
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tok.ParseSessionToken("not.a.token")
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})
}
