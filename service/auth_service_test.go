package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gokmency/web3turkiyetoplulugu/adapters/gateway"
	"github.com/gokmency/web3turkiyetoplulugu/adapters/store"
	"github.com/gokmency/web3turkiyetoplulugu/adapters/tokenizer"
	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/internal/eth"
	"github.com/gokmency/web3turkiyetoplulugu/internal/siwe"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestAuthService(t *testing.T, users *fakeUserRepo, opts ...AuthOption) *AuthService {
	t.Helper()
	verifier := siwe.NewVerifier(siwe.WithClock(fixedClock))
	opts = append([]AuthOption{WithClock(fixedClock)}, opts...)
	return NewAuthService(verifier, users, zap.NewNop().Sugar(), opts...)
}

func signedChallenge(t *testing.T, signer eth.LocalSigner, domain, nonce string) (string, string) {
	t.Helper()
	challenge, err := siwe.NewChallenge(signer.Address().Hex(), domain, nonce, 1, siwe.WithIssuedAt(testNow))
	require.NoError(t, err)
	msg := challenge.String()
	return msg, signWith(signer, msg)
}

func TestSignInWithWallet_CreatesUser(t *testing.T) {
	ctx := context.Background()
	signer, err := eth.GenerateSigner()
	require.NoError(t, err)
	address := signer.Address().Hex()

	users := newFakeUserRepo()
	svc := newTestAuthService(t, users)

	msg, sig := signedChallenge(t, signer, "example.com", "nonce001")
	user, err := svc.SignInWithWallet(ctx, address, sig, msg)
	require.NoError(t, err)

	assert.Equal(t, address, user.WalletAddress)
	assert.Equal(t, core.RoleUser, user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, testNow, user.CreatedAt)

	stored, err := users.GetByWallet(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestSignInWithWallet_ExistingUserIsTouched(t *testing.T) {
	ctx := context.Background()
	signer, err := eth.GenerateSigner()
	require.NoError(t, err)
	address := signer.Address().Hex()

	users := newFakeUserRepo()
	earlier := testNow.Add(-48 * time.Hour)
	require.NoError(t, users.Create(ctx, &core.User{
		ID: "existing", WalletAddress: address, Role: core.RoleModerator,
		IsVerified: true, CreatedAt: earlier, UpdatedAt: earlier,
	}))
	svc := newTestAuthService(t, users)

	msg, sig := signedChallenge(t, signer, "example.com", "n2")
	user, err := svc.SignInWithWallet(ctx, address, sig, msg)
	require.NoError(t, err)

	assert.Equal(t, "existing", user.ID)
	assert.Equal(t, core.RoleModerator, user.Role)
	assert.True(t, user.IsVerified)
	assert.Equal(t, earlier, user.CreatedAt)
	assert.Equal(t, testNow, user.UpdatedAt)
}

func TestSignInWithWallet_Rejections(t *testing.T) {
	ctx := context.Background()
	signer, err := eth.GenerateSigner()
	require.NoError(t, err)
	other, err := eth.GenerateSigner()
	require.NoError(t, err)
	address := signer.Address().Hex()

	msg, sig := signedChallenge(t, signer, "example.com", "nonce001")

	tests := []struct {
		name      string
		address   string
		signature string
		message   string
		wantErr   error
	}{
		{"signature by another key", address, signWith(other, msg), msg, core.ErrInvalidSignature},
		{"message for another address", other.Address().Hex(), sig, msg, core.ErrInvalidSignature},
		{"malformed message", address, sig, "hello", core.ErrMalformedMessage},
		{"malformed signature", address, "0x1234", msg, core.ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserRepo()
			svc := newTestAuthService(t, users)

			user, err := svc.SignInWithWallet(ctx, tt.address, tt.signature, tt.message)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, users.users)
		})
	}
}

func TestSignInWithWallet_GatewayErrors(t *testing.T) {
	ctx := context.Background()
	signer, err := eth.GenerateSigner()
	require.NoError(t, err)
	address := signer.Address().Hex()
	msg, sig := signedChallenge(t, signer, "example.com", "nonce001")
	boom := errors.New("connection refused")

	t.Run("lookup", func(t *testing.T) {
		users := newFakeUserRepo()
		users.getErr = boom
		_, err := newTestAuthService(t, users).SignInWithWallet(ctx, address, sig, msg)
		assert.ErrorIs(t, err, core.ErrLookupFailed)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, "Database error", core.UserMessage(err))
	})

	t.Run("create", func(t *testing.T) {
		users := newFakeUserRepo()
		users.createErr = boom
		_, err := newTestAuthService(t, users).SignInWithWallet(ctx, address, sig, msg)
		assert.ErrorIs(t, err, core.ErrCreateFailed)
		assert.Equal(t, "Failed to create user", core.UserMessage(err))
	})

	t.Run("touch", func(t *testing.T) {
		users := newFakeUserRepo()
		require.NoError(t, users.Create(ctx, &core.User{ID: "u1", WalletAddress: address, Role: core.RoleUser}))
		users.touchErr = boom
		_, err := newTestAuthService(t, users).SignInWithWallet(ctx, address, sig, msg)
		assert.ErrorIs(t, err, core.ErrUpdateFailed)
		assert.Equal(t, "Update failed", core.UserMessage(err))
	})
}

func TestSignInWithWallet_DomainEnforced(t *testing.T) {
	ctx := context.Background()
	signer, err := eth.GenerateSigner()
	require.NoError(t, err)

	svc := newTestAuthService(t, newFakeUserRepo(), WithDomain("web3tr.example", true))
	msg, sig := signedChallenge(t, signer, "evil.example", "nonce001")

	_, err = svc.SignInWithWallet(ctx, signer.Address().Hex(), sig, msg)
	assert.ErrorIs(t, err, core.ErrDomainMismatch)
}

func TestSignInWithWallet_ConcurrentFirstSignIn(t *testing.T) {
	ctx := context.Background()
	db, err := gateway.Open(ctx, gateway.DriverSQLite, filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := gateway.NewUserRepository(db)
	svc := NewAuthService(siwe.NewVerifier(siwe.WithClock(fixedClock)), users, zap.NewNop().Sugar(), WithClock(fixedClock))

	signer, err := eth.GenerateSigner()
	require.NoError(t, err)
	address := signer.Address().Hex()
	msg, sig := signedChallenge(t, signer, "example.com", "nonce001")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.SignInWithWallet(ctx, address, sig, msg)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, core.ErrCreateFailed)
	}
	assert.GreaterOrEqual(t, succeeded, 1)

	all, err := users.List(ctx)
	require.NoError(t, err)
	count := 0
	for _, u := range all {
		if u.WalletAddress == address {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestIssueChallengeAndLogin(t *testing.T) {
	ctx := context.Background()
	signer, err := eth.GenerateSigner()
	require.NoError(t, err)
	address := signer.Address().Hex()

	key, err := tokenizer.LoadSigningKey("")
	require.NoError(t, err)
	tok := tokenizer.NewJWTTokenizer(key, "web3tr")
	nonces := store.NewMemoryNonceStore()
	pub := &fakePublisher{}

	// real clock: the tokenizer validates expiry against time.Now
	svc := NewAuthService(siwe.NewVerifier(), newFakeUserRepo(), zap.NewNop().Sugar(),
		WithDomain("web3tr.example", true),
		WithNonceStore(nonces),
		WithTokenizer(tok),
		WithEventPublisher(pub),
	)

	challenge, err := svc.IssueChallenge(ctx, address, 0)
	require.NoError(t, err)
	assert.Equal(t, "web3tr.example", challenge.Domain())
	assert.Equal(t, int64(1), challenge.ChainID())
	require.NotNil(t, challenge.ExpiresAt())

	msg := challenge.String()
	sig := signWith(signer, msg)

	res, err := svc.Login(ctx, address, sig, msg)
	require.NoError(t, err)
	assert.Equal(t, address, res.User.WalletAddress)
	assert.NotEmpty(t, res.Token)

	claims, err := svc.ValidateToken(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, core.RoleUser, claims.Role)

	_, err = svc.Login(ctx, address, sig, msg)
	assert.ErrorIs(t, err, core.ErrNonceNotIssued, "nonce is single use")

	svc.Logout(ctx, claims)
	events := pub.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "signed_in", events[0].kind)
	assert.Equal(t, publishedEvent{"signed_out", address, "logout"}, events[1])
}

func TestProfileFunctions(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	require.NoError(t, users.Create(ctx, &core.User{ID: "a", WalletAddress: "0xadmin", Role: core.RoleAdmin}))
	require.NoError(t, users.Create(ctx, &core.User{ID: "b", WalletAddress: "0xuser", Role: core.RoleUser}))
	svc := newTestAuthService(t, users)

	assert.True(t, svc.IsUserAdmin(ctx, "0xadmin"))
	assert.False(t, svc.IsUserAdmin(ctx, "0xuser"))
	assert.False(t, svc.IsUserAdmin(ctx, "0xnobody"))

	_, err := svc.GetUserProfile(ctx, "0xnobody")
	assert.ErrorIs(t, err, core.ErrNotFound)

	ens, email := "user.eth", "user@example.com"
	updated, err := svc.UpdateUserProfile(ctx, "0xuser", core.ProfileUpdate{ENS: &ens, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, &ens, updated.ENS)
	assert.Equal(t, testNow, updated.UpdatedAt)

	bad := "not-an-email"
	_, err = svc.UpdateUserProfile(ctx, "0xuser", core.ProfileUpdate{Email: &bad})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	list, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
