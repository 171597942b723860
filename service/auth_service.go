package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/internal/siwe"
	"github.com/gokmency/web3turkiyetoplulugu/ports"
)

// AuthService resolves wallet sign-ins to user profiles and, in server mode,
// issues challenges and bearer tokens.
type AuthService struct {
	verifier  *siwe.Verifier
	users     ports.UserRepository
	nonces    ports.NonceStore
	tokenizer ports.Tokenizer
	eventPub  ports.EventPublisher
	log       *zap.SugaredLogger

	domain       string
	checkDomain  bool
	chainID      int64
	challengeTTL time.Duration
	sessionTTL   time.Duration
	now          func() time.Time
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithNonceStore enables single use challenge nonces.
func WithNonceStore(nonces ports.NonceStore) AuthOption {
	return func(s *AuthService) { s.nonces = nonces }
}

// WithTokenizer enables bearer token issuing.
func WithTokenizer(tokenizer ports.Tokenizer) AuthOption {
	return func(s *AuthService) { s.tokenizer = tokenizer }
}

func WithEventPublisher(pub ports.EventPublisher) AuthOption {
	return func(s *AuthService) { s.eventPub = pub }
}

// WithDomain sets the domain challenges are issued for. When enforce is set,
// sign-ins with messages for another domain are rejected.
func WithDomain(domain string, enforce bool) AuthOption {
	return func(s *AuthService) {
		s.domain = domain
		s.checkDomain = enforce
	}
}

// WithChainID sets the chain challenges are issued for when the client names none.
func WithChainID(chainID int64) AuthOption {
	return func(s *AuthService) { s.chainID = chainID }
}

func WithChallengeTTL(ttl time.Duration) AuthOption {
	return func(s *AuthService) { s.challengeTTL = ttl }
}

func WithSessionTTL(ttl time.Duration) AuthOption {
	return func(s *AuthService) { s.sessionTTL = ttl }
}

func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// NewAuthService creates a new authentication service
func NewAuthService(verifier *siwe.Verifier, users ports.UserRepository, log *zap.SugaredLogger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		verifier:     verifier,
		users:        users,
		log:          log,
		domain:       "localhost",
		chainID:      siwe.DefaultChainID,
		challengeTTL: 10 * time.Minute,
		sessionTTL:   core.SessionTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignInWithWallet verifies the signed message and returns the user row for
// address, creating it on first sign-in. Verification errors are returned
// unchanged; gateway failures wrap core.ErrLookupFailed, core.ErrUpdateFailed
// or core.ErrCreateFailed.
func (s *AuthService) SignInWithWallet(ctx context.Context, address, signature, message string) (*core.User, error) {
	msg, err := s.verifier.Verify(message, signature)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(msg.Address(), address) {
		return nil, fmt.Errorf("message signed for another address: %w", core.ErrInvalidSignature)
	}
	if s.checkDomain && msg.Domain() != s.domain {
		return nil, core.ErrDomainMismatch
	}
	if s.nonces != nil {
		if err := s.nonces.ConsumeNonce(ctx, msg.Nonce()); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()

	_, err = s.users.GetByWallet(ctx, address)
	switch {
	case err == nil:
		user, err := s.users.Touch(ctx, address, now)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrUpdateFailed, err)
		}
		return user, nil

	case errors.Is(err, core.ErrNotFound):
		user := &core.User{
			ID:            uuid.New().String(),
			WalletAddress: address,
			Role:          core.RoleUser,
			IsVerified:    false,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrCreateFailed, err)
		}
		s.log.Infow("user created", "address", address, "user_id", user.ID)
		return user, nil

	default:
		return nil, fmt.Errorf("%w: %w", core.ErrLookupFailed, err)
	}
}

// IssueChallenge builds a sign-in message for address on the service domain.
func (s *AuthService) IssueChallenge(ctx context.Context, address string, chainID int64) (*siwe.Message, error) {
	if chainID == 0 {
		chainID = s.chainID
	}

	nonce, err := siwe.GenerateNonce()
	if err != nil {
		return nil, err
	}

	now := s.now()
	msg, err := siwe.NewChallenge(address, s.domain, nonce, chainID,
		siwe.WithIssuedAt(now),
		siwe.WithExpiration(now.Add(s.challengeTTL)),
	)
	if err != nil {
		return nil, err
	}

	if s.nonces != nil {
		if err := s.nonces.IssueNonce(ctx, nonce, s.challengeTTL); err != nil {
			return nil, fmt.Errorf("failed to record nonce: %w", err)
		}
	}
	return msg, nil
}

// LoginResult is the outcome of a server side sign-in.
type LoginResult struct {
	User      *core.User
	Token     string
	ExpiresAt time.Time
}

// Login signs the wallet in and issues a bearer token for the resulting user.
func (s *AuthService) Login(ctx context.Context, address, signature, message string) (*LoginResult, error) {
	if s.tokenizer == nil {
		return nil, errors.New("token issuing is not configured")
	}

	user, err := s.SignInWithWallet(ctx, address, signature, message)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.sessionTTL)
	token, err := s.tokenizer.IssueSessionToken(user, now, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session token: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishSignedIn(ctx, user.WalletAddress, user.ID); err != nil {
			s.log.Warnw("failed to publish sign-in event", "address", user.WalletAddress, "err", err)
		}
	}

	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses a bearer token.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*core.TokenClaims, error) {
	if s.tokenizer == nil {
		return nil, core.ErrInvalidToken
	}
	claims, err := s.tokenizer.ParseSessionToken(token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Logout announces the end of a session. Tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, claims *core.TokenClaims) {
	if s.eventPub == nil {
		return
	}
	if err := s.eventPub.PublishSignedOut(ctx, claims.Address, "logout"); err != nil {
		// the client already dropped its token
		s.log.Warnw("failed to publish sign-out event", "address", claims.Address, "err", err)
	}
}

// GetUserProfile returns the user registered for address.
func (s *AuthService) GetUserProfile(ctx context.Context, address string) (*core.User, error) {
	user, err := s.users.GetByWallet(ctx, address)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrLookupFailed, err)
	}
	return user, nil
}

// UpdateUserProfile changes the ENS name and email of a user.
func (s *AuthService) UpdateUserProfile(ctx context.Context, address string, update core.ProfileUpdate) (*core.User, error) {
	if update.Email != nil && *update.Email != "" && !strings.Contains(*update.Email, "@") {
		return nil, fmt.Errorf("%w: email", core.ErrInvalidInput)
	}

	user, err := s.users.UpdateProfile(ctx, address, update, s.now())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrUpdateFailed, err)
	}
	return user, nil
}

// IsUserAdmin reports whether address belongs to an admin. Lookup failures count as not admin.
func (s *AuthService) IsUserAdmin(ctx context.Context, address string) bool {
	user, err := s.users.GetByWallet(ctx, address)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			s.log.Warnw("admin check failed", "address", address, "err", err)
		}
		return false
	}
	return user.Role == core.RoleAdmin
}

// ListUsers returns every user, newest first.
func (s *AuthService) ListUsers(ctx context.Context) ([]core.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrLookupFailed, err)
	}
	return users, nil
}
