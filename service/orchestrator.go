package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/internal/siwe"
	"github.com/gokmency/web3turkiyetoplulugu/ports"
)

// State is the authentication state of the local client.
type State int

const (
	StateUnknown State = iota
	StateLoadingSession
	StateUnauthenticated
	StateSigningIn
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoadingSession:
		return "loading_session"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateSigningIn:
		return "signing_in"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SignInResolver turns a signed challenge into a user.
type SignInResolver interface {
	SignInWithWallet(ctx context.Context, address, signature, message string) (*core.User, error)
}

// Orchestrator drives the client sign-in lifecycle: it restores the stored
// session, runs the challenge signing flow against the wallet and signs out
// when the wallet disconnects. One instance is created per client and passed
// to its consumers.
type Orchestrator struct {
	wallet   ports.Wallet
	resolver SignInResolver
	sessions ports.SessionStore
	eventPub ports.EventPublisher
	log      *zap.SugaredLogger

	domain     string
	chainID    int64
	sessionTTL time.Duration
	now        func() time.Time
	newNonce   func() (string, error)
	newToken   func() string

	mu     sync.RWMutex
	state  State
	user   *core.User
	errMsg string
	// set when the wallet disconnects while a sign-in is running
	lostWallet bool
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

func WithOrchestratorEvents(pub ports.EventPublisher) OrchestratorOption {
	return func(o *Orchestrator) { o.eventPub = pub }
}

func WithOrchestratorClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

// WithOrchestratorSessionTTL overrides the 24 hour session window.
func WithOrchestratorSessionTTL(ttl time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.sessionTTL = ttl }
}

func WithNonceSource(newNonce func() (string, error)) OrchestratorOption {
	return func(o *Orchestrator) { o.newNonce = newNonce }
}

// NewOrchestrator creates an orchestrator in StateUnknown. Challenges are bound to domain and chain id 1.
func NewOrchestrator(
	wallet ports.Wallet,
	resolver SignInResolver,
	sessions ports.SessionStore,
	log *zap.SugaredLogger,
	domain string,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		wallet:     wallet,
		resolver:   resolver,
		sessions:   sessions,
		log:        log,
		domain:     domain,
		chainID:    siwe.DefaultChainID,
		sessionTTL: core.SessionTTL,
		now:        time.Now,
		newNonce:   siwe.GenerateNonce,
		newToken:   func() string { return "session_" + ksuid.New().String() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Init restores the stored session. Read failures leave the client signed out.
func (o *Orchestrator) Init(ctx context.Context) {
	o.setState(StateLoadingSession)

	session, err := o.sessions.GetSession(ctx)
	if err != nil {
		o.log.Warnw("failed to restore session", "err", err)
		session = nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if session != nil {
		user := session.User
		o.user = &user
		o.state = StateAuthenticated
		return
	}
	o.user = nil
	o.state = StateUnauthenticated
}

// SignIn runs the challenge, signature, verification and session save sequence.
// A signed in client is signed out first.
func (o *Orchestrator) SignIn(ctx context.Context) error {
	o.mu.Lock()
	if o.state == StateSigningIn {
		o.mu.Unlock()
		return core.ErrSignInInProgress
	}
	address, connected := o.wallet.Address()
	if !connected {
		o.errMsg = core.UserMessage(core.ErrWalletNotConnected)
		o.mu.Unlock()
		return core.ErrWalletNotConnected
	}
	wasAuthenticated := o.state == StateAuthenticated
	o.state = StateSigningIn
	o.user = nil
	o.errMsg = ""
	o.lostWallet = false
	o.mu.Unlock()

	if wasAuthenticated {
		if err := o.sessions.ClearSession(ctx); err != nil {
			o.log.Warnw("failed to clear previous session", "err", err)
		}
	}

	nonce, err := o.newNonce()
	if err != nil {
		return o.fail(err)
	}
	challenge, err := siwe.NewChallenge(address, o.domain, nonce, o.chainID, siwe.WithIssuedAt(o.now()))
	if err != nil {
		return o.fail(err)
	}
	message := challenge.String()

	signature, err := o.wallet.SignMessage(ctx, message)
	if err != nil {
		return o.fail(err)
	}

	user, err := o.resolver.SignInWithWallet(ctx, address, signature, message)
	if err != nil {
		return o.fail(err)
	}
	if o.walletLost(address) {
		return o.fail(core.ErrWalletNotConnected)
	}

	session := &core.Session{
		User:      *user,
		Token:     o.newToken(),
		ExpiresAt: o.now().Add(o.sessionTTL).UTC(),
	}
	if err := o.sessions.SaveSession(ctx, session); err != nil {
		return o.fail(err)
	}

	o.mu.Lock()
	if o.lostWallet {
		o.mu.Unlock()
		if err := o.sessions.ClearSession(ctx); err != nil {
			o.log.Warnw("failed to clear session", "err", err)
		}
		return o.fail(core.ErrWalletNotConnected)
	}
	o.user = user
	o.state = StateAuthenticated
	o.mu.Unlock()

	o.log.Infow("signed in", "address", user.WalletAddress, "user_id", user.ID)
	if o.eventPub != nil {
		if err := o.eventPub.PublishSignedIn(ctx, user.WalletAddress, user.ID); err != nil {
			o.log.Warnw("failed to publish sign-in event", "err", err)
		}
	}
	return nil
}

// walletLost reports whether the wallet disconnected or switched away from address since the sign-in started.
func (o *Orchestrator) walletLost(address string) bool {
	o.mu.RLock()
	lost := o.lostWallet
	o.mu.RUnlock()
	if lost {
		return true
	}
	current, connected := o.wallet.Address()
	return !connected || !strings.EqualFold(current, address)
}

func (o *Orchestrator) fail(err error) error {
	o.mu.Lock()
	o.state = StateUnauthenticated
	o.user = nil
	o.errMsg = core.UserMessage(err)
	o.mu.Unlock()

	o.log.Infow("sign-in failed", "err", err)
	return err
}

// LogOut clears the stored session.
func (o *Orchestrator) LogOut(ctx context.Context) error {
	return o.signOut(ctx, "logout")
}

func (o *Orchestrator) signOut(ctx context.Context, reason string) error {
	o.mu.Lock()
	var address string
	if o.user != nil {
		address = o.user.WalletAddress
	}
	o.user = nil
	o.state = StateUnauthenticated
	o.errMsg = ""
	o.mu.Unlock()

	if err := o.sessions.ClearSession(ctx); err != nil {
		o.log.Warnw("failed to clear session", "err", err)
		return err
	}

	o.log.Infow("signed out", "address", address, "reason", reason)
	if o.eventPub != nil && address != "" {
		if err := o.eventPub.PublishSignedOut(ctx, address, reason); err != nil {
			o.log.Warnw("failed to publish sign-out event", "err", err)
		}
	}
	return nil
}

// HandleWalletEvent signs out when the wallet disconnects during a session.
// A disconnect while signing in makes that sign-in fail.
func (o *Orchestrator) HandleWalletEvent(ctx context.Context, ev ports.WalletEvent) {
	if ev.Type != ports.WalletDisconnected {
		return
	}
	o.mu.Lock()
	state := o.state
	if state == StateSigningIn {
		o.lostWallet = true
	}
	o.mu.Unlock()
	if state != StateAuthenticated {
		return
	}
	// best effort, the in-memory state is already cleared on failure
	_ = o.signOut(ctx, "wallet_disconnected")
}

// Watch handles wallet events until the channel closes or ctx is done.
func (o *Orchestrator) Watch(ctx context.Context, events <-chan ports.WalletEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			o.HandleWalletEvent(ctx, ev)
		}
	}
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// User returns a copy of the signed in user, or nil.
func (o *Orchestrator) User() *core.User {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.user == nil {
		return nil
	}
	u := *o.user
	return &u
}

// IsAuthenticated reports a signed in user with a connected wallet.
func (o *Orchestrator) IsAuthenticated() bool {
	o.mu.RLock()
	hasUser := o.user != nil
	o.mu.RUnlock()

	_, connected := o.wallet.Address()
	return hasUser && connected
}

// IsLoading reports whether a session restore or sign-in is running.
func (o *Orchestrator) IsLoading() bool {
	s := o.State()
	return s == StateUnknown || s == StateLoadingSession || s == StateSigningIn
}

// Error returns the message of the last failed attempt, empty after success or sign-out.
func (o *Orchestrator) Error() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.errMsg
}
