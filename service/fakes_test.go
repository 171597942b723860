package service

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/internal/eth"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]core.User
	getErr    error
	touchErr  error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]core.User{}}
}

func (r *fakeUserRepo) GetByWallet(ctx context.Context, address string) (*core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[address]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) Touch(ctx context.Context, address string, at time.Time) (*core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.touchErr != nil {
		return nil, r.touchErr
	}
	u, ok := r.users[address]
	if !ok {
		return nil, core.ErrNotFound
	}
	u.UpdatedAt = at
	r.users[address] = u
	return &u, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *core.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.users[user.WalletAddress]; ok {
		return core.ErrUserAlreadyExists
	}
	r.users[user.WalletAddress] = *user
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, address string, update core.ProfileUpdate, at time.Time) (*core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[address]
	if !ok {
		return nil, core.ErrNotFound
	}
	if update.ENS != nil {
		u.ENS = update.ENS
	}
	if update.Email != nil {
		u.Email = update.Email
	}
	u.UpdatedAt = at
	r.users[address] = u
	return &u, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type publishedEvent struct {
	kind    string
	address string
	detail  string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishSignedIn(ctx context.Context, address string, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{"signed_in", address, userID})
	return p.err
}

func (p *fakePublisher) PublishSignedOut(ctx context.Context, address string, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{"signed_out", address, reason})
	return p.err
}

func (p *fakePublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

// signWith signs message the way a wallet does for personal_sign.
func signWith(signer eth.LocalSigner, message string) string {
	sig, err := signer.SignText([]byte(message))
	if err != nil {
		panic(err)
	}
	return hexutil.Encode(sig)
}
