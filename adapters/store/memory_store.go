package store

import (
	"context"
	"sync"
	"time"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

// MemorySessionStore keeps the encoded session in process memory.
type MemorySessionStore struct {
	mu   sync.Mutex
	data []byte
	now  func() time.Time
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{now: time.Now}
}

func (s *MemorySessionStore) SaveSession(ctx context.Context, session *core.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *MemorySessionStore) GetSession(ctx context.Context) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return nil, nil
	}
	session, discard := decodeSession(s.data, s.now())
	if discard {
		s.data = nil
		return nil, nil
	}
	return session, nil
}

func (s *MemorySessionStore) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// MemoryNonceStore is an in-memory nonce ledger
type MemoryNonceStore struct {
	issued map[string]time.Time
	mu     sync.Mutex
	now    func() time.Time
}

// NewMemoryNonceStore creates an empty ledger
func NewMemoryNonceStore() *MemoryNonceStore {
	return &MemoryNonceStore{
		issued: make(map[string]time.Time),
		now:    time.Now,
	}
}

// IssueNonce records nonce as valid for ttl
func (s *MemoryNonceStore) IssueNonce(ctx context.Context, nonce string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry := s.now().Add(ttl)
	s.issued[nonce] = expiry

	// Start a cleanup goroutine
	go func() {
		time.Sleep(ttl)

		s.mu.Lock()
		defer s.mu.Unlock()

		// Only delete if the nonce was not issued again meanwhile
		if stored, exists := s.issued[nonce]; exists && !stored.After(expiry) {
			delete(s.issued, nonce)
		}
	}()

	return nil
}

// ConsumeNonce accepts nonce once if it was issued and has not expired
func (s *MemoryNonceStore) ConsumeNonce(ctx context.Context, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, exists := s.issued[nonce]
	if !exists {
		return core.ErrNonceNotIssued
	}
	delete(s.issued, nonce)

	if !s.now().Before(expiry) {
		return core.ErrNonceNotIssued
	}
	return nil
}
