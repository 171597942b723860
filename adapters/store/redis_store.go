package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

// RedisSessionStore keeps one device's session in Redis
type RedisSessionStore struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// NewRedisSessionStore creates a session store for deviceID
func NewRedisSessionStore(client *redis.Client, deviceID string) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		key:    "web3tr:session:" + deviceID + ":" + SessionKey,
		now:    time.Now,
	}
}

// SaveSession stores the session with a TTL matching its expiry
func (s *RedisSessionStore) SaveSession(ctx context.Context, session *core.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		// stored anyway so the next read removes it
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession returns the stored session, removing it when expired or undecodable
func (s *RedisSessionStore) GetSession(ctx context.Context) (*core.Session, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	session, discard := decodeSession(data, s.now())
	if discard {
		return nil, s.ClearSession(ctx)
	}
	return session, nil
}

// ClearSession removes the stored session
func (s *RedisSessionStore) ClearSession(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// RedisNonceStore is a Redis backed nonce ledger shared by server instances
type RedisNonceStore struct {
	client *redis.Client
	prefix string
}

// NewRedisNonceStore creates a new Redis nonce ledger
func NewRedisNonceStore(client *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{
		client: client,
		prefix: "web3tr:nonce:",
	}
}

// IssueNonce records nonce with expiration
func (s *RedisNonceStore) IssueNonce(ctx context.Context, nonce string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+nonce, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to issue nonce: %w", err)
	}
	return nil
}

// ConsumeNonce deletes the nonce key; only the caller that removed it succeeds
func (s *RedisNonceStore) ConsumeNonce(ctx context.Context, nonce string) error {
	n, err := s.client.Del(ctx, s.prefix+nonce).Result()
	if err != nil {
		return fmt.Errorf("failed to consume nonce: %w", err)
	}
	if n == 0 {
		return core.ErrNonceNotIssued
	}
	return nil
}
