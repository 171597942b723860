package store

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

var bucketSession = []byte("session")

// BoltSessionStore keeps the session in a local bbolt file.
type BoltSessionStore struct {
	db  *bbolt.DB
	now func() time.Time
}

// OpenBoltSessionStore opens or creates the session file at path.
func OpenBoltSessionStore(path string) (*BoltSessionStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &BoltSessionStore{db: db, now: time.Now}, nil
}

// Close closes the underlying file.
func (s *BoltSessionStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSession overwrites the stored session.
func (s *BoltSessionStore) SaveSession(ctx context.Context, session *core.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSession).Put([]byte(SessionKey), data); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
}

// GetSession returns the stored session, removing it when expired or undecodable.
func (s *BoltSessionStore) GetSession(ctx context.Context) (*core.Session, error) {
	var (
		session *core.Session
		discard bool
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSession).Get([]byte(SessionKey))
		if data == nil {
			return nil
		}
		session, discard = decodeSession(data, s.now())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if discard {
		return nil, s.ClearSession(ctx)
	}
	return session, nil
}

// ClearSession removes the stored session.
func (s *BoltSessionStore) ClearSession(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSession).Delete([]byte(SessionKey)); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	})
}
