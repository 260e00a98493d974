// Package draft keeps msgpack-serialized snapshots of in-progress intake
// forms, keyed by session, so a dropped connection can resume where it left
// off. Drafts are transient: they live in memory and expire after a TTL.
package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Store errors.
var (
	ErrNotFound = errors.New("draft: not found")
	ErrClosed   = errors.New("draft: store closed")
)

// snapshot is the persisted form of one draft.
type snapshot struct {
	Values    map[string]string `msgpack:"values"`
	SavedAt   time.Time         `msgpack:"saved_at"`
	ExpiresAt time.Time         `msgpack:"expires_at"`
}

// Store is an in-memory draft store with TTL expiry.
type Store struct {
	ttl time.Duration

	mu     sync.RWMutex
	drafts map[string][]byte
	closed bool
}

// NewStore creates a store whose drafts expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:    ttl,
		drafts: make(map[string][]byte),
	}
}

// Save stores the field values for a session key, replacing any previous
// draft and restarting its TTL.
func (s *Store) Save(ctx context.Context, key string, values map[string]string) error {
	now := time.Now()
	data, err := msgpack.Marshal(snapshot{
		Values:    values,
		SavedAt:   now,
		ExpiresAt: now.Add(s.ttl),
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.drafts[key] = data
	return nil
}

// Load returns the saved values for a session key. Expired drafts are
// dropped and reported as not found.
func (s *Store) Load(ctx context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	data, ok := s.drafts[key]
	closed := s.closed
	s.mu.RUnlock()

	if closed {
		return nil, ErrClosed
	}
	if !ok {
		return nil, ErrNotFound
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if time.Now().After(snap.ExpiresAt) {
		s.Delete(ctx, key)
		return nil, ErrNotFound
	}
	return snap.Values, nil
}

// Delete removes a draft. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
}

// Sweep drops all expired drafts and returns how many were removed.
func (s *Store) Sweep(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, data := range s.drafts {
		var snap snapshot
		if err := msgpack.Unmarshal(data, &snap); err != nil || now.After(snap.ExpiresAt) {
			delete(s.drafts, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored drafts, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}

// Close drops all drafts and refuses further use.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.drafts = make(map[string][]byte)
}
