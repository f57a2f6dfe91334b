// Package session tracks anonymous browser sessions. A session only carries an opaque id
// that identifies a rater without an account; the id lives in an external store so any
// instance can validate it.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store persists live session ids.
type Store interface {
	Create(ctx context.Context) (string, error)
	Touch(ctx context.Context, id string) (bool, error)
	Destroy(ctx context.Context, id string) error
}

// RedisStore keeps one key per session with a sliding TTL.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a redis backed store.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: "session:", ttl: ttl}
}

// Create allocates a fresh session id.
func (s *RedisStore) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	ok, err := s.client.SetNX(ctx, s.prefix+id, time.Now().UTC().Unix(), s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("create session: id collision")
	}
	return id, nil
}

// Touch extends a live session and reports whether it existed.
func (s *RedisStore) Touch(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.Expire(ctx, s.prefix+id, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("touch session: %w", err)
	}
	return ok, nil
}

// Destroy removes the session.
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// MemoryStore is the single-process variant.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]time.Time
}

// NewMemoryStore returns an in-process store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, sessions: make(map[string]time.Time)}
}

func (s *MemoryStore) Create(_ context.Context) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = s.now().Add(s.ttl)
	return id, nil
}

func (s *MemoryStore) Touch(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expires, ok := s.sessions[id]
	if !ok {
		return false, nil
	}
	now := s.now()
	if !now.Before(expires) {
		delete(s.sessions, id)
		return false, nil
	}
	s.sessions[id] = now.Add(s.ttl)
	return true, nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
