package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// SessionTTL is how long a suggestion stays retrievable in Redis.
const SessionTTL = 24 * time.Hour

// RedisSessionStore keeps the latest suggestion per user in Redis.
type RedisSessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{redis: client, ttl: SessionTTL}
}

func sessionKey(username string) string {
	return fmt.Sprintf("recipe:session:%s", username)
}

// Save replaces the stored suggestion for username.
func (s *RedisSessionStore) Save(ctx context.Context, username string, suggestion *types.Suggestion) error {
	data, err := json.Marshal(suggestion)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestion: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKey(username), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save suggestion to Redis: %w", err)
	}
	return nil
}

// Get returns the stored suggestion or ErrNoSession.
func (s *RedisSessionStore) Get(ctx context.Context, username string) (*types.Suggestion, error) {
	data, err := s.redis.Get(ctx, sessionKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion from Redis: %w", err)
	}

	var suggestion types.Suggestion
	if err := json.Unmarshal(data, &suggestion); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggestion: %w", err)
	}
	return &suggestion, nil
}

// MemorySessionStore keeps suggestions in process memory.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*types.Suggestion
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*types.Suggestion)}
}

func (m *MemorySessionStore) Save(_ context.Context, username string, suggestion *types.Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[username] = suggestion
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, username string) (*types.Suggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[username]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}
