package ai

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"appointly/models"

	"github.com/go-redis/redis/v8"
)

const aiContextPrefix = "ai:ctx:"

// ContextStore keeps the latest ConversationState per user.
type ContextStore interface {
	Get(ctx context.Context, userID string) (*models.ConversationState, error)
	Set(ctx context.Context, state *models.ConversationState) error
	Clear(ctx context.Context, userID string) error
}

type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, userID string) (*models.ConversationState, error) {
	data, err := s.client.Get(ctx, aiContextPrefix+userID).Result()
	if err == redis.Nil {
		return &models.ConversationState{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	var state models.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RedisContextStore) Set(ctx context.Context, state *models.ConversationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, aiContextPrefix+state.UserID, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, aiContextPrefix+userID).Err()
}

// MemoryContextStore is the single-process ContextStore.
type MemoryContextStore struct {
	mu     sync.RWMutex
	states map[string]models.ConversationState
}

func NewMemoryContextStore() *MemoryContextStore {
	return &MemoryContextStore{states: make(map[string]models.ConversationState)}
}

func (s *MemoryContextStore) Get(_ context.Context, userID string) (*models.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.states[userID]; ok {
		return &state, nil
	}
	return &models.ConversationState{UserID: userID}, nil
}

func (s *MemoryContextStore) Set(_ context.Context, state *models.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.UserID] = *state
	return nil
}

func (s *MemoryContextStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	return nil
}
