package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"appointly/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	pendingHashKey = "confirm:pending"
	lockKeyPrefix  = "confirm:lock:"

	// resolutionSteps counts the timeout-bounded calls one ResolveConfirmation
	// can make while holding the lock: store read, recheck, calendar write,
	// sheet write, store update or delete, decision log, conversation cleanup,
	// plus one spare.
	resolutionSteps = 8
	lockGrace       = 30 * time.Second
	defaultLockTTL  = 5 * time.Minute
)

// ResolutionLockTTL is how long a confirmation lock may outlive a crashed holder.
// It must exceed the worst-case time ResolveConfirmation spends with the lock held.
func ResolutionLockTTL(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return defaultLockTTL
	}
	return resolutionSteps*timeout + lockGrace
}

// releaseLock deletes the lock only if this holder still owns it.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisConfirmationStore keeps pending confirmations in a Redis hash so they
// survive restarts and can be shared by several instances.
type RedisConfirmationStore struct {
	client  *redis.Client
	lockTTL time.Duration
}

func NewRedisConfirmationStore(client *redis.Client, lockTTL time.Duration) *RedisConfirmationStore {
	return &RedisConfirmationStore{client: client, lockTTL: lockTTL}
}

func (s *RedisConfirmationStore) Save(ctx context.Context, pending models.PendingConfirmation) error {
	b, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending confirmation: %w", err)
	}
	created, err := s.client.HSetNX(ctx, pendingHashKey, pending.ID, b).Result()
	if err != nil {
		return err
	}
	if !created {
		return ErrDuplicateID
	}
	return nil
}

func (s *RedisConfirmationStore) Get(ctx context.Context, id string) (models.PendingConfirmation, error) {
	data, err := s.client.HGet(ctx, pendingHashKey, id).Result()
	if err == redis.Nil {
		return models.PendingConfirmation{}, ErrConfirmationNotFound
	}
	if err != nil {
		return models.PendingConfirmation{}, err
	}
	var pending models.PendingConfirmation
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		return models.PendingConfirmation{}, fmt.Errorf("failed to parse pending confirmation %s: %w", id, err)
	}
	return pending, nil
}

// Update overwrites an existing entry. Callers hold the id lock, so the
// existence check and the write do not race with Delete.
func (s *RedisConfirmationStore) Update(ctx context.Context, pending models.PendingConfirmation) error {
	exists, err := s.client.HExists(ctx, pendingHashKey, pending.ID).Result()
	if err != nil {
		return err
	}
	if !exists {
		return ErrConfirmationNotFound
	}
	b, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending confirmation: %w", err)
	}
	return s.client.HSet(ctx, pendingHashKey, pending.ID, b).Err()
}

func (s *RedisConfirmationStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.HDel(ctx, pendingHashKey, id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConfirmationNotFound
	}
	return nil
}

func (s *RedisConfirmationStore) List(ctx context.Context) (map[string]models.PendingConfirmation, error) {
	all, err := s.client.HGetAll(ctx, pendingHashKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.PendingConfirmation, len(all))
	for id, data := range all {
		var pending models.PendingConfirmation
		if err := json.Unmarshal([]byte(data), &pending); err != nil {
			return nil, fmt.Errorf("failed to parse pending confirmation %s: %w", id, err)
		}
		out[id] = pending
	}
	return out, nil
}

// Lock takes an advisory lock that expires after lockTTL if the holder dies.
func (s *RedisConfirmationStore) Lock(ctx context.Context, id string) (func(), error) {
	key := lockKeyPrefix + id
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, key, token, s.lockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConfirmationBusy
	}
	return func() {
		// The request context may already be cancelled; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseLock.Run(releaseCtx, s.client, []string{key}, token).Err(); err != nil {
			zap.L().Warn("Failed to release confirmation lock",
				zap.String("confirmationId", id),
				zap.Duration("expiresIn", s.lockTTL),
				zap.Error(err))
		}
	}, nil
}
