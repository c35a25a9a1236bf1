package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// stateKeyPrefix namespaces conversation state keys in Redis.
const stateKeyPrefix = "chat:state:"

// stateTTL bounds how long an abandoned conversation is kept around.
const stateTTL = 72 * time.Hour

// RedisStore persists conversation state in Redis so conversations survive
// restarts and can be shared across instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already connected Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, sender string) (State, bool, error) {
	raw, err := s.client.Get(ctx, stateKeyPrefix+sender).Result()
	if err == redis.Nil {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("redis get state: %w", err)
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, false, fmt.Errorf("decode state: %w", err)
	}
	return st, true, nil
}

func (s *RedisStore) Put(ctx context.Context, sender string, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.client.Set(ctx, stateKeyPrefix+sender, raw, stateTTL).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sender string) error {
	if err := s.client.Del(ctx, stateKeyPrefix+sender).Err(); err != nil {
		return fmt.Errorf("redis delete state: %w", err)
	}
	return nil
}
