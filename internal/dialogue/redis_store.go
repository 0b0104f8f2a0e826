package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pathakanu/remindbot/internal/model"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dialogue:"

// RedisStore keeps conversations as JSON values that expire after ttl.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a redis backed Store. A zero ttl never expires.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(ownerID int64) string {
	return keyPrefix + strconv.FormatInt(ownerID, 10)
}

func (s *RedisStore) Get(ctx context.Context, ownerID int64) (model.Conversation, error) {
	b, err := s.rdb.Get(ctx, key(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return idle(ownerID), nil
	}
	if err != nil {
		return model.Conversation{}, fmt.Errorf("load conversation %d: %w", ownerID, err)
	}
	var conv model.Conversation
	if err := json.Unmarshal(b, &conv); err != nil {
		return model.Conversation{}, fmt.Errorf("decode conversation %d: %w", ownerID, err)
	}
	return conv, nil
}

func (s *RedisStore) Save(ctx context.Context, conv model.Conversation) error {
	if StateOf(conv) == StateIdle {
		return s.Clear(ctx, conv.OwnerID)
	}
	conv.UpdatedAt = time.Now()
	b, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key(conv.OwnerID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("save conversation %d: %w", conv.OwnerID, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, ownerID int64) error {
	if err := s.rdb.Del(ctx, key(ownerID)).Err(); err != nil {
		return fmt.Errorf("clear conversation %d: %w", ownerID, err)
	}
	return nil
}

// Ping checks that redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
