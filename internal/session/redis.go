package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fluffle/apiserver/types"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps sessions in redis with a TTL, so multiple instances can
// share them.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, id string, user types.PublicUser, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+id, payload, ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (types.PublicUser, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return types.PublicUser{}, ErrNoSession
		}
		return types.PublicUser{}, err
	}
	var user types.PublicUser
	if err := json.Unmarshal(payload, &user); err != nil {
		return types.PublicUser{}, err
	}
	return user, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisKeyPrefix+id).Err()
}
