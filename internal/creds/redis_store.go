package creds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKey = "console:session:credentials"

// RedisStore keeps the persisted credential tier in Redis so that several
// console processes can share one login session. Entries expire with the
// session TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (r *RedisStore) Save(ctx context.Context, c Credentials) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, redisKey, b, r.ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context) (Credentials, bool, error) {
	b, err := r.rdb.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Credentials{}, false, nil
		}
		return Credentials{}, false, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return Credentials{}, false, err
	}
	return c, true, nil
}

func (r *RedisStore) Delete(ctx context.Context) error {
	return r.rdb.Del(ctx, redisKey).Err()
}

// Close releases the underlying Redis connection.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
