package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisKV stores preferences in Redis under a common key prefix
type RedisKV struct {
	client *redis.Client
	prefix string
}

// NewRedisKV connects lazily to the Redis server at addr
func NewRedisKV(addr string, db int) *RedisKV {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    "", // No password set
		DB:          db,
		DialTimeout: 2 * time.Second,
	})
	return NewRedisKVWithClient(client, "weatherlux:")
}

// NewRedisKVWithClient uses an existing client; keys are stored as prefix+key
func NewRedisKVWithClient(client *redis.Client, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value without expiration
func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *RedisKV) Close() error {
	return s.client.Close()
}
