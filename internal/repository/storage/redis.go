package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

type RedisStorage struct {
	Connection *redis.Client
}

func NewRedisStorage(ctx context.Context, addr string) (*RedisStorage, error) {
	conn := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	_, err := conn.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStorage{Connection: conn}, nil
}

// Set stores value under key. A zero ttl keeps the key until it is deleted.
func (that *RedisStorage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := that.Connection.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

func (that *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	response, err := that.Connection.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return response, nil
}

func (that *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := that.Connection.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

// Keys lists every key starting with prefix.
func (that *RedisStorage) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iter := that.Connection.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", prefix, err)
	}

	return keys, nil
}

func (that *RedisStorage) Close() error {
	return that.Connection.Close()
}
