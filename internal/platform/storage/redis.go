// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps each key as a plain Redis string under a shared prefix.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage wraps an already connected client.
func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

/*
Get retrieves a value.

Returns:
  - string: Stored value
  - bool: false when the key does not exist (redis.Nil)
  - error: Connectivity failures
*/
func (s *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_storage_get_failed: %w", err)
	}
	return value, true, nil
}

// Set stores a value without expiry.
func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis_storage_set_failed: %w", err)
	}
	return nil
}

// Remove deletes a key.
func (s *RedisStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis_storage_delete_failed: %w", err)
	}
	return nil
}
