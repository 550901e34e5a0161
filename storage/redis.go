package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
)

const defaultKeyPrefix = "ingen:"

// RedisOptions configures a RedisStorage.
type RedisOptions struct {
	// KeyPrefix namespaces all keys written by this storage.
	KeyPrefix string

	// TTL expires stored objects after the given duration. Zero means no
	// expiry.
	TTL time.Duration
}

// RedisStorage is a FileStorage backed by Redis. Objects are plain string
// values keyed by prefix + path + "/" + name, optionally with a TTL so stale
// thread contexts age out on their own.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ core.FileStorage = (*RedisStorage)(nil)

// NewRedisStorage wraps an existing Redis client. The storage does not own
// the client's lifecycle.
func NewRedisStorage(client *redis.Client, optFns ...func(o *RedisOptions)) *RedisStorage {
	opts := RedisOptions{
		KeyPrefix: defaultKeyPrefix,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &RedisStorage{
		client: client,
		prefix: opts.KeyPrefix,
		ttl:    opts.TTL,
	}
}

func (s *RedisStorage) key(path, name string) string {
	return s.prefix + path + "/" + name
}

// CheckExists reports whether the key exists.
func (s *RedisStorage) CheckExists(ctx context.Context, path, name string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(path, name)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Read returns the stored value, or an empty string when absent.
func (s *RedisStorage) Read(ctx context.Context, name, path string) (string, error) {
	val, err := s.client.Get(ctx, s.key(path, name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

// Write stores the value under the configured TTL.
func (s *RedisStorage) Write(ctx context.Context, content, name, path string) error {
	return s.client.Set(ctx, s.key(path, name), content, s.ttl).Err()
}

// Delete removes the key; an absent key is a no-op.
func (s *RedisStorage) Delete(ctx context.Context, name, path string) error {
	return s.client.Del(ctx, s.key(path, name)).Err()
}
