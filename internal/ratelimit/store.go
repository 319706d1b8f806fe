// Package ratelimit provides fixed-window hit counting behind a pluggable
// store, so a single instance runs on memory and shared deployments can point
// at Redis without touching the middleware.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidStoreType = errors.New("ratelimit: invalid store type")
	ErrInvalidConfig    = errors.New("ratelimit: invalid store configuration")
)

// StoreType selects the counting backend.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// Store counts hits per key within fixed windows.
type Store interface {
	// Incr records one hit for key and returns the hit count in the
	// current window, including this one.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}

// NewStore creates a Store for the given driver type. The redis driver
// requires WithRedisClient.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return &memoryStore{
			windows: make(map[string]*window),
		}, nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return &redisStore{client: config.redisClient}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}

type storeConfig struct {
	redisClient *redis.Client
}

// StoreOption configures NewStore.
type StoreOption func(*storeConfig)

// WithRedisClient supplies the client for the redis driver.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// memoryStore implements Store with an in-process map.
type memoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int64
	resetAt time.Time
}

func (s *memoryStore) Incr(ctx context.Context, key string, windowLen time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	w, exists := s.windows[key]
	if !exists || now.After(w.resetAt) {
		s.windows[key] = &window{count: 1, resetAt: now.Add(windowLen)}
		s.sweepLocked(now)
		return 1, nil
	}

	w.count++
	return w.count, nil
}

// sweepLocked drops expired windows so the map does not grow with one entry
// per client forever. Called while the lock is held.
func (s *memoryStore) sweepLocked(now time.Time) {
	for key, w := range s.windows {
		if now.After(w.resetAt) {
			delete(s.windows, key)
		}
	}
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = nil
	return nil
}

// redisStore implements Store with INCR + first-hit EXPIRE.
type redisStore struct {
	client *redis.Client
}

func (s *redisStore) Incr(ctx context.Context, key string, windowLen time.Duration) (int64, error) {
	redisKey := "ratelimit:" + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, windowLen).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
