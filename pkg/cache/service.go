package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fieldbook/pkg/logger"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("cache miss")
)

type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error

	// Cache-aside helper: on miss, fetcher runs and its result is stored
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error

	Ping(ctx context.Context) error
}

type service struct {
	client *redis.Client
	log    *logger.Logger
}

// NewService returns a Redis-backed cache. A nil client yields a cache that always misses.
func NewService(client *redis.Client, log *logger.Logger) Service {
	if client == nil {
		return NewNoop()
	}
	return &service{client: client, log: log}
}

func (s *service) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}

	return nil
}

func (s *service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}

func (s *service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// DeletePattern walks the keyspace with SCAN so large keyspaces don't block Redis
func (s *service) DeletePattern(ctx context.Context, pattern string) error {
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.Delete(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan error: %w", err)
	}

	return s.Delete(ctx, batch...)
}

func (s *service) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	err := s.Get(ctx, key, dest)
	if err == nil {
		return nil
	}

	if !errors.Is(err, ErrCacheMiss) && s.log != nil {
		s.log.WithError(err).Warn("cache get failed, falling back to source", "key", key)
	}

	data, err := fetcher()
	if err != nil {
		return err
	}

	if setErr := s.Set(ctx, key, data, ttl); setErr != nil && s.log != nil {
		s.log.WithError(setErr).Warn("cache set failed", "key", key)
	}

	return copyInto(data, dest)
}

func (s *service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// copyInto round-trips through JSON so dest gets the same shape a cache hit would produce
func copyInto(data interface{}, dest interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal fetched data error: %w", err)
	}
	return json.Unmarshal(raw, dest)
}

type noop struct{}

// NewNoop returns a cache that stores nothing
func NewNoop() Service {
	return noop{}
}

func (noop) Get(context.Context, string, interface{}) error                { return ErrCacheMiss }
func (noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (noop) Delete(context.Context, ...string) error                       { return nil }
func (noop) DeletePattern(context.Context, string) error                   { return nil }
func (noop) Ping(context.Context) error                                    { return nil }

func (noop) GetOrSet(_ context.Context, _ string, _ time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	data, err := fetcher()
	if err != nil {
		return err
	}
	return copyInto(data, dest)
}
