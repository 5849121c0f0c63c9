// Package redis implements the fast store on Redis. Everything here is
// derived data: cached projections, the points leaderboard, bounded activity
// streams, the hot-posts ranking, and rate-limit counters. A cold Redis only
// costs latency and recent derived state, never correctness.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusconnect/campusconnect/config"
	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/store"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Store implements store.FastStore on a go-redis client.
type Store struct {
	client *redis.Client
}

// NewStore connects to Redis and verifies the connection with a ping.
func NewStore(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: failed to ping: %w", err)
	}

	return &Store{client: client}, nil
}

// Client returns the underlying Redis client for advanced operations.
func (s *Store) Client() *redis.Client {
	return s.client
}

// Ping checks if Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func wrap(op, msg string, err error) error {
	return shared.WrapError("fast", op, shared.ErrUnavailable, msg, err)
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHE PRIMITIVES
// ══════════════════════════════════════════════════════════════════════════════

// SetWithTTL stores a value under key with an expiry.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return wrap("SetWithTTL", "set failed", err)
	}
	return nil
}

// Get returns the value under key, or shared.ErrNotFound on a miss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.NewDomainError("fast", "Get", shared.ErrNotFound, "key not found")
		}
		return nil, wrap("Get", "get failed", err)
	}
	return data, nil
}

// Delete removes a key. Deleting a non-existent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return wrap("Delete", "del failed", err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ORDERED SCORE STRUCTURES
// ══════════════════════════════════════════════════════════════════════════════

// ZIncrBy adjusts a member's score and returns the new value.
func (s *Store) ZIncrBy(ctx context.Context, key, member string, delta float64) (float64, error) {
	score, err := s.client.ZIncrBy(ctx, key, delta, member).Result()
	if err != nil {
		return 0, wrap("ZIncrBy", "zincrby failed", err)
	}
	return score, nil
}

// ZScore returns a member's score, or shared.ErrNotFound when unscored.
func (s *Store) ZScore(ctx context.Context, key, member string) (float64, error) {
	score, err := s.client.ZScore(ctx, key, member).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, shared.NewDomainError("fast", "ZScore", shared.ErrNotFound, "member not scored")
		}
		return 0, wrap("ZScore", "zscore failed", err)
	}
	return score, nil
}

// ZAdd sets a member's score.
func (s *Store) ZAdd(ctx context.Context, key, member string, score float64) error {
	if err := s.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return wrap("ZAdd", "zadd failed", err)
	}
	return nil
}

// ZRem removes a member. Removing an absent member is not an error.
func (s *Store) ZRem(ctx context.Context, key, member string) error {
	if err := s.client.ZRem(ctx, key, member).Err(); err != nil {
		return wrap("ZRem", "zrem failed", err)
	}
	return nil
}

// ZRevRange returns members from start to stop by descending score.
func (s *Store) ZRevRange(ctx context.Context, key string, start, stop int64) ([]store.ScoredMember, error) {
	entries, err := s.client.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, wrap("ZRevRange", "zrevrange failed", err)
	}

	members := make([]store.ScoredMember, 0, len(entries))
	for _, e := range entries {
		member, _ := e.Member.(string)
		members = append(members, store.ScoredMember{Member: member, Score: e.Score})
	}
	return members, nil
}

// ZRevRank returns the member's 0-indexed position by descending score, or
// shared.ErrNotFound when the member is unscored.
func (s *Store) ZRevRank(ctx context.Context, key, member string) (int64, error) {
	rank, err := s.client.ZRevRank(ctx, key, member).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, shared.NewDomainError("fast", "ZRevRank", shared.ErrNotFound, "member not ranked")
		}
		return 0, wrap("ZRevRank", "zrevrank failed", err)
	}
	return rank, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// BOUNDED LISTS
// ══════════════════════════════════════════════════════════════════════════════

// LPushTrim prepends value and trims the list to maxLen entries. The push and
// trim are pipelined so the bound holds without a round trip in between.
func (s *Store) LPushTrim(ctx context.Context, key string, value []byte, maxLen int64) error {
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, value)
	pipe.LTrim(ctx, key, 0, maxLen-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return wrap("LPushTrim", "pipeline failed", err)
	}
	return nil
}

// LRange returns list entries from start to stop.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	values, err := s.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, wrap("LRange", "lrange failed", err)
	}

	out := make([][]byte, 0, len(values))
	for _, v := range values {
		out = append(out, []byte(v))
	}
	return out, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// WINDOWED COUNTERS
// ══════════════════════════════════════════════════════════════════════════════

// GetOrInitWithTTL returns the counter under key, initializing it to 1 with
// the given TTL when absent. created reports whether this call opened the
// window.
func (s *Store) GetOrInitWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, bool, error) {
	created, err := s.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return 0, false, wrap("GetOrInitWithTTL", "setnx failed", err)
	}
	if created {
		return 1, true, nil
	}

	count, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Window expired between SETNX and GET; treat as a fresh window.
			return 0, false, nil
		}
		return 0, false, wrap("GetOrInitWithTTL", "get failed", err)
	}
	return count, false, nil
}

// Incr increments the counter under key and returns the new value.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, wrap("Incr", "incr failed", err)
	}
	return count, nil
}
