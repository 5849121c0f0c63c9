// Package cache implements the cache-aside projection of users and groups on
// the fast store. Reads consult the cache first and fall back to the
// authoritative store on a miss; every authoritative mutation invalidates the
// corresponding entry rather than updating it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/store"
)

// Entity kinds with cached projections.
const (
	KindUser  = "user"
	KindGroup = "group"
)

// ErrMiss is returned when the requested entry is not cached.
var ErrMiss = errors.New("cache: miss")

// Cache reads and writes JSON projections with a fixed TTL.
type Cache struct {
	fast store.FastStore
	ttl  time.Duration
}

// New creates a Cache over the fast store.
func New(fast store.FastStore, ttl time.Duration) *Cache {
	return &Cache{fast: fast, ttl: ttl}
}

// Key builds the cache key for an entity: "user:{id}" or "group:{id}".
func Key(kind, id string) string {
	return kind + ":" + id
}

// Get unmarshals the cached entry into dest. Returns ErrMiss when absent and
// when the fast store is unavailable: a degraded cache reads as empty, it
// never fails a lookup.
func (c *Cache) Get(ctx context.Context, kind, id string, dest any) error {
	data, err := c.fast.Get(ctx, Key(kind, id))
	if err != nil {
		return ErrMiss
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// A corrupt entry is indistinguishable from a miss; the authoritative
		// read will overwrite it.
		return ErrMiss
	}

	return nil
}

// Populate stores the entity's JSON projection with the configured TTL.
func (c *Cache) Populate(ctx context.Context, kind, id string, entity any) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return shared.WrapError("cache", "Populate", shared.ErrValidation, "marshal failed", err)
	}

	return c.fast.SetWithTTL(ctx, Key(kind, id), data, c.ttl)
}

// Invalidate removes the entity's cached projection.
func (c *Cache) Invalidate(ctx context.Context, kind, id string) error {
	return c.fast.Delete(ctx, Key(kind, id))
}
