package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campusconnect/internal/cache"
	"github.com/campusconnect/campusconnect/internal/domain/user"
	"github.com/campusconnect/campusconnect/internal/store/storetest"
)

func TestCacheRoundTrip(t *testing.T) {
	fast := storetest.NewFakeFast()
	c := cache.New(fast, time.Hour)

	u, err := user.New("amy@example.com", "Amy")
	require.NoError(t, err)

	require.NoError(t, c.Populate(context.Background(), cache.KindUser, u.ID, u))

	var got user.User
	require.NoError(t, c.Get(context.Background(), cache.KindUser, u.ID, &got))
	assert.Equal(t, u.Email, got.Email)
}

func TestCacheMiss(t *testing.T) {
	fast := storetest.NewFakeFast()
	c := cache.New(fast, time.Hour)

	var got user.User
	err := c.Get(context.Background(), cache.KindUser, "absent", &got)
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestCacheUnavailableReadsAsMiss(t *testing.T) {
	fast := storetest.NewFakeFast()
	c := cache.New(fast, time.Hour)
	fast.Down = true

	var got user.User
	err := c.Get(context.Background(), cache.KindUser, "anything", &got)
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestCacheCorruptEntryReadsAsMiss(t *testing.T) {
	fast := storetest.NewFakeFast()
	c := cache.New(fast, time.Hour)

	key := cache.Key(cache.KindUser, "u1")
	require.NoError(t, fast.SetWithTTL(context.Background(), key, []byte("{not json"), time.Hour))

	var got user.User
	err := c.Get(context.Background(), cache.KindUser, "u1", &got)
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestCacheInvalidate(t *testing.T) {
	fast := storetest.NewFakeFast()
	c := cache.New(fast, time.Hour)

	u, err := user.New("ben@example.com", "Ben")
	require.NoError(t, err)
	require.NoError(t, c.Populate(context.Background(), cache.KindUser, u.ID, u))
	require.NoError(t, c.Invalidate(context.Background(), cache.KindUser, u.ID))

	var got user.User
	assert.ErrorIs(t, c.Get(context.Background(), cache.KindUser, u.ID, &got), cache.ErrMiss)
}

func TestCacheEntryExpires(t *testing.T) {
	fast := storetest.NewFakeFast()
	fast.Now = time.Now()
	c := cache.New(fast, time.Hour)

	u, err := user.New("cleo@example.com", "Cleo")
	require.NoError(t, err)
	require.NoError(t, c.Populate(context.Background(), cache.KindUser, u.ID, u))

	fast.Now = fast.Now.Add(2 * time.Hour)

	var got user.User
	assert.ErrorIs(t, c.Get(context.Background(), cache.KindUser, u.ID, &got), cache.ErrMiss)
}
