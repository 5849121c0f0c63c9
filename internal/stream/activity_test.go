package stream_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campusconnect/internal/domain/activity"
	"github.com/campusconnect/campusconnect/internal/store/storetest"
	"github.com/campusconnect/campusconnect/internal/stream"
)

func TestStreamNewestFirst(t *testing.T) {
	fast := storetest.NewFakeFast()
	s := stream.New(fast, 100)

	for i := 0; i < 3; i++ {
		entry := activity.Join("user-"+strconv.Itoa(i), "g1")
		require.NoError(t, s.Push(context.Background(), "g1", &entry))
	}

	entries, err := s.Recent(context.Background(), "g1", 10)
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "user-2", entries[0].ActorID)
	assert.Equal(t, "user-0", entries[2].ActorID)
}

func TestStreamBounded(t *testing.T) {
	fast := storetest.NewFakeFast()
	s := stream.New(fast, 5)

	for i := 0; i < 8; i++ {
		entry := activity.Join("user-"+strconv.Itoa(i), "g1")
		require.NoError(t, s.Push(context.Background(), "g1", &entry))
	}

	entries, err := s.Recent(context.Background(), "g1", 100)
	require.NoError(t, err)

	require.Len(t, entries, 5, "oldest entries fall off the bound")
	assert.Equal(t, "user-7", entries[0].ActorID)
	assert.Equal(t, "user-3", entries[4].ActorID)
}

func TestStreamEmptyGroup(t *testing.T) {
	fast := storetest.NewFakeFast()
	s := stream.New(fast, 100)

	entries, err := s.Recent(context.Background(), "never-seen", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStreamSkipsCorruptEntries(t *testing.T) {
	fast := storetest.NewFakeFast()
	s := stream.New(fast, 100)

	require.NoError(t, fast.LPushTrim(context.Background(), stream.Key("g1"), []byte("{broken"), 100))
	entry := activity.Join("user-1", "g1")
	require.NoError(t, s.Push(context.Background(), "g1", &entry))

	entries, err := s.Recent(context.Background(), "g1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user-1", entries[0].ActorID)
}

func TestStreamRecentForUserMergesByTime(t *testing.T) {
	fast := storetest.NewFakeFast()
	s := stream.New(fast, 100)

	base := time.Now().UTC()
	push := func(groupID, actor string, at time.Time) {
		entry := activity.Activity{
			Type:      activity.TypeJoin,
			ActorID:   actor,
			GroupID:   groupID,
			Timestamp: at,
		}
		require.NoError(t, s.Push(context.Background(), groupID, &entry))
	}

	push("g1", "first", base.Add(1*time.Second))
	push("g2", "second", base.Add(2*time.Second))
	push("g1", "third", base.Add(3*time.Second))

	entries, err := s.RecentForUser(context.Background(), []string{"g1", "g2"}, 10)
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].ActorID)
	assert.Equal(t, "second", entries[1].ActorID)
	assert.Equal(t, "first", entries[2].ActorID)
}

func TestStreamRecentForUserTruncates(t *testing.T) {
	fast := storetest.NewFakeFast()
	s := stream.New(fast, 100)

	for i := 0; i < 4; i++ {
		entry := activity.Join("user-"+strconv.Itoa(i), "g1")
		require.NoError(t, s.Push(context.Background(), "g1", &entry))
	}

	entries, err := s.RecentForUser(context.Background(), []string{"g1"}, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
