package ranking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/ranking"
	"github.com/campusconnect/campusconnect/internal/store/storetest"
)

func TestLeaderboardOrdering(t *testing.T) {
	fast := storetest.NewFakeFast()
	l := ranking.NewLeaderboard(fast)

	_, err := l.AddPoints(context.Background(), "u1", ranking.PointsJoinGroup)
	require.NoError(t, err)
	_, err = l.AddPoints(context.Background(), "u2", ranking.PointsCreatePost)
	require.NoError(t, err)
	_, err = l.AddPoints(context.Background(), "u1", ranking.PointsComment)
	require.NoError(t, err)

	top, err := l.Top(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, "u2", top[0].UserID)
	assert.Equal(t, float64(10), top[0].Points)
	assert.Equal(t, float64(7), top[1].Points)
}

func TestLeaderboardDeduction(t *testing.T) {
	fast := storetest.NewFakeFast()
	l := ranking.NewLeaderboard(fast)

	_, err := l.AddPoints(context.Background(), "u1", 10)
	require.NoError(t, err)
	total, err := l.AddPoints(context.Background(), "u1", -20)
	require.NoError(t, err)

	assert.Equal(t, float64(-10), total, "no floor on scores")
}

func TestLeaderboardRank(t *testing.T) {
	fast := storetest.NewFakeFast()
	l := ranking.NewLeaderboard(fast)

	_, err := l.AddPoints(context.Background(), "u1", 10)
	require.NoError(t, err)
	_, err = l.AddPoints(context.Background(), "u2", 20)
	require.NoError(t, err)

	rank, err := l.Rank(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rank, "rank is 0-indexed")

	rank, err = l.Rank(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rank)

	_, err = l.Rank(context.Background(), "never-scored")
	assert.True(t, shared.IsNotFound(err))
}

func TestLeaderboardPoints(t *testing.T) {
	fast := storetest.NewFakeFast()
	l := ranking.NewLeaderboard(fast)

	_, err := l.AddPoints(context.Background(), "u1", 12)
	require.NoError(t, err)

	pts, err := l.Points(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, float64(12), pts)

	_, err = l.Points(context.Background(), "nobody")
	assert.True(t, shared.IsNotFound(err))
}

func TestHotItemsOrdering(t *testing.T) {
	fast := storetest.NewFakeFast()
	h := ranking.NewHotItems(fast)

	require.NoError(t, h.Promote(context.Background(), "p1", 100))
	require.NoError(t, h.Promote(context.Background(), "p2", 200))

	top, err := h.Top(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, "p2", top[0].PostID)
	assert.Equal(t, float64(200), top[0].Score)
}

func TestHotItemsRepromoteSupersedes(t *testing.T) {
	fast := storetest.NewFakeFast()
	h := ranking.NewHotItems(fast)

	require.NoError(t, h.Promote(context.Background(), "p1", 100))
	require.NoError(t, h.Promote(context.Background(), "p2", 200))
	require.NoError(t, h.Promote(context.Background(), "p1", 300))

	top, err := h.Top(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, "p1", top[0].PostID)
	assert.Equal(t, float64(300), top[0].Score)
}

func TestHotItemsRemove(t *testing.T) {
	fast := storetest.NewFakeFast()
	h := ranking.NewHotItems(fast)

	require.NoError(t, h.Promote(context.Background(), "p1", 100))
	require.NoError(t, h.Remove(context.Background(), "p1"))
	require.NoError(t, h.Remove(context.Background(), "p1"), "removing an unranked post is a no-op")

	top, err := h.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}
