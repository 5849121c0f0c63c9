// Package ranking maintains the points leaderboard and the hot-posts ranking
// on the fast store's ordered score structures. Both are derived views: the
// points economy rewards participation, and losing the structures resets the
// scores without touching any authoritative record.
package ranking

import (
	"context"

	"github.com/campusconnect/campusconnect/internal/store"
)

// Points awarded per action.
const (
	PointsJoinGroup  = 5
	PointsCreatePost = 10
	PointsComment    = 2
)

// Leaderboard and hot-posts keys.
const (
	LeaderboardKey = "leaderboard:points"
	HotPostsKey    = "hot:posts"
)

// Entry is one leaderboard row.
type Entry struct {
	UserID string  `json:"user_id"`
	Points float64 `json:"points"`
}

// Leaderboard tracks per-user participation points.
type Leaderboard struct {
	fast store.FastStore
}

// NewLeaderboard creates a Leaderboard over the fast store.
func NewLeaderboard(fast store.FastStore) *Leaderboard {
	return &Leaderboard{fast: fast}
}

// AddPoints adjusts a user's score by delta (negative to deduct) and returns
// the new total.
func (l *Leaderboard) AddPoints(ctx context.Context, userID string, delta float64) (float64, error) {
	return l.fast.ZIncrBy(ctx, LeaderboardKey, userID, delta)
}

// Points returns a user's current total, or shared.ErrNotFound when the
// user has never earned any.
func (l *Leaderboard) Points(ctx context.Context, userID string) (float64, error) {
	return l.fast.ZScore(ctx, LeaderboardKey, userID)
}

// Top returns the highest-scoring users, best first.
func (l *Leaderboard) Top(ctx context.Context, limit int64) ([]Entry, error) {
	members, err := l.fast.ZRevRange(ctx, LeaderboardKey, 0, limit-1)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		entries = append(entries, Entry{UserID: m.Member, Points: m.Score})
	}
	return entries, nil
}

// Rank returns a user's 0-indexed position among all scored users, or
// shared.ErrNotFound when the user has no score.
func (l *Leaderboard) Rank(ctx context.Context, userID string) (int64, error) {
	return l.fast.ZRevRank(ctx, LeaderboardKey, userID)
}
