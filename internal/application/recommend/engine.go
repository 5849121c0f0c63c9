// Package recommend derives suggestions from the social graph, combined with
// relational and fast-store signals. Every recommendation is a read-only
// traversal; nothing here writes to any store.
package recommend

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/campusconnect/campusconnect/internal/cache"
	"github.com/campusconnect/campusconnect/internal/domain/user"
	"github.com/campusconnect/campusconnect/internal/ranking"
	"github.com/campusconnect/campusconnect/internal/store"
	"github.com/campusconnect/campusconnect/internal/stream"
	"github.com/campusconnect/campusconnect/pkg/logger"
)

// Smart-recommendation signal weights.
const (
	weightFriends     = 3
	weightCourseMatch = 2
	weightActivity    = 1
	smartResultLimit  = 5
	defaultCandidates = 20
)

// Engine computes friend and group recommendations.
type Engine struct {
	relational  store.RelationalStore
	graph       store.GraphStore
	cache       *cache.Cache
	leaderboard *ranking.Leaderboard
	activity    *stream.Stream

	log *zap.Logger
}

// New wires a recommendation engine.
func New(relational store.RelationalStore, graph store.GraphStore, entityCache *cache.Cache, leaderboard *ranking.Leaderboard, activity *stream.Stream) *Engine {
	return &Engine{
		relational:  relational,
		graph:       graph,
		cache:       entityCache,
		leaderboard: leaderboard,
		activity:    activity,
		log:         logger.Get(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Friend recommendations
// ─────────────────────────────────────────────────────────────────────────────

// FriendRecommendation is a suggested connection with its justification.
type FriendRecommendation struct {
	UserID        string `json:"user_id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	MutualFriends int    `json:"mutual_friends"`
	Reason        string `json:"reason"`
}

// RecommendFriends suggests users two hops away in the friendship graph,
// ranked by how many mutual friends connect them.
func (e *Engine) RecommendFriends(ctx context.Context, userID string, limit int) ([]FriendRecommendation, error) {
	if _, err := e.relational.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}

	candidates, err := e.graph.FriendOfFriend(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	recs := make([]FriendRecommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, FriendRecommendation{
			UserID:        c.UserID,
			FullName:      c.FullName,
			Email:         c.Email,
			MutualFriends: c.MutualCount,
			Reason:        fmt.Sprintf("%d mutual friends", c.MutualCount),
		})
	}

	return recs, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Group recommendations
// ─────────────────────────────────────────────────────────────────────────────

// GroupRecommendation is a suggested group with its justification.
type GroupRecommendation struct {
	GroupID     string `json:"group_id"`
	Name        string `json:"name"`
	CourseCode  string `json:"course_code"`
	FriendCount int    `json:"friend_count"`
	Reason      string `json:"reason"`
}

// RecommendGroups suggests groups the user's friends belong to, ranked by
// how many friends are members.
func (e *Engine) RecommendGroups(ctx context.Context, userID string, limit int) ([]GroupRecommendation, error) {
	if _, err := e.relational.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}

	candidates, err := e.graph.GroupsViaFriends(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	recs := make([]GroupRecommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, GroupRecommendation{
			GroupID:     c.GroupID,
			Name:        c.Name,
			CourseCode:  c.CourseCode,
			FriendCount: c.FriendCount,
			Reason:      fmt.Sprintf("%d friends in this group", c.FriendCount),
		})
	}

	return recs, nil
}

// CommonGroups returns the groups two users share.
func (e *Engine) CommonGroups(ctx context.Context, userID1, userID2 string) ([]store.GroupRef, error) {
	if _, err := e.relational.GetUser(ctx, userID1); err != nil {
		return nil, err
	}
	if _, err := e.relational.GetUser(ctx, userID2); err != nil {
		return nil, err
	}

	return e.graph.CommonGroups(ctx, userID1, userID2)
}

// ─────────────────────────────────────────────────────────────────────────────
// Smart recommendations
// ─────────────────────────────────────────────────────────────────────────────

// SmartRecommendation is a group suggestion scored across stores.
type SmartRecommendation struct {
	GroupID    string   `json:"group_id"`
	Name       string   `json:"name"`
	CourseCode string   `json:"course_code"`
	Score      int      `json:"score"`
	Reasons    []string `json:"reasons"`
}

// SmartRecommend combines three signals per candidate group: friends who are
// members (weight 3), a course-code prefix shared with one of the user's
// current groups (weight 2), and recent activity in the group (weight 1).
// Any one signal degrades to zero when its store cannot answer: candidates
// normally come from the graph, but when the graph is down they come from the
// newest relational groups with no friend signal. Returns the top five by
// score.
func (e *Engine) SmartRecommend(ctx context.Context, userID string) ([]SmartRecommendation, error) {
	if _, err := e.relational.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	candidates, err := e.graph.GroupsViaFriends(ctx, userID, defaultCandidates)
	if err != nil {
		e.log.Warn("friends signal degraded", zap.Error(err))
		candidates, err = e.relationalCandidates(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
	if len(candidates) == 0 {
		return []SmartRecommendation{}, nil
	}

	prefixes := e.coursePrefixes(ctx, userID)

	recs := make([]SmartRecommendation, 0, len(candidates))
	for _, c := range candidates {
		rec := SmartRecommendation{
			GroupID:    c.GroupID,
			Name:       c.Name,
			CourseCode: c.CourseCode,
		}

		if c.FriendCount > 0 {
			rec.Score += c.FriendCount * weightFriends
			rec.Reasons = append(rec.Reasons, fmt.Sprintf("%d friends in this group", c.FriendCount))
		}

		if _, ok := prefixes[coursePrefix(c.CourseCode)]; ok {
			rec.Score += weightCourseMatch
			rec.Reasons = append(rec.Reasons, "related to your courses")
		}

		if e.hasRecentActivity(ctx, c.GroupID) {
			rec.Score += weightActivity
			rec.Reasons = append(rec.Reasons, "recently active")
		}

		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > smartResultLimit {
		recs = recs[:smartResultLimit]
	}
	return recs, nil
}

// relationalCandidates is the fallback candidate pool when the graph cannot
// answer: the newest groups, minus the ones the user already belongs to.
// Fallback candidates carry no friend signal.
func (e *Engine) relationalCandidates(ctx context.Context, userID string) ([]store.GroupSuggestion, error) {
	groups, err := e.relational.ListGroups(ctx, defaultCandidates)
	if err != nil {
		return nil, err
	}
	mine, err := e.relational.ListUserGroups(ctx, userID)
	if err != nil {
		return nil, err
	}

	member := make(map[string]struct{}, len(mine))
	for _, g := range mine {
		member[g.ID] = struct{}{}
	}

	candidates := make([]store.GroupSuggestion, 0, len(groups))
	for _, g := range groups {
		if _, ok := member[g.ID]; ok {
			continue
		}
		candidates = append(candidates, store.GroupSuggestion{
			GroupID:    g.ID,
			Name:       g.Name,
			CourseCode: g.CourseCode,
		})
	}
	return candidates, nil
}

// coursePrefixes returns the course-code prefixes of the user's current
// groups. An unavailable relational read degrades the signal to no matches.
func (e *Engine) coursePrefixes(ctx context.Context, userID string) map[string]struct{} {
	groups, err := e.relational.ListUserGroups(ctx, userID)
	if err != nil {
		e.log.Warn("course-match signal degraded", zap.Error(err))
		return map[string]struct{}{}
	}

	prefixes := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		prefixes[g.CoursePrefix()] = struct{}{}
	}
	return prefixes
}

// hasRecentActivity reports whether the group's activity stream is non-empty.
// An unavailable fast store degrades the signal to false.
func (e *Engine) hasRecentActivity(ctx context.Context, groupID string) bool {
	entries, err := e.activity.Recent(ctx, groupID, 1)
	if err != nil {
		e.log.Warn("activity signal degraded", zap.Error(err))
		return false
	}
	return len(entries) > 0
}

// coursePrefix returns the leading alphabetic part of a course code.
func coursePrefix(code string) string {
	for i, r := range code {
		if r >= '0' && r <= '9' {
			return code[:i]
		}
	}
	return code
}

// ─────────────────────────────────────────────────────────────────────────────
// Leaderboard views
// ─────────────────────────────────────────────────────────────────────────────

// LeaderboardRow is one leaderboard entry hydrated with the user's name.
type LeaderboardRow struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"user_id"`
	FullName string  `json:"full_name"`
	Points   float64 `json:"points"`
}

// Leaderboard returns the top point earners with display names resolved
// through the cache-aside read path. Rows whose user cannot be resolved keep
// an empty name rather than failing the view.
func (e *Engine) Leaderboard(ctx context.Context, limit int64) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}

	entries, err := e.leaderboard.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]LeaderboardRow, 0, len(entries))
	for i, entry := range entries {
		row := LeaderboardRow{
			Rank:   i + 1,
			UserID: entry.UserID,
			Points: entry.Points,
		}
		if u, err := e.resolveUser(ctx, entry.UserID); err == nil {
			row.FullName = u.FullName
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// resolveUser reads a user through the cache, falling back to the relational
// store and repopulating on a miss.
func (e *Engine) resolveUser(ctx context.Context, id string) (*user.User, error) {
	var cached user.User
	if err := e.cache.Get(ctx, cache.KindUser, id, &cached); err == nil {
		return &cached, nil
	}

	u, err := e.relational.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := e.cache.Populate(ctx, cache.KindUser, id, u); err != nil {
		e.log.Warn("cache populate failed after user read", zap.Error(err))
	}
	return u, nil
}
