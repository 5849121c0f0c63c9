package orchestrator

import (
	"context"

	"github.com/campusconnect/campusconnect/internal/cache"
	"github.com/campusconnect/campusconnect/internal/domain/activity"
	"github.com/campusconnect/campusconnect/internal/domain/group"
	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/domain/user"
	"github.com/campusconnect/campusconnect/internal/ranking"
)

// ─────────────────────────────────────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────────────────────────────────────

// CreateUserResult is the outcome of CreateUser. Warnings lists derived-store
// side effects that were skipped.
type CreateUserResult struct {
	User     *user.User `json:"user"`
	Warnings []string   `json:"warnings,omitempty"`
}

// CreateUser registers a user in the relational store, mirrors it as a graph
// node, and warms the cache. A duplicate email is a conflict; graph and cache
// failures degrade the result instead of failing it.
func (o *Orchestrator) CreateUser(ctx context.Context, email, fullName string) (*CreateUserResult, error) {
	u, err := user.New(email, fullName)
	if err != nil {
		return nil, err
	}

	if err := o.relational.InsertUser(ctx, u); err != nil {
		return nil, err
	}

	res := &CreateUserResult{User: u}
	if err := o.graph.UpsertUserNode(ctx, u.ID, u.Email, u.FullName); err != nil {
		res.Warnings = o.warn("CreateUser", res.Warnings, "user not mirrored to social graph", err)
	}

	if err := o.cache.Populate(ctx, cache.KindUser, u.ID, u); err != nil {
		res.Warnings = o.warn("CreateUser", res.Warnings, "user not cached", err)
	}

	return res, nil
}

// GetUser returns a user, serving from the cache when possible. fromCache
// reports where the entity came from.
func (o *Orchestrator) GetUser(ctx context.Context, id string) (u *user.User, fromCache bool, err error) {
	var cached user.User
	if err := o.cache.Get(ctx, cache.KindUser, id, &cached); err == nil {
		return &cached, true, nil
	}

	u, err = o.relational.GetUser(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if err := o.cache.Populate(ctx, cache.KindUser, id, u); err != nil {
		o.log.Warn("cache populate failed after user read")
	}

	return u, false, nil
}

// Profile is the aggregate view of a user across all four stores.
type Profile struct {
	User        *user.User         `json:"user"`
	Groups      []*group.UserGroup `json:"groups"`
	FriendCount int                `json:"friend_count"`
	Points      float64            `json:"points"`
	Rank        int64              `json:"rank,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// GetUserProfile assembles a profile from the relational store (user and
// groups), the graph store (friend count), and the fast store (points and
// leaderboard rank). Derived signals degrade to zero values when their store
// is unavailable.
func (o *Orchestrator) GetUserProfile(ctx context.Context, id string) (*Profile, error) {
	u, _, err := o.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	groups, err := o.relational.ListUserGroups(ctx, id)
	if err != nil {
		return nil, err
	}

	p := &Profile{User: u, Groups: groups}

	if degree, err := o.graph.Degree(ctx, id); err != nil {
		p.Warnings = o.warn("GetUserProfile", p.Warnings, "friend count unavailable", err)
	} else {
		p.FriendCount = degree
	}

	if pts, err := o.leaderboard.Points(ctx, id); err == nil {
		p.Points = pts
	} else if !shared.IsNotFound(err) {
		p.Warnings = o.warn("GetUserProfile", p.Warnings, "points unavailable", err)
	}

	if rank, err := o.leaderboard.Rank(ctx, id); err == nil {
		p.Rank = rank + 1
	} else if !shared.IsNotFound(err) {
		p.Warnings = o.warn("GetUserProfile", p.Warnings, "leaderboard rank unavailable", err)
	}

	return p, nil
}

// AddFriend records a symmetric friendship. The graph store is authoritative
// for the relation, so a graph failure fails the operation. Befriending
// yourself is invalid; an existing friendship is a conflict.
func (o *Orchestrator) AddFriend(ctx context.Context, userID1, userID2 string) error {
	if userID1 == userID2 {
		return shared.NewDomainError("graph", "AddFriend", shared.ErrValidation, "cannot befriend yourself")
	}

	u1, err := o.relational.GetUser(ctx, userID1)
	if err != nil {
		return err
	}
	u2, err := o.relational.GetUser(ctx, userID2)
	if err != nil {
		return err
	}

	already, err := o.graph.AreFriends(ctx, userID1, userID2)
	if err != nil {
		return err
	}
	if already {
		return shared.NewDomainError("graph", "AddFriend", shared.ErrConflict, "users are already friends")
	}

	// Re-merge both nodes so the edge lands even if an earlier mirror was
	// skipped.
	if err := o.graph.UpsertUserNode(ctx, u1.ID, u1.Email, u1.FullName); err != nil {
		return err
	}
	if err := o.graph.UpsertUserNode(ctx, u2.ID, u2.Email, u2.FullName); err != nil {
		return err
	}

	if err := o.graph.CreateFriendshipEdge(ctx, userID1, userID2); err != nil {
		return err
	}

	// Friend counts are enrichment fields, so both cached projections are
	// dropped rather than patched.
	for _, id := range []string{userID1, userID2} {
		if err := o.cache.Invalidate(ctx, cache.KindUser, id); err != nil {
			o.log.Warn("stale user entry not invalidated after friendship")
		}
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Groups
// ─────────────────────────────────────────────────────────────────────────────

// CreateGroupResult is the outcome of CreateGroup.
type CreateGroupResult struct {
	Group    *group.Group `json:"group"`
	Warnings []string     `json:"warnings,omitempty"`
}

// CreateGroup registers a group in the relational store, mirrors it as a
// graph node, and warms the summary cache with zero counts.
func (o *Orchestrator) CreateGroup(ctx context.Context, name, courseCode string) (*CreateGroupResult, error) {
	g, err := group.New(name, courseCode)
	if err != nil {
		return nil, err
	}

	if err := o.relational.InsertGroup(ctx, g); err != nil {
		return nil, err
	}

	res := &CreateGroupResult{Group: g}
	if err := o.graph.UpsertGroupNode(ctx, g.ID, g.Name, g.CourseCode); err != nil {
		res.Warnings = o.warn("CreateGroup", res.Warnings, "group not mirrored to social graph", err)
	}

	summary := &group.Summary{Group: *g}
	if err := o.cache.Populate(ctx, cache.KindGroup, g.ID, summary); err != nil {
		res.Warnings = o.warn("CreateGroup", res.Warnings, "group summary not cached", err)
	}

	return res, nil
}

// GetGroup returns the enriched group summary, serving from the cache when
// possible. On a miss the summary is assembled from the relational store
// (base record, member count) and the document store (post count, degrading
// to zero when unavailable), then cached.
func (o *Orchestrator) GetGroup(ctx context.Context, id string) (summary *group.Summary, fromCache bool, err error) {
	var cached group.Summary
	if err := o.cache.Get(ctx, cache.KindGroup, id, &cached); err == nil {
		return &cached, true, nil
	}

	g, err := o.relational.GetGroup(ctx, id)
	if err != nil {
		return nil, false, err
	}

	members, err := o.relational.ListGroupMembers(ctx, id)
	if err != nil {
		return nil, false, err
	}

	summary = &group.Summary{Group: *g, MemberCount: len(members)}

	if count, err := o.documents.CountPosts(ctx, id); err != nil {
		o.log.Warn("post count unavailable for group summary")
	} else {
		summary.PostCount = count
	}

	if err := o.cache.Populate(ctx, cache.KindGroup, id, summary); err != nil {
		o.log.Warn("cache populate failed after group read")
	}

	return summary, false, nil
}

// JoinGroupResult is the outcome of JoinGroup.
type JoinGroupResult struct {
	Membership *group.Membership `json:"membership"`
	Points     float64           `json:"points,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// JoinGroup adds a user to a group. The relational upsert is authoritative
// and idempotent; the graph edge, join points, activity entry, and cache
// invalidation follow, each degrading independently.
func (o *Orchestrator) JoinGroup(ctx context.Context, userID, groupID, role string) (*JoinGroupResult, error) {
	if _, err := o.relational.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := o.relational.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	m, err := group.NewMembership(userID, groupID, role)
	if err != nil {
		return nil, err
	}

	if err := o.relational.UpsertMembership(ctx, m); err != nil {
		return nil, err
	}

	res := &JoinGroupResult{Membership: m}

	if err := o.graph.UpsertMembershipEdge(ctx, userID, groupID, m.Role); err != nil {
		res.Warnings = o.warn("JoinGroup", res.Warnings, "membership not mirrored to social graph", err)
	}

	if pts, err := o.leaderboard.AddPoints(ctx, userID, ranking.PointsJoinGroup); err != nil {
		res.Warnings = o.warn("JoinGroup", res.Warnings, "join points not awarded", err)
	} else {
		res.Points = pts
	}

	entry := activity.Join(userID, groupID)
	if err := o.activity.Push(ctx, groupID, &entry); err != nil {
		res.Warnings = o.warn("JoinGroup", res.Warnings, "activity entry not recorded", err)
	}

	if err := o.cache.Invalidate(ctx, cache.KindGroup, groupID); err != nil {
		res.Warnings = o.warn("JoinGroup", res.Warnings, "stale group summary not invalidated", err)
	}

	return res, nil
}

// GetGroupMembers returns a group's member list from the relational store.
func (o *Orchestrator) GetGroupMembers(ctx context.Context, groupID string) ([]*group.Member, error) {
	if _, err := o.relational.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return o.relational.ListGroupMembers(ctx, groupID)
}

// GetUserGroups returns the groups a user belongs to.
func (o *Orchestrator) GetUserGroups(ctx context.Context, userID string) ([]*group.UserGroup, error) {
	if _, err := o.relational.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return o.relational.ListUserGroups(ctx, userID)
}

// ListGroups returns the newest groups up to limit.
func (o *Orchestrator) ListGroups(ctx context.Context, limit int) ([]*group.Group, error) {
	if limit <= 0 {
		limit = 50
	}
	return o.relational.ListGroups(ctx, limit)
}

// ─────────────────────────────────────────────────────────────────────────────
// Activity
// ─────────────────────────────────────────────────────────────────────────────

// RecentActivity returns a group's recent activity, newest first. The stream
// is derived and bounded; an empty result means nothing recent, not nothing
// ever.
func (o *Orchestrator) RecentActivity(ctx context.Context, groupID string, limit int64) ([]*activity.Activity, error) {
	if _, err := o.relational.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return o.activity.Recent(ctx, groupID, limit)
}

// RecentActivityForUser merges the recent activity of every group the user
// belongs to into one timeline, newest first.
func (o *Orchestrator) RecentActivityForUser(ctx context.Context, userID string, limit int64) ([]*activity.Activity, error) {
	groups, err := o.GetUserGroups(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	return o.activity.RecentForUser(ctx, ids, limit)
}
