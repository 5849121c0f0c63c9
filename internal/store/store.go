// Package store defines the four capability interfaces the orchestration
// layer depends on. Each interface is a narrow contract over one engine's
// primitives; no orchestration logic lives behind them.
//
// Error policy for every implementation:
//   - shared.ErrUnavailable when the underlying engine is unreachable or
//     erroring. Callers surface this as an operational failure.
//   - shared.ErrNotFound when a queried entity does not exist. Callers treat
//     this as expected control flow, never as an operational failure.
//   - shared.ErrConflict on uniqueness violations (duplicate email).
package store

import (
	"context"
	"time"

	"github.com/campusconnect/campusconnect/internal/domain/content"
	"github.com/campusconnect/campusconnect/internal/domain/group"
	"github.com/campusconnect/campusconnect/internal/domain/user"
)

// ─────────────────────────────────────────────────────────────────────────────
// Relational store (system of record for users, groups, memberships)
// ─────────────────────────────────────────────────────────────────────────────

// RelationalStore is the authoritative store. Inserts are not idempotent and
// must not be blindly retried; UpsertMembership is idempotent (re-applying
// with a new role updates the role, never duplicates the pair).
type RelationalStore interface {
	InsertUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)

	InsertGroup(ctx context.Context, g *group.Group) error
	GetGroup(ctx context.Context, id string) (*group.Group, error)
	ListGroups(ctx context.Context, limit int) ([]*group.Group, error)

	UpsertMembership(ctx context.Context, m *group.Membership) error
	ListUserGroups(ctx context.Context, userID string) ([]*group.UserGroup, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]*group.Member, error)
	IsMember(ctx context.Context, userID, groupID string) (bool, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Document store (system of record for posts and comments)
// ─────────────────────────────────────────────────────────────────────────────

// DocumentStore holds flexible content. InsertPost and InsertComment assign
// the engine ID onto the passed entity.
type DocumentStore interface {
	InsertPost(ctx context.Context, p *content.Post) error
	GetPost(ctx context.Context, id string) (*content.Post, error)
	ListGroupPosts(ctx context.Context, groupID string, limit, offset int) ([]*content.Post, error)
	ListUserPosts(ctx context.Context, authorID string, limit int) ([]*content.Post, error)
	SearchPostsByTags(ctx context.Context, tags []string, limit int) ([]*content.Post, error)
	CountPosts(ctx context.Context, groupID string) (int64, error)
	DeletePost(ctx context.Context, id string) error

	InsertComment(ctx context.Context, c *content.Comment) error
	ListPostComments(ctx context.Context, postID string) ([]*content.Comment, error)
	DeleteCommentsForPost(ctx context.Context, postID string) (int64, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Graph store (system of record for the social relation)
// ─────────────────────────────────────────────────────────────────────────────

// FriendSuggestion is a friend-of-friend candidate with the number of
// distinct mutual friends connecting it to the source user.
type FriendSuggestion struct {
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	MutualCount int    `json:"mutual_friends"`
}

// GroupSuggestion is a group reachable through the user's friends with the
// number of distinct friends who are members.
type GroupSuggestion struct {
	GroupID     string `json:"group_id"`
	Name        string `json:"name"`
	CourseCode  string `json:"course_code"`
	FriendCount int    `json:"friend_count"`
}

// GroupRef is a minimal group projection returned by graph queries.
type GroupRef struct {
	GroupID    string `json:"group_id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
}

// GraphStore mirrors users and groups as nodes and holds the social graph.
// Node and edge upserts are idempotent merges, safe to retry.
type GraphStore interface {
	UpsertUserNode(ctx context.Context, id, email, fullName string) error
	UpsertGroupNode(ctx context.Context, id, name, courseCode string) error

	// CreateFriendshipEdge creates both directed FRIEND edges between the
	// two users, keeping the relation symmetric.
	CreateFriendshipEdge(ctx context.Context, userID1, userID2 string) error
	UpsertMembershipEdge(ctx context.Context, userID, groupID, role string) error

	AreFriends(ctx context.Context, userID1, userID2 string) (bool, error)
	Degree(ctx context.Context, userID string) (int, error)

	FriendOfFriend(ctx context.Context, userID string, limit int) ([]FriendSuggestion, error)
	GroupsViaFriends(ctx context.Context, userID string, limit int) ([]GroupSuggestion, error)
	CommonGroups(ctx context.Context, userID1, userID2 string) ([]GroupRef, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Fast store (cache, counters, bounded streams — all derived, all losable)
// ─────────────────────────────────────────────────────────────────────────────

// ScoredMember is one member of an ordered score structure.
type ScoredMember struct {
	Member string
	Score  float64
}

// FastStore exposes the ephemeral engine's primitives. Everything stored
// through it is derived data: losing it must never corrupt the authoritative
// stores.
type FastStore interface {
	// Cache primitives. Get returns shared.ErrNotFound on a miss; Delete of
	// a non-existent key is not an error.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error

	// Ordered score structure (leaderboard, hot items). ZScore and ZRevRank
	// return shared.ErrNotFound if the member is unscored; ZRevRank positions
	// are 0-indexed by descending score.
	ZIncrBy(ctx context.Context, key, member string, delta float64) (float64, error)
	ZScore(ctx context.Context, key, member string) (float64, error)
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRem(ctx context.Context, key, member string) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error)
	ZRevRank(ctx context.Context, key, member string) (int64, error)

	// Bounded list (activity stream). LPushTrim prepends and trims the list
	// to at most maxLen entries.
	LPushTrim(ctx context.Context, key string, value []byte, maxLen int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)

	// Windowed counter (rate limiting). GetOrInitWithTTL returns the current
	// count, initializing the key to 1 with the given TTL when absent;
	// created reports whether this call initialized the window.
	GetOrInitWithTTL(ctx context.Context, key string, ttl time.Duration) (count int64, created bool, err error)
	Incr(ctx context.Context, key string) (int64, error)
}
