// Package storetest provides in-memory implementations of the store
// interfaces for tests. Each fake keeps its state in plain maps, guarded by a
// mutex, and can be switched into a failing mode to exercise degraded paths.
package storetest

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/campusconnect/campusconnect/internal/domain/content"
	"github.com/campusconnect/campusconnect/internal/domain/group"
	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/domain/user"
	"github.com/campusconnect/campusconnect/internal/store"
)

func unavailable(domain, op string) error {
	return shared.NewDomainError(domain, op, shared.ErrUnavailable, "store down")
}

// ─────────────────────────────────────────────────────────────────────────────
// Relational
// ─────────────────────────────────────────────────────────────────────────────

// FakeRelational is an in-memory store.RelationalStore.
type FakeRelational struct {
	mu sync.Mutex

	// Down makes every call fail with shared.ErrUnavailable.
	Down bool

	users       map[string]*user.User
	groups      map[string]*group.Group
	memberships map[string]*group.Membership // userID + "/" + groupID

	getUserCalls int
}

// NewFakeRelational returns an empty relational fake.
func NewFakeRelational() *FakeRelational {
	return &FakeRelational{
		users:       make(map[string]*user.User),
		groups:      make(map[string]*group.Group),
		memberships: make(map[string]*group.Membership),
	}
}

func (f *FakeRelational) InsertUser(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("user", "InsertUser")
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return shared.NewDomainError("user", "InsertUser", shared.ErrConflict, "email already registered")
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *FakeRelational) GetUser(_ context.Context, id string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getUserCalls++
	if f.Down {
		return nil, unavailable("user", "GetUser")
	}
	u, ok := f.users[id]
	if !ok {
		return nil, shared.NewDomainError("user", "GetUser", shared.ErrNotFound, "user not found")
	}
	return u, nil
}

func (f *FakeRelational) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("user", "GetUserByEmail")
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.NewDomainError("user", "GetUserByEmail", shared.ErrNotFound, "user not found")
}

func (f *FakeRelational) InsertGroup(_ context.Context, g *group.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("group", "InsertGroup")
	}
	f.groups[g.ID] = g
	return nil
}

func (f *FakeRelational) GetGroup(_ context.Context, id string) (*group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("group", "GetGroup")
	}
	g, ok := f.groups[id]
	if !ok {
		return nil, shared.NewDomainError("group", "GetGroup", shared.ErrNotFound, "group not found")
	}
	return g, nil
}

func (f *FakeRelational) ListGroups(_ context.Context, limit int) ([]*group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("group", "ListGroups")
	}
	groups := make([]*group.Group, 0, len(f.groups))
	for _, g := range f.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].CreatedAt.After(groups[j].CreatedAt)
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups, nil
}

func (f *FakeRelational) UpsertMembership(_ context.Context, m *group.Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("group", "UpsertMembership")
	}
	key := m.UserID + "/" + m.GroupID
	if existing, ok := f.memberships[key]; ok {
		existing.Role = m.Role
		*m = *existing
		return nil
	}
	f.memberships[key] = m
	return nil
}

func (f *FakeRelational) ListUserGroups(_ context.Context, userID string) ([]*group.UserGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("group", "ListUserGroups")
	}
	var groups []*group.UserGroup
	for _, m := range f.memberships {
		if m.UserID != userID {
			continue
		}
		g, ok := f.groups[m.GroupID]
		if !ok {
			continue
		}
		groups = append(groups, &group.UserGroup{Group: *g, Role: m.Role, JoinedAt: m.JoinedAt})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].JoinedAt.After(groups[j].JoinedAt)
	})
	return groups, nil
}

func (f *FakeRelational) ListGroupMembers(_ context.Context, groupID string) ([]*group.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("group", "ListGroupMembers")
	}
	var members []*group.Member
	for _, m := range f.memberships {
		if m.GroupID != groupID {
			continue
		}
		u, ok := f.users[m.UserID]
		if !ok {
			continue
		}
		members = append(members, &group.Member{
			UserID:   u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return members, nil
}

func (f *FakeRelational) IsMember(_ context.Context, userID, groupID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return false, unavailable("group", "IsMember")
	}
	_, ok := f.memberships[userID+"/"+groupID]
	return ok, nil
}

// GetUserCalls reports how many times GetUser has been called, for
// asserting that cache hits skip the store.
func (f *FakeRelational) GetUserCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getUserCalls
}

// MembershipCount reports the number of stored membership pairs.
func (f *FakeRelational) MembershipCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.memberships)
}

// ─────────────────────────────────────────────────────────────────────────────
// Documents
// ─────────────────────────────────────────────────────────────────────────────

// FakeDocuments is an in-memory store.DocumentStore. IDs are assigned
// sequentially.
type FakeDocuments struct {
	mu sync.Mutex

	Down bool

	seq      int
	posts    map[string]*content.Post
	comments map[string]*content.Comment
}

// NewFakeDocuments returns an empty document fake.
func NewFakeDocuments() *FakeDocuments {
	return &FakeDocuments{
		posts:    make(map[string]*content.Post),
		comments: make(map[string]*content.Comment),
	}
}

func (f *FakeDocuments) nextID() string {
	f.seq++
	return "doc-" + strconv.Itoa(f.seq)
}

func (f *FakeDocuments) InsertPost(_ context.Context, p *content.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("content", "InsertPost")
	}
	p.ID = f.nextID()
	clone := *p
	f.posts[p.ID] = &clone
	return nil
}

func (f *FakeDocuments) GetPost(_ context.Context, id string) (*content.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("content", "GetPost")
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, shared.NewDomainError("content", "GetPost", shared.ErrNotFound, "post not found")
	}
	clone := *p
	return &clone, nil
}

func (f *FakeDocuments) ListGroupPosts(_ context.Context, groupID string, limit, offset int) ([]*content.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("content", "ListGroupPosts")
	}
	posts := f.filterPosts(func(p *content.Post) bool { return p.GroupID == groupID })
	if offset >= len(posts) {
		return nil, nil
	}
	posts = posts[offset:]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *FakeDocuments) ListUserPosts(_ context.Context, authorID string, limit int) ([]*content.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("content", "ListUserPosts")
	}
	posts := f.filterPosts(func(p *content.Post) bool { return p.AuthorID == authorID })
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *FakeDocuments) SearchPostsByTags(_ context.Context, tags []string, limit int) ([]*content.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("content", "SearchPostsByTags")
	}
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[t] = struct{}{}
	}
	posts := f.filterPosts(func(p *content.Post) bool {
		for _, t := range p.Tags {
			if _, ok := want[t]; ok {
				return true
			}
		}
		return false
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *FakeDocuments) filterPosts(keep func(*content.Post) bool) []*content.Post {
	var posts []*content.Post
	for _, p := range f.posts {
		if keep(p) {
			clone := *p
			posts = append(posts, &clone)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (f *FakeDocuments) CountPosts(_ context.Context, groupID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return 0, unavailable("content", "CountPosts")
	}
	var n int64
	for _, p := range f.posts {
		if p.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (f *FakeDocuments) DeletePost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("content", "DeletePost")
	}
	if _, ok := f.posts[id]; !ok {
		return shared.NewDomainError("content", "DeletePost", shared.ErrNotFound, "post not found")
	}
	delete(f.posts, id)
	return nil
}

func (f *FakeDocuments) InsertComment(_ context.Context, c *content.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("content", "InsertComment")
	}
	c.ID = f.nextID()
	clone := *c
	f.comments[c.ID] = &clone
	return nil
}

func (f *FakeDocuments) ListPostComments(_ context.Context, postID string) ([]*content.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("content", "ListPostComments")
	}
	var comments []*content.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			clone := *c
			comments = append(comments, &clone)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (f *FakeDocuments) DeleteCommentsForPost(_ context.Context, postID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return 0, unavailable("content", "DeleteCommentsForPost")
	}
	var n int64
	for id, c := range f.comments {
		if c.PostID == postID {
			delete(f.comments, id)
			n++
		}
	}
	return n, nil
}

// PostCount reports the number of stored posts.
func (f *FakeDocuments) PostCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

// ─────────────────────────────────────────────────────────────────────────────
// Graph
// ─────────────────────────────────────────────────────────────────────────────

// FakeGraph is an in-memory store.GraphStore. Traversal results
// (FriendOfFriend, GroupsViaFriends) are canned via the Suggest fields since
// the fake does not run Cypher.
type FakeGraph struct {
	mu sync.Mutex

	Down bool

	// Canned traversal results.
	FriendSuggestions []store.FriendSuggestion
	GroupSuggestions  []store.GroupSuggestion
	SharedGroups      []store.GroupRef

	userNodes   map[string]bool
	groupNodes  map[string]bool
	friendships map[string]bool // "a->b"
	memberEdges map[string]string
}

// NewFakeGraph returns an empty graph fake.
func NewFakeGraph() *FakeGraph {
	return &FakeGraph{
		userNodes:   make(map[string]bool),
		groupNodes:  make(map[string]bool),
		friendships: make(map[string]bool),
		memberEdges: make(map[string]string),
	}
}

func (f *FakeGraph) UpsertUserNode(_ context.Context, id, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("graph", "UpsertUserNode")
	}
	f.userNodes[id] = true
	return nil
}

func (f *FakeGraph) UpsertGroupNode(_ context.Context, id, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("graph", "UpsertGroupNode")
	}
	f.groupNodes[id] = true
	return nil
}

func (f *FakeGraph) CreateFriendshipEdge(_ context.Context, userID1, userID2 string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("graph", "CreateFriendshipEdge")
	}
	f.friendships[userID1+"->"+userID2] = true
	f.friendships[userID2+"->"+userID1] = true
	return nil
}

func (f *FakeGraph) UpsertMembershipEdge(_ context.Context, userID, groupID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("graph", "UpsertMembershipEdge")
	}
	f.memberEdges[userID+"/"+groupID] = role
	return nil
}

func (f *FakeGraph) AreFriends(_ context.Context, userID1, userID2 string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return false, unavailable("graph", "AreFriends")
	}
	return f.friendships[userID1+"->"+userID2], nil
}

func (f *FakeGraph) Degree(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return 0, unavailable("graph", "Degree")
	}
	prefix := userID + "->"
	n := 0
	for edge := range f.friendships {
		if len(edge) > len(prefix) && edge[:len(prefix)] == prefix {
			n++
		}
	}
	return n, nil
}

func (f *FakeGraph) FriendOfFriend(_ context.Context, _ string, limit int) ([]store.FriendSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("graph", "FriendOfFriend")
	}
	out := f.FriendSuggestions
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeGraph) GroupsViaFriends(_ context.Context, _ string, limit int) ([]store.GroupSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("graph", "GroupsViaFriends")
	}
	out := f.GroupSuggestions
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeGraph) CommonGroups(_ context.Context, _, _ string) ([]store.GroupRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("graph", "CommonGroups")
	}
	return f.SharedGroups, nil
}

// HasUserNode reports whether the user was mirrored.
func (f *FakeGraph) HasUserNode(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userNodes[id]
}

// HasGroupNode reports whether the group was mirrored.
func (f *FakeGraph) HasGroupNode(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groupNodes[id]
}

// MembershipRole returns the mirrored role for a (user, group) edge.
func (f *FakeGraph) MembershipRole(userID, groupID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	role, ok := f.memberEdges[userID+"/"+groupID]
	return role, ok
}

// ─────────────────────────────────────────────────────────────────────────────
// Fast store
// ─────────────────────────────────────────────────────────────────────────────

type zsetEntry struct {
	member string
	score  float64
}

// FakeFast is an in-memory store.FastStore. TTLs are recorded but only
// honored when the test advances Now.
type FakeFast struct {
	mu sync.Mutex

	Down bool

	// Now is the clock used for TTL expiry. Zero means TTLs never fire.
	Now time.Time

	kv      map[string][]byte
	expiry  map[string]time.Time
	zsets   map[string][]zsetEntry
	lists   map[string][][]byte
	counter map[string]int64
}

// NewFakeFast returns an empty fast-store fake.
func NewFakeFast() *FakeFast {
	return &FakeFast{
		kv:      make(map[string][]byte),
		expiry:  make(map[string]time.Time),
		zsets:   make(map[string][]zsetEntry),
		lists:   make(map[string][][]byte),
		counter: make(map[string]int64),
	}
}

func (f *FakeFast) expired(key string) bool {
	exp, ok := f.expiry[key]
	if !ok || f.Now.IsZero() {
		return false
	}
	return f.Now.After(exp)
}

func (f *FakeFast) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("fast", "SetWithTTL")
	}
	f.kv[key] = value
	if ttl > 0 && !f.Now.IsZero() {
		f.expiry[key] = f.Now.Add(ttl)
	}
	return nil
}

func (f *FakeFast) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("fast", "Get")
	}
	data, ok := f.kv[key]
	if !ok || f.expired(key) {
		return nil, shared.NewDomainError("fast", "Get", shared.ErrNotFound, "key not found")
	}
	return data, nil
}

func (f *FakeFast) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("fast", "Delete")
	}
	delete(f.kv, key)
	delete(f.expiry, key)
	return nil
}

func (f *FakeFast) ZIncrBy(_ context.Context, key, member string, delta float64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return 0, unavailable("fast", "ZIncrBy")
	}
	entries := f.zsets[key]
	for i := range entries {
		if entries[i].member == member {
			entries[i].score += delta
			return entries[i].score, nil
		}
	}
	f.zsets[key] = append(entries, zsetEntry{member: member, score: delta})
	return delta, nil
}

func (f *FakeFast) ZScore(_ context.Context, key, member string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return 0, unavailable("fast", "ZScore")
	}
	for _, e := range f.zsets[key] {
		if e.member == member {
			return e.score, nil
		}
	}
	return 0, shared.NewDomainError("fast", "ZScore", shared.ErrNotFound, "member not scored")
}

func (f *FakeFast) ZAdd(_ context.Context, key, member string, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("fast", "ZAdd")
	}
	entries := f.zsets[key]
	for i := range entries {
		if entries[i].member == member {
			entries[i].score = score
			return nil
		}
	}
	f.zsets[key] = append(entries, zsetEntry{member: member, score: score})
	return nil
}

func (f *FakeFast) ZRem(_ context.Context, key, member string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("fast", "ZRem")
	}
	entries := f.zsets[key]
	for i := range entries {
		if entries[i].member == member {
			f.zsets[key] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *FakeFast) sortedDesc(key string) []zsetEntry {
	entries := make([]zsetEntry, len(f.zsets[key]))
	copy(entries, f.zsets[key])
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})
	return entries
}

func (f *FakeFast) ZRevRange(_ context.Context, key string, start, stop int64) ([]store.ScoredMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("fast", "ZRevRange")
	}
	entries := f.sortedDesc(key)
	if start >= int64(len(entries)) {
		return nil, nil
	}
	if stop < 0 || stop >= int64(len(entries)) {
		stop = int64(len(entries)) - 1
	}
	out := make([]store.ScoredMember, 0, stop-start+1)
	for _, e := range entries[start : stop+1] {
		out = append(out, store.ScoredMember{Member: e.member, Score: e.score})
	}
	return out, nil
}

func (f *FakeFast) ZRevRank(_ context.Context, key, member string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return 0, unavailable("fast", "ZRevRank")
	}
	for i, e := range f.sortedDesc(key) {
		if e.member == member {
			return int64(i), nil
		}
	}
	return 0, shared.NewDomainError("fast", "ZRevRank", shared.ErrNotFound, "member not ranked")
}

func (f *FakeFast) LPushTrim(_ context.Context, key string, value []byte, maxLen int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return unavailable("fast", "LPushTrim")
	}
	list := append([][]byte{value}, f.lists[key]...)
	if int64(len(list)) > maxLen {
		list = list[:maxLen]
	}
	f.lists[key] = list
	return nil
}

func (f *FakeFast) LRange(_ context.Context, key string, start, stop int64) ([][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return nil, unavailable("fast", "LRange")
	}
	list := f.lists[key]
	if start >= int64(len(list)) {
		return nil, nil
	}
	if stop < 0 || stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	out := make([][]byte, 0, stop-start+1)
	out = append(out, list[start:stop+1]...)
	return out, nil
}

func (f *FakeFast) GetOrInitWithTTL(_ context.Context, key string, ttl time.Duration) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return 0, false, unavailable("fast", "GetOrInitWithTTL")
	}
	if f.expired(key) {
		delete(f.counter, key)
		delete(f.expiry, key)
	}
	if _, ok := f.counter[key]; !ok {
		f.counter[key] = 1
		if ttl > 0 && !f.Now.IsZero() {
			f.expiry[key] = f.Now.Add(ttl)
		}
		return 1, true, nil
	}
	return f.counter[key], false, nil
}

func (f *FakeFast) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Down {
		return 0, unavailable("fast", "Incr")
	}
	f.counter[key]++
	return f.counter[key], nil
}

// Score returns a zset member's score for assertions, with ok reporting
// presence.
func (f *FakeFast) Score(key, member string) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.zsets[key] {
		if e.member == member {
			return e.score, true
		}
	}
	return 0, false
}

// HasKey reports whether a cache key is present.
func (f *FakeFast) HasKey(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.kv[key]
	return ok
}

// ListLen reports the length of a bounded list.
func (f *FakeFast) ListLen(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lists[key])
}
