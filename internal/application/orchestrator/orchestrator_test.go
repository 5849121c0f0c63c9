package orchestrator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campusconnect/internal/application/orchestrator"
	"github.com/campusconnect/campusconnect/internal/cache"
	"github.com/campusconnect/campusconnect/internal/domain/activity"
	"github.com/campusconnect/campusconnect/internal/domain/content"
	"github.com/campusconnect/campusconnect/internal/domain/group"
	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/domain/user"
	"github.com/campusconnect/campusconnect/internal/ranking"
	"github.com/campusconnect/campusconnect/internal/store/storetest"
	"github.com/campusconnect/campusconnect/internal/stream"
)

type fixture struct {
	rel   *storetest.FakeRelational
	docs  *storetest.FakeDocuments
	graph *storetest.FakeGraph
	fast  *storetest.FakeFast
	orch  *orchestrator.Orchestrator
}

func newFixture() *fixture {
	rel := storetest.NewFakeRelational()
	docs := storetest.NewFakeDocuments()
	graph := storetest.NewFakeGraph()
	fast := storetest.NewFakeFast()

	orch := orchestrator.New(
		rel, docs, graph,
		cache.New(fast, time.Hour),
		stream.New(fast, 100),
		ranking.NewLeaderboard(fast),
		ranking.NewHotItems(fast),
	)

	return &fixture{rel: rel, docs: docs, graph: graph, fast: fast, orch: orch}
}

func (f *fixture) mustCreateUser(t *testing.T, email, name string) *user.User {
	t.Helper()
	res, err := f.orch.CreateUser(context.Background(), email, name)
	require.NoError(t, err)
	return res.User
}

func (f *fixture) mustCreateGroup(t *testing.T, name, course string) *group.Group {
	t.Helper()
	res, err := f.orch.CreateGroup(context.Background(), name, course)
	require.NoError(t, err)
	return res.Group
}

func (f *fixture) mustJoin(t *testing.T, userID, groupID string) {
	t.Helper()
	_, err := f.orch.JoinGroup(context.Background(), userID, groupID, "")
	require.NoError(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateUser(t *testing.T) {
	f := newFixture()

	res, err := f.orch.CreateUser(context.Background(), "Alice@Example.COM", "Alice Liddell")
	require.NoError(t, err)

	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Empty(t, res.Warnings)
	assert.True(t, f.graph.HasUserNode(res.User.ID))
	assert.True(t, f.fast.HasKey(cache.Key(cache.KindUser, res.User.ID)), "cache is warmed on creation")
}

func TestCreateUserGraphDown(t *testing.T) {
	f := newFixture()
	f.graph.Down = true

	res, err := f.orch.CreateUser(context.Background(), "bob@example.com", "Bob")
	require.NoError(t, err)

	assert.Len(t, res.Warnings, 1)

	// The authoritative write survived the degraded mirror.
	stored, err := f.rel.GetUserByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, stored.ID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	f := newFixture()
	f.mustCreateUser(t, "carol@example.com", "Carol")

	_, err := f.orch.CreateUser(context.Background(), "carol@example.com", "Other Carol")
	assert.True(t, shared.IsConflict(err))
}

func TestCreateUserInvalidEmail(t *testing.T) {
	f := newFixture()

	_, err := f.orch.CreateUser(context.Background(), "not-an-email", "Nobody")
	assert.True(t, shared.IsValidation(err))
}

func TestGetUserCacheAside(t *testing.T) {
	f := newFixture()

	// Seed the relational store directly so the cache starts cold.
	u, err := user.New("dora@example.com", "Dora")
	require.NoError(t, err)
	require.NoError(t, f.rel.InsertUser(context.Background(), u))

	got, fromCache, err := f.orch.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, f.fast.HasKey("user:"+u.ID))

	reads := f.rel.GetUserCalls()
	got, fromCache, err = f.orch.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, reads, f.rel.GetUserCalls(), "cached read must not hit the relational store")
}

func TestGetUserNotFound(t *testing.T) {
	f := newFixture()

	_, _, err := f.orch.GetUser(context.Background(), "missing")
	assert.True(t, shared.IsNotFound(err))
}

func TestGetUserProfile(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "eve@example.com", "Eve")
	friend := f.mustCreateUser(t, "frank@example.com", "Frank")
	g := f.mustCreateGroup(t, "Algorithms", "cs202")
	f.mustJoin(t, u.ID, g.ID)
	require.NoError(t, f.orch.AddFriend(context.Background(), u.ID, friend.ID))

	p, err := f.orch.GetUserProfile(context.Background(), u.ID)
	require.NoError(t, err)

	assert.Equal(t, u.ID, p.User.ID)
	assert.Len(t, p.Groups, 1)
	assert.Equal(t, 1, p.FriendCount)
	assert.Equal(t, float64(ranking.PointsJoinGroup), p.Points)
	assert.Equal(t, int64(1), p.Rank)
}

func TestAddFriend(t *testing.T) {
	f := newFixture()
	a := f.mustCreateUser(t, "a@example.com", "A")
	b := f.mustCreateUser(t, "b@example.com", "B")

	require.NoError(t, f.orch.AddFriend(context.Background(), a.ID, b.ID))

	both, err := f.graph.AreFriends(context.Background(), b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, both, "friendship must be symmetric")

	// Friend counts are enrichment fields, so both cached users are dropped.
	assert.False(t, f.fast.HasKey(cache.Key(cache.KindUser, a.ID)))
	assert.False(t, f.fast.HasKey(cache.Key(cache.KindUser, b.ID)))

	err = f.orch.AddFriend(context.Background(), a.ID, b.ID)
	assert.True(t, shared.IsConflict(err))

	err = f.orch.AddFriend(context.Background(), a.ID, a.ID)
	assert.True(t, shared.IsValidation(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Groups
// ─────────────────────────────────────────────────────────────────────────────

func TestJoinGroup(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "gina@example.com", "Gina")
	g := f.mustCreateGroup(t, "Databases", "CS301")

	res, err := f.orch.JoinGroup(context.Background(), u.ID, g.ID, "")
	require.NoError(t, err)

	assert.Equal(t, group.RoleMember, res.Membership.Role)
	assert.Equal(t, float64(ranking.PointsJoinGroup), res.Points)
	assert.Empty(t, res.Warnings)

	role, ok := f.graph.MembershipRole(u.ID, g.ID)
	assert.True(t, ok)
	assert.Equal(t, group.RoleMember, role)

	assert.Equal(t, 1, f.fast.ListLen(stream.Key(g.ID)))
}

func TestJoinGroupIdempotent(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "hugo@example.com", "Hugo")
	g := f.mustCreateGroup(t, "Networks", "CS305")

	f.mustJoin(t, u.ID, g.ID)
	res, err := f.orch.JoinGroup(context.Background(), u.ID, g.ID, group.RoleModerator)
	require.NoError(t, err)

	assert.Equal(t, 1, f.rel.MembershipCount())
	assert.Equal(t, group.RoleModerator, res.Membership.Role)
}

func TestJoinGroupFastStoreDown(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "iris@example.com", "Iris")
	g := f.mustCreateGroup(t, "Compilers", "CS401")
	f.fast.Down = true

	res, err := f.orch.JoinGroup(context.Background(), u.ID, g.ID, "")
	require.NoError(t, err, "derived store failures must not fail the join")

	// Points, activity entry, and cache invalidation all skipped.
	assert.Len(t, res.Warnings, 3)

	member, err := f.rel.IsMember(context.Background(), u.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, member)
}

func TestJoinGroupUnknownUser(t *testing.T) {
	f := newFixture()
	g := f.mustCreateGroup(t, "Ethics", "PHIL101")

	_, err := f.orch.JoinGroup(context.Background(), "missing", g.ID, "")
	assert.True(t, shared.IsNotFound(err))
}

func TestGetGroupSummary(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "jane@example.com", "Jane")
	g := f.mustCreateGroup(t, "Statistics", "MATH210")
	f.mustJoin(t, u.ID, g.ID)

	_, err := f.orch.CreatePost(context.Background(), u.ID, g.ID, content.TypeNote, "Week 1 notes", "", nil)
	require.NoError(t, err)

	summary, fromCache, err := f.orch.GetGroup(context.Background(), g.ID)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 1, summary.MemberCount)
	assert.Equal(t, int64(1), summary.PostCount)

	_, fromCache, err = f.orch.GetGroup(context.Background(), g.ID)
	require.NoError(t, err)
	assert.True(t, fromCache)
}

func TestGetGroupSummaryDocumentStoreDown(t *testing.T) {
	f := newFixture()

	// Seed the relational store directly so the summary is assembled fresh.
	g, err := group.New("Geology", "GEO110")
	require.NoError(t, err)
	require.NoError(t, f.rel.InsertGroup(context.Background(), g))
	f.docs.Down = true

	summary, fromCache, err := f.orch.GetGroup(context.Background(), g.ID)
	require.NoError(t, err, "post count is a derived enrichment")
	assert.False(t, fromCache)
	assert.Equal(t, int64(0), summary.PostCount)
}

func TestJoinGroupInvalidatesCachedSummary(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "kyle@example.com", "Kyle")
	g := f.mustCreateGroup(t, "Painting", "ART100")

	_, _, err := f.orch.GetGroup(context.Background(), g.ID)
	require.NoError(t, err)
	require.True(t, f.fast.HasKey(cache.Key(cache.KindGroup, g.ID)))

	f.mustJoin(t, u.ID, g.ID)
	assert.False(t, f.fast.HasKey(cache.Key(cache.KindGroup, g.ID)))

	summary, _, err := f.orch.GetGroup(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.MemberCount)
}

// ─────────────────────────────────────────────────────────────────────────────
// Posts
// ─────────────────────────────────────────────────────────────────────────────

func TestCreatePostRequiresMembership(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "lena@example.com", "Lena")
	g := f.mustCreateGroup(t, "Robotics", "ENG330")

	_, err := f.orch.CreatePost(context.Background(), u.ID, g.ID, content.TypeQuestion, "How do servos work?", "", nil)
	assert.True(t, shared.IsForbidden(err))

	// Rejected before anything was written anywhere.
	assert.Equal(t, 0, f.docs.PostCount())
	_, ok := f.fast.Score(ranking.LeaderboardKey, u.ID)
	assert.False(t, ok)
}

func TestCreatePost(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "mia@example.com", "Mia")
	g := f.mustCreateGroup(t, "Linear Algebra", "MATH220")
	f.mustJoin(t, u.ID, g.ID)

	res, err := f.orch.CreatePost(context.Background(), u.ID, g.ID, content.TypeResource, "Cheat sheet", "All the identities", []string{"Exam", "exam", " notes "})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Post.ID)
	assert.Equal(t, []string{"exam", "notes"}, res.Post.Tags)
	assert.Empty(t, res.Warnings)

	score, ok := f.fast.Score(ranking.LeaderboardKey, u.ID)
	require.True(t, ok)
	assert.Equal(t, float64(ranking.PointsJoinGroup+ranking.PointsCreatePost), score)

	hotScore, ranked := f.fast.Score(ranking.HotPostsKey, res.Post.ID)
	require.True(t, ranked, "new posts enter the hot ranking")
	assert.Equal(t, float64(res.Post.CreatedAt.Unix()), hotScore)

	// Join + post in the group's stream.
	assert.Equal(t, 2, f.fast.ListLen(stream.Key(g.ID)))
}

func TestCreatePostInvalidType(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "nick@example.com", "Nick")
	g := f.mustCreateGroup(t, "Chemistry", "CHEM101")
	f.mustJoin(t, u.ID, g.ID)

	_, err := f.orch.CreatePost(context.Background(), u.ID, g.ID, "poll", "Vote now", "", nil)
	assert.True(t, shared.IsValidation(err))
}

func TestDeletePost(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "olga@example.com", "Olga")
	commenter := f.mustCreateUser(t, "pete@example.com", "Pete")
	g := f.mustCreateGroup(t, "History", "HIST200")
	f.mustJoin(t, u.ID, g.ID)

	post, err := f.orch.CreatePost(context.Background(), u.ID, g.ID, content.TypeQuestion, "Sources for essay?", "", nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := f.orch.CreateComment(context.Background(), post.Post.ID, commenter.ID, "try the library")
		require.NoError(t, err)
	}

	res, err := f.orch.DeletePost(context.Background(), post.Post.ID, u.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.CommentsDeleted)
	assert.Equal(t, float64(ranking.PointsCreatePost), res.PointsDeducted)
	assert.Empty(t, res.Warnings)

	_, err = f.orch.GetPost(context.Background(), post.Post.ID)
	assert.True(t, shared.IsNotFound(err))

	_, ranked := f.fast.Score(ranking.HotPostsKey, post.Post.ID)
	assert.False(t, ranked)

	// +5 join, +10 post, -10 deletion.
	score, _ := f.fast.Score(ranking.LeaderboardKey, u.ID)
	assert.Equal(t, float64(ranking.PointsJoinGroup), score)
}

func TestDeletePostOnlyAuthor(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "quinn@example.com", "Quinn")
	other := f.mustCreateUser(t, "rosa@example.com", "Rosa")
	g := f.mustCreateGroup(t, "Film", "ART210")
	f.mustJoin(t, u.ID, g.ID)

	post, err := f.orch.CreatePost(context.Background(), u.ID, g.ID, content.TypeNote, "Screening notes", "", nil)
	require.NoError(t, err)

	_, err = f.orch.DeletePost(context.Background(), post.Post.ID, other.ID)
	assert.True(t, shared.IsForbidden(err))

	_, err = f.orch.GetPost(context.Background(), post.Post.ID)
	assert.NoError(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Comments and hot posts
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateComment(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "sam@example.com", "Sam")
	g := f.mustCreateGroup(t, "Biology", "BIO150")
	f.mustJoin(t, u.ID, g.ID)

	post, err := f.orch.CreatePost(context.Background(), u.ID, g.ID, content.TypeQuestion, "Mitosis vs meiosis?", "", nil)
	require.NoError(t, err)

	res, err := f.orch.CreateComment(context.Background(), post.Post.ID, u.ID, "See chapter 4")
	require.NoError(t, err)

	assert.NotEmpty(t, res.Comment.ID)
	assert.Empty(t, res.Warnings)

	// The comment refreshes the post's recency score.
	hotScore, ok := f.fast.Score(ranking.HotPostsKey, post.Post.ID)
	require.True(t, ok)
	assert.Equal(t, float64(res.Comment.CreatedAt.Unix()), hotScore)
	assert.GreaterOrEqual(t, hotScore, float64(post.Post.CreatedAt.Unix()))
}

func TestCreateCommentMissingPost(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "tina@example.com", "Tina")

	_, err := f.orch.CreateComment(context.Background(), "missing", u.ID, "hello?")
	assert.True(t, shared.IsNotFound(err))
}

func TestGetHotPostsDropsStaleEntries(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "uma@example.com", "Uma")
	g := f.mustCreateGroup(t, "Physics", "PHYS101")
	f.mustJoin(t, u.ID, g.ID)

	post, err := f.orch.CreatePost(context.Background(), u.ID, g.ID, content.TypeNote, "Lecture recap", "", nil)
	require.NoError(t, err)

	_, err = f.orch.CreateComment(context.Background(), post.Post.ID, u.ID, "thanks")
	require.NoError(t, err)

	// A ranking entry whose post is gone from the document store.
	require.NoError(t, f.fast.ZAdd(context.Background(), ranking.HotPostsKey, "vanished", 99))

	views, err := f.orch.GetHotPosts(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, post.Post.ID, views[0].Post.ID)
	assert.Equal(t, "Uma", views[0].AuthorName)
}

func TestGroupFeedEnrichment(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "wren@example.com", "Wren")
	g := f.mustCreateGroup(t, "Astronomy", "PHYS210")
	f.mustJoin(t, u.ID, g.ID)

	_, err := f.orch.CreatePost(context.Background(), u.ID, g.ID, content.TypeResource, "Star charts", "", nil)
	require.NoError(t, err)

	items, err := f.orch.GetGroupFeed(context.Background(), g.ID, 10, 0)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "Star charts", items[0].Post.Title)
	assert.Equal(t, "Wren", items[0].AuthorName)
	assert.Equal(t, "Astronomy", items[0].GroupName)
}

func TestGetPostCommentsEnrichment(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "yuri@example.com", "Yuri")
	g := f.mustCreateGroup(t, "Topology", "MATH330")
	f.mustJoin(t, u.ID, g.ID)

	post, err := f.orch.CreatePost(context.Background(), u.ID, g.ID, content.TypeQuestion, "Homeomorphisms?", "", nil)
	require.NoError(t, err)

	_, err = f.orch.CreateComment(context.Background(), post.Post.ID, u.ID, "coffee cup, donut")
	require.NoError(t, err)

	views, err := f.orch.GetPostComments(context.Background(), post.Post.ID)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "coffee cup, donut", views[0].Comment.Body)
	assert.Equal(t, "Yuri", views[0].AuthorName)
}

// ─────────────────────────────────────────────────────────────────────────────
// Activity
// ─────────────────────────────────────────────────────────────────────────────

func TestRecentActivity(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "vera@example.com", "Vera")
	g := f.mustCreateGroup(t, "Poetry", "LIT120")
	f.mustJoin(t, u.ID, g.ID)

	_, err := f.orch.CreatePost(context.Background(), u.ID, g.ID, content.TypeNote, "Haiku drafts", "", nil)
	require.NoError(t, err)

	entries, err := f.orch.RecentActivity(context.Background(), g.ID, 10)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, activity.TypePost, entries[0].Type)
	assert.Equal(t, activity.TypeJoin, entries[1].Type)
}

func TestRecentActivityForUserMergesStreams(t *testing.T) {
	f := newFixture()
	u := f.mustCreateUser(t, "walt@example.com", "Walt")
	g1 := f.mustCreateGroup(t, "Drawing", "ART120")
	g2 := f.mustCreateGroup(t, "Sculpture", "ART130")
	f.mustJoin(t, u.ID, g1.ID)
	f.mustJoin(t, u.ID, g2.ID)

	_, err := f.orch.CreatePost(context.Background(), u.ID, g2.ID, content.TypeNote, "Clay basics", "", nil)
	require.NoError(t, err)

	entries, err := f.orch.RecentActivityForUser(context.Background(), u.ID, 10)
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, activity.TypePost, entries[0].Type)
	assert.Equal(t, g2.ID, entries[0].GroupID)
}
