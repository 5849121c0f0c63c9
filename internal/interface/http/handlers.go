package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/campusconnect/internal/domain/content"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createUserRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// handleCreateUser handles POST /api/v1/users.
func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and full_name are required"})
		return
	}

	res, err := s.deps.Orchestrator.CreateUser(c.Request.Context(), req.Email, req.FullName)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// handleGetUser handles GET /api/v1/users/:id.
func (s *Server) handleGetUser(c *gin.Context) {
	u, fromCache, err := s.deps.Orchestrator.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u, "source": sourceLabel(fromCache)})
}

// handleGetUserProfile handles GET /api/v1/users/:id/profile.
func (s *Server) handleGetUserProfile(c *gin.Context) {
	p, err := s.deps.Orchestrator.GetUserProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// handleGetUserGroups handles GET /api/v1/users/:id/groups.
func (s *Server) handleGetUserGroups(c *gin.Context) {
	groups, err := s.deps.Orchestrator.GetUserGroups(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// handleListUserPosts handles GET /api/v1/users/:id/posts.
func (s *Server) handleListUserPosts(c *gin.Context) {
	posts, err := s.deps.Orchestrator.ListUserPosts(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 20))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// handleUserFeed handles GET /api/v1/users/:id/feed.
func (s *Server) handleUserFeed(c *gin.Context) {
	entries, err := s.deps.Orchestrator.RecentActivityForUser(c.Request.Context(), c.Param("id"), int64(queryInt(c, "limit", 50)))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

type addFriendRequest struct {
	FriendID string `json:"friend_id" binding:"required"`
}

// handleAddFriend handles POST /api/v1/users/:id/friends.
func (s *Server) handleAddFriend(c *gin.Context) {
	var req addFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "friend_id is required"})
		return
	}

	if err := s.deps.Orchestrator.AddFriend(c.Request.Context(), c.Param("id"), req.FriendID); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "friends"})
}

// ══════════════════════════════════════════════════════════════════════════════
// GROUP HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createGroupRequest struct {
	Name       string `json:"name" binding:"required"`
	CourseCode string `json:"course_code" binding:"required"`
}

// handleCreateGroup handles POST /api/v1/groups.
func (s *Server) handleCreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and course_code are required"})
		return
	}

	res, err := s.deps.Orchestrator.CreateGroup(c.Request.Context(), req.Name, req.CourseCode)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// handleListGroups handles GET /api/v1/groups.
func (s *Server) handleListGroups(c *gin.Context) {
	groups, err := s.deps.Orchestrator.ListGroups(c.Request.Context(), queryInt(c, "limit", 50))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// handleGetGroup handles GET /api/v1/groups/:id.
func (s *Server) handleGetGroup(c *gin.Context) {
	summary, fromCache, err := s.deps.Orchestrator.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": summary, "source": sourceLabel(fromCache)})
}

type joinGroupRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

// handleJoinGroup handles POST /api/v1/groups/:id/members.
func (s *Server) handleJoinGroup(c *gin.Context) {
	var req joinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	res, err := s.deps.Orchestrator.JoinGroup(c.Request.Context(), req.UserID, c.Param("id"), req.Role)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// handleGetGroupMembers handles GET /api/v1/groups/:id/members.
func (s *Server) handleGetGroupMembers(c *gin.Context) {
	members, err := s.deps.Orchestrator.GetGroupMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// handleGroupActivity handles GET /api/v1/groups/:id/activity.
func (s *Server) handleGroupActivity(c *gin.Context) {
	entries, err := s.deps.Orchestrator.RecentActivity(c.Request.Context(), c.Param("id"), int64(queryInt(c, "limit", 50)))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

// ══════════════════════════════════════════════════════════════════════════════
// POST AND COMMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createPostRequest struct {
	AuthorID string   `json:"author_id" binding:"required"`
	Type     string   `json:"type" binding:"required"`
	Title    string   `json:"title" binding:"required"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
}

// handleCreatePost handles POST /api/v1/groups/:id/posts.
func (s *Server) handleCreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "author_id, type, and title are required"})
		return
	}

	res, err := s.deps.Orchestrator.CreatePost(
		c.Request.Context(),
		req.AuthorID, c.Param("id"),
		content.PostType(req.Type), req.Title, req.Body, req.Tags,
	)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// handleGroupFeed handles GET /api/v1/groups/:id/posts.
func (s *Server) handleGroupFeed(c *gin.Context) {
	posts, err := s.deps.Orchestrator.GetGroupFeed(
		c.Request.Context(), c.Param("id"),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0),
	)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// handleGetPost handles GET /api/v1/posts/:id.
func (s *Server) handleGetPost(c *gin.Context) {
	p, err := s.deps.Orchestrator.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": p})
}

// handleDeletePost handles DELETE /api/v1/posts/:id. The requester is
// identified by the X-User-ID header.
func (s *Server) handleDeletePost(c *gin.Context) {
	requester := c.GetHeader("X-User-ID")
	if requester == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-ID header is required"})
		return
	}

	res, err := s.deps.Orchestrator.DeletePost(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type createCommentRequest struct {
	AuthorID string `json:"author_id" binding:"required"`
	Body     string `json:"body" binding:"required"`
}

// handleCreateComment handles POST /api/v1/posts/:id/comments.
func (s *Server) handleCreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "author_id and body are required"})
		return
	}

	res, err := s.deps.Orchestrator.CreateComment(c.Request.Context(), c.Param("id"), req.AuthorID, req.Body)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// handleGetPostComments handles GET /api/v1/posts/:id/comments.
func (s *Server) handleGetPostComments(c *gin.Context) {
	comments, err := s.deps.Orchestrator.GetPostComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// ══════════════════════════════════════════════════════════════════════════════
// DERIVED VIEW HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleHotPosts handles GET /api/v1/trending.
func (s *Server) handleHotPosts(c *gin.Context) {
	posts, err := s.deps.Orchestrator.GetHotPosts(c.Request.Context(), int64(queryInt(c, "limit", 10)))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// handleSearchPosts handles GET /api/v1/search/posts?tags=a,b.
func (s *Server) handleSearchPosts(c *gin.Context) {
	raw := c.Query("tags")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tags query parameter is required"})
		return
	}

	posts, err := s.deps.Orchestrator.SearchPostsByTags(
		c.Request.Context(), strings.Split(raw, ","), queryInt(c, "limit", 20),
	)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// handleLeaderboard handles GET /api/v1/leaderboard.
func (s *Server) handleLeaderboard(c *gin.Context) {
	rows, err := s.deps.Recommender.Leaderboard(c.Request.Context(), int64(queryInt(c, "limit", 10)))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMENDATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRecommendFriends handles GET /api/v1/users/:id/recommendations/friends.
func (s *Server) handleRecommendFriends(c *gin.Context) {
	recs, err := s.deps.Recommender.RecommendFriends(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 10))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// handleRecommendGroups handles GET /api/v1/users/:id/recommendations/groups.
func (s *Server) handleRecommendGroups(c *gin.Context) {
	recs, err := s.deps.Recommender.RecommendGroups(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 10))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// handleSmartRecommend handles GET /api/v1/users/:id/recommendations/smart.
func (s *Server) handleSmartRecommend(c *gin.Context) {
	recs, err := s.deps.Recommender.SmartRecommend(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// handleCommonGroups handles GET /api/v1/users/:id/common-groups/:other.
func (s *Server) handleCommonGroups(c *gin.Context) {
	groups, err := s.deps.Recommender.CommonGroups(c.Request.Context(), c.Param("id"), c.Param("other"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func queryInt(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func sourceLabel(fromCache bool) string {
	if fromCache {
		return "cache"
	}
	return "store"
}
