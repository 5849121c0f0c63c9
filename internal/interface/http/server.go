// Package http exposes the orchestration layer as a REST API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusconnect/campusconnect/config"
	"github.com/campusconnect/campusconnect/internal/application/orchestrator"
	"github.com/campusconnect/campusconnect/internal/application/recommend"
	"github.com/campusconnect/campusconnect/internal/store"
	"github.com/campusconnect/campusconnect/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// HealthChecker reports the reachability of one backing store.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies contains everything the HTTP handlers need.
type Dependencies struct {
	Orchestrator *orchestrator.Orchestrator
	Recommender  *recommend.Engine

	// Fast store for the rate-limit middleware.
	Fast store.FastStore

	// Health checks, keyed by store name.
	Health map[string]HealthChecker
}

// Server is the HTTP front of the service.
type Server struct {
	cfg        config.HTTPConfig
	deps       Dependencies
	engine     *gin.Engine
	httpServer *http.Server
	log        *zap.Logger
}

// NewServer builds the router and the underlying http.Server.
func NewServer(cfg config.HTTPConfig, appEnv config.Environment, deps Dependencies) *Server {
	if appEnv == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		engine: gin.New(),
		log:    logger.Get(),
	}

	s.engine.Use(s.requestLogger(), gin.Recovery())
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api/v1")
	api.Use(s.rateLimit())

	// ─────────────────────────────────────────────────────────────────────────
	// Users
	// ─────────────────────────────────────────────────────────────────────────
	api.POST("/users", s.handleCreateUser)
	api.GET("/users/:id", s.handleGetUser)
	api.GET("/users/:id/profile", s.handleGetUserProfile)
	api.GET("/users/:id/groups", s.handleGetUserGroups)
	api.GET("/users/:id/posts", s.handleListUserPosts)
	api.GET("/users/:id/feed", s.handleUserFeed)
	api.POST("/users/:id/friends", s.handleAddFriend)
	api.GET("/users/:id/recommendations/friends", s.handleRecommendFriends)
	api.GET("/users/:id/recommendations/groups", s.handleRecommendGroups)
	api.GET("/users/:id/recommendations/smart", s.handleSmartRecommend)
	api.GET("/users/:id/common-groups/:other", s.handleCommonGroups)

	// ─────────────────────────────────────────────────────────────────────────
	// Groups
	// ─────────────────────────────────────────────────────────────────────────
	api.POST("/groups", s.handleCreateGroup)
	api.GET("/groups", s.handleListGroups)
	api.GET("/groups/:id", s.handleGetGroup)
	api.POST("/groups/:id/members", s.handleJoinGroup)
	api.GET("/groups/:id/members", s.handleGetGroupMembers)
	api.GET("/groups/:id/activity", s.handleGroupActivity)
	api.GET("/groups/:id/posts", s.handleGroupFeed)
	api.POST("/groups/:id/posts", s.handleCreatePost)

	// ─────────────────────────────────────────────────────────────────────────
	// Posts and comments
	// ─────────────────────────────────────────────────────────────────────────
	api.GET("/posts/:id", s.handleGetPost)
	api.DELETE("/posts/:id", s.handleDeletePost)
	api.POST("/posts/:id/comments", s.handleCreateComment)
	api.GET("/posts/:id/comments", s.handleGetPostComments)

	// ─────────────────────────────────────────────────────────────────────────
	// Derived views
	// ─────────────────────────────────────────────────────────────────────────
	api.GET("/trending", s.handleHotPosts)
	api.GET("/search/posts", s.handleSearchPosts)
	api.GET("/leaderboard", s.handleLeaderboard)
}

// Start begins serving. Blocks until the listener stops.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth reports the reachability of every backing store. The service
// is degraded, not down, when a derived store is unreachable, but the
// endpoint reports every failing store either way.
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stores := make(map[string]string, len(s.deps.Health))
	healthy := true
	for name, checker := range s.deps.Health {
		if err := checker.Ping(ctx); err != nil {
			stores[name] = "unreachable"
			healthy = false
			continue
		}
		stores[name] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status": map[bool]string{true: "healthy", false: "degraded"}[healthy],
		"stores": stores,
	})
}
