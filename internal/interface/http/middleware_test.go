package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusconnect/campusconnect/config"
	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/store/storetest"
)

func newTestServer(fast *storetest.FakeFast, max int64) *gin.Engine {
	gin.SetMode(gin.TestMode)

	s := &Server{
		cfg: config.HTTPConfig{
			RateLimitWindow: time.Minute,
			RateLimitMax:    max,
		},
		deps: Dependencies{Fast: fast},
		log:  zap.NewNop(),
	}

	engine := gin.New()
	engine.Use(s.rateLimit())
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func doPing(engine *gin.Engine, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimitAllowsWithinWindow(t *testing.T) {
	fast := storetest.NewFakeFast()
	engine := newTestServer(fast, 3)

	for i := 0; i < 3; i++ {
		w := doPing(engine, "u1")
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	fast := storetest.NewFakeFast()
	engine := newTestServer(fast, 2)

	require.Equal(t, http.StatusOK, doPing(engine, "u1").Code)
	require.Equal(t, http.StatusOK, doPing(engine, "u1").Code)

	w := doPing(engine, "u1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitPerCaller(t *testing.T) {
	fast := storetest.NewFakeFast()
	engine := newTestServer(fast, 1)

	require.Equal(t, http.StatusOK, doPing(engine, "u1").Code)
	require.Equal(t, http.StatusTooManyRequests, doPing(engine, "u1").Code)

	// A different caller has its own window.
	assert.Equal(t, http.StatusOK, doPing(engine, "u2").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	fast := storetest.NewFakeFast()
	fast.Down = true
	engine := newTestServer(fast, 1)

	for i := 0; i < 5; i++ {
		w := doPing(engine, "u1")
		require.Equal(t, http.StatusOK, w.Code, "requests pass when the fast store is unreachable")
	}
}

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Server{log: zap.NewNop()}

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", shared.NewDomainError("identity", "CreateUser", shared.ErrValidation, "email is required"), http.StatusBadRequest},
		{"not found", shared.NewDomainError("identity", "GetUser", shared.ErrNotFound, "user not found"), http.StatusNotFound},
		{"conflict", shared.NewDomainError("identity", "CreateUser", shared.ErrConflict, "email already registered"), http.StatusConflict},
		{"forbidden", shared.NewDomainError("content", "CreatePost", shared.ErrForbidden, "author is not a member of the group"), http.StatusForbidden},
		{"unavailable", shared.NewDomainError("graph", "AreFriends", shared.ErrUnavailable, "graph store unreachable"), http.StatusServiceUnavailable},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			s.respondError(c, tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
