package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusconnect/campusconnect/internal/domain/shared"
)

// requestLogger logs every request with its status and latency.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// rateLimit enforces a per-caller fixed window on the fast store. The caller
// is identified by the X-User-ID header when present, otherwise by client
// IP. When the fast store cannot answer, requests pass: rate limiting is a
// derived concern and must not take the API down with it.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.GetHeader("X-User-ID")
		if caller == "" {
			caller = c.ClientIP()
		}
		key := "ratelimit:user:" + caller

		count, created, err := s.deps.Fast.GetOrInitWithTTL(c.Request.Context(), key, s.cfg.RateLimitWindow)
		if err != nil {
			s.log.Warn("rate limiter degraded", zap.Error(err))
			c.Next()
			return
		}
		if created {
			c.Next()
			return
		}

		if count >= s.cfg.RateLimitMax {
			c.Header("Retry-After", s.cfg.RateLimitWindow.String())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		if _, err := s.deps.Fast.Incr(c.Request.Context(), key); err != nil {
			s.log.Warn("rate limiter degraded", zap.Error(err))
		}
		c.Next()
	}
}

// respondError maps the error taxonomy onto HTTP status codes.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case shared.IsValidation(err):
		status = http.StatusBadRequest
	case shared.IsNotFound(err):
		status = http.StatusNotFound
	case shared.IsConflict(err):
		status = http.StatusConflict
	case shared.IsForbidden(err):
		status = http.StatusForbidden
	case shared.IsUnavailable(err):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		s.log.Error("request failed", zap.Error(err))
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
