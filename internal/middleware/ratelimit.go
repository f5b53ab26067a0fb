package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orgs-directory/backend/internal/auth"
	"github.com/orgs-directory/backend/internal/metrics"
	"github.com/orgs-directory/backend/pkg/response"
)

// Counter records a hit for key and returns the hits in the current window.
type Counter interface {
	Hit(ctx context.Context, key string) (int64, error)
}

// RateLimit rejects requests beyond limit per window with 429. Token holders are counted per
// subject, everyone else per client IP. Counter errors let the request through.
// Must run after Auth so the client is known.
func RateLimit(counter Counter, limit int, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if client := c.GetString(ContextClient); client != "" && client != auth.DefaultSubject {
			key = "sub:" + client
		}
		n, err := counter.Hit(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		remaining := int64(limit) - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if n > int64(limit) {
			metrics.RateLimitedTotal.Inc()
			response.TooManyRequests(c, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
