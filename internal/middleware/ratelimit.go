package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/share2teach-api/internal/service"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
	"github.com/noah-isme/share2teach-api/pkg/ratelimit"
	"github.com/noah-isme/share2teach-api/pkg/response"
)

// RateLimit counts requests per client IP. When the limiter backend fails the request is rejected
// with ErrUpstream unless failOpen is set, in which case it is let through.
func RateLimit(limiter ratelimit.Limiter, failOpen bool, metrics *service.MetricsService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err), zap.Bool("fail_open", failOpen))
			if failOpen {
				c.Next()
				return
			}
			response.Abort(c, appErrors.Clone(appErrors.ErrUpstream, "Rate limiter unavailable"))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			metrics.RecordRateLimited()
			response.Abort(c, appErrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
