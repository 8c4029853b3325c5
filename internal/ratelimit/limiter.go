package ratelimit

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/invoicer/internal/config"
	"github.com/smallbiznis/invoicer/internal/observability/metrics"
	"github.com/smallbiznis/invoicer/internal/ownercontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyOwnerWrites = "invoicer:ratelimit:owner:%s"

type OwnerLimiterParams struct {
	fx.In

	Config  config.Config
	Client  redis.UniversalClient `optional:"true"`
	Metrics *metrics.Metrics      `optional:"true"`
	Log     *zap.Logger
}

// OwnerLimiter throttles write requests per owner.
type OwnerLimiter struct {
	bucket  *TokenBucket
	rate    float64
	burst   int
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewOwnerLimiter(p OwnerLimiterParams) *OwnerLimiter {
	l := &OwnerLimiter{
		rate:    p.Config.Limits.RPS,
		burst:   p.Config.Limits.Burst,
		metrics: p.Metrics,
		log:     p.Log.Named("ratelimit"),
	}
	if p.Client != nil && l.rate > 0 && l.burst > 0 {
		l.bucket = NewTokenBucket(p.Client)
	}
	return l
}

func (l *OwnerLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Middleware must run after authentication. Redis failures let the request
// through.
func (l *OwnerLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Enabled() {
			c.Next()
			return
		}

		ownerID, ok := ownercontext.OwnerIDFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		endpoint := c.FullPath()
		res, err := l.bucket.Allow(c.Request.Context(), fmt.Sprintf(keyOwnerWrites, ownerID), l.rate, l.burst)
		if err != nil {
			l.log.Warn("rate limit check failed", zap.String("owner_id", ownerID), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
		if !res.Allowed {
			l.metrics.RecordRateLimitDenied(c.Request.Context(), endpoint, "owner")
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests",
			})
			return
		}

		l.metrics.RecordRateLimitAllowed(c.Request.Context(), endpoint)
		c.Next()
	}
}
