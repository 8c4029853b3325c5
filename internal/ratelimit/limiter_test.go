package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/invoicer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOwnerLimiter_DisabledWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewOwnerLimiter(OwnerLimiterParams{
		Config: config.Config{Limits: config.RateLimitConfig{RPS: 1, Burst: 1}},
		Log:    zap.NewNop(),
	})
	assert.False(t, l.Enabled())

	r := gin.New()
	r.POST("/invoices", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invoices", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)
	}
}

func TestTokenBucket_NilAndValidation(t *testing.T) {
	var nilBucket *TokenBucket
	_, err := nilBucket.Allow(context.Background(), "k", 1, 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, NewTokenBucket(nil))
}

func TestLocker_Nil(t *testing.T) {
	assert.Nil(t, NewLocker(nil))

	var l *Locker
	_, ok, err := l.TryLock(context.Background(), "k", time.Second)
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, ok)
	assert.NoError(t, l.Release(context.Background(), "k", "t"))
}

func TestLocker_RejectsBadKeyAndTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	l := NewLocker(client)
	require.NotNil(t, l)
	ctx := context.Background()

	_, ok, err := l.TryLock(ctx, "   ", time.Second)
	assert.ErrorIs(t, err, ErrLockKeyEmpty)
	assert.False(t, ok)

	_, ok, err = l.TryLock(ctx, "invoicer:lock:invoice:1", 0)
	assert.ErrorIs(t, err, ErrLockTTLInvalid)
	assert.False(t, ok)

	assert.NoError(t, l.Release(ctx, "invoicer:lock:invoice:1", ""))
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, time.Second, defaultBucketTTL(0, 0))
	assert.Equal(t, 8*time.Second, defaultBucketTTL(5, 20))
	assert.Equal(t, time.Second, defaultBucketTTL(100, 1))
}

func TestScriptResultConversion(t *testing.T) {
	assert.Equal(t, int64(1), toInt64(int64(1)))
	assert.Equal(t, int64(0), toInt64(nil))
	assert.InDelta(t, 2.5, toFloat64("2.5"), 1e-9)
	assert.InDelta(t, 3, toFloat64(int64(3)), 1e-9)
}
