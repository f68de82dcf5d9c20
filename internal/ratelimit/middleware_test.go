package ratelimit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/0knotok/cloud-demo-throttling/internal/domain"
)

func newRouter(l *Limiter, b Bucket, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/upload", Middleware(l, b), func(c *gin.Context) {
		*calls++
		c.Status(http.StatusOK)
	})
	return r
}

func TestMiddleware_EleventhUploadIsRejected(t *testing.T) {
	clock := newFakeClock()
	l := New(NewMemoryStore(), zap.NewNop(), WithClock(clock.Now))
	calls := 0
	r := newRouter(l, UploadBucket(10, time.Minute), &calls)

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		r.ServeHTTP(last, req)
	}

	assert.Equal(t, 10, calls)
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "60", last.Header().Get("Retry-After"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, last.Body.String(), "rate_limited")
	assert.Contains(t, last.Body.String(), "Too many image upload requests")
}

func TestMiddleware_OtherClientUnaffected(t *testing.T) {
	l := New(NewMemoryStore(), zap.NewNop())
	calls := 0
	r := newRouter(l, UploadBucket(1, time.Minute), &calls)

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.1:2", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2, calls)
}

func TestMiddleware_RecordsRateLimitedError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := New(NewMemoryStore(), zap.NewNop())

	var recorded []error
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			recorded = append(recorded, e.Err)
		}
	})
	r.POST("/api/offers", Middleware(l, OfferCreateBucket(1, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/offers", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if assert.Len(t, recorded, 1) {
		assert.True(t, errors.Is(recorded[0], domain.ErrRateLimited))
		assert.Contains(t, recorded[0].Error(), BucketOfferCreate)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(Decision{}))
	assert.Equal(t, 3, retryAfterSeconds(Decision{RetryAfter: 2500 * time.Millisecond}))
}
