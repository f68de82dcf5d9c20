package ratelimit

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/0knotok/cloud-demo-throttling/internal/domain"
)

// Middleware keys requests by client IP and aborts with 429 once b is exhausted.
func Middleware(l *Limiter, b Bucket) gin.HandlerFunc {
	return func(c *gin.Context) {
		dec := l.Check(c.Request.Context(), c.ClientIP(), b)

		if dec.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(dec.Limit, 10))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(dec.Remaining, 10))
			if !dec.ResetAt.IsZero() {
				c.Header("X-RateLimit-Reset", strconv.FormatInt(dec.ResetAt.Unix(), 10))
			}
		}

		if !dec.Allowed {
			_ = c.Error(fmt.Errorf("%s bucket: %w", b.Name, domain.ErrRateLimited))
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(dec)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": b.Message,
				"code":    "rate_limited",
			})
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(dec Decision) int {
	secs := int(math.Ceil(dec.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
