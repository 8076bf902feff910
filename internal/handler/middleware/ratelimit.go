package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"medrecords-gateway/internal/handler/httperr"
	"medrecords-gateway/internal/pkg/clock"
	"medrecords-gateway/internal/pkg/errs"
	"medrecords-gateway/internal/pkg/metrics"
	"medrecords-gateway/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

var ErrRateLimited = errs.New("webhook rate limit exceeded")

// WebhookRateLimiter runs before signature verification so abusive sources
// cannot spend HMAC CPU, whether or not they hold the secret.
type WebhookRateLimiter struct {
	limiter shared.RateLimiter
	clock   clock.Clock
}

func NewWebhookRateLimiter(limiter shared.RateLimiter, clk clock.Clock) *WebhookRateLimiter {
	return &WebhookRateLimiter{
		limiter: limiter,
		clock:   clk,
	}
}

func (m *WebhookRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		decision, err := m.limiter.Allow(c.Request.Context(), ip, m.clock.Now())
		if err != nil {
			// fail open: signature verification still guards the endpoint
			slog.Warn("rate limiter unavailable, allowing request",
				"client_ip", ip,
				"path", c.Request.URL.Path,
				"error", err.Error())
			c.Next()
			return
		}

		if !decision.Allowed {
			retryAfter := retryAfterSeconds(decision.RetryAfter)
			metrics.WebhookRateLimited.Inc()
			slog.Info("webhook rate limited",
				"client_ip", ip,
				"path", c.Request.URL.Path,
				"retry_after", retryAfter)

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			httperr.AbortWithError(c, http.StatusTooManyRequests, ErrRateLimited,
				httperr.CodeRateLimited, "Too many webhook requests",
				httperr.WithRetryAfter(retryAfter))
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Next()
	}
}

// at least 1s, rounded up
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
