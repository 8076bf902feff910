//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"medrecords-gateway/internal/handler/httperr"
	"medrecords-gateway/internal/handler/middleware"
	"medrecords-gateway/internal/infra/ratelimit"
	"medrecords-gateway/internal/pkg/clock"
	"medrecords-gateway/internal/usecase/shared"
	httptestutil "medrecords-gateway/tests/common/httptest"
	sharedmock "medrecords-gateway/tests/mock/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRateLimitedRouter(limiter shared.RateLimiter, clk clock.Clock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/hook", middleware.NewWebhookRateLimiter(limiter, clk).Handler(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func postFrom(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookRateLimiter(t *testing.T) {
	t0 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("同一IPの11件目は429とRetry-After", func(t *testing.T) {
		clk := clock.NewMockClock(t0)
		r := newRateLimitedRouter(ratelimit.NewMemoryLimiter(10, time.Minute), clk)

		for i := 0; i < 10; i++ {
			w := postFrom(r, "203.0.113.5:40000")
			require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
			httptestutil.AssertHeaders(t, w, map[string]string{
				"X-RateLimit-Remaining": strconv.Itoa(9 - i),
				"Retry-After":           "",
			})
			clk.Add(time.Second)
		}

		w := postFrom(r, "203.0.113.5:40001")
		body := httptestutil.AssertErrorResponse(t, w, http.StatusTooManyRequests, httperr.CodeRateLimited)
		assert.Equal(t, 50, body.RetryAfter)
		httptestutil.AssertHeaders(t, w, map[string]string{
			"Retry-After":           "50",
			"X-RateLimit-Remaining": "",
		})

		other := postFrom(r, "198.51.100.9:40000")
		assert.Equal(t, http.StatusOK, other.Code)
	})

	t.Run("1秒未満のRetry-Afterは1に切り上げ", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		limiter := sharedmock.NewMockRateLimiter(ctrl)
		limiter.EXPECT().
			Allow(gomock.Any(), "203.0.113.5", t0).
			Return(shared.RateDecision{Allowed: false, RetryAfter: 200 * time.Millisecond}, nil)

		w := postFrom(newRateLimitedRouter(limiter, clock.NewMockClock(t0)), "203.0.113.5:1234")

		body := httptestutil.AssertErrorResponse(t, w, http.StatusTooManyRequests, httperr.CodeRateLimited)
		assert.Equal(t, 1, body.RetryAfter)
		httptestutil.AssertHeaders(t, w, map[string]string{"Retry-After": "1"})
	})

	t.Run("リミッタ障害時は通す", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		limiter := sharedmock.NewMockRateLimiter(ctrl)
		limiter.EXPECT().
			Allow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(shared.RateDecision{}, errors.New("redis: connection refused"))

		w := postFrom(newRateLimitedRouter(limiter, clock.NewMockClock(t0)), "203.0.113.5:1234")

		assert.Equal(t, http.StatusOK, w.Code)
		httptestutil.AssertHeaders(t, w, map[string]string{
			"X-RateLimit-Remaining": "",
			"Retry-After":           "",
		})
	})

	t.Run("X-Forwarded-Forは信頼しない", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		limiter := sharedmock.NewMockRateLimiter(ctrl)
		limiter.EXPECT().
			Allow(gomock.Any(), "203.0.113.5", gomock.Any()).
			Return(shared.RateDecision{Allowed: true, Remaining: 9}, nil)

		gin.SetMode(gin.TestMode)
		r := gin.New()
		require.NoError(t, r.SetTrustedProxies(nil))
		r.POST("/hook", middleware.NewWebhookRateLimiter(limiter, clock.NewMockClock(t0)).Handler(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/hook", nil)
		req.RemoteAddr = "203.0.113.5:1234"
		req.Header.Set("X-Forwarded-For", "10.9.9.9")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
