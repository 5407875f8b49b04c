package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Limit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewUniversalClient(&goredis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { rdb.Close() })

	cfg := RateLimitConfig{MaxRequests: 2, Window: time.Minute, KeyPrefix: "rl:test"}
	r := gin.New()
	r.POST("/api/contact", NewRateLimiter(rdb).Limit(cfg), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, send().Code)
	w := send()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limited")

	// После окна счётчик сбрасывается
	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusNoContent, send().Code)
}

func TestRateLimiter_FailOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewUniversalClient(&goredis.UniversalOptions{Addrs: []string{mr.Addr()}, MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	r := gin.New()
	r.GET("/api/track", NewRateLimiter(rdb).LimitByIP(TrackingRateLimitConfig()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/track", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
