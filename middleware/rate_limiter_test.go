package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remoteAddr, forwarded string) int {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = remoteAddr
	if forwarded != "" {
		req.Header.Set("X-Forwarded-For", forwarded)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimiterBurstPerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 3)
	h := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234", ""), "request %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:5678", ""))

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1234", ""), "other clients keep their own bucket")
}

func TestRateLimiterUsesFirstForwardedAddress(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	h := rl.Middleware(okHandler())

	assert.Equal(t, http.StatusOK, hit(h, "127.0.0.1:1", "203.0.113.7, 10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "127.0.0.1:2", "203.0.113.7"))
	assert.Equal(t, http.StatusOK, hit(h, "127.0.0.1:3", "198.51.100.1"))
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.limiter("10.0.0.1")
	now = now.Add(time.Minute)
	rl.limiter("10.0.0.2")

	now = now.Add(visitorTTL)
	rl.evict()

	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}
