package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rateLimited(cfg RateLimit) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RateLimiter(cfg)(next)
}

func hit(handler http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	handler := rateLimited(RateLimit{RequestsPerSecond: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1234"))
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	handler := rateLimited(RateLimit{RequestsPerSecond: 0.001, Burst: 2})

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.1:1234"))
}

func TestRateLimiter_BucketsPerClient(t *testing.T) {
	handler := rateLimited(RateLimit{RequestsPerSecond: 0.001, Burst: 1})

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.1:5678"))
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.2:1234"))
}

func TestRateLimiter_ConcurrentSameClient(t *testing.T) {
	handler := rateLimited(RateLimit{RequestsPerSecond: 1000, Burst: 1000})

	const goroutines, requests = 8, 50
	var served atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < requests; j++ {
				if hit(handler, "10.0.0.1:1234") == http.StatusOK {
					served.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	// Generous limit: every request should land, and the shared bucket's
	// bookkeeping must hold up under the race detector.
	assert.Equal(t, int64(goroutines*requests), served.Load())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:4444"
	// Spoofed forwarding headers must not change the bucket key.
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "192.0.2.7", clientIP(req))
}
