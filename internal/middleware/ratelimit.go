package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit holds the per-client token-bucket settings.
type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

// clientBucket tracks one client's limiter. lastSeen is unix nanos updated
// atomically: the request path and the cleanup goroutine touch it without
// any other synchronization.
type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter enforces a per-client token-bucket limit keyed by remote IP.
// Over-limit requests get 429 with a Retry-After hint.
func RateLimiter(cfg RateLimit) func(http.Handler) http.Handler {
	var clients sync.Map // map[string]*clientBucket

	// Drop buckets not seen for a while so the map stays bounded.
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			cutoff := time.Now().Add(-10 * time.Minute).UnixNano()
			clients.Range(func(key, value any) bool {
				if value.(*clientBucket).lastSeen.Load() < cutoff {
					clients.Delete(key)
				}
				return true
			})
		}
	}()

	bucketFor := func(ip string) *rate.Limiter {
		v, ok := clients.Load(ip)
		if !ok {
			fresh := &clientBucket{
				limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
			}
			// LoadOrStore keeps concurrent first requests on one limiter.
			v, _ = clients.LoadOrStore(ip, fresh)
		}
		b := v.(*clientBucket)
		b.lastSeen.Store(time.Now().UnixNano())
		return b.limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := bucketFor(clientIP(r))
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"code":    http.StatusTooManyRequests,
					"message": "rate limit exceeded",
				})
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. X-Forwarded-For is untrusted
// and ignored so the limit cannot be bypassed by header spoofing.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
