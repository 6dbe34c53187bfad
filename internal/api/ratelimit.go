package api

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimitMessage mirrors the response body clients already handle.
const rateLimitMessage = "Too many requests from this IP, please try again later."

// visitorTTL is how long an idle per-IP limiter is kept before eviction.
const visitorTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a fixed per-client-IP request budget across all
// endpoints. Requests over the budget are rejected before reaching routing.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

// NewRateLimiter creates a limiter allowing perMinute requests per client IP
// in a rolling one-minute window.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
	}
	go rl.evictLoop()
	return rl
}

func (rl *RateLimiter) visitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) evictLoop() {
	for range time.Tick(time.Minute) {
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > visitorTTL {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware applies the per-IP budget and sets standard rate-limit headers.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := rl.visitor(clientIP(r))

		w.Header().Set("RateLimit-Limit", strconv.Itoa(rl.burst))

		res := limiter.Reserve()
		if !res.OK() {
			w.Header().Set("Retry-After", "60")
			jsonMessage(w, http.StatusTooManyRequests, rateLimitMessage)
			return
		}
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			retry := int(math.Ceil(delay.Seconds()))
			w.Header().Set("RateLimit-Remaining", "0")
			w.Header().Set("RateLimit-Reset", strconv.Itoa(retry))
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			jsonMessage(w, http.StatusTooManyRequests, rateLimitMessage)
			return
		}

		w.Header().Set("RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address, honoring X-Forwarded-For when a
// reverse proxy sits in front of the server.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
