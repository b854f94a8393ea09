package api

import (
	"eld-log-service/internal/platform/clock"
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleClientTTL = 10 * time.Minute

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP with a token bucket per client.
// Idle clients are evicted by a background sweep until Stop is called.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*rateLimitClient
	interval time.Duration
	burst    int
	clock    clock.Clock
	ticker   *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows perMinute requests per client per minute, in bursts of up to perMinute.
func NewRateLimiter(perMinute int, clk clock.Clock) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}

	rl := &RateLimiter{
		clients:  make(map[string]*rateLimitClient),
		interval: time.Minute / time.Duration(perMinute),
		burst:    perMinute,
		clock:    clk,
		ticker:   time.NewTicker(time.Minute),
		stop:     make(chan struct{}),
	}
	go rl.sweep()

	return rl
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := rl.clock.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &rateLimitClient{limiter: rate.NewLimiter(rate.Every(rl.interval), rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

// Handler wraps next, answering 429 with Retry-After once a client's bucket is empty.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)

		if !rl.limiterFor(key).AllowN(rl.clock.Now(), 1) {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rl.interval.Seconds()))))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			w.Header().Set("X-RateLimit-Remaining", "0")

			slog.WarnContext(r.Context(), "rate limit exceeded", "client", key, "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			if err := json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded, try again later"}); err != nil {
				slog.ErrorContext(r.Context(), "encode failed", "err", err)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

// evictIdle drops clients not seen for idleClientTTL.
func (rl *RateLimiter) evictIdle() {
	now := rl.clock.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > idleClientTTL {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) sweep() {
	for {
		select {
		case <-rl.ticker.C:
			rl.evictIdle()
		case <-rl.stop:
			return
		}
	}
}

// Stop ends the background sweep. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stop)
		rl.ticker.Stop()
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
