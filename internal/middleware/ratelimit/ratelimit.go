// Package ratelimit limits mutating requests per client with a fixed
// one-minute window.
package ratelimit

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	// RequestsPerMinute allowed per client key.
	RequestsPerMinute int
	// Methods that are limited; every other method passes through.
	Methods []string
	// IdleAfter drops clients not seen for this long.
	IdleAfter time.Duration
}

// DefaultConfig limits DELETE to 30 requests per minute.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 30,
		Methods:           []string{http.MethodDelete},
		IdleAfter:         10 * time.Minute,
	}
}

type window struct {
	start    time.Time
	requests int
}

// Limiter counts requests per client key.
type Limiter struct {
	mu      sync.Mutex
	cfg     Config
	clients map[string]*window
	now     func() time.Time
	hits    atomic.Int64
}

func NewLimiter(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = def.RequestsPerMinute
	}
	if cfg.Methods == nil {
		cfg.Methods = def.Methods
	}
	if cfg.IdleAfter <= 0 {
		cfg.IdleAfter = def.IdleAfter
	}
	return &Limiter{cfg: cfg, clients: make(map[string]*window), now: time.Now}
}

// Allow records a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.clients[key] = &window{start: now, requests: 1}
		return true
	}
	w.requests++
	if w.requests > l.cfg.RequestsPerMinute {
		l.hits.Add(1)
		return false
	}
	return true
}

// Hits returns how many requests were rejected.
func (l *Limiter) Hits() int64 {
	return l.hits.Load()
}

// Sweep forgets clients idle longer than IdleAfter.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.cfg.IdleAfter)
	removed := 0
	for key, w := range l.clients {
		if w.start.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// Run sweeps every minute until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Middleware rejects limited methods with 429 once key(r) is over the limit.
func (l *Limiter) Middleware(key func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(l.cfg.Methods, r.Method) && !l.Allow(key(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(60))
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
