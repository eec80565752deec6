package server

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// rateLimiter enforces a per-client sliding window over the last minute.
// State is in-process; a multi-replica deployment would need a shared store,
// but the service is designed to run as a single instance per corpus.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string][]time.Time
}

func newRateLimiter(perMinute int) *rateLimiter {
	return &rateLimiter{
		limit:   perMinute,
		window:  time.Minute,
		clients: make(map[string][]time.Time),
	}
}

// Allow records a request for the client and reports whether it is within
// the window limit. A non-positive limit disables limiting.
func (rl *rateLimiter) Allow(clientKey string) bool {
	if rl.limit <= 0 {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := rl.clients[clientKey][:0]
	for _, t := range rl.clients[clientKey] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) >= rl.limit {
		rl.clients[clientKey] = recent
		return false
	}
	rl.clients[clientKey] = append(recent, now)
	return true
}

// clientKey extracts the caller address for rate-limit bucketing.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
