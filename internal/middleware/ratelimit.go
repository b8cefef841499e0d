package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a fixed-window throttle keyed by purpose:identity. It is
// owned by the caller and injected into routes rather than living as package
// state, so tests and multi-instance setups get their own buckets.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	purpose  string
	limit    int           // Max requests allowed per key
	window   time.Duration // Time window for rate limiting
	done     chan struct{}
}

// NewRateLimiter creates a rate limiter for one purpose (e.g. "auth",
// "webhook") and starts its idle-key eviction loop.
func NewRateLimiter(purpose string, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		purpose:  purpose,
		limit:    limit,
		window:   window,
		done:     make(chan struct{}),
	}

	// Evict idle keys so long-running processes don't grow without bound
	go rl.cleanupLoop()

	return rl
}

// Allow checks whether a request for this identity fits in the current
// window, recording it if so. Purge and append happen under one lock.
func (rl *RateLimiter) Allow(identity string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := rl.purpose + ":" + identity
	now := time.Now()
	cutoff := now.Add(-rl.window)

	valid := rl.requests[key][:0]
	for _, t := range rl.requests[key] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

// Stop terminates the eviction loop.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.done:
			return
		}
	}
}

// cleanup removes keys whose every request fell out of the window.
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.window * 2) // Keep data for 2x window

	for key, requests := range rl.requests {
		allOld := true
		for _, t := range requests {
			if t.After(cutoff) {
				allOld = false
				break
			}
		}
		if allOld {
			delete(rl.requests, key)
		}
	}
}

// Limit wraps a handler with per-IP rate limiting against this limiter.
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)

		if !rl.Allow(ip) {
			slog.Warn("rate limit exceeded",
				"purpose", rl.purpose,
				"ip", ip,
				"path", r.URL.Path,
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests, please try again later"}`))
			return
		}

		next(w, r)
	}
}

// getClientIP extracts real client IP from request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr, without the port
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}
