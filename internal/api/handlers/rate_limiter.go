package handlers

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/premier-landing/backend/internal/domain/providers"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
)

// submitLimiter counts submissions per key in a fixed window. It uses the
// shared cache when there is one and an in-process table otherwise.
type submitLimiter struct {
	cache  providers.CacheProvider
	local  *localRateLimiter
	limit  int
	window time.Duration
}

func newSubmitLimiter(cache providers.CacheProvider, limit int, window time.Duration) *submitLimiter {
	return &submitLimiter{
		cache:  cache,
		local:  newLocalRateLimiter(),
		limit:  limit,
		window: window,
	}
}

// allow reports whether another submission fits and, when it does not, how
// long until the window resets. A non-positive limit disables limiting.
func (l *submitLimiter) allow(ctx context.Context, key string) (bool, time.Duration) {
	if l.limit <= 0 {
		return true, 0
	}
	if l.cache == nil {
		return l.local.allow(key, l.limit, l.window)
	}

	count, err := l.cache.Increment(ctx, key, int(l.window.Seconds()))
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("rate limit cache unavailable, using local limiter")
		return l.local.allow(key, l.limit, l.window)
	}
	if count <= int64(l.limit) {
		return true, 0
	}

	retryAfter := l.window
	if ttl, err := l.cache.TTL(ctx, key); err == nil && ttl > 0 {
		retryAfter = time.Duration(ttl) * time.Second
	}
	return false, retryAfter
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
	now    func() time.Time
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
		now:    time.Now,
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, state := range l.states {
		if now.After(state.resetAt) {
			delete(l.states, k)
		}
	}

	state, ok := l.states[key]
	if !ok {
		state = &localRateState{count: 0, resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := state.resetAt.Sub(now)
		if retryAfter <= 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, 0
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
