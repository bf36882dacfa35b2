package ratelimit

import (
	"time"

	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/services/logging"
	"go.uber.org/zap"
)

// Action names a class of credential-sensitive requests with its own
// attempt budget and window.
type Action string

const (
	ActionLogin   Action = "login"
	ActionRefresh Action = "refresh"
)

type rule struct {
	attempts int
	window   time.Duration
}

// Limiter throttles repeated failures per client IP and action. The
// window is fixed: it opens on the first recorded failure and every
// later failure lands in the same window until it lapses. Only
// failures consume budget; a success clears the counter outright.
type Limiter struct {
	store  Store
	rules  map[Action]rule
	logger *logging.Service
}

func NewLimiter(cfg *config.Config, store Store, logger *logging.Service) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}

	return &Limiter{
		store: store,
		rules: map[Action]rule{
			ActionLogin: {
				attempts: cfg.RateLimit.LoginAttempts,
				window:   cfg.RateLimit.LoginWindow,
			},
			ActionRefresh: {
				attempts: cfg.RateLimit.RefreshAttempts,
				window:   cfg.RateLimit.RefreshWindow,
			},
		},
		logger: logger,
	}
}

func (l *Limiter) key(ip string, action Action) string {
	if ip == "" || ip == "unknown" {
		ip = "fallback"
	}

	return string(action) + ":" + ip
}

// Allow reports whether the client still has attempt budget for the
// action. It never consumes budget itself; failed attempts are counted
// separately via RecordFailure.
func (l *Limiter) Allow(ip string, action Action) (bool, time.Duration) {
	r, ok := l.rules[action]
	if !ok {
		return true, 0
	}

	count, windowEnd, exists := l.store.Get(l.key(ip, action))
	if !exists || count < r.attempts {
		return true, 0
	}

	retryAfter := time.Until(windowEnd)
	if retryAfter < 0 {
		retryAfter = 0
	}

	if l.logger != nil {
		l.logger.Warn("rate limit exceeded",
			zap.String("action", string(action)),
			zap.String("ip", ip),
			zap.Int("count", count),
			zap.Duration("retry_after", retryAfter))
	}

	return false, retryAfter
}

// RecordFailure counts one failed attempt against the client. The first
// failure in a lapsed or empty window starts a fresh window.
func (l *Limiter) RecordFailure(ip string, action Action) int {
	r, ok := l.rules[action]
	if !ok {
		return 0
	}

	return l.store.Increment(l.key(ip, action), time.Now().Add(r.window))
}

// Reset clears the client's counter after a successful attempt.
func (l *Limiter) Reset(ip string, action Action) {
	l.store.Reset(l.key(ip, action))
}
