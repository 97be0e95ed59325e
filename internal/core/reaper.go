package core

// reaper.go evicts grid sessions nobody has used for a while.
//
// The reaper is long-running and context-aware: StartReaper blocks until ctx
// is cancelled, so callers run it in its own goroutine.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultReapInterval is how often StartReaper checks when interval is unset.
const DefaultReapInterval = time.Minute

// StartReaper evicts sessions idle for longer than ttl every interval until
// ctx is cancelled. A non-positive ttl disables eviction.
func (s *Service) StartReaper(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 {
		slog.Info("session reaper disabled")
		return
	}
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	slog.Info("session reaper started", "idle_ttl", ttl.String(), "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session reaper stopped")
			return
		case <-ticker.C:
			if n := s.ReapIdle(ttl); n > 0 {
				slog.Info("reaped idle grid sessions", "count", n, "remaining", s.SessionCount())
			}
		}
	}
}

// ReapIdle removes every session last used more than ttl ago and returns how
// many were removed.
func (s *Service) ReapIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
