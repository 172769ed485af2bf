package security

import (
	"time"

	"go.uber.org/zap"
)

// entry is per-key limiter state. Counter entries use count/windowStart,
// block entries use blocked/blockUntil, the identical slot uses
// lastMessage/identicalCount. Unused fields stay at their zero values.
type entry struct {
	count          int
	windowStart    time.Time
	blocked        bool
	blockUntil     time.Time
	lastMessage    string
	identicalCount int
}

// store is the in-memory rate-limit table. It is not safe for concurrent
// use on its own; the guard serializes access.
type store struct {
	entries map[string]*entry
}

func newStore() *store {
	return &store{entries: make(map[string]*entry)}
}

func (s *store) get(key string) (*entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// getOrCreate returns the entry for key, lazily creating a fresh window
// starting at now.
func (s *store) getOrCreate(key string, now time.Time) *entry {
	if e, ok := s.entries[key]; ok {
		return e
	}
	e := &entry{windowStart: now}
	s.entries[key] = e
	return e
}

func (s *store) put(key string, e *entry) {
	s.entries[key] = e
}

func (s *store) delete(key string) {
	delete(s.entries, key)
}

func (s *store) len() int {
	return len(s.entries)
}

// sweep drops entries whose window is older than staleAfter and blocks
// that have expired. Returns how many entries were removed.
func (s *store) sweep(now time.Time, staleAfter time.Duration) int {
	removed := 0
	for key, e := range s.entries {
		if now.Sub(e.windowStart) > staleAfter || (e.blocked && now.After(e.blockUntil)) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// cleanup runs the sweep at most once per CleanupInterval. It executes
// inline on the request path, so its cost lands on whichever request
// happens to cross the interval; there is no background timer.
func (g *Guard) cleanup(now time.Time) {
	if now.Sub(g.stats.lastCleanup) < g.cfg.CleanupInterval {
		return
	}
	removed := g.store.sweep(now, g.cfg.StaleAfter)
	g.stats.lastCleanup = now
	cleanupRuns.Inc()
	cleanupRemoved.Add(float64(removed))
	storeEntries.Set(float64(g.store.len()))
	if removed > 0 {
		g.log.Info("rate limit cleanup",
			zap.Int("removed", removed),
			zap.Int("remaining", g.store.len()),
			zap.Uint64("total_requests", g.stats.totalRequests),
			zap.Uint64("blocked_requests", g.stats.blockedRequests),
			zap.Int("suspicious_users", len(g.stats.suspiciousUsers)))
	}
}
