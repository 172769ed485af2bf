package security

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// event is a security event kind. The countsBlocked flag preserves the
// naming convention this grew out of: an event counts toward
// blockedRequests iff its name contains "blocked", "limited" or "spam".
type event struct {
	name          string
	countsBlocked bool
}

var (
	evBlockedAttempt  = event{"blocked_request_attempt", true}
	evIdenticalSpam   = event{"identical_spam_detected", true}
	evRateLimitMinute = event{"rate_limit_minute_exceeded", false}
	evRateLimitHour   = event{"rate_limit_hour_exceeded", false}
	evAutoBlocked     = event{"auto_blocked_suspicious", true}
	evCommandSpam     = event{"command_spam_detected", true}
	evMessageTooLong  = event{"message_too_long", false}
	evSuspiciousText  = event{"suspicious_pattern_detected", false}
	evRequestBlocked  = event{"request_blocked", true}
)

// stats are process-wide counters with process lifetime. suspiciousUsers
// is append-only.
type stats struct {
	totalRequests   uint64
	blockedRequests uint64
	suspiciousUsers map[string]struct{}
	lastCleanup     time.Time
}

// Stats is a point-in-time snapshot of the guard's counters.
type Stats struct {
	TotalEvents     uint64
	BlockedRequests uint64
	SuspiciousUsers []string
	StoreEntries    int
	LastCleanup     time.Time
}

// logEvent records one security event: structured log line plus counter
// updates.
func (g *Guard) logEvent(userID string, ev event, fields ...zap.Field) {
	g.stats.totalRequests++
	if ev.countsBlocked {
		g.stats.blockedRequests++
	}
	fields = append(fields, zap.String("user_id", userID), zap.String("event", ev.name))
	g.log.Info("security_event", fields...)
}

// Stats returns a snapshot of the guard's counters and flagged users.
func (g *Guard) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	users := make([]string, 0, len(g.stats.suspiciousUsers))
	for u := range g.stats.suspiciousUsers {
		users = append(users, u)
	}
	sort.Strings(users)
	return Stats{
		TotalEvents:     g.stats.totalRequests,
		BlockedRequests: g.stats.blockedRequests,
		SuspiciousUsers: users,
		StoreEntries:    g.store.len(),
		LastCleanup:     g.stats.lastCleanup,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
