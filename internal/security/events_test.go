package security

import (
	"strings"
	"testing"
)

// The countsBlocked flags must keep following the naming convention: an
// event counts toward blockedRequests iff its name contains "blocked",
// "limited" or "spam". New event kinds get classified by their name.
func TestEventClassificationConvention(t *testing.T) {
	all := []event{
		evBlockedAttempt,
		evIdenticalSpam,
		evRateLimitMinute,
		evRateLimitHour,
		evAutoBlocked,
		evCommandSpam,
		evMessageTooLong,
		evSuspiciousText,
		evRequestBlocked,
	}
	for _, ev := range all {
		want := strings.Contains(ev.name, "blocked") ||
			strings.Contains(ev.name, "limited") ||
			strings.Contains(ev.name, "spam")
		if ev.countsBlocked != want {
			t.Errorf("event %q: countsBlocked = %v, want %v", ev.name, ev.countsBlocked, want)
		}
	}
}

func TestLogEventCounters(t *testing.T) {
	g, _ := newTestGuard(t)

	g.logEvent("U1", evRateLimitMinute)
	g.logEvent("U1", evRequestBlocked)
	g.logEvent("U2", evIdenticalSpam)

	st := g.Stats()
	if st.TotalEvents != 3 {
		t.Errorf("TotalEvents = %d, want 3", st.TotalEvents)
	}
	if st.BlockedRequests != 2 {
		t.Errorf("BlockedRequests = %d, want 2", st.BlockedRequests)
	}
}

func TestStatsSnapshot(t *testing.T) {
	g, _ := newTestGuard(t)

	// Drive one user into an auto-block so the suspicious set fills.
	for i := 0; i < 31; i++ {
		g.Check(Request{UserID: "bad-user"})
	}
	g.Check(Request{UserID: "good-user", MessageText: "hello there friend"})

	st := g.Stats()
	if len(st.SuspiciousUsers) != 1 || st.SuspiciousUsers[0] != "bad-user" {
		t.Errorf("SuspiciousUsers = %v, want [bad-user]", st.SuspiciousUsers)
	}
	if st.BlockedRequests == 0 {
		t.Error("BlockedRequests should be non-zero after rejections")
	}
	if st.StoreEntries == 0 {
		t.Error("StoreEntries should be non-zero")
	}
}
