package security

import (
	"fmt"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestGuard(t *testing.T) (*Guard, *fakeClock) {
	t.Helper()
	// Minute start, so bucket boundaries are predictable.
	clk := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	g := NewGuard(DefaultConfig(), nil)
	g.clock = clk.now
	g.stats.lastCleanup = clk.t
	return g, clk
}

func TestPlainMessageFlood(t *testing.T) {
	g, clk := newTestGuard(t)

	// 21 short plain-text messages within 10 seconds: first 20 pass,
	// the 21st hits the minute limit.
	for i := 0; i < 21; i++ {
		res := g.Check(Request{UserID: "U1", MessageText: "hello"})
		if i < 20 && !res.Allowed {
			t.Fatalf("message %d rejected: %s", i+1, res.Reason)
		}
		if i == 20 {
			if res.Allowed {
				t.Fatal("21st message should be rejected")
			}
			if res.Reason != ReasonRateLimitMinute {
				t.Fatalf("reason = %s, want %s", res.Reason, ReasonRateLimitMinute)
			}
		}
		clk.advance(400 * time.Millisecond)
	}
}

func TestIdenticalSpamThenBlock(t *testing.T) {
	g, clk := newTestGuard(t)
	const text = "buy this now!!!"

	for i := 1; i <= 2; i++ {
		if res := g.Check(Request{UserID: "U2", MessageText: text}); !res.Allowed {
			t.Fatalf("message %d rejected: %s", i, res.Reason)
		}
		clk.advance(time.Second)
	}

	res := g.Check(Request{UserID: "U2", MessageText: text})
	if res.Allowed || res.Reason != ReasonIdenticalSpam {
		t.Fatalf("3rd identical message: allowed=%v reason=%s, want identical_spam", res.Allowed, res.Reason)
	}
	if res.BlockSeconds != 60 {
		t.Fatalf("blockSeconds = %d, want 60", res.BlockSeconds)
	}

	clk.advance(5 * time.Second)
	res = g.Check(Request{UserID: "U2", MessageText: text})
	if res.Allowed || res.Reason != ReasonTemporarilyBlocked {
		t.Fatalf("4th message while blocked: allowed=%v reason=%s, want temporarily_blocked", res.Allowed, res.Reason)
	}
	if res.BlockSeconds != 55 {
		t.Fatalf("remaining seconds = %d, want 55", res.BlockSeconds)
	}
}

func TestDifferentMessageResetsIdenticalCounter(t *testing.T) {
	g, _ := newTestGuard(t)

	msgs := []string{
		"this is message one",
		"this is message one",
		"something different now",
		"this is message one",
		"this is message one",
	}
	for i, m := range msgs {
		if res := g.Check(Request{UserID: "U4", MessageText: m}); !res.Allowed {
			t.Fatalf("message %d rejected: %s", i+1, res.Reason)
		}
	}
}

func TestShortIdenticalMessagesExempt(t *testing.T) {
	g, _ := newTestGuard(t)

	// Messages of 10 runes or fewer never trip the identical check.
	for i := 0; i < 10; i++ {
		if res := g.Check(Request{UserID: "U5", MessageText: "/start"}); !res.Allowed {
			t.Fatalf("short message %d rejected: %s", i+1, res.Reason)
		}
	}
}

func TestAdminMultiplier(t *testing.T) {
	g, _ := newTestGuard(t)

	for i := 1; i <= 100; i++ {
		res := g.Check(Request{UserID: "U3", IsAdmin: true, MessageText: fmt.Sprintf("note %d", i)})
		if !res.Allowed {
			t.Fatalf("admin message %d rejected: %s", i, res.Reason)
		}
	}
	res := g.Check(Request{UserID: "U3", IsAdmin: true, MessageText: "one more"})
	if res.Allowed || res.Reason != ReasonRateLimitMinute {
		t.Fatalf("101st admin message: allowed=%v reason=%s, want rate_limit_minute", res.Allowed, res.Reason)
	}
}

func TestEscalationPrecedence(t *testing.T) {
	g, _ := newTestGuard(t)

	// 1-20 allowed, 21-30 minute-limited (still counted), 31st escalates.
	var last Result
	for i := 1; i <= 31; i++ {
		last = g.Check(Request{UserID: "U6", MessageText: "hey"})
		switch {
		case i <= 20 && !last.Allowed:
			t.Fatalf("request %d rejected: %s", i, last.Reason)
		case i > 20 && i <= 30 && last.Reason != ReasonRateLimitMinute:
			t.Fatalf("request %d: reason = %s, want rate_limit_minute", i, last.Reason)
		}
	}
	if last.Reason != ReasonAutoBlocked {
		t.Fatalf("31st request: reason = %s, want auto_blocked", last.Reason)
	}
	if last.BlockSeconds != 300 {
		t.Fatalf("auto-block seconds = %d, want 300", last.BlockSeconds)
	}

	// While the auto-block is active everything short-circuits.
	res := g.Check(Request{UserID: "U6", MessageText: "hey"})
	if res.Reason != ReasonTemporarilyBlocked {
		t.Fatalf("request during auto-block: reason = %s, want temporarily_blocked", res.Reason)
	}

	st := g.Stats()
	if len(st.SuspiciousUsers) != 1 || st.SuspiciousUsers[0] != "U6" {
		t.Fatalf("suspicious users = %v, want [U6]", st.SuspiciousUsers)
	}
}

func TestWindowReset(t *testing.T) {
	g, clk := newTestGuard(t)

	for i := 0; i < 20; i++ {
		g.Check(Request{UserID: "U7"})
	}
	if res := g.Check(Request{UserID: "U7"}); res.Allowed {
		t.Fatal("21st request should be limited")
	}

	clk.advance(61 * time.Second)
	if res := g.Check(Request{UserID: "U7"}); !res.Allowed {
		t.Fatalf("request after window elapsed rejected: %s", res.Reason)
	}
}

func TestHourLimit(t *testing.T) {
	g, clk := newTestGuard(t)

	// Empty message text: block and rate stages still run for non-text
	// updates. 20 per minute for 7 minutes, then 10 more = 150 total.
	sent := 0
	for sent < 150 {
		for i := 0; i < 20 && sent < 150; i++ {
			if res := g.Check(Request{UserID: "U8"}); !res.Allowed {
				t.Fatalf("request %d rejected: %s", sent+1, res.Reason)
			}
			sent++
		}
		if sent < 150 {
			clk.advance(61 * time.Second)
		}
	}

	clk.advance(61 * time.Second)
	res := g.Check(Request{UserID: "U8"})
	if res.Allowed || res.Reason != ReasonRateLimitHour {
		t.Fatalf("151st request in hour: allowed=%v reason=%s, want rate_limit_hour", res.Allowed, res.Reason)
	}
}

func TestCommandSpam(t *testing.T) {
	g, _ := newTestGuard(t)

	for i := 1; i <= 8; i++ {
		res := g.Check(Request{UserID: "U9", MessageText: "/price", Command: "/price"})
		if !res.Allowed {
			t.Fatalf("command %d rejected: %s", i, res.Reason)
		}
	}
	res := g.Check(Request{UserID: "U9", MessageText: "/price", Command: "/price"})
	if res.Allowed || res.Reason != ReasonCommandSpam {
		t.Fatalf("9th command: allowed=%v reason=%s, want command_spam", res.Allowed, res.Reason)
	}
}

func TestAdminSkipsCommandSpam(t *testing.T) {
	g, _ := newTestGuard(t)

	for i := 1; i <= 15; i++ {
		res := g.Check(Request{UserID: "A1", IsAdmin: true, MessageText: "/stats", Command: "/stats"})
		if !res.Allowed {
			t.Fatalf("admin command %d rejected: %s", i, res.Reason)
		}
	}
}

func TestBlockExpires(t *testing.T) {
	g, clk := newTestGuard(t)
	const text = "repeat me exactly please"

	for i := 0; i < 3; i++ {
		g.Check(Request{UserID: "U10", MessageText: text})
	}
	if res := g.Check(Request{UserID: "U10", MessageText: text}); res.Reason != ReasonTemporarilyBlocked {
		t.Fatalf("expected active block, got %s", res.Reason)
	}

	clk.advance(61 * time.Second)
	res := g.Check(Request{UserID: "U10", MessageText: "a brand new message"})
	if !res.Allowed {
		t.Fatalf("request after block expiry rejected: %s", res.Reason)
	}
}

func TestSuspiciousContentRejected(t *testing.T) {
	g, _ := newTestGuard(t)

	res := g.Check(Request{UserID: "U11", MessageText: "join http://a.io http://b.io http://c.io"})
	if res.Allowed || res.Reason != ReasonSuspiciousContent {
		t.Fatalf("allowed=%v reason=%s, want suspicious_content", res.Allowed, res.Reason)
	}
	if res.Message == "" {
		t.Fatal("rejection must carry a user-facing message")
	}
}
