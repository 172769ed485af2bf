package security

import (
	"testing"
	"time"
)

func TestRateLimitKeyDeterminism(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		gran     granularity
		offset   time.Duration
		sameAsAt bool // same key as at base time
	}{
		{"minute same bucket", granMinute, 30 * time.Second, true},
		{"minute next bucket", granMinute, 61 * time.Second, false},
		{"command same bucket", granCommand, 59 * time.Second, true},
		{"command next bucket", granCommand, 60 * time.Second, false},
		{"hour same bucket", granHour, 59 * time.Minute, true},
		{"hour next bucket", granHour, 61 * time.Minute, false},
		{"identical ignores time", granIdentical, 48 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k1 := rateLimitKey("42", tt.gran, base)
			k2 := rateLimitKey("42", tt.gran, base.Add(tt.offset))
			if (k1 == k2) != tt.sameAsAt {
				t.Errorf("keys %q and %q: same=%v, want %v", k1, k2, k1 == k2, tt.sameAsAt)
			}
		})
	}
}

func TestKeysNamespacedByGranularityAndUser(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	for _, g := range []granularity{granMinute, granHour, granCommand, granIdentical} {
		k := rateLimitKey("42", g, now)
		if seen[k] {
			t.Errorf("granularity %s collides with another key %q", g, k)
		}
		seen[k] = true
	}
	if rateLimitKey("42", granMinute, now) == rateLimitKey("43", granMinute, now) {
		t.Error("different users share a minute key")
	}
	if blockKey("42") == rateLimitKey("42", granMinute, now) {
		t.Error("block key collides with minute key")
	}
}
