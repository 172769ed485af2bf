package security

import "time"

// Config holds every anti-abuse threshold. All values are tunable; the
// defaults match production behavior.
type Config struct {
	// Rate limits per window.
	MaxRequestsPerMinute int
	MaxRequestsPerHour   int

	// Spam protection.
	MaxIdenticalMessages int
	MaxCommandsPerMinute int

	// Blocking thresholds.
	SuspiciousThreshold int // raw per-minute count that triggers an auto-block
	AutoBlockDuration   time.Duration
	TempBlockDuration   time.Duration // for minor violations

	// Message limits.
	MaxMessageLength int

	// Admins get this multiplier on the per-minute and per-hour limits.
	AdminRateMultiplier int

	// Store maintenance.
	CleanupInterval time.Duration // minimum gap between sweeps
	StaleAfter      time.Duration // entries older than this are dropped
}

func DefaultConfig() Config {
	return Config{
		MaxRequestsPerMinute: 20,
		MaxRequestsPerHour:   150,
		MaxIdenticalMessages: 3,
		MaxCommandsPerMinute: 8,
		SuspiciousThreshold:  30,
		AutoBlockDuration:    5 * time.Minute,
		TempBlockDuration:    time.Minute,
		MaxMessageLength:     4000,
		AdminRateMultiplier:  5,
		CleanupInterval:      30 * time.Minute,
		StaleAfter:           2 * time.Hour,
	}
}
