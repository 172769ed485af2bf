package security

import (
	"time"

	"go.uber.org/zap"
)

// Messages this short are exempt from the identical-message check:
// greetings, emoji and bare commands repeat legitimately.
const identicalMinLength = 10

// resetIfStale starts a fresh window once the current one has fully
// elapsed.
func resetIfStale(e *entry, window time.Duration, now time.Time) {
	if now.Sub(e.windowStart) > window {
		e.count = 0
		e.windowStart = now
	}
}

// checkIdentical tracks the last message per user and flags consecutive
// repeats. The counter counts occurrences of the text, so the third copy
// of the same message trips the default threshold of 3. On spam the user
// gets a temporary block; the counter is left as-is, because the block
// short-circuits further repeats before this check runs again.
func (g *Guard) checkIdentical(userID, text string, now time.Time) (bool, int) {
	if len([]rune(text)) <= identicalMinLength {
		return false, 0
	}
	e := g.store.getOrCreate(rateLimitKey(userID, granIdentical, now), now)
	if e.lastMessage == text {
		e.identicalCount++
	} else {
		e.lastMessage = text
		e.identicalCount = 1
	}
	if e.identicalCount >= g.cfg.MaxIdenticalMessages {
		blockSeconds := int(g.cfg.TempBlockDuration.Seconds())
		g.logEvent(userID, evIdenticalSpam,
			zap.String("message", truncate(text, 100)),
			zap.Int("count", e.identicalCount))
		g.applyBlock(userID, g.cfg.TempBlockDuration, now)
		return true, blockSeconds
	}
	return false, 0
}

// checkRateLimit evaluates the minute and hour windows. Admins get
// AdminRateMultiplier on both limits. Requests rejected by the minute
// window still advance its counter, so sustained flooding crosses the
// suspicious threshold and escalates to an auto-block; the escalation
// compares the raw count against SuspiciousThreshold without the
// multiplier, but never fires for admins.
func (g *Guard) checkRateLimit(userID string, isAdmin bool, now time.Time) (bool, Reason, int) {
	multiplier := 1
	if isAdmin {
		multiplier = g.cfg.AdminRateMultiplier
	}

	minute := g.store.getOrCreate(rateLimitKey(userID, granMinute, now), now)
	resetIfStale(minute, minuteWindow, now)

	if minute.count >= g.cfg.MaxRequestsPerMinute*multiplier {
		if minute.count >= g.cfg.SuspiciousThreshold && !isAdmin {
			blockSeconds := int(g.cfg.AutoBlockDuration.Seconds())
			g.logEvent(userID, evAutoBlocked,
				zap.Int("requests", minute.count),
				zap.Int("block_seconds", blockSeconds))
			g.applyBlock(userID, g.cfg.AutoBlockDuration, now)
			g.stats.suspiciousUsers[userID] = struct{}{}
			suspiciousUsersGauge.Set(float64(len(g.stats.suspiciousUsers)))
			return true, ReasonAutoBlocked, blockSeconds
		}
		g.logEvent(userID, evRateLimitMinute,
			zap.Int("count", minute.count),
			zap.Int("limit", g.cfg.MaxRequestsPerMinute*multiplier))
		minute.count++
		return true, ReasonRateLimitMinute, 0
	}

	hour := g.store.getOrCreate(rateLimitKey(userID, granHour, now), now)
	resetIfStale(hour, hourWindow, now)

	if hour.count >= g.cfg.MaxRequestsPerHour*multiplier {
		g.logEvent(userID, evRateLimitHour,
			zap.Int("count", hour.count),
			zap.Int("limit", g.cfg.MaxRequestsPerHour*multiplier))
		return true, ReasonRateLimitHour, 0
	}

	minute.count++
	hour.count++
	return false, "", 0
}

// checkCommandSpam counts commands in the current minute bucket,
// separately from general message volume, to catch rapid command
// cycling. The limit is not admin-multiplied; the caller skips this
// check for admins entirely.
func (g *Guard) checkCommandSpam(userID, command string, now time.Time) bool {
	e := g.store.getOrCreate(rateLimitKey(userID, granCommand, now), now)
	resetIfStale(e, minuteWindow, now)
	if e.count >= g.cfg.MaxCommandsPerMinute {
		g.logEvent(userID, evCommandSpam,
			zap.String("command", command),
			zap.Int("count", e.count))
		return true
	}
	e.count++
	return false
}
