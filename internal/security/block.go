package security

import (
	"math"
	"time"
)

// isBlocked reports an active block for the user and how many seconds
// remain, rounded up. Expired blocks are treated as absent; the sweep
// removes them later.
func (g *Guard) isBlocked(userID string, now time.Time) (bool, int) {
	e, ok := g.store.get(blockKey(userID))
	if !ok || !e.blocked || !now.Before(e.blockUntil) {
		return false, 0
	}
	return true, int(math.Ceil(e.blockUntil.Sub(now).Seconds()))
}

// applyBlock unconditionally overwrites the user's block entry. Two
// durations are in use: TempBlockDuration for identical-message spam and
// AutoBlockDuration for sustained high-frequency abuse.
func (g *Guard) applyBlock(userID string, d time.Duration, now time.Time) {
	g.store.put(blockKey(userID), &entry{
		windowStart: now,
		blocked:     true,
		blockUntil:  now.Add(d),
	})
}
