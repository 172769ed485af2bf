package security

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Guard gates every inbound update before any business logic runs: block
// status, duplicate-message spam, minute/hour rate limits, command spam
// and content validation, in that order. All state lives in process
// memory; restarts reset it, and separate instances do not share it.
type Guard struct {
	mu    sync.Mutex
	cfg   Config
	store *store
	stats stats
	log   *zap.Logger
	clock func() time.Time
}

// Request is one inbound update as seen by the guard. MessageText is
// empty for non-text updates (photo-only messages and the like), which
// skips the duplicate and content checks but not the block and rate
// checks. Command carries the leading command ("/start") when the text
// is one, derived by the caller.
type Request struct {
	UserID      string
	IsAdmin     bool
	MessageText string
	Command     string
}

// Result of a guard check. When Allowed is false, Reason is set, Message
// holds text suitable for direct display to the user, and BlockSeconds
// is non-zero if the rejection carries a block.
type Result struct {
	Allowed      bool
	Reason       Reason
	BlockSeconds int
	Message      string
}

func NewGuard(cfg Config, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Guard{
		cfg:   cfg,
		store: newStore(),
		stats: stats{suspiciousUsers: make(map[string]struct{})},
		log:   log,
		clock: time.Now,
	}
	g.stats.lastCleanup = g.clock()
	return g
}

// Check runs the full gate for one update and returns whether it may
// proceed to business logic. Checks are synchronous in-memory lookups;
// nothing here performs I/O or blocks on another request.
func (g *Guard) Check(req Request) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	requestsChecked.Inc()
	g.cleanup(now)

	if blocked, remaining := g.isBlocked(req.UserID, now); blocked {
		g.logEvent(req.UserID, evBlockedAttempt, zap.Int("remaining_seconds", remaining))
		return g.reject(req, ReasonTemporarilyBlocked, remaining)
	}

	// Duplicate detection runs before the generic counters so a spam hit
	// does not also consume a minute-window slot.
	if req.MessageText != "" {
		if spam, blockSeconds := g.checkIdentical(req.UserID, req.MessageText, now); spam {
			return g.reject(req, ReasonIdenticalSpam, blockSeconds)
		}
	}

	if limited, reason, blockSeconds := g.checkRateLimit(req.UserID, req.IsAdmin, now); limited {
		return g.reject(req, reason, blockSeconds)
	}

	if req.Command != "" && !req.IsAdmin {
		if g.checkCommandSpam(req.UserID, req.Command, now) {
			return g.reject(req, ReasonCommandSpam, 0)
		}
	}

	if req.MessageText != "" {
		if ok, reason := g.validateMessage(req.MessageText, req.UserID); !ok {
			return g.reject(req, reason, 0)
		}
	}

	return Result{Allowed: true}
}

// reject logs the final rejection event and builds the result. Called
// with the mutex held.
func (g *Guard) reject(req Request, reason Reason, blockSeconds int) Result {
	g.logEvent(req.UserID, evRequestBlocked,
		zap.String("reason", string(reason)),
		zap.String("message_text", truncate(req.MessageText, 100)))
	requestsRejected.WithLabelValues(string(reason)).Inc()
	return Result{
		Reason:       reason,
		BlockSeconds: blockSeconds,
		Message:      ResponseFor(reason, blockSeconds),
	}
}
