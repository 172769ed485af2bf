package services

import (
	"sync"
	"time"
)

// Session is in-memory activity state for one user. It lives only as
// long as the process; nothing here is persisted.
type Session struct {
	StartedAt  time.Time
	LastActive time.Time
	Updates    int
}

// SessionTracker tracks live bot sessions as an explicit object passed
// to whoever needs it, so the dependency stays visible and testable.
type SessionTracker struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionTracker() *SessionTracker {
	return &SessionTracker{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Touch records activity, starting a session if none exists.
func (t *SessionTracker) Touch(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	s, ok := t.sessions[userID]
	if !ok {
		s = &Session{StartedAt: now}
		t.sessions[userID] = s
	}
	s.LastActive = now
	s.Updates++
}

func (t *SessionTracker) End(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, userID)
}

func (t *SessionTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

// Sweep drops sessions idle longer than maxIdle and reports how many
// were removed. Called from cron.
func (t *SessionTracker) Sweep(maxIdle time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	removed := 0
	for id, s := range t.sessions {
		if now.Sub(s.LastActive) > maxIdle {
			delete(t.sessions, id)
			removed++
		}
	}
	return removed
}
