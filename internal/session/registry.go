package session

import (
	"sync"
	"time"
)

// Registry is the in-process map of live sessions, keyed by the gateway's
// session cookie value. It enforces the one-transport-per-session invariant
// by being the only way delivery code reaches a Session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registers a session under its id, closing any session previously
// registered there.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	old := r.sessions[s.ID()]
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	if old != nil && old != s {
		old.Close()
	}
}

// Get returns the session for an id, or nil.
func (r *Registry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Remove closes and forgets the session for an id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if s != nil {
		s.Close()
	}
}

// SweepIdle closes and forgets sessions with no browser activity for longer
// than maxIdle. Returns the number of sessions removed.
func (r *Registry) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// StartSweeper runs SweepIdle in the background so abandoned sessions do not
// hold their refresh loops and realtime connections forever. maxIdle <= 0
// disables expiry.
func (r *Registry) StartSweeper(maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	interval := maxIdle / 4
	if interval > 10*time.Minute {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			r.SweepIdle(maxIdle)
		}
	}()
}

// CloseAll tears down every live session, typically on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
