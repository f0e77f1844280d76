package server

import (
	"errors"
	"sync"
	"time"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/results"
)

var (
	errSessionNotFound = errors.New("session not found")
	errTooManySessions = errors.New("too many active sessions")
)

// entry is one held session. Its mutex serializes every operation on the
// session so at most one question generation or answer is in flight.
type entry struct {
	mu       sync.Mutex
	session  *assessment.Session
	result   *results.Result
	lastSeen time.Time
}

// registry holds independent sessions keyed by ID.
type registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	max     int
	now     func() time.Time
}

func newRegistry(ttl time.Duration, max int) *registry {
	return &registry{
		entries: make(map[string]*entry),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
	}
}

func (r *registry) add(s *assessment.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked()
	if r.max > 0 && len(r.entries) >= r.max {
		return errTooManySessions
	}
	r.entries[s.ID] = &entry{session: s, lastSeen: r.now()}
	return nil
}

// acquire returns the locked entry for id. The caller must unlock it.
func (r *registry) acquire(id string) (*entry, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return nil, errSessionNotFound
	}

	e.mu.Lock()
	e.lastSeen = r.now()
	return e, nil
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	delete(r.entries, id)
	return ok
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// pruneLocked drops sessions idle for longer than the TTL. Abandoned
// sessions persist nothing.
func (r *registry) pruneLocked() {
	if r.ttl <= 0 {
		return
	}
	cutoff := r.now().Add(-r.ttl)
	for id, e := range r.entries {
		if !e.mu.TryLock() {
			continue
		}
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.entries, id)
		}
	}
}
