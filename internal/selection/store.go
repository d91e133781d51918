package selection

import (
	"sync"
	"time"

	"dexadash/domain/core"
	"dexadash/domain/scan"
)

type entry struct {
	state    *State
	lastSeen time.Time
}

// Store keeps one State per session. It is the only mutable structure
// shared between requests.
type Store struct {
	mu       sync.Mutex
	sessions map[core.SessionID]*entry
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store whose idle sessions expire after ttl
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[core.SessionID]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Selected returns the session's selection, creating the default state
// for unseen sessions
func (s *Store) Selected(id core.SessionID) []scan.BodyPart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch(id).state.Selected()
}

// Apply runs a toggle event against the session's state
func (s *Store) Apply(id core.SessionID, ev ToggleEvent) []scan.BodyPart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch(id).state.Toggle(ev.Index)
}

// Reset returns the session to the default selection
func (s *Store) Reset(id core.SessionID) []scan.BodyPart {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touch(id)
	e.state.Reset()
	return e.state.Selected()
}

// Len reports the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	return len(s.sessions)
}

// touch must be called with mu held
func (s *Store) touch(id core.SessionID) *entry {
	s.sweep()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{state: NewState()}
		s.sessions[id] = e
	}
	e.lastSeen = s.now()
	return e
}

func (s *Store) sweep() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
