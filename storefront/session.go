package storefront

import (
	"sync"
	"time"
)

const DefaultSessionIdle = 30 * time.Minute

type session struct {
	presenter *Presenter
	lastSeen  time.Time
}

// Sessions owns one Presenter per storefront session id. Presenters idle for longer
// than the idle timeout are dropped on the next access.
type Sessions struct {
	mu           sync.Mutex
	idle         time.Duration
	now          func() time.Time
	newPresenter func() *Presenter
	entries      map[string]*session
}

func NewSessions(idle time.Duration, newPresenter func() *Presenter) *Sessions {
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	return &Sessions{
		idle:         idle,
		now:          time.Now,
		newPresenter: newPresenter,
		entries:      map[string]*session{},
	}
}

// Presenter returns the presenter of id, creating it on first use.
func (s *Sessions) Presenter(id string) *Presenter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	e, ok := s.entries[id]
	if !ok {
		e = &session{presenter: s.newPresenter()}
		s.entries[id] = e
	}
	e.lastSeen = now
	return e.presenter
}

// Lookup returns the presenter of id without creating one.
func (s *Sessions) Lookup(id string) (*Presenter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(s.now())
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.presenter, true
}

func (s *Sessions) Release(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[id]
	delete(s.entries, id)
	return ok
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Sessions) sweep(now time.Time) {
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.idle {
			delete(s.entries, id)
		}
	}
}
