// Package sessions scopes per-page state to a browser session. Each Store holds
// one value per session ID and closes it when the session ends or goes idle.
package sessions

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/pkg/lifecycle"
)

// Closer is implemented by per-session values. Close is the point at which the
// value's page instance goes away.
type Closer interface {
	Close()
}

type entry[T Closer] struct {
	value    T
	lastSeen time.Time
}

// Store lazily creates one T per session.
type Store[T Closer] struct {
	name    string
	factory func(uuid.UUID) T
	idle    time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	entries map[uuid.UUID]*entry[T]
}

// NewStore creates a Store whose values are built by factory and closed after
// idle time without access.
func NewStore[T Closer](name string, factory func(uuid.UUID) T, idle time.Duration, logger *slog.Logger) *Store[T] {
	return &Store[T]{
		name:    name,
		factory: factory,
		idle:    idle,
		logger:  logger.With("system", "sessions", "store", name),
		now:     time.Now,
		entries: make(map[uuid.UUID]*entry[T]),
	}
}

// SetClock replaces the store's time source.
func (s *Store[T]) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Acquire returns the value for id, creating it on first use.
func (s *Store[T]) Acquire(id uuid.UUID) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		e = &entry[T]{value: s.factory(id)}
		s.entries[id] = e
		s.logger.Debug("session opened", "session", id)
	}
	e.lastSeen = s.now()
	return e.value
}

// Lookup returns the value for id without creating one.
func (s *Store[T]) Lookup(id uuid.UUID) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastSeen = s.now()
	return e.value, true
}

// End closes and removes the value for id. It reports whether one existed.
func (s *Store[T]) End(id uuid.UUID) bool {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if ok {
		e.value.Close()
		s.logger.Debug("session ended", "session", id)
	}
	return ok
}

// Sweep closes every value idle longer than the store's idle timeout and
// returns how many were closed.
func (s *Store[T]) Sweep() int {
	s.mu.Lock()
	cutoff := s.now().Add(-s.idle)
	var expired []T
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.value)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, v := range expired {
		v.Close()
	}
	if len(expired) > 0 {
		s.logger.Info("idle sessions closed", "count", len(expired))
	}
	return len(expired)
}

// CloseAll closes and removes every value.
func (s *Store[T]) CloseAll() {
	s.mu.Lock()
	entries := s.entries
	s.entries = make(map[uuid.UUID]*entry[T])
	s.mu.Unlock()

	for _, e := range entries {
		e.value.Close()
	}
}

// Len returns the number of open sessions.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start runs the idle sweeper until shutdown, then closes every session.
func (s *Store[T]) Start(lc *lifecycle.Coordinator, interval time.Duration) {
	lc.Go(func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.CloseAll()
				s.logger.Info("session store closed")
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	})
}
