package expiry

import (
	"log/slog"
	"sync"
	"time"

	"roomd/internal/dependencies/clock"
)

// Scheduler runs cancellable deferred actions keyed by an arbitrary string.
// Scheduling a key replaces any pending action for that key; cancelling a
// key that already fired is a no-op. Fired actions must re-check their own
// preconditions: a timer may beat a racing Cancel to the punch.
type Scheduler struct {
	clock  clock.Clock
	logger *slog.Logger

	mu     sync.Mutex
	timers map[string]clock.Timer
}

// New creates a new Scheduler
func New(clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		clock:  clk,
		logger: logger.With(slog.String("component", "expiry")),
		timers: make(map[string]clock.Timer),
	}
}

// Schedule arms fn to run after d, replacing any pending action for key
func (s *Scheduler) Schedule(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.timers[key]; ok {
		prev.Stop()
	}

	var timer clock.Timer
	timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		if s.timers[key] == timer {
			delete(s.timers, key)
		}
		s.mu.Unlock()
		fn()
	})
	s.timers[key] = timer
}

// Cancel disarms the pending action for key. Returns false if none was
// pending (including when the action already fired).
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[key]
	if !ok {
		return false
	}
	delete(s.timers, key)
	return timer.Stop()
}

// Pending reports whether an action is currently armed for key
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}

// Stop disarms all pending actions
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}
