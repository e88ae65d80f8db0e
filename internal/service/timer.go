package service

import (
	"sync"
	"time"

	"github.com/bitcorise/earnbot/internal/domain"
)

// TimerEngine tracks in-flight timed tasks per (user, instance) pair. Timers
// live in memory only; losing them on restart is accepted.
type TimerEngine struct {
	mu      sync.Mutex
	catalog domain.Catalog
	policy  domain.TimerPolicy
	started map[domain.TimerKey]time.Time
	now     func() time.Time
}

func NewTimerEngine(catalog domain.Catalog, policy domain.TimerPolicy) *TimerEngine {
	return &TimerEngine{
		catalog: catalog,
		policy:  policy,
		started: make(map[domain.TimerKey]time.Time),
		now:     time.Now,
	}
}

// ActiveTimer is one running or ready timer, for display.
type ActiveTimer struct {
	Instance  domain.InstanceKey
	Remaining time.Duration
}

// Start begins (or re-enters) a timer. Under the restart policy the start
// time is overwritten; under resume the original countdown is kept.
func (e *TimerEngine) Start(userID string, instance domain.InstanceKey) {
	key := domain.TimerKey{UserID: userID, Instance: instance}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, running := e.started[key]; running && e.policy == domain.TimerPolicyResume {
		return
	}
	e.started[key] = e.now()
}

// Remaining returns the wait left on a timer and whether one exists. A ready
// timer reports zero and stays ready until claimed.
func (e *TimerEngine) Remaining(userID string, instance domain.InstanceKey) (time.Duration, bool) {
	def, ok := e.catalog.Lookup(instance.Category)
	if !ok {
		return 0, false
	}

	e.mu.Lock()
	start, running := e.started[domain.TimerKey{UserID: userID, Instance: instance}]
	e.mu.Unlock()
	if !running {
		return 0, false
	}

	remaining := def.Wait() - e.now().Sub(start)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// RemainingSeconds is Remaining rounded up to whole seconds; zero when no
// timer exists.
func (e *TimerEngine) RemainingSeconds(userID string, instance domain.InstanceKey) int {
	remaining, ok := e.Remaining(userID, instance)
	if !ok {
		return 0
	}
	return int((remaining + time.Second - 1) / time.Second)
}

// IsReady reports whether a timer exists and its wait has fully elapsed.
func (e *TimerEngine) IsReady(userID string, instance domain.InstanceKey) bool {
	remaining, ok := e.Remaining(userID, instance)
	return ok && remaining == 0
}

// Clear deletes the timer entry once its reward has been granted.
func (e *TimerEngine) Clear(userID string, instance domain.InstanceKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.started, domain.TimerKey{UserID: userID, Instance: instance})
}

// ActiveFor lists the user's timers that are still counting down.
func (e *TimerEngine) ActiveFor(userID string) []ActiveTimer {
	e.mu.Lock()
	keys := make([]domain.TimerKey, 0)
	for key := range e.started {
		if key.UserID == userID {
			keys = append(keys, key)
		}
	}
	e.mu.Unlock()

	var active []ActiveTimer
	for _, key := range keys {
		remaining, ok := e.Remaining(userID, key.Instance)
		if ok && remaining > 0 {
			active = append(active, ActiveTimer{Instance: key.Instance, Remaining: remaining})
		}
	}
	return active
}

// Count returns the number of live timer entries.
func (e *TimerEngine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.started)
}
