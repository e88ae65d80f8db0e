package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/bitcorise/earnbot/internal/repository"
)

// CompletionRegistry tracks which task instances a user has claimed on which
// calendar day, enforcing exactly-once-per-day claims. Completions are keyed
// by ISO date; old dates are pruned lazily when the ledger rolls a user's day
// over.
type CompletionRegistry struct {
	mu        sync.Mutex
	catalog   domain.Catalog
	store     *repository.Store
	completed map[string]map[string]map[string]struct{} // userID -> date -> instance set
	now       func() time.Time
}

func NewCompletionRegistry(catalog domain.Catalog, store *repository.Store) *CompletionRegistry {
	return &CompletionRegistry{
		catalog:   catalog,
		store:     store,
		completed: make(map[string]map[string]map[string]struct{}),
		now:       time.Now,
	}
}

func (r *CompletionRegistry) today() string {
	return r.now().Format(time.DateOnly)
}

// HasCompletedToday reports whether the instance is in today's claimed set.
func (r *CompletionRegistry) HasCompletedToday(userID string, instance domain.InstanceKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	days, ok := r.completed[userID]
	if !ok {
		return false
	}
	set, ok := days[r.today()]
	if !ok {
		return false
	}
	_, done := set[instance.String()]
	return done
}

// MarkCompleted adds the instance to today's claimed set. Idempotent. The
// snapshot is flushed so the completion rides the same write cadence as
// ledger mutations.
func (r *CompletionRegistry) MarkCompleted(userID string, instance domain.InstanceKey) {
	r.mu.Lock()
	days, ok := r.completed[userID]
	if !ok {
		days = make(map[string]map[string]struct{})
		r.completed[userID] = days
	}
	today := r.today()
	set, ok := days[today]
	if !ok {
		set = make(map[string]struct{})
		days[today] = set
	}
	set[instance.String()] = struct{}{}
	r.mu.Unlock()

	if err := r.store.Flush(); err != nil {
		slog.Error("flush after completion", "error", err, "user_id", userID)
	}
}

// AvailableInstances returns the category's instances not yet claimed today,
// in ascending index order.
func (r *CompletionRegistry) AvailableInstances(userID, category string) []domain.InstanceKey {
	var available []domain.InstanceKey
	for _, instance := range r.catalog.Instances(category) {
		if !r.HasCompletedToday(userID, instance) {
			available = append(available, instance)
		}
	}
	return available
}

// PruneToToday drops every completion date except today for the user. Called
// on day rollover.
func (r *CompletionRegistry) PruneToToday(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	days, ok := r.completed[userID]
	if !ok {
		return
	}
	today := r.today()
	for date := range days {
		if date != today {
			delete(days, date)
		}
	}
}

// CompletedToday returns how many instances the user has claimed today.
func (r *CompletionRegistry) CompletedToday(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	days, ok := r.completed[userID]
	if !ok {
		return 0
	}
	return len(days[r.today()])
}
