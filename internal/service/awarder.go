package service

import (
	"log/slog"
	"sync"

	"github.com/bitcorise/earnbot/internal/domain"
)

// Awarder is the single orchestration point for granting task rewards. One
// mutex makes every claim a full critical section: two concurrent claims on
// the same ready timer cannot both pass the checks.
type Awarder struct {
	mu       sync.Mutex
	catalog  domain.Catalog
	ledger   *Ledger
	timers   *TimerEngine
	registry *CompletionRegistry
}

func NewAwarder(catalog domain.Catalog, ledger *Ledger, timers *TimerEngine, registry *CompletionRegistry) *Awarder {
	return &Awarder{
		catalog:  catalog,
		ledger:   ledger,
		timers:   timers,
		registry: registry,
	}
}

// Begin validates that the instance can still be worked on today and starts
// its timer. Returns the resolved instance and its definition for display.
func (a *Awarder) Begin(userID, rawKey string) (domain.InstanceKey, domain.TaskDefinition, error) {
	instance, err := domain.ParseInstanceKey(rawKey, a.catalog)
	if err != nil {
		return domain.InstanceKey{}, domain.TaskDefinition{}, err
	}
	def := a.catalog[instance.Category]

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.registry.HasCompletedToday(userID, instance) {
		return instance, def, domain.ErrAlreadyClaimedToday
	}
	ok, err := a.ledger.CanAccrue(userID, def.Reward)
	if err != nil {
		return instance, def, err
	}
	if !ok {
		return instance, def, domain.ErrDailyLimitReached
	}

	a.timers.Start(userID, instance)
	return instance, def, nil
}

// Claim grants the reward for a ready task instance. Check order matters:
// already-claimed and daily-cap precede the timer check, so a user cannot
// probe the timer to slip past a limit. Failures leave reward state
// untouched (the rollover reset inside the cap check excepted).
func (a *Awarder) Claim(userID, rawKey string) (domain.Account, error) {
	instance, err := domain.ParseInstanceKey(rawKey, a.catalog)
	if err != nil {
		return domain.Account{}, err
	}
	def := a.catalog[instance.Category]

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.registry.HasCompletedToday(userID, instance) {
		return domain.Account{}, domain.ErrAlreadyClaimedToday
	}
	ok, err := a.ledger.CanAccrue(userID, def.Reward)
	if err != nil {
		return domain.Account{}, err
	}
	if !ok {
		return domain.Account{}, domain.ErrDailyLimitReached
	}
	if !a.timers.IsReady(userID, instance) {
		return domain.Account{}, domain.ErrTimerNotElapsed
	}

	// Credit persists; marking after it means a failed write cannot strand
	// the instance as claimed without a reward.
	acct, err := a.ledger.Credit(userID, def.Reward)
	if err != nil {
		return domain.Account{}, err
	}
	a.registry.MarkCompleted(userID, instance)
	a.timers.Clear(userID, instance)

	slog.Info("task reward granted",
		"user_id", userID,
		"task", instance.String(),
		"reward", def.Reward.String(),
		"daily_earned", acct.DailyEarned.String(),
	)
	return acct, nil
}

// Remaining reports the wait left on the instance's timer, for display next
// to a TimerNotElapsed failure.
func (a *Awarder) Remaining(userID, rawKey string) (int, error) {
	instance, err := domain.ParseInstanceKey(rawKey, a.catalog)
	if err != nil {
		return 0, err
	}
	return a.timers.RemainingSeconds(userID, instance), nil
}
