package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/bitcorise/earnbot/internal/repository"
	"github.com/shopspring/decimal"
)

// Ledger owns all account mutation. Every mutation runs inside one store
// update, so the in-memory change and the snapshot write land together.
type Ledger struct {
	store      *repository.Store
	dailyLimit decimal.Decimal
	now        func() time.Time

	// onRollover is invoked after a day rollover has been persisted, outside
	// the store lock. Wired to the completion registry's pruning.
	onRollover func(userID string)
}

func NewLedger(store *repository.Store, dailyLimit decimal.Decimal) *Ledger {
	return &Ledger{
		store:      store,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// OnRollover registers the day-rollover callback. Must be set before the
// ledger starts serving requests.
func (l *Ledger) OnRollover(fn func(userID string)) {
	l.onRollover = fn
}

// DailyLimit returns the configured daily earning cap.
func (l *Ledger) DailyLimit() decimal.Decimal {
	return l.dailyLimit
}

// GetOrCreate returns the account for userID, creating a zero-valued one on
// first contact. Reports whether the account was created by this call.
func (l *Ledger) GetOrCreate(userID string) (domain.Account, bool, error) {
	var (
		acct    domain.Account
		created bool
	)
	err := l.store.Update(func(st *repository.State) error {
		a, ok := st.Users[userID]
		if !ok {
			a = domain.NewAccount(l.now())
			st.Users[userID] = a
			created = true
		}
		acct = *a
		return nil
	})
	if err != nil {
		return domain.Account{}, false, fmt.Errorf("get or create account: %w", err)
	}
	if created {
		slog.Info("account created", "user_id", userID)
	}
	return acct, created, nil
}

// Account returns a copy of an existing account.
func (l *Ledger) Account(userID string) (domain.Account, error) {
	var (
		acct  domain.Account
		found bool
	)
	l.store.View(func(st *repository.State) {
		if a, ok := st.Users[userID]; ok {
			acct = *a
			found = true
		}
	})
	if !found {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return acct, nil
}

// Credit grants an earned reward: balance, lifetime and daily totals grow by
// amount and the completed-task counter advances.
func (l *Ledger) Credit(userID string, amount decimal.Decimal) (domain.Account, error) {
	return l.credit(userID, amount, false)
}

// CreditReferral grants a referral bonus: same increments as Credit except
// the referral counter advances instead of the completed-task counter.
func (l *Ledger) CreditReferral(userID string, amount decimal.Decimal) (domain.Account, error) {
	return l.credit(userID, amount, true)
}

func (l *Ledger) credit(userID string, amount decimal.Decimal, referral bool) (domain.Account, error) {
	if amount.IsNegative() {
		return domain.Account{}, domain.ErrInvalidAmount
	}
	var (
		acct       domain.Account
		rolledOver bool
	)
	err := l.store.Update(func(st *repository.State) error {
		a := l.ensure(st, userID)
		rolledOver = l.rollover(a)
		a.Balance = a.Balance.Add(amount)
		a.TotalEarned = a.TotalEarned.Add(amount)
		a.DailyEarned = a.DailyEarned.Add(amount)
		if referral {
			a.Referrals++
		} else {
			a.TasksCompleted++
		}
		a.LastActivity = l.now()
		acct = *a
		return nil
	})
	if err != nil {
		return domain.Account{}, fmt.Errorf("credit account: %w", err)
	}
	l.notifyRollover(rolledOver, userID)
	return acct, nil
}

// Debit reserves funds out of the balance. Lifetime totals are untouched.
func (l *Ledger) Debit(userID string, amount decimal.Decimal) (domain.Account, error) {
	var acct domain.Account
	err := l.store.Update(func(st *repository.State) error {
		a, ok := st.Users[userID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		if err := debit(a, amount); err != nil {
			return err
		}
		acct = *a
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return acct, nil
}

// Restore reverses a reservation: balance only.
func (l *Ledger) Restore(userID string, amount decimal.Decimal) (domain.Account, error) {
	var acct domain.Account
	err := l.store.Update(func(st *repository.State) error {
		a, ok := st.Users[userID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		restore(a, amount)
		acct = *a
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return acct, nil
}

// Rollover resets the daily tally when the account's last activity falls on
// an earlier day. Idempotent; invoked at the start of every account-touching
// operation.
func (l *Ledger) Rollover(userID string) error {
	var rolledOver bool
	err := l.store.Update(func(st *repository.State) error {
		a, ok := st.Users[userID]
		if !ok {
			return nil
		}
		rolledOver = l.rollover(a)
		if !rolledOver {
			return repository.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rollover: %w", err)
	}
	l.notifyRollover(rolledOver, userID)
	return nil
}

// CanEarnToday reports whether the user is still under the daily cap. The
// rollover runs first, so this is the authoritative rollover trigger for
// display paths.
func (l *Ledger) CanEarnToday(userID string) (bool, error) {
	if err := l.Rollover(userID); err != nil {
		return false, err
	}
	acct, err := l.Account(userID)
	if err != nil {
		return false, err
	}
	return acct.DailyEarned.LessThan(l.dailyLimit), nil
}

// CanAccrue reports whether crediting amount would keep the account within
// the daily cap. This is the check the awarder uses: the cap invariant is on
// the post-credit tally, not on the pre-credit one.
func (l *Ledger) CanAccrue(userID string, amount decimal.Decimal) (bool, error) {
	if err := l.Rollover(userID); err != nil {
		return false, err
	}
	acct, err := l.Account(userID)
	if err != nil {
		return false, err
	}
	return acct.DailyEarned.Add(amount).LessThanOrEqual(l.dailyLimit), nil
}

func (l *Ledger) notifyRollover(rolledOver bool, userID string) {
	if rolledOver && l.onRollover != nil {
		slog.Info("daily earnings reset", "user_id", userID)
		l.onRollover(userID)
	}
}

// rollover mutates the account in place and reports whether it fired.
func (l *Ledger) rollover(a *domain.Account) bool {
	now := l.now()
	last := a.LastActivity
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !lastDay.Before(today) {
		return false
	}
	a.DailyEarned = decimal.Zero
	return true
}

func (l *Ledger) ensure(st *repository.State, userID string) *domain.Account {
	a, ok := st.Users[userID]
	if !ok {
		a = domain.NewAccount(l.now())
		st.Users[userID] = a
	}
	return a
}

// Tx exposes the ledger's debit/restore primitives inside an already-open
// store update, so multi-step workflows (payout submission and rejection)
// stay one transactional unit.
type Tx struct {
	st *repository.State
}

// WithState scopes the primitives to the given state, analogous to running
// queries on an open transaction.
func (l *Ledger) WithState(st *repository.State) *Tx {
	return &Tx{st: st}
}

func (tx *Tx) Debit(userID string, amount decimal.Decimal) error {
	a, ok := tx.st.Users[userID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	return debit(a, amount)
}

func (tx *Tx) Restore(userID string, amount decimal.Decimal) error {
	a, ok := tx.st.Users[userID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	restore(a, amount)
	return nil
}

func debit(a *domain.Account, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if amount.GreaterThan(a.Balance) {
		return domain.ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

func restore(a *domain.Account, amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}
