package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the per-user ledger record. Accounts are keyed by the string
// form of the numeric Telegram user ID and persisted inside the snapshot
// document under "users".
type Account struct {
	Balance        decimal.Decimal `json:"balance"`
	TotalEarned    decimal.Decimal `json:"total_earned"`
	TasksCompleted int             `json:"tasks_completed"`
	Referrals      int             `json:"referrals"`
	DailyEarned    decimal.Decimal `json:"daily_earned"`
	LastActivity   time.Time       `json:"last_activity"`
	Joined         time.Time       `json:"joined"`
}

// NewAccount returns a zero-valued account created at the given time.
func NewAccount(now time.Time) *Account {
	return &Account{
		Balance:      decimal.Zero,
		TotalEarned:  decimal.Zero,
		DailyEarned:  decimal.Zero,
		LastActivity: now,
		Joined:       now,
	}
}

// DailyRemaining reports how much the account may still earn today under
// the given limit. Never negative.
func (a *Account) DailyRemaining(limit decimal.Decimal) decimal.Decimal {
	remaining := limit.Sub(a.DailyEarned)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
