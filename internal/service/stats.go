package service

import (
	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/bitcorise/earnbot/internal/repository"
	"github.com/shopspring/decimal"
)

// Stats aggregates platform totals for the dashboard and admin views.
type Stats struct {
	store  *repository.Store
	timers *TimerEngine
}

func NewStats(store *repository.Store, timers *TimerEngine) *Stats {
	return &Stats{store: store, timers: timers}
}

// Summary is one consistent snapshot of the platform totals.
type Summary struct {
	TotalUsers      int             `json:"total_users"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	TotalEarned     decimal.Decimal `json:"total_earned"`
	TasksCompleted  int             `json:"tasks_completed"`
	TotalReferrals  int             `json:"total_referrals"`
	ActiveTasks     int             `json:"active_tasks"`
	PendingPayouts  int             `json:"pending_payouts"`
	ApprovedPayouts int             `json:"approved_payouts"`
	RejectedPayouts int             `json:"rejected_payouts"`
}

// Collect computes the summary under the store lock, then adds the live
// timer count.
func (s *Stats) Collect() Summary {
	summary := Summary{
		TotalBalance: decimal.Zero,
		TotalEarned:  decimal.Zero,
	}
	s.store.View(func(st *repository.State) {
		summary.TotalUsers = len(st.Users)
		for _, acct := range st.Users {
			summary.TotalBalance = summary.TotalBalance.Add(acct.Balance)
			summary.TotalEarned = summary.TotalEarned.Add(acct.TotalEarned)
			summary.TasksCompleted += acct.TasksCompleted
			summary.TotalReferrals += acct.Referrals
		}
		for _, req := range st.PayoutRequests {
			switch req.Status {
			case domain.PayoutStatusPending:
				summary.PendingPayouts++
			case domain.PayoutStatusApproved:
				summary.ApprovedPayouts++
			case domain.PayoutStatusRejected:
				summary.RejectedPayouts++
			}
		}
	})
	summary.ActiveTasks = s.timers.Count()
	return summary
}
