package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcorise/earnbot/internal/domain"
)

func TestStats_Collect(t *testing.T) {
	clock := newFakeClock()
	store := newTestStore(t)

	ledger := NewLedger(store, decimal.NewFromInt(100))
	ledger.now = clock.Now
	timers := NewTimerEngine(testCatalog(), domain.TimerPolicyRestart)
	timers.now = clock.Now

	_, err := ledger.Credit("1001", decimal.NewFromInt(20))
	require.NoError(t, err)
	_, err = ledger.Credit("2002", decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = ledger.CreditReferral("1001", decimal.NewFromInt(1))
	require.NoError(t, err)

	payouts := NewPayouts(store, ledger, testMethods(), decimal.NewFromInt(5), testAdminID)
	payouts.now = clock.Now
	_, err = payouts.Submit("1001", "alice", decimal.NewFromInt(5), "paypal", "a")
	require.NoError(t, err)
	approvedID, err := payouts.Submit("2002", "bob", decimal.NewFromInt(5), "paypal", "b")
	require.NoError(t, err)
	_, err = payouts.Approve(approvedID, testAdminID)
	require.NoError(t, err)

	timers.Start("1001", domain.InstanceKey{Category: "visit"})

	summary := NewStats(store, timers).Collect()

	assert.Equal(t, 2, summary.TotalUsers)
	assert.True(t, summary.TotalBalance.Equal(decimal.NewFromInt(16)), "26 earned minus 10 reserved")
	assert.True(t, summary.TotalEarned.Equal(decimal.NewFromInt(26)))
	assert.Equal(t, 2, summary.TasksCompleted)
	assert.Equal(t, 1, summary.TotalReferrals)
	assert.Equal(t, 1, summary.ActiveTasks)
	assert.Equal(t, 1, summary.PendingPayouts)
	assert.Equal(t, 1, summary.ApprovedPayouts)
	assert.Equal(t, 0, summary.RejectedPayouts)
}
