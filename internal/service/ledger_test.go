package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcorise/earnbot/internal/domain"
)

func TestGetOrCreate_Idempotent(t *testing.T) {
	clock := newFakeClock()
	ledger := newTestLedger(t, decimal.NewFromInt(10), clock)

	first, created, err := ledger.GetOrCreate("1001")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, first.Balance.IsZero())
	assert.Equal(t, clock.Now(), first.Joined)

	clock.Advance(time.Hour)

	second, created, err := ledger.GetOrCreate("1001")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Joined, second.Joined, "existing account must keep its join time")
}

func TestAccount_NotFound(t *testing.T) {
	ledger := newTestLedger(t, decimal.NewFromInt(10), newFakeClock())

	_, err := ledger.Account("missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCredit_AdvancesAllTallies(t *testing.T) {
	clock := newFakeClock()
	ledger := newTestLedger(t, decimal.NewFromInt(10), clock)

	_, _, err := ledger.GetOrCreate("1001")
	require.NoError(t, err)

	acct, err := ledger.Credit("1001", decimal.NewFromFloat(0.05))
	require.NoError(t, err)

	assert.True(t, acct.Balance.Equal(decimal.NewFromFloat(0.05)))
	assert.True(t, acct.TotalEarned.Equal(decimal.NewFromFloat(0.05)))
	assert.True(t, acct.DailyEarned.Equal(decimal.NewFromFloat(0.05)))
	assert.Equal(t, 1, acct.TasksCompleted)
	assert.Equal(t, 0, acct.Referrals)
	assert.Equal(t, clock.Now(), acct.LastActivity)
}

func TestCreditReferral_AdvancesReferralCounter(t *testing.T) {
	ledger := newTestLedger(t, decimal.NewFromInt(10), newFakeClock())

	acct, err := ledger.CreditReferral("1001", decimal.NewFromFloat(0.5))
	require.NoError(t, err)

	assert.Equal(t, 1, acct.Referrals)
	assert.Equal(t, 0, acct.TasksCompleted)
	assert.True(t, acct.Balance.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, acct.TotalEarned.Equal(decimal.NewFromFloat(0.5)))
}

func TestCredit_NegativeAmount(t *testing.T) {
	ledger := newTestLedger(t, decimal.NewFromInt(10), newFakeClock())

	_, err := ledger.Credit("1001", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDebit_InsufficientBalance(t *testing.T) {
	ledger := newTestLedger(t, decimal.NewFromInt(10), newFakeClock())

	_, err := ledger.Credit("1001", decimal.NewFromInt(3))
	require.NoError(t, err)

	_, err = ledger.Debit("1001", decimal.NewFromInt(5))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	acct, err := ledger.Account("1001")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(3)), "failed debit must not touch the balance")
}

func TestDebitAndRestore_BalanceOnly(t *testing.T) {
	ledger := newTestLedger(t, decimal.NewFromInt(10), newFakeClock())

	_, err := ledger.Credit("1001", decimal.NewFromInt(8))
	require.NoError(t, err)

	acct, err := ledger.Debit("1001", decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(3)))
	assert.True(t, acct.TotalEarned.Equal(decimal.NewFromInt(8)), "debit must not touch lifetime earnings")
	assert.True(t, acct.DailyEarned.Equal(decimal.NewFromInt(8)), "debit must not touch the daily tally")

	acct, err = ledger.Restore("1001", decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(8)))
	assert.True(t, acct.TotalEarned.Equal(decimal.NewFromInt(8)))
}

func TestRollover_ResetsDailyEarnedOnly(t *testing.T) {
	clock := newFakeClock()
	ledger := newTestLedger(t, decimal.NewFromInt(10), clock)

	var pruned []string
	ledger.OnRollover(func(userID string) { pruned = append(pruned, userID) })

	_, err := ledger.Credit("1001", decimal.NewFromInt(7))
	require.NoError(t, err)

	// Same day: nothing happens.
	require.NoError(t, ledger.Rollover("1001"))
	acct, err := ledger.Account("1001")
	require.NoError(t, err)
	assert.True(t, acct.DailyEarned.Equal(decimal.NewFromInt(7)))
	assert.Empty(t, pruned)

	clock.Advance(24 * time.Hour)

	require.NoError(t, ledger.Rollover("1001"))
	acct, err = ledger.Account("1001")
	require.NoError(t, err)
	assert.True(t, acct.DailyEarned.IsZero())
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(7)), "rollover must keep the balance")
	assert.True(t, acct.TotalEarned.Equal(decimal.NewFromInt(7)), "rollover must keep lifetime earnings")
	assert.Equal(t, []string{"1001"}, pruned)

	// Idempotent: a second call on the same day fires nothing.
	require.NoError(t, ledger.Rollover("1001"))
	assert.Equal(t, []string{"1001"}, pruned)
}

func TestRollover_UnknownUserIsNoop(t *testing.T) {
	ledger := newTestLedger(t, decimal.NewFromInt(10), newFakeClock())
	assert.NoError(t, ledger.Rollover("missing"))
}

func TestCanAccrue_DailyCapBoundary(t *testing.T) {
	// Daily limit 10, rewards of 4: two fit, the third would overshoot.
	ledger := newTestLedger(t, decimal.NewFromInt(10), newFakeClock())

	_, err := ledger.Credit("1001", decimal.NewFromInt(4))
	require.NoError(t, err)
	_, err = ledger.Credit("1001", decimal.NewFromInt(4))
	require.NoError(t, err)

	ok, err := ledger.CanAccrue("1001", decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.False(t, ok, "8 earned + 4 would exceed the cap of 10")

	ok, err = ledger.CanAccrue("1001", decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.True(t, ok, "8 earned + 2 lands exactly on the cap")

	ok, err = ledger.CanEarnToday("1001")
	require.NoError(t, err)
	assert.True(t, ok, "8 earned is still under the cap")
}

func TestCanEarnToday_AtCap(t *testing.T) {
	clock := newFakeClock()
	ledger := newTestLedger(t, decimal.NewFromInt(10), clock)

	_, err := ledger.Credit("1001", decimal.NewFromInt(10))
	require.NoError(t, err)

	ok, err := ledger.CanEarnToday("1001")
	require.NoError(t, err)
	assert.False(t, ok)

	// A new day reopens the cap.
	clock.Advance(24 * time.Hour)
	ok, err = ledger.CanEarnToday("1001")
	require.NoError(t, err)
	assert.True(t, ok)
}
