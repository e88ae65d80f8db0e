package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferrals_Attribute(t *testing.T) {
	clock := newFakeClock()
	ledger := newTestLedger(t, decimal.NewFromInt(10), clock)
	referrals := NewReferrals(ledger, decimal.NewFromFloat(0.5), false)

	_, _, err := ledger.GetOrCreate("1001")
	require.NoError(t, err)

	tests := []struct {
		name       string
		newUser    string
		referrer   string
		wantCredit bool
	}{
		{"empty referrer", "2002", "", false},
		{"self referral", "1001", "1001", false},
		{"unknown referrer", "2002", "9999", false},
		{"valid referral", "2002", "1001", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			credited, err := referrals.Attribute(tt.newUser, tt.referrer)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCredit, credited)
		})
	}

	acct, err := ledger.Account("1001")
	require.NoError(t, err)
	assert.Equal(t, 1, acct.Referrals)
	assert.True(t, acct.Balance.Equal(decimal.NewFromFloat(0.5)))
	assert.Equal(t, 0, acct.TasksCompleted)
}

func TestReferrals_BonusBypassesCapByDefault(t *testing.T) {
	ledger := newTestLedger(t, decimal.NewFromInt(10), newFakeClock())
	referrals := NewReferrals(ledger, decimal.NewFromFloat(0.5), false)

	_, err := ledger.Credit("1001", decimal.NewFromInt(10))
	require.NoError(t, err)

	credited, err := referrals.Attribute("2002", "1001")
	require.NoError(t, err)
	assert.True(t, credited, "default behavior credits past the daily cap")

	acct, err := ledger.Account("1001")
	require.NoError(t, err)
	assert.True(t, acct.DailyEarned.Equal(decimal.NewFromFloat(10.5)))
}

func TestReferrals_BonusGatedByCapWhenConfigured(t *testing.T) {
	ledger := newTestLedger(t, decimal.NewFromInt(10), newFakeClock())
	referrals := NewReferrals(ledger, decimal.NewFromFloat(0.5), true)

	_, err := ledger.Credit("1001", decimal.NewFromInt(10))
	require.NoError(t, err)

	credited, err := referrals.Attribute("2002", "1001")
	require.NoError(t, err)
	assert.False(t, credited)

	acct, err := ledger.Account("1001")
	require.NoError(t, err)
	assert.Equal(t, 0, acct.Referrals)
	assert.True(t, acct.DailyEarned.Equal(decimal.NewFromInt(10)))
}
