package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcorise/earnbot/internal/domain"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "777")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(777), cfg.AdminID)
	assert.True(t, cfg.IsAdmin(777))
	assert.False(t, cfg.IsAdmin(778))
	assert.True(t, cfg.MinWithdrawAmount().Equal(decimal.NewFromInt(5)))
	assert.True(t, cfg.DailyLimitAmount().Equal(decimal.NewFromInt(10)))
	assert.True(t, cfg.ReferralBonusAmount().Equal(decimal.NewFromFloat(0.5)))
	assert.Equal(t, domain.TimerPolicyRestart, cfg.Policy())
	assert.Equal(t, "$", cfg.Currency)
	assert.Equal(t, 5000, cfg.Port)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("ADMIN_ID", "777")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidTimerPolicy(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TIMER_POLICY", "pause")

	_, err := Load()
	assert.ErrorContains(t, err, "TIMER_POLICY")
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"tasks": {
			"watch": {
				"name": "Watch Videos",
				"description": "Watch the full video.",
				"reward": 0.05,
				"wait": 45,
				"links": ["https://a", "https://b"]
			},
			"visit": {"name": "Visit Article", "reward": 0.03, "wait": 30}
		},
		"payout_methods": {
			"paypal": {"name": "PayPal", "address_format": "email", "enabled": true}
		}
	}`), 0o644))

	catalog, methods, err := LoadCatalog(path)
	require.NoError(t, err)

	require.Len(t, catalog, 2)
	watch := catalog["watch"]
	assert.Equal(t, "Watch Videos", watch.Name)
	assert.Equal(t, 45, watch.WaitSeconds)
	assert.True(t, watch.Reward.Equal(decimal.NewFromFloat(0.05)))
	assert.Len(t, watch.Links, 2)

	require.Len(t, methods, 1)
	assert.True(t, methods["paypal"].Enabled)
}

func TestLoadCatalog_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadCatalog(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"tasks": {}}`), 0o644))
	_, _, err = LoadCatalog(empty)
	assert.ErrorContains(t, err, "no tasks")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"tasks": {"x": {"reward": -1, "wait": 5}}}`), 0o644))
	_, _, err = LoadCatalog(bad)
	assert.ErrorContains(t, err, "negative reward")
}
