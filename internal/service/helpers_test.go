package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/bitcorise/earnbot/internal/repository"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	store, err := repository.Open(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	return store
}

// fakeClock is a manually advanced clock shared by the services under test.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testCatalog() domain.Catalog {
	return domain.Catalog{
		"visit": {
			Name:        "Visit Article",
			Reward:      decimal.NewFromFloat(0.03),
			WaitSeconds: 30,
		},
		"watch": {
			Name:        "Watch Videos",
			Reward:      decimal.NewFromInt(4),
			WaitSeconds: 45,
			Links: []string{
				"https://example.com/v1",
				"https://example.com/v2",
				"https://example.com/v3",
			},
		},
		"watch_3min": {
			Name:        "Watch 3min",
			Reward:      decimal.NewFromFloat(0.2),
			WaitSeconds: 180,
			Links: []string{
				"https://example.com/long1",
				"https://example.com/long2",
			},
		},
	}
}

func newTestLedger(t *testing.T, limit decimal.Decimal, clock *fakeClock) *Ledger {
	t.Helper()
	ledger := NewLedger(newTestStore(t), limit)
	ledger.now = clock.Now
	return ledger
}
