package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitcorise/earnbot/internal/domain"
)

func newTestRegistry(t *testing.T, clock *fakeClock) *CompletionRegistry {
	t.Helper()
	registry := NewCompletionRegistry(testCatalog(), newTestStore(t))
	registry.now = clock.Now
	return registry
}

func TestRegistry_MarkAndQuery(t *testing.T) {
	clock := newFakeClock()
	registry := newTestRegistry(t, clock)
	instance := domain.InstanceKey{Category: "watch", Index: 2}

	assert.False(t, registry.HasCompletedToday("1001", instance))

	registry.MarkCompleted("1001", instance)
	assert.True(t, registry.HasCompletedToday("1001", instance))
	assert.Equal(t, 1, registry.CompletedToday("1001"))

	// Idempotent.
	registry.MarkCompleted("1001", instance)
	assert.Equal(t, 1, registry.CompletedToday("1001"))

	// Isolated per user and per instance.
	assert.False(t, registry.HasCompletedToday("2002", instance))
	assert.False(t, registry.HasCompletedToday("1001", domain.InstanceKey{Category: "watch", Index: 1}))
}

func TestRegistry_AvailableInstancesOrderingAndExclusion(t *testing.T) {
	clock := newFakeClock()
	registry := newTestRegistry(t, clock)

	registry.MarkCompleted("1001", domain.InstanceKey{Category: "watch", Index: 2})

	available := registry.AvailableInstances("1001", "watch")
	assert.Equal(t, []domain.InstanceKey{
		{Category: "watch", Index: 1},
		{Category: "watch", Index: 3},
	}, available)

	// Single-instance category yields the bare category key.
	assert.Equal(t, []domain.InstanceKey{{Category: "visit"}},
		registry.AvailableInstances("1001", "visit"))

	assert.Nil(t, registry.AvailableInstances("1001", "unknown"))
}

func TestRegistry_NewDayMakesInstancesAvailable(t *testing.T) {
	clock := newFakeClock()
	registry := newTestRegistry(t, clock)
	instance := domain.InstanceKey{Category: "visit"}

	registry.MarkCompleted("1001", instance)
	assert.True(t, registry.HasCompletedToday("1001", instance))

	clock.Advance(24 * time.Hour)
	assert.False(t, registry.HasCompletedToday("1001", instance),
		"completions are keyed by calendar day")
	assert.Equal(t, 0, registry.CompletedToday("1001"))
}

func TestRegistry_PruneToToday(t *testing.T) {
	clock := newFakeClock()
	registry := newTestRegistry(t, clock)

	registry.MarkCompleted("1001", domain.InstanceKey{Category: "visit"})
	clock.Advance(24 * time.Hour)
	registry.MarkCompleted("1001", domain.InstanceKey{Category: "watch", Index: 1})

	registry.PruneToToday("1001")

	assert.True(t, registry.HasCompletedToday("1001", domain.InstanceKey{Category: "watch", Index: 1}))
	assert.Equal(t, 1, registry.CompletedToday("1001"))

	// Yesterday's record is gone even if the clock moved back.
	clock.Advance(-24 * time.Hour)
	assert.False(t, registry.HasCompletedToday("1001", domain.InstanceKey{Category: "visit"}))

	// Pruning an unknown user is a no-op.
	registry.PruneToToday("missing")
}
