package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitcorise/earnbot/internal/domain"
)

func newTestTimers(policy domain.TimerPolicy, clock *fakeClock) *TimerEngine {
	timers := NewTimerEngine(testCatalog(), policy)
	timers.now = clock.Now
	return timers
}

func TestTimer_Lifecycle(t *testing.T) {
	clock := newFakeClock()
	timers := newTestTimers(domain.TimerPolicyRestart, clock)
	instance := domain.InstanceKey{Category: "watch", Index: 1}

	_, running := timers.Remaining("1001", instance)
	assert.False(t, running, "no timer before Start")
	assert.False(t, timers.IsReady("1001", instance))

	timers.Start("1001", instance)
	remaining, running := timers.Remaining("1001", instance)
	assert.True(t, running)
	assert.Equal(t, 45*time.Second, remaining)
	assert.False(t, timers.IsReady("1001", instance))

	clock.Advance(45 * time.Second)
	assert.True(t, timers.IsReady("1001", instance))

	// Ready timers stay ready until claimed.
	clock.Advance(time.Hour)
	assert.True(t, timers.IsReady("1001", instance))
	remaining, running = timers.Remaining("1001", instance)
	assert.True(t, running)
	assert.Equal(t, time.Duration(0), remaining)

	timers.Clear("1001", instance)
	_, running = timers.Remaining("1001", instance)
	assert.False(t, running)
	assert.Equal(t, 0, timers.Count())
}

func TestTimer_RestartPolicy(t *testing.T) {
	clock := newFakeClock()
	timers := newTestTimers(domain.TimerPolicyRestart, clock)
	instance := domain.InstanceKey{Category: "watch", Index: 1}

	timers.Start("1001", instance)
	clock.Advance(30 * time.Second)

	timers.Start("1001", instance)
	remaining, _ := timers.Remaining("1001", instance)
	assert.Equal(t, 45*time.Second, remaining, "restart resets the countdown")
}

func TestTimer_ResumePolicy(t *testing.T) {
	clock := newFakeClock()
	timers := newTestTimers(domain.TimerPolicyResume, clock)
	instance := domain.InstanceKey{Category: "watch", Index: 1}

	timers.Start("1001", instance)
	clock.Advance(30 * time.Second)

	timers.Start("1001", instance)
	remaining, _ := timers.Remaining("1001", instance)
	assert.Equal(t, 15*time.Second, remaining, "resume keeps the original countdown")
}

func TestTimer_RemainingSecondsRoundsUp(t *testing.T) {
	clock := newFakeClock()
	timers := newTestTimers(domain.TimerPolicyRestart, clock)
	instance := domain.InstanceKey{Category: "watch", Index: 2}

	timers.Start("1001", instance)
	clock.Advance(100 * time.Millisecond)

	assert.Equal(t, 45, timers.RemainingSeconds("1001", instance))

	assert.Equal(t, 0, timers.RemainingSeconds("1001", domain.InstanceKey{Category: "watch", Index: 3}),
		"absent timer reports zero")
}

func TestTimer_ActiveForListsOnlyCountingTimers(t *testing.T) {
	clock := newFakeClock()
	timers := newTestTimers(domain.TimerPolicyRestart, clock)

	running := domain.InstanceKey{Category: "watch_3min", Index: 1}
	ready := domain.InstanceKey{Category: "visit"}
	other := domain.InstanceKey{Category: "watch", Index: 1}

	timers.Start("1001", running)
	timers.Start("1001", ready)
	timers.Start("2002", other)

	clock.Advance(30 * time.Second) // "visit" (30s) becomes ready

	active := timers.ActiveFor("1001")
	assert.Len(t, active, 1)
	assert.Equal(t, running, active[0].Instance)
	assert.Equal(t, 150*time.Second, active[0].Remaining)

	assert.Equal(t, 3, timers.Count(), "ready and foreign timers still exist")
}
