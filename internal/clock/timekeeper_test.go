package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulated(t *testing.T) *Timekeeper {
	t.Helper()
	tk := NewTimekeeper(ModeSimulated, time.Second, time.UTC, nil)
	tk.Set(28800, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	return tk
}

func TestSetRepositionsSimulatedTime(t *testing.T) {
	tk := newSimulated(t)

	tick := tk.Now()
	assert.Equal(t, 28800, tick.Seconds)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), tick.Date)
	assert.Equal(t, ModeSimulated, tk.Mode())
}

func TestStepAdvancesByIntervalTimesSpeed(t *testing.T) {
	tk := newSimulated(t)

	tick := tk.Step()
	assert.Equal(t, 28801, tick.Seconds)

	tk.SetSpeed(60)
	tick = tk.Step()
	assert.Equal(t, 28861, tick.Seconds)
}

func TestStepWhilePausedHoldsTime(t *testing.T) {
	tk := newSimulated(t)

	tk.Pause()
	assert.False(t, tk.Playing())
	assert.Equal(t, 28800, tk.Step().Seconds)

	tk.Play()
	assert.Equal(t, 28801, tk.Step().Seconds)
}

func TestMidnightRollsOverToNextServiceDate(t *testing.T) {
	tk := NewTimekeeper(ModeSimulated, time.Second, time.UTC, nil)
	tk.Set(86399, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

	tick := tk.Step()
	assert.Equal(t, 0, tick.Seconds)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), tick.Date)
}

func TestAdvanceJumpsForward(t *testing.T) {
	tk := newSimulated(t)

	tk.Advance(3600)
	assert.Equal(t, 32400, tk.Now().Seconds)

	// Jumping across midnight moves the date too.
	tk.Advance(86400)
	tick := tk.Now()
	assert.Equal(t, 32400, tick.Seconds)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), tick.Date)
}

func TestAdvanceIgnoredInRealMode(t *testing.T) {
	tk := NewTimekeeper(ModeReal, time.Second, time.UTC, nil)

	before := tk.Now().Seconds
	tk.Advance(3600)
	after := tk.Now().Seconds
	assert.InDelta(t, before, after, 2)
}

func TestSetSpeedRejectsNonPositive(t *testing.T) {
	tk := newSimulated(t)

	tk.SetSpeed(0)
	assert.Equal(t, 1.0, tk.Speed())
	tk.SetSpeed(-5)
	assert.Equal(t, 1.0, tk.Speed())
	tk.SetSpeed(30)
	assert.Equal(t, 30.0, tk.Speed())
}

func TestRealModeTracksWallClock(t *testing.T) {
	tk := NewTimekeeper(ModeReal, time.Second, time.UTC, nil)

	now := time.Now().UTC()
	want := now.Hour()*3600 + now.Minute()*60 + now.Second()
	assert.InDelta(t, want, tk.Now().Seconds, 2)
}

func TestRunNotifiesListeners(t *testing.T) {
	tk := NewTimekeeper(ModeSimulated, 5*time.Millisecond, time.UTC, nil)
	tk.Set(100, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

	ticks := make(chan Tick, 16)
	tk.AddListener(func(tick Tick) {
		select {
		case ticks <- tick:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tk.Run(ctx)

	select {
	case tick := <-ticks:
		require.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), tick.Date)
	case <-time.After(time.Second):
		t.Fatal("no tick delivered")
	}
}
