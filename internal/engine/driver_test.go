package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loolos/Antarctica/internal/config"
	"github.com/loolos/Antarctica/internal/entropy"
)

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	eng := New(config.Default(), entropy.NewSource(42))
	return NewDriver(eng, 5.0)
}

func TestDriverSpeedRange(t *testing.T) {
	d := newTestDriver(t)

	assert.ErrorIs(t, d.SetSpeed(0.05), ErrSpeedRange)
	assert.ErrorIs(t, d.SetSpeed(11), ErrSpeedRange)
	assert.Equal(t, 1.0, d.Speed(), "rejected multipliers must not apply")

	require.NoError(t, d.SetSpeed(0.1))
	require.NoError(t, d.SetSpeed(10.0))
	require.NoError(t, d.SetSpeed(2.5))
	assert.Equal(t, 2.5, d.Speed())
}

func TestDriverStep(t *testing.T) {
	d := newTestDriver(t)

	require.NoError(t, d.Step(5))
	assert.Equal(t, 5, d.Snapshot().Tick)

	assert.ErrorIs(t, d.Step(0), ErrStepCount)
	assert.Equal(t, 5, d.Snapshot().Tick)
}

func TestDriverStartStop(t *testing.T) {
	d := newTestDriver(t)

	assert.False(t, d.Running())
	d.Start()
	assert.True(t, d.Running())
	d.Stop()
	assert.False(t, d.Running())
}

func TestDriverStepBroadcasts(t *testing.T) {
	d := newTestDriver(t)

	id, ch := d.Subscribe()
	defer d.Unsubscribe(id)

	require.NoError(t, d.Step(1))

	select {
	case snap := <-ch:
		assert.Equal(t, 1, snap.Tick)
	default:
		t.Fatal("no snapshot broadcast after a step")
	}
}

func TestDriverUnsubscribeCloses(t *testing.T) {
	d := newTestDriver(t)

	id, ch := d.Subscribe()
	d.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open, "channel must close on unsubscribe")

	// Double unsubscribe is a no-op.
	d.Unsubscribe(id)
}

func TestDriverReportHook(t *testing.T) {
	d := newTestDriver(t)
	d.ReportInterval = 2

	var reports []SimStats
	d.OnReport = func(s SimStats, events []Event) {
		reports = append(reports, s)
	}

	for i := 0; i < 4; i++ {
		require.NoError(t, d.Step(1))
	}

	require.Len(t, reports, 2, "hook fires every ReportInterval ticks")
	assert.Equal(t, 2, reports[0].Tick)
	assert.Equal(t, 4, reports[1].Tick)
}

func TestDriverReset(t *testing.T) {
	d := newTestDriver(t)
	require.NoError(t, d.Step(10))

	d.Reset()
	assert.Equal(t, 0, d.Snapshot().Tick)
}
