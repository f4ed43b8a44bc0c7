package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedEvent(t *testing.T, penaltyPrice, durationMinutes int) *Event {
	t.Helper()
	e := newTestEvent(t, penaltyPrice)
	start := time.Date(2026, 4, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, e.Start(start))
	require.NoError(t, e.End(start.Add(time.Duration(durationMinutes)*time.Minute)))
	return e
}

func newAttendance(t *testing.T, e *Event) *EventAttendance {
	t.Helper()
	a, err := NewEventAttendance(e.AssociationID, e.ID, uuid.New())
	require.NoError(t, err)
	return a
}

func TestRecordEntryAndExit(t *testing.T) {
	e := startedEvent(t, 300, 120)
	a := newAttendance(t, e)
	now := *e.StartTime

	t.Run("exit without entry never counts as attended", func(t *testing.T) {
		a.RecordExit(now.Add(time.Hour))
		assert.False(t, a.Attended)
		require.NotNil(t, a.ExitTime)
	})

	t.Run("re-entry clears a prior exit", func(t *testing.T) {
		a.RecordEntry(now.Add(65 * time.Minute))
		assert.Nil(t, a.ExitTime)
	})

	t.Run("exit after entry marks attended", func(t *testing.T) {
		a.RecordExit(now.Add(2 * time.Hour))
		assert.True(t, a.Attended)
	})

	t.Run("exit timestamp is only taken once", func(t *testing.T) {
		first := *a.ExitTime
		a.RecordExit(now.Add(3 * time.Hour))
		assert.True(t, a.ExitTime.Equal(first))
	})
}

func TestComputePenalty(t *testing.T) {
	e := startedEvent(t, 300, 120)

	t.Run("requires a complete event window", func(t *testing.T) {
		a := newAttendance(t, newTestEvent(t, 300))
		_, _, err := a.ComputePenalty(newTestEvent(t, 300))
		assert.Error(t, err)
	})

	t.Run("full price for total absence", func(t *testing.T) {
		a := newAttendance(t, e)
		penalty, late, err := a.ComputePenalty(e)
		require.NoError(t, err)
		assert.True(t, penalty.Equal(decimal.NewFromInt(300)), "got %s", penalty)
		assert.Equal(t, 0, late)
	})

	t.Run("full price when entry was never followed by exit", func(t *testing.T) {
		// Entering on time but never checking out does not count as
		// attendance, so the stray entry timestamp changes nothing.
		a := newAttendance(t, e)
		a.RecordEntry(*e.StartTime)
		require.False(t, a.Attended)

		penalty, _, err := a.ComputePenalty(e)
		require.NoError(t, err)
		assert.True(t, penalty.Equal(decimal.NewFromInt(300)), "got %s", penalty)
	})

	t.Run("full price for an exit without entry", func(t *testing.T) {
		a := newAttendance(t, e)
		a.RecordExit(*e.EndTime)
		require.False(t, a.Attended)

		penalty, _, err := a.ComputePenalty(e)
		require.NoError(t, err)
		assert.True(t, penalty.Equal(decimal.NewFromInt(300)), "got %s", penalty)
	})

	t.Run("half price for an attendee whose re-entry cleared the exit", func(t *testing.T) {
		a := newAttendance(t, e)
		a.RecordEntry(*e.StartTime)
		a.RecordExit(e.StartTime.Add(30 * time.Minute))
		a.RecordEntry(e.StartTime.Add(45 * time.Minute))
		require.True(t, a.Attended)
		require.Nil(t, a.ExitTime)

		penalty, _, err := a.ComputePenalty(e)
		require.NoError(t, err)
		assert.True(t, penalty.Equal(decimal.NewFromInt(150)), "got %s", penalty)
	})

	t.Run("late entry is pro-rated against the duration", func(t *testing.T) {
		// 30 late minutes of a 120 minute event at price 300 is 75
		a := newAttendance(t, e)
		a.RecordEntry(e.StartTime.Add(30 * time.Minute))
		a.RecordExit(*e.EndTime)
		penalty, late, err := a.ComputePenalty(e)
		require.NoError(t, err)
		assert.True(t, penalty.Equal(decimal.NewFromInt(75)), "got %s", penalty)
		assert.Equal(t, 30, late)
	})

	t.Run("early exit is pro-rated when entry was on time", func(t *testing.T) {
		a := newAttendance(t, e)
		a.RecordEntry(*e.StartTime)
		a.RecordExit(e.EndTime.Add(-60 * time.Minute))
		penalty, late, err := a.ComputePenalty(e)
		require.NoError(t, err)
		assert.True(t, penalty.Equal(decimal.NewFromInt(150)), "got %s", penalty)
		assert.Equal(t, 60, late)
	})

	t.Run("punctual attendance costs nothing", func(t *testing.T) {
		a := newAttendance(t, e)
		a.RecordEntry(*e.StartTime)
		a.RecordExit(*e.EndTime)
		penalty, late, err := a.ComputePenalty(e)
		require.NoError(t, err)
		assert.True(t, penalty.IsZero())
		assert.Equal(t, 0, late)
	})

	t.Run("result is a multiple of 25 bounded by the price", func(t *testing.T) {
		odd := startedEvent(t, 115, 90)
		for _, lateMin := range []int{0, 7, 33, 61, 90} {
			a := newAttendance(t, odd)
			a.RecordEntry(odd.StartTime.Add(time.Duration(lateMin) * time.Minute))
			a.RecordExit(*odd.EndTime)
			penalty, _, err := a.ComputePenalty(odd)
			require.NoError(t, err)
			assert.True(t, penalty.Mod(decimal.NewFromInt(25)).IsZero(),
				"late %d: %s not a multiple of 25", lateMin, penalty)
			assert.True(t, penalty.LessThanOrEqual(decimal.NewFromInt(115)),
				"late %d: %s exceeds the price", lateMin, penalty)
			assert.False(t, penalty.IsNegative())
		}

		// absence against an odd price is capped below the price
		absent := newAttendance(t, odd)
		penalty, _, err := absent.ComputePenalty(odd)
		require.NoError(t, err)
		assert.True(t, penalty.Equal(decimal.NewFromInt(100)), "got %s", penalty)
	})
}

func TestApplyPenalty(t *testing.T) {
	e := startedEvent(t, 300, 120)
	a := newAttendance(t, e)
	a.RecordEntry(e.StartTime.Add(30 * time.Minute))
	a.RecordExit(*e.EndTime)

	penalty, late, err := a.ComputePenalty(e)
	require.NoError(t, err)

	a.ApplyPenalty(penalty, late)
	assert.True(t, a.PenaltyAmount.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, 30, a.LateMinutes)
}
