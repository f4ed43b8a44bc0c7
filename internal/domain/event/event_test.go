package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(t *testing.T, penaltyPrice int) *Event {
	t.Helper()
	e, err := NewEvent(uuid.New(), "general assembly", "quarterly meeting",
		time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC), penaltyPrice, "admin")
	require.NoError(t, err)
	return e
}

func TestNewEvent(t *testing.T) {
	t.Run("creates a scheduled event", func(t *testing.T) {
		e := newTestEvent(t, 300)
		assert.Nil(t, e.StartTime)
		assert.Nil(t, e.EndTime)
		assert.False(t, e.IsFinalized())
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		_, err := NewEvent(uuid.New(), "  ", "", time.Now(), 100, "admin")
		assert.Error(t, err)
	})

	t.Run("rejects a negative penalty price", func(t *testing.T) {
		_, err := NewEvent(uuid.New(), "meeting", "", time.Now(), -25, "admin")
		assert.Error(t, err)
	})
}

func TestEventStartAndEnd(t *testing.T) {
	e := newTestEvent(t, 300)
	start := time.Date(2026, 4, 5, 9, 0, 0, 0, time.UTC)

	t.Run("cannot end before starting", func(t *testing.T) {
		assert.Error(t, e.End(start))
	})

	t.Run("start records the moment once", func(t *testing.T) {
		require.NoError(t, e.Start(start))
		assert.Error(t, e.Start(start.Add(time.Minute)))
	})

	t.Run("end must come after start", func(t *testing.T) {
		assert.Error(t, e.End(start.Add(-time.Hour)))
		require.NoError(t, e.End(start.Add(2*time.Hour)))
		assert.Error(t, e.End(start.Add(3*time.Hour)))
	})

	t.Run("duration is derived from the recorded window", func(t *testing.T) {
		minutes, err := e.DurationMinutes()
		require.NoError(t, err)
		assert.Equal(t, 120, minutes)
	})
}

func TestEventFinalize(t *testing.T) {
	e := newTestEvent(t, 300)
	start := time.Date(2026, 4, 5, 9, 0, 0, 0, time.UTC)

	t.Run("requires a complete window", func(t *testing.T) {
		assert.Error(t, e.Finalize(start))
		require.NoError(t, e.Start(start))
		assert.Error(t, e.Finalize(start.Add(time.Hour)))
	})

	t.Run("finalizes exactly once", func(t *testing.T) {
		require.NoError(t, e.End(start.Add(2*time.Hour)))
		require.NoError(t, e.Finalize(start.Add(3*time.Hour)))
		assert.True(t, e.IsFinalized())
		assert.Error(t, e.Finalize(start.Add(4*time.Hour)))
	})
}

func TestEventCanDelete(t *testing.T) {
	e := newTestEvent(t, 300)

	t.Run("allowed before the scheduled day", func(t *testing.T) {
		assert.NoError(t, e.CanDelete(e.Date.AddDate(0, 0, -1)))
		assert.NoError(t, e.CanDelete(e.Date))
	})

	t.Run("rejected once the day has passed", func(t *testing.T) {
		assert.Error(t, e.CanDelete(e.Date.AddDate(0, 0, 1)))
	})
}
