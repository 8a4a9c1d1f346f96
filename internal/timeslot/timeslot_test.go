package timeslot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/weekplanner/internal/model"
)

func TestSlotIndexForTime(t *testing.T) {
	g := DefaultGrid()

	cases := []struct {
		name   string
		hour   int
		minute int
		want   int
	}{
		{"first slot", 7, 0, 0},
		{"first slot late minute", 7, 29, 0},
		{"second half hour", 7, 30, 1},
		{"nine sharp", 9, 0, 4},
		{"nine forty-five rounds down", 9, 45, 5},
		{"last slot", 21, 30, 29},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := g.SlotIndexForTime(tc.hour, tc.minute)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSlotIndexForTime_OutOfRange(t *testing.T) {
	g := DefaultGrid()

	_, err := g.SlotIndexForTime(6, 30)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = g.SlotIndexForTime(22, 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSlotIndexForTime_Monotonic(t *testing.T) {
	g := DefaultGrid()

	prev := -1
	for hour := g.StartHour; hour < g.EndHour; hour++ {
		for _, minute := range []int{0, 30} {
			idx, err := g.SlotIndexForTime(hour, minute)
			require.NoError(t, err)
			assert.Greater(t, idx, prev, "index must strictly increase in wall-clock order")
			prev = idx
		}
	}
	assert.Equal(t, g.SlotCount()-1, prev)
}

func TestTimeForSlot_RoundTrip(t *testing.T) {
	g := DefaultGrid()

	for idx := 0; idx < g.SlotCount(); idx++ {
		hour, minute, err := g.TimeForSlot(idx)
		require.NoError(t, err)

		back, err := g.SlotIndexForTime(hour, minute)
		require.NoError(t, err)
		assert.Equal(t, idx, back)
	}

	_, _, err := g.TimeForSlot(g.SlotCount())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSlotsBetween(t *testing.T) {
	g := DefaultGrid()

	cases := []struct {
		name               string
		sh, sm, eh, em     int
		wantStart, wantEnd int
	}{
		// End on a slot boundary excludes the boundary slot.
		{"one hour on boundary", 9, 0, 10, 0, 4, 6},
		{"ninety minutes", 9, 0, 10, 30, 4, 7},
		{"half hour", 9, 30, 10, 0, 5, 6},
		// End strictly inside a slot keeps the slot.
		{"partial end slot", 9, 0, 10, 15, 4, 7},
		{"partial single slot", 9, 0, 9, 10, 4, 5},
		// Interval clamped to the grid window.
		{"starts before window", 6, 0, 8, 0, 0, 2},
		{"ends at window boundary", 21, 0, 22, 0, 28, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end, err := g.SlotsBetween(tc.sh, tc.sm, tc.eh, tc.em)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
			assert.GreaterOrEqual(t, end, start, "range must never be negative")
		})
	}
}

func TestSlotsBetween_InvalidRange(t *testing.T) {
	g := DefaultGrid()

	_, _, err := g.SlotsBetween(10, 0, 9, 0)
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	_, _, err = g.SlotsBetween(10, 0, 10, 0)
	assert.ErrorIs(t, err, model.ErrInvalidRange)
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, hour)
	assert.Equal(t, 30, minute)

	_, _, err = ParseClock("25:00")
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, _, err = ParseClock("garbage")
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "07:00", FormatClock(7, 0))
	assert.Equal(t, "21:30", FormatClock(21, 30))
}
