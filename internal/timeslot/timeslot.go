// Package timeslot maps wall-clock times onto the fixed sequence of half-hour
// calendar slots and back. Slot 0 starts at the grid's start hour; slots are
// numbered consecutively, two per hour, up to (but excluding) the end hour.
package timeslot

import (
	"fmt"

	"github.com/planora/weekplanner/internal/model"
)

// Default planning window: 07:00 inclusive to 22:00 exclusive.
const (
	DefaultStartHour = 7
	DefaultEndHour   = 22

	// SlotMinutes is the fixed slot width.
	SlotMinutes = 30
)

// Grid describes the configured slot window for one calendar day.
type Grid struct {
	StartHour int
	EndHour   int // exclusive boundary
}

// DefaultGrid returns the standard 07:00-22:00 grid.
func DefaultGrid() Grid {
	return Grid{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
}

// SlotCount returns the number of half-hour slots in one day.
func (g Grid) SlotCount() int {
	return (g.EndHour - g.StartHour) * 2
}

// ValidSlot reports whether idx addresses a slot inside the grid.
func (g Grid) ValidSlot(idx int) bool {
	return idx >= 0 && idx < g.SlotCount()
}

// SlotIndexForTime maps a wall-clock time to the slot whose window contains
// it. Minutes are rounded down to the nearest half hour. Returns
// model.ErrNotFound when the hour falls outside the grid.
func (g Grid) SlotIndexForTime(hour, minute int) (int, error) {
	if hour < g.StartHour || hour >= g.EndHour {
		return 0, fmt.Errorf("hour %d outside %02d:00-%02d:00: %w", hour, g.StartHour, g.EndHour, model.ErrNotFound)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("minute %d: %w", minute, model.ErrValidation)
	}
	idx := (hour - g.StartHour) * 2
	if minute >= SlotMinutes {
		idx++
	}
	return idx, nil
}

// TimeForSlot returns the canonical start time of a slot.
func (g Grid) TimeForSlot(idx int) (hour, minute int, err error) {
	if !g.ValidSlot(idx) {
		return 0, 0, fmt.Errorf("slot %d outside grid: %w", idx, model.ErrNotFound)
	}
	hour = g.StartHour + idx/2
	if idx%2 == 1 {
		minute = SlotMinutes
	}
	return hour, minute, nil
}

// SlotsBetween computes the half-open slot range [start, end) covered by the
// wall-clock interval [startTime, endTime). An end time landing exactly on a
// slot boundary excludes that slot; an end time strictly inside a slot keeps
// it. Callers must ensure endTime > startTime; violation yields
// model.ErrInvalidRange.
func (g Grid) SlotsBetween(startHour, startMinute, endHour, endMinute int) (slotStart, slotEnd int, err error) {
	if endHour < startHour || (endHour == startHour && endMinute <= startMinute) {
		return 0, 0, fmt.Errorf("end %02d:%02d not after start %02d:%02d: %w",
			endHour, endMinute, startHour, startMinute, model.ErrInvalidRange)
	}

	// Clamp to the grid window before converting. Activities may legitimately
	// start before the window or end at its exclusive boundary.
	startTotal := clamp(startHour*60+startMinute, g.StartHour*60, g.EndHour*60)
	endTotal := clamp(endHour*60+endMinute, g.StartHour*60, g.EndHour*60)

	base := g.StartHour * 60
	slotStart = (startTotal - base) / SlotMinutes
	// Round the end up to the next boundary so a partial slot stays included,
	// while an exact boundary contributes nothing.
	slotEnd = (endTotal - base + SlotMinutes - 1) / SlotMinutes

	if slotEnd < slotStart {
		slotEnd = slotStart
	}
	return slotStart, slotEnd, nil
}

// ParseClock parses a "HH:MM" string.
func ParseClock(s string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("clock %q: %w", s, model.ErrValidation)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock %q out of range: %w", s, model.ErrValidation)
	}
	return hour, minute, nil
}

// FormatClock renders a zero-padded "HH:MM" string.
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
