// Package slotkey builds and parses the composite identifiers that address
// planner records: slot keys ("{week}-{day}-{slot}") for appointment blocks
// and day keys ("{week}-{day}") for tasks and metrics.
package slotkey

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/timeslot"
)

// Ref addresses one appointment block.
type Ref struct {
	WeekID    string
	DayIndex  int
	SlotIndex int
}

// Encode produces the slot key for one block.
func Encode(weekID string, dayIndex, slotIndex int) string {
	return fmt.Sprintf("%s-%d-%d", weekID, dayIndex, slotIndex)
}

// Decode splits a slot key into its parts. The week id may itself contain
// hyphens ("2025-W10"), so parsing consumes the final two segments and keeps
// the remainder as the week id.
func Decode(key string) (Ref, error) {
	parts := strings.Split(key, "-")
	if len(parts) < 3 {
		return Ref{}, fmt.Errorf("key %q: %w", key, model.ErrMalformedKey)
	}

	slot, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return Ref{}, fmt.Errorf("key %q slot segment: %w", key, model.ErrMalformedKey)
	}
	day, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return Ref{}, fmt.Errorf("key %q day segment: %w", key, model.ErrMalformedKey)
	}
	week := strings.Join(parts[:len(parts)-2], "-")
	if week == "" {
		return Ref{}, fmt.Errorf("key %q: empty week id: %w", key, model.ErrMalformedKey)
	}
	return Ref{WeekID: week, DayIndex: day, SlotIndex: slot}, nil
}

// DayKey produces the key addressing per-day records (tasks, metrics).
func DayKey(weekID string, dayIndex int) string {
	return fmt.Sprintf("%s-%d", weekID, dayIndex)
}

// IsLegacyFormat reports whether a stored key still uses the old hourly
// scheme, where the trailing segment encoded an hour-of-day instead of a slot
// index. The record's stored hour must match the trailing segment, be a valid
// grid hour, and disagree with the slot index the new scheme would assign.
//
// The rule is heuristic: a new-format key whose slot index happens to equal
// its hour is indistinguishable from a legacy key. An explicit schema-version
// marker is the durable fix; callers should log when migration re-flags a key
// it already produced.
func IsLegacyFormat(key string, storedHour int, grid timeslot.Grid) bool {
	ref, err := Decode(key)
	if err != nil {
		return false
	}
	if ref.SlotIndex != storedHour {
		return false
	}
	if storedHour < grid.StartHour || storedHour >= grid.EndHour {
		return false
	}
	expectedSlot := (storedHour - grid.StartHour) * 2
	return expectedSlot != ref.SlotIndex
}

// WeekID derives the ISO-8601 week identifier ("YYYY-Www") for a date.
// Weeks start on Monday; week 1 is the week containing the year's first
// Thursday.
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
