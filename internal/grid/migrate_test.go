package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/timeslot"
)

func legacyRecord(key string, hour int, start, end string) *model.Appointment {
	return &model.Appointment{
		UserID:    testUser,
		SlotKey:   key,
		WeekID:    testWeek,
		DayIndex:  0,
		SlotIndex: hour,
		Hour:      hour,
		Category:  model.CategoryIncome,
		Activity:  "6. Sales Appointments",
		StartTime: start,
		EndTime:   end,
		GroupID:   "g-legacy",
		UpdatedAt: time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC),
	}
}

// Scenario E: a record keyed by hour expands to one block per covered half
// hour under the slot-index scheme, and its old key is marked for deletion.
func TestMigrateLegacy_ExpandsHourlyRecord(t *testing.T) {
	g := timeslot.DefaultGrid()

	res := MigrateLegacy(g, []*model.Appointment{
		legacyRecord("2025-W10-0-9", 9, "09:00", "10:00"),
	})

	require.Len(t, res.Migrated, 2)
	assert.Equal(t, "2025-W10-0-4", res.Migrated[0].SlotKey)
	assert.Equal(t, 4, res.Migrated[0].SlotIndex)
	assert.Equal(t, 9, res.Migrated[0].Hour)
	assert.Equal(t, "2025-W10-0-5", res.Migrated[1].SlotKey)
	assert.Equal(t, 5, res.Migrated[1].SlotIndex)
	assert.Equal(t, 9, res.Migrated[1].Hour)

	for _, b := range res.Migrated {
		assert.Equal(t, "g-legacy", b.GroupID)
		assert.Equal(t, "09:00", b.StartTime)
		assert.Equal(t, "10:00", b.EndTime)
	}

	assert.Equal(t, []string{"2025-W10-0-9"}, res.ObsoleteKeys)
}

// Sibling hourly records of one multi-hour activity expand to the same slot
// set; the expansion must be deduplicated while both old keys are retired.
func TestMigrateLegacy_DeduplicatesSiblings(t *testing.T) {
	g := timeslot.DefaultGrid()

	res := MigrateLegacy(g, []*model.Appointment{
		legacyRecord("2025-W10-0-9", 9, "09:00", "11:00"),
		legacyRecord("2025-W10-0-10", 10, "09:00", "11:00"),
	})

	require.Len(t, res.Migrated, 4) // slots 4..7, once each
	keys := make(map[string]bool)
	for _, b := range res.Migrated {
		assert.False(t, keys[b.SlotKey], "duplicate key %s", b.SlotKey)
		keys[b.SlotKey] = true
	}
	assert.Equal(t, []string{"2025-W10-0-10", "2025-W10-0-9"}, res.ObsoleteKeys)
}

// A second pass over already-migrated records must flag nothing.
func TestMigrateLegacy_Idempotent(t *testing.T) {
	g := timeslot.DefaultGrid()

	first := MigrateLegacy(g, []*model.Appointment{
		legacyRecord("2025-W10-0-15", 15, "15:00", "16:00"),
	})
	require.NotEmpty(t, first.Migrated)

	second := MigrateLegacy(g, first.Migrated)
	assert.Empty(t, second.Migrated)
	assert.Empty(t, second.ObsoleteKeys)
}

func TestMigrateLegacy_SkipsNewFormatRecords(t *testing.T) {
	g := timeslot.DefaultGrid()

	rec := legacyRecord("2025-W10-0-4", 9, "09:00", "10:00")
	rec.SlotIndex = 4

	res := MigrateLegacy(g, []*model.Appointment{rec})
	assert.Empty(t, res.Migrated)
	assert.Empty(t, res.ObsoleteKeys)
}

func TestMigrateLegacy_SkipsUnparseableTimes(t *testing.T) {
	g := timeslot.DefaultGrid()

	res := MigrateLegacy(g, []*model.Appointment{
		legacyRecord("2025-W10-0-9", 9, "nine", "10:00"),
	})
	assert.Empty(t, res.Migrated)
	assert.Empty(t, res.ObsoleteKeys)
}
