package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/slotkey"
	"github.com/planora/weekplanner/internal/timeslot"
)

const (
	testUser = "user-1"
	testWeek = "2025-W10"
)

func saveReq(groupID, start, end string, startDay, endDay int) SaveRequest {
	return SaveRequest{
		GroupID:   groupID,
		UserID:    testUser,
		WeekID:    testWeek,
		Category:  model.CategoryIncome,
		Activity:  "4. Prospecting (Build New Customer)",
		StartTime: start,
		EndTime:   end,
		StartDay:  startDay,
		EndDay:    endDay,
		Now:       time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
	}
}

func snapshotKeys(s *Store) []string {
	blocks := s.Snapshot()
	keys := make([]string, len(blocks))
	for i, b := range blocks {
		keys[i] = b.SlotKey
	}
	return keys
}

// Scenario A: a 09:00-10:30 activity on day 0 creates three blocks sharing
// one group id, and nothing at the 10:30 slot.
func TestSave_CreatesBlocksPerCoveredSlot(t *testing.T) {
	s := New(timeslot.DefaultGrid())

	created, err := s.Save(saveReq("", "09:00", "10:30", 0, 0))
	require.NoError(t, err)
	require.Len(t, created, 3)

	group := created[0].GroupID
	require.NotEmpty(t, group)

	for _, slot := range []int{4, 5, 6} { // 09:00, 09:30, 10:00
		b, ok := s.Get(testWeek, 0, slot)
		require.True(t, ok, "slot %d must be occupied", slot)
		assert.Equal(t, group, b.GroupID)
		assert.Equal(t, model.CategoryIncome, b.Category)
		assert.Equal(t, "09:00", b.StartTime)
		assert.Equal(t, "10:30", b.EndTime)
	}

	_, ok := s.Get(testWeek, 0, 7) // 10:30
	assert.False(t, ok, "slot after the end boundary must stay free")
	assert.Equal(t, 3, s.Len())
}

// Scenario B: an overlapping save fails with a conflict and leaves the store
// exactly as it was.
func TestSave_ConflictLeavesStoreUnchanged(t *testing.T) {
	s := New(timeslot.DefaultGrid())

	_, err := s.Save(saveReq("", "09:00", "10:30", 0, 0))
	require.NoError(t, err)
	before := snapshotKeys(s)

	_, err = s.Save(saveReq("", "09:30", "10:00", 0, 0))
	assert.ErrorIs(t, err, model.ErrSlotConflict)
	assert.Equal(t, before, snapshotKeys(s), "failed save must not mutate the store")
}

// Scenario C: shrinking an activity reuses the group id and frees the
// abandoned slot.
func TestSave_UpdateShrinksGroup(t *testing.T) {
	s := New(timeslot.DefaultGrid())

	created, err := s.Save(saveReq("", "09:00", "10:30", 0, 0))
	require.NoError(t, err)
	group := created[0].GroupID

	updated, err := s.Save(saveReq(group, "09:00", "10:00", 0, 0))
	require.NoError(t, err)
	require.Len(t, updated, 2)

	assert.Equal(t, 2, s.Len())
	for _, b := range updated {
		assert.Equal(t, group, b.GroupID, "group id must be reused on update")
	}
	_, ok := s.Get(testWeek, 0, 6)
	assert.False(t, ok, "10:00 slot must be free after the shrink")
}

// Scenario D: deleting the group empties the store.
func TestDeleteGroup(t *testing.T) {
	s := New(timeslot.DefaultGrid())

	created, err := s.Save(saveReq("", "09:00", "10:00", 0, 0))
	require.NoError(t, err)
	group := created[0].GroupID

	assert.Equal(t, 2, s.DeleteGroup(group))
	assert.Equal(t, 0, s.Len())

	// Idempotent: deleting again is a no-op.
	assert.Equal(t, 0, s.DeleteGroup(group))
}

func TestSave_MultiDay(t *testing.T) {
	s := New(timeslot.DefaultGrid())

	created, err := s.Save(saveReq("", "08:00", "09:00", 1, 3))
	require.NoError(t, err)
	assert.Len(t, created, 6, "2 slots x 3 days")

	group := created[0].GroupID
	for day := 1; day <= 3; day++ {
		for _, slot := range []int{2, 3} {
			b, ok := s.Get(testWeek, day, slot)
			require.True(t, ok, "day %d slot %d", day, slot)
			assert.Equal(t, group, b.GroupID)
		}
	}
}

func TestSave_InvalidRanges(t *testing.T) {
	s := New(timeslot.DefaultGrid())

	_, err := s.Save(saveReq("", "10:00", "09:00", 0, 0))
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	_, err = s.Save(saveReq("", "09:00", "10:00", 3, 1))
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	_, err = s.Save(saveReq("", "09:00", "10:00", 0, 9))
	assert.ErrorIs(t, err, model.ErrValidation)

	assert.Equal(t, 0, s.Len())
}

func TestSave_UpdateMayOverlapItself(t *testing.T) {
	s := New(timeslot.DefaultGrid())

	created, err := s.Save(saveReq("", "09:00", "10:00", 0, 0))
	require.NoError(t, err)
	group := created[0].GroupID

	// Moving by half an hour overlaps the group's own blocks; that is not a
	// conflict.
	updated, err := s.Save(saveReq(group, "09:30", "10:30", 0, 0))
	require.NoError(t, err)
	assert.Len(t, updated, 2)
	assert.Equal(t, 2, s.Len())

	_, ok := s.Get(testWeek, 0, 4)
	assert.False(t, ok, "old leading slot must be freed")
}

func TestIsFirstBlockOfGroup(t *testing.T) {
	s := New(timeslot.DefaultGrid())

	_, err := s.Save(saveReq("", "09:00", "10:00", 0, 0))
	require.NoError(t, err)

	assert.True(t, s.IsFirstBlockOfGroup(testWeek, 0, 4))
	assert.False(t, s.IsFirstBlockOfGroup(testWeek, 0, 5), "second slot of a run")
	assert.False(t, s.IsFirstBlockOfGroup(testWeek, 0, 6), "empty cell")

	// A different group immediately after starts its own run.
	_, err = s.Save(saveReq("", "10:00", "10:30", 0, 0))
	require.NoError(t, err)
	assert.True(t, s.IsFirstBlockOfGroup(testWeek, 0, 6))

	// Slot 0 is always a run start when occupied.
	_, err = s.Save(saveReq("", "07:00", "07:30", 1, 1))
	require.NoError(t, err)
	assert.True(t, s.IsFirstBlockOfGroup(testWeek, 1, 0))
}

func TestApplyRemote_LastWriteWins(t *testing.T) {
	s := New(timeslot.DefaultGrid())

	created, err := s.Save(saveReq("", "09:00", "09:30", 0, 0))
	require.NoError(t, err)
	local := created[0]

	stale := *local
	stale.Note = "stale remote copy"
	stale.UpdatedAt = local.UpdatedAt.Add(-time.Minute)
	assert.False(t, s.ApplyRemote(&stale), "older remote block must be ignored")

	got, _ := s.Lookup(local.SlotKey)
	assert.Empty(t, got.Note)

	newer := *local
	newer.Note = "edited elsewhere"
	newer.UpdatedAt = local.UpdatedAt.Add(time.Minute)
	assert.True(t, s.ApplyRemote(&newer))

	got, _ = s.Lookup(local.SlotKey)
	assert.Equal(t, "edited elsewhere", got.Note)
}

func TestRemoveRemote(t *testing.T) {
	s := New(timeslot.DefaultGrid())

	created, err := s.Save(saveReq("", "09:00", "09:30", 0, 0))
	require.NoError(t, err)

	assert.True(t, s.RemoveRemote(created[0].SlotKey))
	assert.False(t, s.RemoveRemote(created[0].SlotKey))
	assert.Equal(t, 0, s.Len())
}

func TestReplace(t *testing.T) {
	s := New(timeslot.DefaultGrid())

	_, err := s.Save(saveReq("", "09:00", "10:00", 0, 0))
	require.NoError(t, err)

	b := &model.Appointment{
		SlotKey:   slotkey.Encode(testWeek, 2, 8),
		WeekID:    testWeek,
		DayIndex:  2,
		SlotIndex: 8,
		GroupID:   "g-1",
	}
	s.Replace([]*model.Appointment{b})

	assert.Equal(t, 1, s.Len())
	_, ok := s.Get(testWeek, 2, 8)
	assert.True(t, ok)
}
