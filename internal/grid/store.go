// Package grid maintains the in-memory projection of one user's appointment
// blocks, keyed by slot key. It is the authoritative view the UI renders from:
// saves are applied here first (optimistically) and persisted afterwards,
// while remote change events are reconciled in with last-write-wins semantics.
//
// The store is owned by a single session goroutine and is not safe for
// concurrent use.
package grid

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/slotkey"
	"github.com/planora/weekplanner/internal/timeslot"
)

// Store holds appointment blocks keyed by slot key.
type Store struct {
	grid   timeslot.Grid
	blocks map[string]*model.Appointment
}

// New creates an empty store over the given slot grid.
func New(g timeslot.Grid) *Store {
	return &Store{grid: g, blocks: make(map[string]*model.Appointment)}
}

// Grid returns the slot grid the store was built over.
func (s *Store) Grid() timeslot.Grid { return s.grid }

// Len returns the number of blocks currently held.
func (s *Store) Len() int { return len(s.blocks) }

// Get returns the block at one grid cell, if any.
func (s *Store) Get(weekID string, dayIndex, slotIndex int) (*model.Appointment, bool) {
	b, ok := s.blocks[slotkey.Encode(weekID, dayIndex, slotIndex)]
	return b, ok
}

// Lookup returns the block stored under a raw slot key.
func (s *Store) Lookup(key string) (*model.Appointment, bool) {
	b, ok := s.blocks[key]
	return b, ok
}

// Snapshot returns all blocks ordered by slot key. The slice is freshly
// allocated; the blocks themselves are shared and must not be mutated.
func (s *Store) Snapshot() []*model.Appointment {
	out := make([]*model.Appointment, 0, len(s.blocks))
	for _, b := range s.blocks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotKey < out[j].SlotKey })
	return out
}

// Week returns the blocks belonging to one week, ordered by slot key.
func (s *Store) Week(weekID string) []*model.Appointment {
	out := make([]*model.Appointment, 0)
	for _, b := range s.blocks {
		if b.WeekID == weekID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotKey < out[j].SlotKey })
	return out
}

// IsFirstBlockOfGroup reports whether the block at the cell starts a
// contiguous run of its group on that day, so renderers label only the first
// cell of a run.
func (s *Store) IsFirstBlockOfGroup(weekID string, dayIndex, slotIndex int) bool {
	b, ok := s.Get(weekID, dayIndex, slotIndex)
	if !ok {
		return false
	}
	if slotIndex == 0 {
		return true
	}
	prev, ok := s.Get(weekID, dayIndex, slotIndex-1)
	return !ok || prev.GroupID != b.GroupID
}

// SaveRequest describes one logical activity to place on the grid. A
// non-empty GroupID updates the existing activity in place; an empty one
// creates a new group.
type SaveRequest struct {
	GroupID   string
	UserID    string
	WeekID    string
	Category  model.Category
	Activity  string
	Note      string
	StartTime string // "HH:MM"
	EndTime   string
	StartDay  int
	EndDay    int
	Now       time.Time
}

// Save places an activity across the cartesian product of its day range and
// slot range. The write is all-or-nothing: every target cell is checked for
// occupancy by a different group before anything is mutated, so a
// model.ErrSlotConflict leaves the store byte-for-byte unchanged.
func (s *Store) Save(req SaveRequest) ([]*model.Appointment, error) {
	if req.StartDay < 0 || req.EndDay > 6 {
		return nil, fmt.Errorf("day range [%d,%d]: %w", req.StartDay, req.EndDay, model.ErrValidation)
	}
	if req.EndDay < req.StartDay {
		return nil, fmt.Errorf("end day %d before start day %d: %w", req.EndDay, req.StartDay, model.ErrInvalidRange)
	}

	sh, sm, err := timeslot.ParseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	eh, em, err := timeslot.ParseClock(req.EndTime)
	if err != nil {
		return nil, err
	}

	slotStart, slotEnd, err := s.grid.SlotsBetween(sh, sm, eh, em)
	if err != nil {
		return nil, err
	}

	// Full conflict scan before any mutation.
	for day := req.StartDay; day <= req.EndDay; day++ {
		for slot := slotStart; slot < slotEnd; slot++ {
			if existing, ok := s.Get(req.WeekID, day, slot); ok && existing.GroupID != req.GroupID {
				return nil, fmt.Errorf("slot %s occupied by group %s: %w",
					existing.SlotKey, existing.GroupID, model.ErrSlotConflict)
			}
		}
	}

	groupID := req.GroupID
	if groupID == "" {
		groupID = uuid.New().String()
	} else {
		s.DeleteGroup(groupID)
	}

	created := make([]*model.Appointment, 0, (req.EndDay-req.StartDay+1)*(slotEnd-slotStart))
	for day := req.StartDay; day <= req.EndDay; day++ {
		for slot := slotStart; slot < slotEnd; slot++ {
			hour, _, _ := s.grid.TimeForSlot(slot)
			b := &model.Appointment{
				UserID:    req.UserID,
				SlotKey:   slotkey.Encode(req.WeekID, day, slot),
				WeekID:    req.WeekID,
				DayIndex:  day,
				SlotIndex: slot,
				Hour:      hour,
				Category:  req.Category,
				Activity:  req.Activity,
				Note:      req.Note,
				StartTime: req.StartTime,
				EndTime:   req.EndTime,
				GroupID:   groupID,
				UpdatedAt: req.Now,
			}
			s.blocks[b.SlotKey] = b
			created = append(created, b)
		}
	}
	return created, nil
}

// DeleteGroup removes every block sharing the group id and returns the number
// removed. Deleting an absent group is a no-op.
func (s *Store) DeleteGroup(groupID string) int {
	if groupID == "" {
		return 0
	}
	n := 0
	for key, b := range s.blocks {
		if b.GroupID == groupID {
			delete(s.blocks, key)
			n++
		}
	}
	return n
}

// ApplyRemote reconciles a change delivered by the datastore's realtime feed.
// Upserts apply only when the incoming block is not older than the one held
// locally (last-write-wins by UpdatedAt); a local optimistic write therefore
// survives the echo of its own persistence. Returns whether the store
// changed.
func (s *Store) ApplyRemote(b *model.Appointment) bool {
	existing, ok := s.blocks[b.SlotKey]
	if ok && existing.UpdatedAt.After(b.UpdatedAt) {
		return false
	}
	s.blocks[b.SlotKey] = b
	return true
}

// RemoveRemote applies a remote delete for one slot key. Returns whether a
// block was removed.
func (s *Store) RemoveRemote(key string) bool {
	if _, ok := s.blocks[key]; !ok {
		return false
	}
	delete(s.blocks, key)
	return true
}

// Replace resets the store to exactly the given blocks, e.g. after an initial
// load from the backend.
func (s *Store) Replace(blocks []*model.Appointment) {
	s.blocks = make(map[string]*model.Appointment, len(blocks))
	for _, b := range blocks {
		s.blocks[b.SlotKey] = b
	}
}
