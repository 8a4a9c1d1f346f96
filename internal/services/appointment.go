package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/planora/weekplanner/internal/events"
	"github.com/planora/weekplanner/internal/grid"
	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/store"
	"github.com/planora/weekplanner/internal/timeslot"
)

// AppointmentService applies activity saves with the grid's all-or-nothing
// semantics and keeps the datastore and the change bus in step.
type AppointmentService struct {
	store store.Store
	bus   *events.Bus
	slots timeslot.Grid
	log   zerolog.Logger
	now   func() time.Time
}

func NewAppointmentService(s store.Store, bus *events.Bus, slots timeslot.Grid, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{store: s, bus: bus, slots: slots, log: log, now: time.Now}
}

// SaveActivityRequest is the payload for placing or updating one activity.
type SaveActivityRequest struct {
	GroupID   string         `json:"groupId,omitempty"`
	WeekID    string         `json:"weekId"`
	Category  model.Category `json:"category"`
	Activity  string         `json:"activity"`
	Note      string         `json:"note,omitempty"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	StartDay  int            `json:"startDay"`
	EndDay    int            `json:"endDay"`
}

// ListWeek returns the week's blocks, migrating any legacy hourly-keyed
// records it encounters on the way. Migration failures degrade to the
// unmigrated view rather than failing the read.
func (s *AppointmentService) ListWeek(ctx context.Context, userID, weekID string) ([]*model.Appointment, error) {
	records, err := s.store.Appointments().ListByWeek(ctx, userID, weekID)
	if err != nil {
		return nil, fmt.Errorf("list week %s: %w", weekID, err)
	}

	res := grid.MigrateLegacy(s.slots, records)
	if len(res.ObsoleteKeys) == 0 {
		return records, nil
	}

	s.log.Info().Str("user", userID).Str("week", weekID).
		Int("migrated", len(res.Migrated)).Int("obsolete", len(res.ObsoleteKeys)).
		Msg("migrating legacy appointment keys")

	// Delete old keys before writing new ones: a migrated key may equal
	// another record's obsolete key.
	obsolete := make(map[string]bool, len(res.ObsoleteKeys))
	for _, key := range res.ObsoleteKeys {
		obsolete[key] = true
		if err := s.store.Appointments().Delete(ctx, userID, key); err != nil {
			s.log.Warn().Str("key", key).Err(err).Msg("failed to delete legacy record")
			continue
		}
		s.publish(events.OpDelete, userID, key, nil)
	}
	for _, b := range res.Migrated {
		b.UserID = userID
		if _, err := s.store.Appointments().Upsert(ctx, b); err != nil {
			s.log.Warn().Str("key", b.SlotKey).Err(err).Msg("failed to persist migrated record")
			continue
		}
		s.publish(events.OpUpsert, userID, b.SlotKey, b)
	}

	out := make([]*model.Appointment, 0, len(records)+len(res.Migrated))
	for _, r := range records {
		if !obsolete[r.SlotKey] {
			out = append(out, r)
		}
	}
	out = append(out, res.Migrated...)
	return out, nil
}

// Save places the activity. The in-memory grid performs the full conflict
// scan first, so nothing is persisted when the save would overlap a different
// group.
func (s *AppointmentService) Save(ctx context.Context, userID string, req SaveActivityRequest) ([]*model.Appointment, error) {
	if !req.Category.Valid() {
		return nil, fmt.Errorf("category %q: %w", req.Category, model.ErrValidation)
	}
	if req.Activity == "" {
		return nil, fmt.Errorf("activity is required: %w", model.ErrValidation)
	}
	if req.WeekID == "" {
		return nil, fmt.Errorf("week id is required: %w", model.ErrValidation)
	}

	records, err := s.store.Appointments().ListByWeek(ctx, userID, req.WeekID)
	if err != nil {
		return nil, fmt.Errorf("load week %s: %w", req.WeekID, err)
	}
	g := grid.New(s.slots)
	g.Replace(records)

	var oldKeys []string
	if req.GroupID != "" {
		for _, r := range records {
			if r.GroupID == req.GroupID {
				oldKeys = append(oldKeys, r.SlotKey)
			}
		}
	}

	created, err := g.Save(grid.SaveRequest{
		GroupID:   req.GroupID,
		UserID:    userID,
		WeekID:    req.WeekID,
		Category:  req.Category,
		Activity:  req.Activity,
		Note:      req.Note,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		StartDay:  req.StartDay,
		EndDay:    req.EndDay,
		Now:       s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if req.GroupID != "" {
		if _, err := s.store.Appointments().DeleteByGroup(ctx, userID, req.GroupID); err != nil {
			return nil, fmt.Errorf("replace group %s: %w", req.GroupID, err)
		}
	}
	for _, b := range created {
		if _, err := s.store.Appointments().Upsert(ctx, b); err != nil {
			return nil, fmt.Errorf("persist block %s: %w", b.SlotKey, err)
		}
	}

	kept := make(map[string]bool, len(created))
	for _, b := range created {
		kept[b.SlotKey] = true
	}
	for _, key := range oldKeys {
		if !kept[key] {
			s.publish(events.OpDelete, userID, key, nil)
		}
	}
	for _, b := range created {
		s.publish(events.OpUpsert, userID, b.SlotKey, b)
	}
	return created, nil
}

// DeleteGroup removes every block of the activity and returns how many were
// deleted. Deleting an unknown group is a no-op.
func (s *AppointmentService) DeleteGroup(ctx context.Context, userID, weekID, groupID string) (int, error) {
	records, err := s.store.Appointments().ListByWeek(ctx, userID, weekID)
	if err != nil {
		return 0, fmt.Errorf("load week %s: %w", weekID, err)
	}

	n, err := s.store.Appointments().DeleteByGroup(ctx, userID, groupID)
	if err != nil {
		return 0, fmt.Errorf("delete group %s: %w", groupID, err)
	}
	for _, r := range records {
		if r.GroupID == groupID {
			s.publish(events.OpDelete, userID, r.SlotKey, nil)
		}
	}
	return n, nil
}

func (s *AppointmentService) publish(op events.Op, userID, key string, payload interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Collection: events.CollectionAppointments,
		Op:         op,
		UserID:     userID,
		Key:        key,
		Payload:    payload,
	})
}
