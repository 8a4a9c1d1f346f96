package services

import (
	"context"
	"fmt"
	"time"

	"github.com/planora/weekplanner/internal/events"
	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/slotkey"
	"github.com/planora/weekplanner/internal/store"
)

// MetricService maintains the per-day pipeline tallies. Counters never drop
// below zero.
type MetricService struct {
	store store.Store
	bus   *events.Bus
	now   func() time.Time
}

func NewMetricService(s store.Store, bus *events.Bus) *MetricService {
	return &MetricService{store: s, bus: bus, now: time.Now}
}

// Get returns the day's tally, or a zeroed one when none was saved.
func (s *MetricService) Get(ctx context.Context, userID, weekID string, day int) (*model.MetricTally, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}
	m, err := s.store.Metrics().Get(ctx, userID, slotkey.DayKey(weekID, day))
	if err == nil {
		return m, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return &model.MetricTally{
		UserID:   userID,
		DayKey:   slotkey.DayKey(weekID, day),
		WeekID:   weekID,
		DayIndex: day,
	}, nil
}

// Adjust shifts one counter by delta and persists the tally. Decrements floor
// at zero.
func (s *MetricService) Adjust(ctx context.Context, userID, weekID string, day int, counter model.Counter, delta int) (*model.MetricTally, error) {
	if !counter.Valid() {
		return nil, fmt.Errorf("counter %q: %w", counter, model.ErrValidation)
	}
	m, err := s.Get(ctx, userID, weekID, day)
	if err != nil {
		return nil, err
	}

	m.Set(counter, m.Get(counter)+delta)
	m.UpdatedAt = s.now().UTC()

	saved, err := s.store.Metrics().Upsert(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("save metrics %s: %w", m.DayKey, err)
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Collection: events.CollectionMetrics,
			Op:         events.OpUpsert,
			UserID:     userID,
			Key:        saved.DayKey,
			Payload:    saved,
		})
	}
	return saved, nil
}
