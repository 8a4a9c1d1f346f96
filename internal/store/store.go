package store

import (
	"context"

	"github.com/planora/weekplanner/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., postgres, sqlite).
type Store interface {
	Appointments() Appointments
	Tasks() Tasks
	Metrics() Metrics
	Overviews() Overviews
}

// Appointments persists half-hour appointment blocks keyed by
// (userID, slotKey). Upsert is the only write: saves replace whatever the key
// held before.
type Appointments interface {
	Upsert(ctx context.Context, a *model.Appointment) (*model.Appointment, error)
	Get(ctx context.Context, userID, slotKey string) (*model.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Appointment, error)
	ListByWeek(ctx context.Context, userID, weekID string) ([]*model.Appointment, error)
	Delete(ctx context.Context, userID, slotKey string) error
	DeleteByGroup(ctx context.Context, userID, groupID string) (int, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// Tasks persists daily priority lists keyed by (userID, dayKey).
type Tasks interface {
	Upsert(ctx context.Context, t *model.TaskList) (*model.TaskList, error)
	Get(ctx context.Context, userID, dayKey string) (*model.TaskList, error)
	ListByUser(ctx context.Context, userID string) ([]*model.TaskList, error)
	ListByWeek(ctx context.Context, userID, weekID string) ([]*model.TaskList, error)
	Delete(ctx context.Context, userID, dayKey string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// Metrics persists per-day pipeline tallies keyed by (userID, dayKey).
type Metrics interface {
	Upsert(ctx context.Context, m *model.MetricTally) (*model.MetricTally, error)
	Get(ctx context.Context, userID, dayKey string) (*model.MetricTally, error)
	ListByUser(ctx context.Context, userID string) ([]*model.MetricTally, error)
	ListByWeek(ctx context.Context, userID, weekID string) ([]*model.MetricTally, error)
	Delete(ctx context.Context, userID, dayKey string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// Overviews persists the per-week coach remarks and AI analysis, keyed by
// (userID, weekID). At most one row per week.
type Overviews interface {
	Upsert(ctx context.Context, o *model.WeeklyOverview) (*model.WeeklyOverview, error)
	Get(ctx context.Context, userID, weekID string) (*model.WeeklyOverview, error)
	ListByUser(ctx context.Context, userID string) ([]*model.WeeklyOverview, error)
	Delete(ctx context.Context, userID, weekID string) error
	DeleteByUser(ctx context.Context, userID string) error
}
