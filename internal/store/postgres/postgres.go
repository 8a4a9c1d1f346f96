package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Appointments() store.Appointments { return &appointments{db: s.db} }
func (s *pgStore) Tasks() store.Tasks               { return &tasks{db: s.db} }
func (s *pgStore) Metrics() store.Metrics           { return &metrics{db: s.db} }
func (s *pgStore) Overviews() store.Overviews       { return &overviews{db: s.db} }

// DB exposes the underlying handle for health probing.
func (s *pgStore) DB() interface{} { return s.db }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap performs a connectivity check to ensure Postgres is reachable.
// This is a fast ping-only check since compose migrations handle schema setup.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil // No DSN configured, skip bootstrap
	}

	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return db.PingContext(ctx)
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// --- Appointments ---
type appointments struct{ db *sql.DB }

func (a *appointments) Upsert(ctx context.Context, m *model.Appointment) (*model.Appointment, error) {
	_, err := a.db.ExecContext(ctx, `
        INSERT INTO appointments
            (user_id, slot_key, week_id, day_index, slot_index, hour,
             category, activity, note, start_time, end_time, group_id, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        ON CONFLICT (user_id, slot_key) DO UPDATE SET
            week_id=EXCLUDED.week_id, day_index=EXCLUDED.day_index,
            slot_index=EXCLUDED.slot_index, hour=EXCLUDED.hour,
            category=EXCLUDED.category, activity=EXCLUDED.activity,
            note=EXCLUDED.note, start_time=EXCLUDED.start_time,
            end_time=EXCLUDED.end_time, group_id=EXCLUDED.group_id,
            updated_at=EXCLUDED.updated_at
    `, m.UserID, m.SlotKey, m.WeekID, m.DayIndex, m.SlotIndex, m.Hour,
		string(m.Category), m.Activity, m.Note, m.StartTime, m.EndTime, m.GroupID, m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	out := *m
	return &out, nil
}

const appointmentCols = `user_id, slot_key, week_id, day_index, slot_index, hour,
       category, activity, note, start_time, end_time, group_id, updated_at`

func scanAppointment(row interface{ Scan(...interface{}) error }) (*model.Appointment, error) {
	var m model.Appointment
	var cat string
	if err := row.Scan(&m.UserID, &m.SlotKey, &m.WeekID, &m.DayIndex, &m.SlotIndex, &m.Hour,
		&cat, &m.Activity, &m.Note, &m.StartTime, &m.EndTime, &m.GroupID, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Category = model.Category(cat)
	return &m, nil
}

func (a *appointments) Get(ctx context.Context, userID, slotKey string) (*model.Appointment, error) {
	row := a.db.QueryRowContext(ctx, `
        SELECT `+appointmentCols+` FROM appointments WHERE user_id=$1 AND slot_key=$2
    `, userID, slotKey)
	m, err := scanAppointment(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (a *appointments) list(ctx context.Context, query string, args ...interface{}) ([]*model.Appointment, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Appointment
	for rows.Next() {
		m, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (a *appointments) ListByUser(ctx context.Context, userID string) ([]*model.Appointment, error) {
	return a.list(ctx, `
        SELECT `+appointmentCols+` FROM appointments WHERE user_id=$1 ORDER BY slot_key
    `, userID)
}

func (a *appointments) ListByWeek(ctx context.Context, userID, weekID string) ([]*model.Appointment, error) {
	return a.list(ctx, `
        SELECT `+appointmentCols+` FROM appointments
        WHERE user_id=$1 AND week_id=$2 ORDER BY day_index, slot_index
    `, userID, weekID)
}

func (a *appointments) Delete(ctx context.Context, userID, slotKey string) error {
	_, err := a.db.ExecContext(ctx, `DELETE FROM appointments WHERE user_id=$1 AND slot_key=$2`, userID, slotKey)
	return err
}

func (a *appointments) DeleteByGroup(ctx context.Context, userID, groupID string) (int, error) {
	res, err := a.db.ExecContext(ctx, `DELETE FROM appointments WHERE user_id=$1 AND group_id=$2`, userID, groupID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (a *appointments) DeleteByUser(ctx context.Context, userID string) error {
	_, err := a.db.ExecContext(ctx, `DELETE FROM appointments WHERE user_id=$1`, userID)
	return err
}

// --- Tasks ---
type tasks struct{ db *sql.DB }

func (t *tasks) Upsert(ctx context.Context, m *model.TaskList) (*model.TaskList, error) {
	tasksJSON, err := json.Marshal(m.Tasks)
	if err != nil {
		return nil, err
	}
	_, err = t.db.ExecContext(ctx, `
        INSERT INTO daily_tasks (user_id, day_key, week_id, day_index, tasks, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_id, day_key) DO UPDATE SET
            week_id=EXCLUDED.week_id, day_index=EXCLUDED.day_index,
            tasks=EXCLUDED.tasks, updated_at=EXCLUDED.updated_at
    `, m.UserID, m.DayKey, m.WeekID, m.DayIndex, tasksJSON, m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	out := *m
	return &out, nil
}

func scanTaskList(row interface{ Scan(...interface{}) error }) (*model.TaskList, error) {
	var m model.TaskList
	var tasksJSON []byte
	if err := row.Scan(&m.UserID, &m.DayKey, &m.WeekID, &m.DayIndex, &tasksJSON, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tasksJSON, &m.Tasks); err != nil {
		return nil, err
	}
	return &m, nil
}

func (t *tasks) Get(ctx context.Context, userID, dayKey string) (*model.TaskList, error) {
	row := t.db.QueryRowContext(ctx, `
        SELECT user_id, day_key, week_id, day_index, tasks, updated_at
        FROM daily_tasks WHERE user_id=$1 AND day_key=$2
    `, userID, dayKey)
	m, err := scanTaskList(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (t *tasks) list(ctx context.Context, query string, args ...interface{}) ([]*model.TaskList, error) {
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.TaskList
	for rows.Next() {
		m, err := scanTaskList(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (t *tasks) ListByUser(ctx context.Context, userID string) ([]*model.TaskList, error) {
	return t.list(ctx, `
        SELECT user_id, day_key, week_id, day_index, tasks, updated_at
        FROM daily_tasks WHERE user_id=$1 ORDER BY day_key
    `, userID)
}

func (t *tasks) ListByWeek(ctx context.Context, userID, weekID string) ([]*model.TaskList, error) {
	return t.list(ctx, `
        SELECT user_id, day_key, week_id, day_index, tasks, updated_at
        FROM daily_tasks WHERE user_id=$1 AND week_id=$2 ORDER BY day_index
    `, userID, weekID)
}

func (t *tasks) Delete(ctx context.Context, userID, dayKey string) error {
	_, err := t.db.ExecContext(ctx, `DELETE FROM daily_tasks WHERE user_id=$1 AND day_key=$2`, userID, dayKey)
	return err
}

func (t *tasks) DeleteByUser(ctx context.Context, userID string) error {
	_, err := t.db.ExecContext(ctx, `DELETE FROM daily_tasks WHERE user_id=$1`, userID)
	return err
}

// --- Metrics ---
type metrics struct{ db *sql.DB }

func (mt *metrics) Upsert(ctx context.Context, m *model.MetricTally) (*model.MetricTally, error) {
	_, err := mt.db.ExecContext(ctx, `
        INSERT INTO daily_metrics
            (user_id, day_key, week_id, day_index,
             open_count, present_count, follow_count, review_count, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (user_id, day_key) DO UPDATE SET
            week_id=EXCLUDED.week_id, day_index=EXCLUDED.day_index,
            open_count=EXCLUDED.open_count, present_count=EXCLUDED.present_count,
            follow_count=EXCLUDED.follow_count, review_count=EXCLUDED.review_count,
            updated_at=EXCLUDED.updated_at
    `, m.UserID, m.DayKey, m.WeekID, m.DayIndex,
		m.OpenCount, m.PresentCount, m.FollowCount, m.ReviewCount, m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	out := *m
	return &out, nil
}

func scanMetric(row interface{ Scan(...interface{}) error }) (*model.MetricTally, error) {
	var m model.MetricTally
	if err := row.Scan(&m.UserID, &m.DayKey, &m.WeekID, &m.DayIndex,
		&m.OpenCount, &m.PresentCount, &m.FollowCount, &m.ReviewCount, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

const metricCols = `user_id, day_key, week_id, day_index,
       open_count, present_count, follow_count, review_count, updated_at`

func (mt *metrics) Get(ctx context.Context, userID, dayKey string) (*model.MetricTally, error) {
	row := mt.db.QueryRowContext(ctx, `
        SELECT `+metricCols+` FROM daily_metrics WHERE user_id=$1 AND day_key=$2
    `, userID, dayKey)
	m, err := scanMetric(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (mt *metrics) list(ctx context.Context, query string, args ...interface{}) ([]*model.MetricTally, error) {
	rows, err := mt.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.MetricTally
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (mt *metrics) ListByUser(ctx context.Context, userID string) ([]*model.MetricTally, error) {
	return mt.list(ctx, `
        SELECT `+metricCols+` FROM daily_metrics WHERE user_id=$1 ORDER BY day_key
    `, userID)
}

func (mt *metrics) ListByWeek(ctx context.Context, userID, weekID string) ([]*model.MetricTally, error) {
	return mt.list(ctx, `
        SELECT `+metricCols+` FROM daily_metrics
        WHERE user_id=$1 AND week_id=$2 ORDER BY day_index
    `, userID, weekID)
}

func (mt *metrics) Delete(ctx context.Context, userID, dayKey string) error {
	_, err := mt.db.ExecContext(ctx, `DELETE FROM daily_metrics WHERE user_id=$1 AND day_key=$2`, userID, dayKey)
	return err
}

func (mt *metrics) DeleteByUser(ctx context.Context, userID string) error {
	_, err := mt.db.ExecContext(ctx, `DELETE FROM daily_metrics WHERE user_id=$1`, userID)
	return err
}

// --- Overviews ---
type overviews struct{ db *sql.DB }

func (o *overviews) Upsert(ctx context.Context, m *model.WeeklyOverview) (*model.WeeklyOverview, error) {
	_, err := o.db.ExecContext(ctx, `
        INSERT INTO weekly_overviews
            (user_id, week_id, remarks, ai_analysis, analysis_generated_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_id, week_id) DO UPDATE SET
            remarks=EXCLUDED.remarks, ai_analysis=EXCLUDED.ai_analysis,
            analysis_generated_at=EXCLUDED.analysis_generated_at,
            updated_at=EXCLUDED.updated_at
    `, m.UserID, m.WeekID, m.Remarks, m.AIAnalysis, m.GeneratedAt, m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	out := *m
	return &out, nil
}

func scanOverview(row interface{ Scan(...interface{}) error }) (*model.WeeklyOverview, error) {
	var m model.WeeklyOverview
	if err := row.Scan(&m.UserID, &m.WeekID, &m.Remarks, &m.AIAnalysis, &m.GeneratedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (o *overviews) Get(ctx context.Context, userID, weekID string) (*model.WeeklyOverview, error) {
	row := o.db.QueryRowContext(ctx, `
        SELECT user_id, week_id, remarks, ai_analysis, analysis_generated_at, updated_at
        FROM weekly_overviews WHERE user_id=$1 AND week_id=$2
    `, userID, weekID)
	m, err := scanOverview(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (o *overviews) ListByUser(ctx context.Context, userID string) ([]*model.WeeklyOverview, error) {
	rows, err := o.db.QueryContext(ctx, `
        SELECT user_id, week_id, remarks, ai_analysis, analysis_generated_at, updated_at
        FROM weekly_overviews WHERE user_id=$1 ORDER BY week_id
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.WeeklyOverview
	for rows.Next() {
		m, err := scanOverview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (o *overviews) Delete(ctx context.Context, userID, weekID string) error {
	_, err := o.db.ExecContext(ctx, `DELETE FROM weekly_overviews WHERE user_id=$1 AND week_id=$2`, userID, weekID)
	return err
}

func (o *overviews) DeleteByUser(ctx context.Context, userID string) error {
	_, err := o.db.ExecContext(ctx, `DELETE FROM weekly_overviews WHERE user_id=$1`, userID)
	return err
}
