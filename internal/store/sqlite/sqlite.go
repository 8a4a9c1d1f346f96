// Package sqlite backs the store with an embedded SQLite database, used for
// single-user local deployments where running Postgres is overkill.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"

	_ "modernc.org/sqlite"

	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/store"
)

//go:embed schema.sql
var schema string

// Open opens (or creates) the SQLite database at path and applies the schema.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The driver opens one connection per query by default; an in-memory
	// database would vanish between them.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a SQLite store over an already-opened handle.
func NewWithDB(db *sql.DB) store.Store { return &sqStore{db: db} }

type sqStore struct{ db *sql.DB }

func (s *sqStore) Appointments() store.Appointments { return &appointments{db: s.db} }
func (s *sqStore) Tasks() store.Tasks               { return &tasks{db: s.db} }
func (s *sqStore) Metrics() store.Metrics           { return &metrics{db: s.db} }
func (s *sqStore) Overviews() store.Overviews       { return &overviews{db: s.db} }

// DB exposes the underlying handle for health probing.
func (s *sqStore) DB() interface{} { return s.db }

// HealthPing implements health.HealthPinger.
func (s *sqStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
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
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
        ON CONFLICT (user_id, slot_key) DO UPDATE SET
            week_id=excluded.week_id, day_index=excluded.day_index,
            slot_index=excluded.slot_index, hour=excluded.hour,
            category=excluded.category, activity=excluded.activity,
            note=excluded.note, start_time=excluded.start_time,
            end_time=excluded.end_time, group_id=excluded.group_id,
            updated_at=excluded.updated_at
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
        SELECT `+appointmentCols+` FROM appointments WHERE user_id=? AND slot_key=?
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
        SELECT `+appointmentCols+` FROM appointments WHERE user_id=? ORDER BY slot_key
    `, userID)
}

func (a *appointments) ListByWeek(ctx context.Context, userID, weekID string) ([]*model.Appointment, error) {
	return a.list(ctx, `
        SELECT `+appointmentCols+` FROM appointments
        WHERE user_id=? AND week_id=? ORDER BY day_index, slot_index
    `, userID, weekID)
}

func (a *appointments) Delete(ctx context.Context, userID, slotKey string) error {
	_, err := a.db.ExecContext(ctx, `DELETE FROM appointments WHERE user_id=? AND slot_key=?`, userID, slotKey)
	return err
}

func (a *appointments) DeleteByGroup(ctx context.Context, userID, groupID string) (int, error) {
	res, err := a.db.ExecContext(ctx, `DELETE FROM appointments WHERE user_id=? AND group_id=?`, userID, groupID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (a *appointments) DeleteByUser(ctx context.Context, userID string) error {
	_, err := a.db.ExecContext(ctx, `DELETE FROM appointments WHERE user_id=?`, userID)
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
        VALUES (?,?,?,?,?,?)
        ON CONFLICT (user_id, day_key) DO UPDATE SET
            week_id=excluded.week_id, day_index=excluded.day_index,
            tasks=excluded.tasks, updated_at=excluded.updated_at
    `, m.UserID, m.DayKey, m.WeekID, m.DayIndex, string(tasksJSON), m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	out := *m
	return &out, nil
}

func scanTaskList(row interface{ Scan(...interface{}) error }) (*model.TaskList, error) {
	var m model.TaskList
	var tasksJSON string
	if err := row.Scan(&m.UserID, &m.DayKey, &m.WeekID, &m.DayIndex, &tasksJSON, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tasksJSON), &m.Tasks); err != nil {
		return nil, err
	}
	return &m, nil
}

func (t *tasks) Get(ctx context.Context, userID, dayKey string) (*model.TaskList, error) {
	row := t.db.QueryRowContext(ctx, `
        SELECT user_id, day_key, week_id, day_index, tasks, updated_at
        FROM daily_tasks WHERE user_id=? AND day_key=?
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
        FROM daily_tasks WHERE user_id=? ORDER BY day_key
    `, userID)
}

func (t *tasks) ListByWeek(ctx context.Context, userID, weekID string) ([]*model.TaskList, error) {
	return t.list(ctx, `
        SELECT user_id, day_key, week_id, day_index, tasks, updated_at
        FROM daily_tasks WHERE user_id=? AND week_id=? ORDER BY day_index
    `, userID, weekID)
}

func (t *tasks) Delete(ctx context.Context, userID, dayKey string) error {
	_, err := t.db.ExecContext(ctx, `DELETE FROM daily_tasks WHERE user_id=? AND day_key=?`, userID, dayKey)
	return err
}

func (t *tasks) DeleteByUser(ctx context.Context, userID string) error {
	_, err := t.db.ExecContext(ctx, `DELETE FROM daily_tasks WHERE user_id=?`, userID)
	return err
}

// --- Metrics ---
type metrics struct{ db *sql.DB }

const metricCols = `user_id, day_key, week_id, day_index,
       open_count, present_count, follow_count, review_count, updated_at`

func (mt *metrics) Upsert(ctx context.Context, m *model.MetricTally) (*model.MetricTally, error) {
	_, err := mt.db.ExecContext(ctx, `
        INSERT INTO daily_metrics
            (user_id, day_key, week_id, day_index,
             open_count, present_count, follow_count, review_count, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?)
        ON CONFLICT (user_id, day_key) DO UPDATE SET
            week_id=excluded.week_id, day_index=excluded.day_index,
            open_count=excluded.open_count, present_count=excluded.present_count,
            follow_count=excluded.follow_count, review_count=excluded.review_count,
            updated_at=excluded.updated_at
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

func (mt *metrics) Get(ctx context.Context, userID, dayKey string) (*model.MetricTally, error) {
	row := mt.db.QueryRowContext(ctx, `
        SELECT `+metricCols+` FROM daily_metrics WHERE user_id=? AND day_key=?
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
        SELECT `+metricCols+` FROM daily_metrics WHERE user_id=? ORDER BY day_key
    `, userID)
}

func (mt *metrics) ListByWeek(ctx context.Context, userID, weekID string) ([]*model.MetricTally, error) {
	return mt.list(ctx, `
        SELECT `+metricCols+` FROM daily_metrics
        WHERE user_id=? AND week_id=? ORDER BY day_index
    `, userID, weekID)
}

func (mt *metrics) Delete(ctx context.Context, userID, dayKey string) error {
	_, err := mt.db.ExecContext(ctx, `DELETE FROM daily_metrics WHERE user_id=? AND day_key=?`, userID, dayKey)
	return err
}

func (mt *metrics) DeleteByUser(ctx context.Context, userID string) error {
	_, err := mt.db.ExecContext(ctx, `DELETE FROM daily_metrics WHERE user_id=?`, userID)
	return err
}

// --- Overviews ---
type overviews struct{ db *sql.DB }

func (o *overviews) Upsert(ctx context.Context, m *model.WeeklyOverview) (*model.WeeklyOverview, error) {
	_, err := o.db.ExecContext(ctx, `
        INSERT INTO weekly_overviews
            (user_id, week_id, remarks, ai_analysis, analysis_generated_at, updated_at)
        VALUES (?,?,?,?,?,?)
        ON CONFLICT (user_id, week_id) DO UPDATE SET
            remarks=excluded.remarks, ai_analysis=excluded.ai_analysis,
            analysis_generated_at=excluded.analysis_generated_at,
            updated_at=excluded.updated_at
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
        FROM weekly_overviews WHERE user_id=? AND week_id=?
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
        FROM weekly_overviews WHERE user_id=? ORDER BY week_id
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
	_, err := o.db.ExecContext(ctx, `DELETE FROM weekly_overviews WHERE user_id=? AND week_id=?`, userID, weekID)
	return err
}

func (o *overviews) DeleteByUser(ctx context.Context, userID string) error {
	_, err := o.db.ExecContext(ctx, `DELETE FROM weekly_overviews WHERE user_id=?`, userID)
	return err
}
