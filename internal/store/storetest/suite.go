package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()
	week := "2025-W10"
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	// Appointments: upsert, point lookup, week listing
	group := uuid.New().String()
	a1 := &model.Appointment{
		UserID: userID, SlotKey: week + "-0-4", WeekID: week,
		DayIndex: 0, SlotIndex: 4, Hour: 9,
		Category: model.CategoryIncome, Activity: "6. Sales Appointments",
		StartTime: "09:00", EndTime: "10:00", GroupID: group, UpdatedAt: now,
	}
	if _, err := s.Appointments().Upsert(ctx, a1); err != nil {
		t.Fatalf("UpsertAppointment: %v", err)
	}
	a2 := *a1
	a2.SlotKey = week + "-0-5"
	a2.SlotIndex = 5
	if _, err := s.Appointments().Upsert(ctx, &a2); err != nil {
		t.Fatalf("UpsertAppointment a2: %v", err)
	}
	if got, err := s.Appointments().Get(ctx, userID, a1.SlotKey); err != nil || got.GroupID != group {
		t.Fatalf("GetAppointment: got=%v err=%v", got, err)
	}
	if lst, err := s.Appointments().ListByWeek(ctx, userID, week); err != nil || len(lst) != 2 {
		t.Fatalf("ListByWeek: n=%d err=%v", len(lst), err)
	}

	// Upsert replaces in place; the key count must not grow.
	a1b := *a1
	a1b.Note = "rescheduled"
	a1b.UpdatedAt = now.Add(time.Minute)
	if _, err := s.Appointments().Upsert(ctx, &a1b); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	if got, err := s.Appointments().Get(ctx, userID, a1.SlotKey); err != nil || got.Note != "rescheduled" {
		t.Fatalf("Get after replace: got=%v err=%v", got, err)
	}
	if lst, err := s.Appointments().ListByUser(ctx, userID); err != nil || len(lst) != 2 {
		t.Fatalf("ListByUser after replace: n=%d err=%v", len(lst), err)
	}

	// Group deletion removes every block of the group.
	if n, err := s.Appointments().DeleteByGroup(ctx, userID, group); err != nil || n != 2 {
		t.Fatalf("DeleteByGroup: n=%d err=%v", n, err)
	}
	if _, err := s.Appointments().Get(ctx, userID, a1.SlotKey); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get after group delete: err=%v, want ErrNotFound", err)
	}

	// Tasks
	tl := &model.TaskList{
		UserID: userID, DayKey: week + "-0", WeekID: week, DayIndex: 0,
		Tasks:     []string{"Call A", "", "", "", "", ""},
		UpdatedAt: now,
	}
	if _, err := s.Tasks().Upsert(ctx, tl); err != nil {
		t.Fatalf("UpsertTasks: %v", err)
	}
	if got, err := s.Tasks().Get(ctx, userID, tl.DayKey); err != nil || len(got.Tasks) != model.TaskListSize || got.Tasks[0] != "Call A" {
		t.Fatalf("GetTasks: got=%v err=%v", got, err)
	}
	if lst, err := s.Tasks().ListByWeek(ctx, userID, week); err != nil || len(lst) != 1 {
		t.Fatalf("ListTasksByWeek: n=%d err=%v", len(lst), err)
	}

	// Metrics
	m := &model.MetricTally{
		UserID: userID, DayKey: week + "-0", WeekID: week, DayIndex: 0,
		OpenCount: 3, PresentCount: 1, UpdatedAt: now,
	}
	if _, err := s.Metrics().Upsert(ctx, m); err != nil {
		t.Fatalf("UpsertMetrics: %v", err)
	}
	if got, err := s.Metrics().Get(ctx, userID, m.DayKey); err != nil || got.OpenCount != 3 || got.PresentCount != 1 {
		t.Fatalf("GetMetrics: got=%v err=%v", got, err)
	}

	// Overviews: at most one row per week, upsert replaces
	analysis := "solid prospecting week"
	o := &model.WeeklyOverview{
		UserID: userID, WeekID: week, Remarks: "good start",
		AIAnalysis: &analysis, GeneratedAt: &now, UpdatedAt: now,
	}
	if _, err := s.Overviews().Upsert(ctx, o); err != nil {
		t.Fatalf("UpsertOverview: %v", err)
	}
	o.Remarks = "revised"
	if _, err := s.Overviews().Upsert(ctx, o); err != nil {
		t.Fatalf("UpsertOverview replace: %v", err)
	}
	if lst, err := s.Overviews().ListByUser(ctx, userID); err != nil || len(lst) != 1 {
		t.Fatalf("ListOverviews: n=%d err=%v", len(lst), err)
	}
	if got, err := s.Overviews().Get(ctx, userID, week); err != nil || got.Remarks != "revised" || got.AIAnalysis == nil {
		t.Fatalf("GetOverview: got=%v err=%v", got, err)
	}

	// Missing keys map to ErrNotFound across collections
	if _, err := s.Tasks().Get(ctx, userID, "2030-W01-0"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetTasks missing: err=%v, want ErrNotFound", err)
	}
	if _, err := s.Metrics().Get(ctx, userID, "2030-W01-0"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetMetrics missing: err=%v, want ErrNotFound", err)
	}
	if _, err := s.Overviews().Get(ctx, userID, "2030-W01"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetOverview missing: err=%v, want ErrNotFound", err)
	}

	// Per-user wipe clears every collection
	if err := s.Appointments().DeleteByUser(ctx, userID); err != nil {
		t.Fatalf("DeleteAppointmentsByUser: %v", err)
	}
	if err := s.Tasks().DeleteByUser(ctx, userID); err != nil {
		t.Fatalf("DeleteTasksByUser: %v", err)
	}
	if err := s.Metrics().DeleteByUser(ctx, userID); err != nil {
		t.Fatalf("DeleteMetricsByUser: %v", err)
	}
	if err := s.Overviews().DeleteByUser(ctx, userID); err != nil {
		t.Fatalf("DeleteOverviewsByUser: %v", err)
	}
	if lst, err := s.Tasks().ListByUser(ctx, userID); err != nil || len(lst) != 0 {
		t.Fatalf("ListTasks after wipe: n=%d err=%v", len(lst), err)
	}
}
