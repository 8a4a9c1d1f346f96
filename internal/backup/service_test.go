package backup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/store/storetest"
)

const userID = "u-1"

func seed(t *testing.T, fake *storetest.Fake) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	_, err := fake.Appointments().Upsert(ctx, &model.Appointment{
		UserID: userID, SlotKey: "2025-W10-0-4", WeekID: "2025-W10",
		DayIndex: 0, SlotIndex: 4, Hour: 9,
		Category: model.CategoryIncome, Activity: "6. Sales Appointments",
		StartTime: "09:00", EndTime: "09:30", GroupID: "g-1", UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = fake.Tasks().Upsert(ctx, &model.TaskList{
		UserID: userID, DayKey: "2025-W10-0", WeekID: "2025-W10", DayIndex: 0,
		Tasks: []string{"Call A", "", "", "", "", ""}, UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = fake.Metrics().Upsert(ctx, &model.MetricTally{
		UserID: userID, DayKey: "2025-W10-0", WeekID: "2025-W10", DayIndex: 0,
		OpenCount: 2, UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = fake.Overviews().Upsert(ctx, &model.WeeklyOverview{
		UserID: userID, WeekID: "2025-W10", Remarks: "steady", UpdatedAt: now,
	})
	require.NoError(t, err)
}

func TestExport(t *testing.T) {
	fake := storetest.NewFake()
	seed(t, fake)
	svc := NewService(fake, zerolog.Nop())

	doc, err := svc.Export(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, model.BackupVersion, doc.Version)
	assert.Equal(t, userID, doc.UserID)
	assert.False(t, doc.Timestamp.IsZero())
	assert.Len(t, doc.Data.Appointments, 1)
	assert.Len(t, doc.Data.Tasks, 1)
	assert.Len(t, doc.Data.Metrics, 1)
	assert.Len(t, doc.Data.Overviews, 1)
	assert.Equal(t, model.BackupStats{
		TotalAppointments: 1, TotalTasks: 1, TotalMetrics: 1, TotalOverviews: 1,
	}, doc.Stats)

	// Export must not mutate the store.
	lst, err := fake.Appointments().ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, lst, 1)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), model.ErrValidation)
	assert.ErrorIs(t, Validate(&model.BackupDocument{}), model.ErrValidation)

	noData := &model.BackupDocument{Version: model.BackupVersion}
	assert.ErrorIs(t, Validate(noData), model.ErrValidation)

	ok := &model.BackupDocument{
		Version: model.BackupVersion,
		Data:    model.BackupData{Appointments: []*model.Appointment{}},
	}
	assert.NoError(t, Validate(ok))
}

func TestImport_RoundTrip(t *testing.T) {
	src := storetest.NewFake()
	seed(t, src)
	doc, err := NewService(src, zerolog.Nop()).Export(context.Background(), userID)
	require.NoError(t, err)

	dst := storetest.NewFake()
	res, err := NewService(dst, zerolog.Nop()).Import(context.Background(), userID, doc, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, CollectionResult{Created: 1}, res.Appointments)
	assert.Equal(t, CollectionResult{Created: 1}, res.Tasks)
	assert.Equal(t, CollectionResult{Created: 1}, res.Metrics)
	assert.Equal(t, CollectionResult{Created: 1}, res.Overviews)

	got, err := dst.Appointments().Get(context.Background(), userID, "2025-W10-0-4")
	require.NoError(t, err)
	assert.Equal(t, "g-1", got.GroupID)
}

func TestImport_SkipConflicts(t *testing.T) {
	fake := storetest.NewFake()
	seed(t, fake)
	svc := NewService(fake, zerolog.Nop())

	doc, err := svc.Export(context.Background(), userID)
	require.NoError(t, err)

	// Importing into the same store without overwrite skips everything.
	res, err := svc.Import(context.Background(), userID, doc, ImportOptions{SkipConflicts: true})
	require.NoError(t, err)
	assert.Equal(t, CollectionResult{Skipped: 1}, res.Appointments)
	assert.Equal(t, CollectionResult{Skipped: 1}, res.Overviews)
}

func TestImport_ConflictWithoutSkipIsAnError(t *testing.T) {
	fake := storetest.NewFake()
	seed(t, fake)
	svc := NewService(fake, zerolog.Nop())

	doc, err := svc.Export(context.Background(), userID)
	require.NoError(t, err)

	res, err := svc.Import(context.Background(), userID, doc, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, CollectionResult{Errors: 1}, res.Appointments)
}

func TestImport_OverwriteReplaces(t *testing.T) {
	fake := storetest.NewFake()
	seed(t, fake)
	svc := NewService(fake, zerolog.Nop())

	doc, err := svc.Export(context.Background(), userID)
	require.NoError(t, err)
	doc.Data.Overviews[0].Remarks = "from backup"

	res, err := svc.Import(context.Background(), userID, doc, ImportOptions{Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, CollectionResult{Created: 1}, res.Overviews)

	got, err := fake.Overviews().Get(context.Background(), userID, "2025-W10")
	require.NoError(t, err)
	assert.Equal(t, "from backup", got.Remarks)
}

func TestImport_ReownsRecords(t *testing.T) {
	src := storetest.NewFake()
	seed(t, src)
	doc, err := NewService(src, zerolog.Nop()).Export(context.Background(), userID)
	require.NoError(t, err)

	dst := storetest.NewFake()
	_, err = NewService(dst, zerolog.Nop()).Import(context.Background(), "other-user", doc, ImportOptions{})
	require.NoError(t, err)

	got, err := dst.Appointments().Get(context.Background(), "other-user", "2025-W10-0-4")
	require.NoError(t, err)
	assert.Equal(t, "other-user", got.UserID)
}

func TestImport_PartialFailuresAreCounted(t *testing.T) {
	src := storetest.NewFake()
	seed(t, src)
	doc, err := NewService(src, zerolog.Nop()).Export(context.Background(), userID)
	require.NoError(t, err)

	dst := storetest.NewFake()
	dst.FailUpserts = errors.New("backend down")

	res, err := NewService(dst, zerolog.Nop()).Import(context.Background(), userID, doc, ImportOptions{})
	require.NoError(t, err, "per-record failures must not abort the batch")
	assert.Equal(t, CollectionResult{Errors: 1}, res.Appointments)
	assert.Equal(t, CollectionResult{Errors: 1}, res.Tasks)
	assert.Equal(t, CollectionResult{Errors: 1}, res.Metrics)
	assert.Equal(t, CollectionResult{Errors: 1}, res.Overviews)
}

func TestImport_RejectsInvalidDocument(t *testing.T) {
	svc := NewService(storetest.NewFake(), zerolog.Nop())
	_, err := svc.Import(context.Background(), userID, &model.BackupDocument{}, ImportOptions{})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestClearAll(t *testing.T) {
	fake := storetest.NewFake()
	seed(t, fake)
	svc := NewService(fake, zerolog.Nop())

	res, err := svc.ClearAll(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, &ClearResult{Appointments: 1, Tasks: 1, Metrics: 1, Overviews: 1}, res)

	lst, err := fake.Appointments().ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, lst)

	// Clearing an empty account is fine.
	res, err = svc.ClearAll(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, &ClearResult{}, res)
}
