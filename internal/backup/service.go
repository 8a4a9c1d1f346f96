// Package backup bundles every record a user owns into a portable versioned
// document and restores such documents. Restore is deliberately best-effort:
// per-record failures are counted, never abort the batch. That contrasts with
// the grid's all-or-nothing save and the two policies must stay distinct.
package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/store"
)

// Service implements export, restore and wipe over the datastore.
type Service struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewService creates a backup service.
func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log, now: time.Now}
}

// ImportOptions control conflict handling during restore.
type ImportOptions struct {
	// Overwrite replaces an existing record with the same natural key by
	// deleting it first and recreating it from the document.
	Overwrite bool
	// SkipConflicts silently skips records whose natural key already exists.
	// Without it a conflicting record is counted as an error.
	SkipConflicts bool
}

// CollectionResult tallies the outcome of restoring one collection.
type CollectionResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// ImportResult reports per-collection restore outcomes.
type ImportResult struct {
	Appointments CollectionResult `json:"appointments"`
	Tasks        CollectionResult `json:"tasks"`
	Metrics      CollectionResult `json:"metrics"`
	Overviews    CollectionResult `json:"weeklyOverviews"`
}

// ClearResult reports how many records a wipe removed per collection.
type ClearResult struct {
	Appointments int `json:"appointments"`
	Tasks        int `json:"tasks"`
	Metrics      int `json:"metrics"`
	Overviews    int `json:"weeklyOverviews"`
}

// Export bundles all four collections. It is read-only.
func (s *Service) Export(ctx context.Context, userID string) (*model.BackupDocument, error) {
	appointments, err := s.store.Appointments().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("export appointments: %w", err)
	}
	tasks, err := s.store.Tasks().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("export tasks: %w", err)
	}
	metrics, err := s.store.Metrics().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("export metrics: %w", err)
	}
	overviews, err := s.store.Overviews().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("export overviews: %w", err)
	}

	return &model.BackupDocument{
		Version:   model.BackupVersion,
		Timestamp: s.now().UTC(),
		UserID:    userID,
		Data: model.BackupData{
			Appointments: appointments,
			Tasks:        tasks,
			Metrics:      metrics,
			Overviews:    overviews,
		},
		Stats: model.BackupStats{
			TotalAppointments: len(appointments),
			TotalTasks:        len(tasks),
			TotalMetrics:      len(metrics),
			TotalOverviews:    len(overviews),
		},
	}, nil
}

// Validate rejects documents missing the version marker or the data section.
func Validate(doc *model.BackupDocument) error {
	if doc == nil {
		return fmt.Errorf("nil document: %w", model.ErrValidation)
	}
	if doc.Version == "" {
		return fmt.Errorf("backup document missing version: %w", model.ErrValidation)
	}
	if doc.Data.Appointments == nil && doc.Data.Tasks == nil &&
		doc.Data.Metrics == nil && doc.Data.Overviews == nil {
		return fmt.Errorf("backup document missing data: %w", model.ErrValidation)
	}
	return nil
}

// Import restores a document into the target user's account. Records are
// re-owned by userID regardless of what the document says. Each record is
// handled independently and failures never abort the batch.
func (s *Service) Import(ctx context.Context, userID string, doc *model.BackupDocument, opts ImportOptions) (*ImportResult, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var res ImportResult

	for _, a := range doc.Data.Appointments {
		rec := *a
		rec.UserID = userID
		s.restoreOne(&res.Appointments, opts, rec.SlotKey,
			func() error { _, err := s.store.Appointments().Get(ctx, userID, rec.SlotKey); return err },
			func() error { return s.store.Appointments().Delete(ctx, userID, rec.SlotKey) },
			func() error { _, err := s.store.Appointments().Upsert(ctx, &rec); return err },
		)
	}
	for _, t := range doc.Data.Tasks {
		rec := *t
		rec.UserID = userID
		s.restoreOne(&res.Tasks, opts, rec.DayKey,
			func() error { _, err := s.store.Tasks().Get(ctx, userID, rec.DayKey); return err },
			func() error { return s.store.Tasks().Delete(ctx, userID, rec.DayKey) },
			func() error { _, err := s.store.Tasks().Upsert(ctx, &rec); return err },
		)
	}
	for _, m := range doc.Data.Metrics {
		rec := *m
		rec.UserID = userID
		s.restoreOne(&res.Metrics, opts, rec.DayKey,
			func() error { _, err := s.store.Metrics().Get(ctx, userID, rec.DayKey); return err },
			func() error { return s.store.Metrics().Delete(ctx, userID, rec.DayKey) },
			func() error { _, err := s.store.Metrics().Upsert(ctx, &rec); return err },
		)
	}
	for _, o := range doc.Data.Overviews {
		rec := *o
		rec.UserID = userID
		s.restoreOne(&res.Overviews, opts, rec.WeekID,
			func() error { _, err := s.store.Overviews().Get(ctx, userID, rec.WeekID); return err },
			func() error { return s.store.Overviews().Delete(ctx, userID, rec.WeekID) },
			func() error { _, err := s.store.Overviews().Upsert(ctx, &rec); return err },
		)
	}

	return &res, nil
}

// restoreOne applies the conflict policy to a single record.
func (s *Service) restoreOne(cr *CollectionResult, opts ImportOptions, key string,
	get, del, create func() error) {
	err := get()
	exists := err == nil

	switch {
	case exists && opts.Overwrite:
		if err := del(); err != nil {
			s.log.Warn().Str("key", key).Err(err).Msg("restore: delete before overwrite failed")
			cr.Errors++
			return
		}
	case exists && opts.SkipConflicts:
		cr.Skipped++
		return
	case exists:
		s.log.Warn().Str("key", key).Msg("restore: record already exists")
		cr.Errors++
		return
	}

	if err := create(); err != nil {
		s.log.Warn().Str("key", key).Err(err).Msg("restore: create failed")
		cr.Errors++
		return
	}
	cr.Created++
}

// ClearAll unconditionally deletes every record the user owns across all four
// collections and returns how many were removed.
func (s *Service) ClearAll(ctx context.Context, userID string) (*ClearResult, error) {
	var res ClearResult

	if lst, err := s.store.Appointments().ListByUser(ctx, userID); err == nil {
		res.Appointments = len(lst)
	}
	if lst, err := s.store.Tasks().ListByUser(ctx, userID); err == nil {
		res.Tasks = len(lst)
	}
	if lst, err := s.store.Metrics().ListByUser(ctx, userID); err == nil {
		res.Metrics = len(lst)
	}
	if lst, err := s.store.Overviews().ListByUser(ctx, userID); err == nil {
		res.Overviews = len(lst)
	}

	if err := s.store.Appointments().DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear appointments: %w", err)
	}
	if err := s.store.Tasks().DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear tasks: %w", err)
	}
	if err := s.store.Metrics().DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear metrics: %w", err)
	}
	if err := s.store.Overviews().DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear overviews: %w", err)
	}
	return &res, nil
}
