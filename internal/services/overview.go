package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/planora/weekplanner/internal/ai"
	"github.com/planora/weekplanner/internal/events"
	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/report"
	"github.com/planora/weekplanner/internal/store"
)

// OverviewService manages the per-week coach record: free-text remarks, the
// optional AI analysis, and the exported HTML report.
type OverviewService struct {
	store store.Store
	gen   Generator
	bus   *events.Bus
	log   zerolog.Logger
	now   func() time.Time
}

func NewOverviewService(s store.Store, gen Generator, bus *events.Bus, log zerolog.Logger) *OverviewService {
	return &OverviewService{store: s, gen: gen, bus: bus, log: log, now: time.Now}
}

// Get returns the week's overview, or an empty one when none was saved.
func (s *OverviewService) Get(ctx context.Context, userID, weekID string) (*model.WeeklyOverview, error) {
	o, err := s.store.Overviews().Get(ctx, userID, weekID)
	if err == nil {
		return o, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return &model.WeeklyOverview{UserID: userID, WeekID: weekID}, nil
}

// SaveRemarks upserts the coach remarks, leaving any AI analysis untouched.
func (s *OverviewService) SaveRemarks(ctx context.Context, userID, weekID, remarks string) (*model.WeeklyOverview, error) {
	o, err := s.Get(ctx, userID, weekID)
	if err != nil {
		return nil, err
	}
	o.Remarks = remarks
	o.UpdatedAt = s.now().UTC()
	return s.save(ctx, o)
}

// Analyze summarizes the week, asks the model for coaching feedback and
// persists it on the overview. When the AI is unavailable the overview is
// left unchanged.
func (s *OverviewService) Analyze(ctx context.Context, userID, weekID string) (*model.WeeklyOverview, error) {
	sum, err := s.summarize(ctx, userID, weekID)
	if err != nil {
		return nil, err
	}

	prompt := analysisPrompt(sum)
	text, ok := s.gen.Generate(ctx, prompt, "", ai.Options{})
	if !ok {
		return nil, fmt.Errorf("weekly analysis: %w", model.ErrAIUnavailable)
	}

	o, err := s.Get(ctx, userID, weekID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	o.AIAnalysis = &text
	o.GeneratedAt = &now
	o.UpdatedAt = now
	return s.save(ctx, o)
}

// WriteReport renders the week's HTML report to w.
func (s *OverviewService) WriteReport(ctx context.Context, w io.Writer, userID, weekID string) error {
	sum, err := s.summarize(ctx, userID, weekID)
	if err != nil {
		return err
	}
	o, err := s.Get(ctx, userID, weekID)
	if err != nil {
		return err
	}
	return report.Render(w, sum, o, s.now().UTC())
}

func (s *OverviewService) summarize(ctx context.Context, userID, weekID string) (*report.Summary, error) {
	appointments, err := s.store.Appointments().ListByWeek(ctx, userID, weekID)
	if err != nil {
		return nil, fmt.Errorf("load appointments %s: %w", weekID, err)
	}
	metrics, err := s.store.Metrics().ListByWeek(ctx, userID, weekID)
	if err != nil {
		return nil, fmt.Errorf("load metrics %s: %w", weekID, err)
	}
	return report.Summarize(weekID, appointments, metrics), nil
}

func (s *OverviewService) save(ctx context.Context, o *model.WeeklyOverview) (*model.WeeklyOverview, error) {
	saved, err := s.store.Overviews().Upsert(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("save overview %s: %w", o.WeekID, err)
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Collection: events.CollectionOverviews,
			Op:         events.OpUpsert,
			UserID:     saved.UserID,
			Key:        saved.WeekID,
			Payload:    saved,
		})
	}
	return saved, nil
}

func analysisPrompt(sum *report.Summary) string {
	return fmt.Sprintf(`Act as a high-performance Sales Manager analyzing a weekly activity log. Provide a concise, professional analysis.

Here is the data for the week:
- Total Hours Logged: %.1f
- Income Generating Hours: %.1f
- Supporting/Admin Hours: %.1f
- Self Development Hours: %.1f
- Personal Hours: %.1f

Sales Pipeline Metrics:
- Opens: %d
- Presentations: %d
- Follow-ups: %d
- Reviews (Closes): %d

Please provide your feedback using the following structure, separated by blank lines:

[1. A one-sentence summary of my performance (Be encouraging but honest).]

[2. A specific observation about my activity balance.]

[3. Three actionable pieces of advice for next week, formatted as a numbered list (1., 2., 3.).]`,
		sum.TotalHours(),
		sum.Hours(model.CategoryIncome),
		sum.Hours(model.CategorySupporting),
		sum.Hours(model.CategorySelfDev),
		sum.Hours(model.CategoryPersonal),
		sum.OpenTotal, sum.PresentTotal, sum.FollowTotal, sum.ReviewTotal)
}
