// Package report computes the weekly summary and renders it as a
// self-contained HTML document. The document is generated, never parsed back.
package report

import (
	"math"

	"github.com/planora/weekplanner/internal/model"
)

// Summary aggregates one week of activity for reporting.
type Summary struct {
	WeekID string

	// Blocks counts half-hour blocks per category.
	Blocks map[model.Category]int
	// TotalBlocks is the sum over all known categories.
	TotalBlocks int

	OpenTotal    int
	PresentTotal int
	FollowTotal  int
	ReviewTotal  int
}

// Summarize tallies appointment blocks per category and sums the pipeline
// counters across the week's days. Blocks with an unknown category are
// ignored.
func Summarize(weekID string, appointments []*model.Appointment, metrics []*model.MetricTally) *Summary {
	s := &Summary{
		WeekID: weekID,
		Blocks: make(map[model.Category]int),
	}
	for _, a := range appointments {
		if a.WeekID != weekID || !a.Category.Valid() {
			continue
		}
		s.Blocks[a.Category]++
		s.TotalBlocks++
	}
	for _, m := range metrics {
		if m.WeekID != weekID {
			continue
		}
		s.OpenTotal += m.OpenCount
		s.PresentTotal += m.PresentCount
		s.FollowTotal += m.FollowCount
		s.ReviewTotal += m.ReviewCount
	}
	return s
}

// Hours converts a category's half-hour block count to hours.
func (s *Summary) Hours(c model.Category) float64 {
	return float64(s.Blocks[c]) * 0.5
}

// TotalHours is the week's logged time in hours.
func (s *Summary) TotalHours() float64 {
	return float64(s.TotalBlocks) * 0.5
}

// Percent returns the category's share of logged time, rounded to the nearest
// whole percent. Zero when nothing is logged.
func (s *Summary) Percent(c model.Category) int {
	if s.TotalBlocks == 0 {
		return 0
	}
	return int(math.Round(float64(s.Blocks[c]) / float64(s.TotalBlocks) * 100))
}
