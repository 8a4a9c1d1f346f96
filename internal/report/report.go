package report

import (
	_ "embed"
	"html/template"
	"io"
	"time"

	"github.com/planora/weekplanner/internal/activity"
	"github.com/planora/weekplanner/internal/model"
)

//go:embed report.html.tmpl
var reportTmpl string

var tmpl = template.Must(template.New("report").Parse(reportTmpl))

var categoryColors = map[model.Category]string{
	model.CategoryIncome:     "#10b981",
	model.CategorySupporting: "#f59e0b",
	model.CategorySelfDev:    "#3b82f6",
	model.CategoryPersonal:   "#f43f5e",
}

type categoryRow struct {
	Label   string
	Hours   float64
	Percent int
	Color   string
}

type reportData struct {
	WeekID     string
	Date       string
	Open       int
	Present    int
	Follow     int
	Review     int
	Categories []categoryRow
	Remarks    string
	AIAnalysis string
}

// Render writes the weekly HTML report. Missing remarks and AI analysis get
// placeholder text rather than empty sections.
func Render(w io.Writer, s *Summary, overview *model.WeeklyOverview, now time.Time) error {
	data := reportData{
		WeekID:     s.WeekID,
		Date:       now.Format("2006-01-02"),
		Open:       s.OpenTotal,
		Present:    s.PresentTotal,
		Follow:     s.FollowTotal,
		Review:     s.ReviewTotal,
		Remarks:    "No personal coach remarks were added.",
		AIAnalysis: "No AI analysis was generated for this week.",
	}
	for _, info := range activity.All() {
		data.Categories = append(data.Categories, categoryRow{
			Label:   info.FullLabel,
			Hours:   s.Hours(info.ID),
			Percent: s.Percent(info.ID),
			Color:   categoryColors[info.ID],
		})
	}
	if overview != nil {
		if overview.Remarks != "" {
			data.Remarks = overview.Remarks
		}
		if overview.AIAnalysis != nil && *overview.AIAnalysis != "" {
			data.AIAnalysis = *overview.AIAnalysis
		}
	}
	return tmpl.Execute(w, data)
}
