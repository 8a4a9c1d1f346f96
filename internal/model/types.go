package model

import "time"

// Category classifies an appointment block for selection and weekly
// time-distribution reporting.
type Category string

const (
	CategoryIncome     Category = "income"
	CategorySupporting Category = "supporting"
	CategorySelfDev    Category = "self_dev"
	CategoryPersonal   Category = "personal"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryIncome, CategorySupporting, CategorySelfDev, CategoryPersonal:
		return true
	}
	return false
}

// Appointment is one half-hour block of a logical activity. Every block that
// belongs to the same activity carries the same GroupID and an identical
// category/activity/note/start/end payload.
type Appointment struct {
	UserID    string    `json:"userId"`
	SlotKey   string    `json:"slotKey"`
	WeekID    string    `json:"weekId"`
	DayIndex  int       `json:"dayIndex"`
	SlotIndex int       `json:"slotIndex"`
	Hour      int       `json:"hour"` // wall-clock hour of this block's slot
	Category  Category  `json:"category"`
	Activity  string    `json:"activity"`
	Note      string    `json:"note,omitempty"`
	StartTime string    `json:"startTime"` // "HH:MM", covers the whole activity
	EndTime   string    `json:"endTime"`
	GroupID   string    `json:"groupId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskListSize is the fixed number of priority slots per day.
const TaskListSize = 6

// TaskList holds the daily priorities for one (week, day). Unset slots are
// empty strings; the list is always exactly TaskListSize long.
type TaskList struct {
	UserID    string    `json:"userId"`
	DayKey    string    `json:"dayKey"`
	WeekID    string    `json:"weekId"`
	DayIndex  int       `json:"dayIndex"`
	Tasks     []string  `json:"tasks"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Counter names one of the four pipeline tallies.
type Counter string

const (
	CounterOpen    Counter = "open"
	CounterPresent Counter = "present"
	CounterFollow  Counter = "follow"
	CounterReview  Counter = "review"
)

// Valid reports whether c is one of the known counters.
func (c Counter) Valid() bool {
	switch c {
	case CounterOpen, CounterPresent, CounterFollow, CounterReview:
		return true
	}
	return false
}

// MetricTally is the per-day sales pipeline tally. Counters never go below
// zero.
type MetricTally struct {
	UserID       string    `json:"userId"`
	DayKey       string    `json:"dayKey"`
	WeekID       string    `json:"weekId"`
	DayIndex     int       `json:"dayIndex"`
	OpenCount    int       `json:"openCount"`
	PresentCount int       `json:"presentCount"`
	FollowCount  int       `json:"followCount"`
	ReviewCount  int       `json:"reviewCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Get returns the value of the named counter.
func (m *MetricTally) Get(c Counter) int {
	switch c {
	case CounterOpen:
		return m.OpenCount
	case CounterPresent:
		return m.PresentCount
	case CounterFollow:
		return m.FollowCount
	case CounterReview:
		return m.ReviewCount
	}
	return 0
}

// Set assigns the named counter, flooring at zero.
func (m *MetricTally) Set(c Counter, v int) {
	if v < 0 {
		v = 0
	}
	switch c {
	case CounterOpen:
		m.OpenCount = v
	case CounterPresent:
		m.PresentCount = v
	case CounterFollow:
		m.FollowCount = v
	case CounterReview:
		m.ReviewCount = v
	}
}

// WeeklyOverview is the per-(user, week) record holding coach remarks and the
// optional AI-generated analysis. At most one exists per week; it is upserted.
type WeeklyOverview struct {
	UserID      string     `json:"userId"`
	WeekID      string     `json:"weekId"`
	Remarks     string     `json:"remarks,omitempty"`
	AIAnalysis  *string    `json:"aiAnalysis,omitempty"`
	GeneratedAt *time.Time `json:"analysisGeneratedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BackupVersion identifies the current backup document format.
const BackupVersion = "1.0"

// BackupDocument is the portable export of every record one user owns.
type BackupDocument struct {
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	UserID    string      `json:"userId"`
	Data      BackupData  `json:"data"`
	Stats     BackupStats `json:"stats"`
}

// BackupData bundles the four entity collections.
type BackupData struct {
	Appointments []*Appointment    `json:"appointments"`
	Tasks        []*TaskList       `json:"tasks"`
	Metrics      []*MetricTally    `json:"metrics"`
	Overviews    []*WeeklyOverview `json:"weeklyOverviews"`
}

// BackupStats carries record counts for a quick integrity glance.
type BackupStats struct {
	TotalAppointments int `json:"totalAppointments"`
	TotalTasks        int `json:"totalTasks"`
	TotalMetrics      int `json:"totalMetrics"`
	TotalOverviews    int `json:"totalOverviews"`
}
