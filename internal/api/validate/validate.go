package validate

import (
	"fmt"
	"regexp"

	"github.com/planora/weekplanner/internal/model"
)

// weekIdRx matches ISO-8601 week ids such as "2025-W07".
var weekIdRx = regexp.MustCompile(`^\d{4}-W\d{2}$`)

// clockRx matches 24h wall-clock times such as "09:30".
var clockRx = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// UserID must be letters, digits, underscore or hyphen, 1-64 chars
var userIdRx = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

const (
	maxNoteLen    = 500
	maxRemarksLen = 5000
	maxTaskLen    = 300
)

func UserID(v string) error {
	if v == "" {
		return fmt.Errorf("userId is required")
	}
	if !userIdRx.MatchString(v) {
		return fmt.Errorf("userId must match %s", userIdRx.String())
	}
	return nil
}

func WeekID(v string) error {
	if v == "" {
		return fmt.Errorf("weekId is required")
	}
	if !weekIdRx.MatchString(v) {
		return fmt.Errorf("weekId must look like 2025-W07")
	}
	return nil
}

// Day checks a weekday index, Monday = 0.
func Day(v int) error {
	if v < 0 || v > 6 {
		return fmt.Errorf("day must be between 0 and 6")
	}
	return nil
}

func Clock(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !clockRx.MatchString(v) {
		return fmt.Errorf("%s must be a HH:MM time", field)
	}
	return nil
}

func Category(v string) error {
	if !model.Category(v).Valid() {
		return fmt.Errorf("unknown category %q", v)
	}
	return nil
}

func Counter(v string) error {
	if !model.Counter(v).Valid() {
		return fmt.Errorf("unknown counter %q", v)
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// -------- Request specific helpers ----------

// SaveActivity validates the payload for placing or updating an activity.
// Range semantics (end after start, conflict checks) stay with the grid; this
// only rejects input the grid should never see.
func SaveActivity(weekID, category, activity, note, startTime, endTime string, startDay, endDay int) error {
	if err := WeekID(weekID); err != nil {
		return err
	}
	if err := Category(category); err != nil {
		return err
	}
	if err := NonEmpty("activity", activity); err != nil {
		return err
	}
	if err := MaxLen("note", note, maxNoteLen); err != nil {
		return err
	}
	if err := Clock("startTime", startTime); err != nil {
		return err
	}
	if err := Clock("endTime", endTime); err != nil {
		return err
	}
	if err := Day(startDay); err != nil {
		return fmt.Errorf("startDay: %w", err)
	}
	if err := Day(endDay); err != nil {
		return fmt.Errorf("endDay: %w", err)
	}
	return nil
}

// Tasks validates a daily priority list before it is normalized to its fixed
// length.
func Tasks(tasks []string) error {
	for i, task := range tasks {
		if err := MaxLen(fmt.Sprintf("task %d", i), task, maxTaskLen); err != nil {
			return err
		}
	}
	return nil
}

func Remarks(v string) error {
	return MaxLen("remarks", v, maxRemarksLen)
}
