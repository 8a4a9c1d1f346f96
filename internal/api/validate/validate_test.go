package validate

import (
	"strings"
	"testing"
)

func TestWeekID(t *testing.T) {
	tests := []struct {
		name        string
		weekID      string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid week",
			weekID:      "2025-W07",
			expectError: false,
		},
		{
			name:        "valid last week",
			weekID:      "2026-W53",
			expectError: false,
		},
		{
			name:        "empty week",
			weekID:      "",
			expectError: true,
			errorMsg:    "weekId is required",
		},
		{
			name:        "missing W",
			weekID:      "2025-07",
			expectError: true,
			errorMsg:    "weekId must look like 2025-W07",
		},
		{
			name:        "unpadded week number",
			weekID:      "2025-W7",
			expectError: true,
			errorMsg:    "weekId must look like 2025-W07",
		},
		{
			name:        "trailing garbage",
			weekID:      "2025-W07-extra",
			expectError: true,
			errorMsg:    "weekId must look like 2025-W07",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WeekID(tt.weekID)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for weekId '%s'", tt.weekID)
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Fatalf("expected error message '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error for valid weekId '%s': %v", tt.weekID, err)
				}
			}
		})
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectError bool
	}{
		{"valid morning", "07:00", false},
		{"valid half hour", "09:30", false},
		{"valid last hour", "23:59", false},
		{"empty", "", true},
		{"out of range hour", "24:00", true},
		{"out of range minute", "09:60", true},
		{"missing zero padding", "9:30", true},
		{"not a time", "soon", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Clock("startTime", tt.value)
			if tt.expectError && err == nil {
				t.Fatalf("expected error for '%s'", tt.value)
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error for '%s': %v", tt.value, err)
			}
		})
	}
}

func TestDay(t *testing.T) {
	for day := 0; day <= 6; day++ {
		if err := Day(day); err != nil {
			t.Fatalf("unexpected error for day %d: %v", day, err)
		}
	}
	if err := Day(-1); err == nil {
		t.Fatal("expected error for day -1")
	}
	if err := Day(7); err == nil {
		t.Fatal("expected error for day 7")
	}
}

func TestUserID(t *testing.T) {
	if err := UserID("coach_01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := UserID(""); err == nil {
		t.Fatal("expected error for empty userId")
	}
	if err := UserID("has space"); err == nil {
		t.Fatal("expected error for userId with space")
	}
	if err := UserID(strings.Repeat("a", 65)); err == nil {
		t.Fatal("expected error for overlong userId")
	}
}

func TestCategoryAndCounter(t *testing.T) {
	if err := Category("income"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Category("projects"); err == nil {
		t.Fatal("expected error for unknown category")
	}
	if err := Counter("open"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Counter("closed_won"); err == nil {
		t.Fatal("expected error for unknown counter")
	}
}

func TestSaveActivity(t *testing.T) {
	tests := []struct {
		name        string
		weekID      string
		category    string
		activity    string
		note        string
		start, end  string
		sDay, eDay  int
		expectError bool
	}{
		{
			name:   "valid",
			weekID: "2025-W07", category: "income",
			activity: "4. Prospecting (Build New Customer)",
			start:    "09:00", end: "10:30", sDay: 0, eDay: 0,
		},
		{
			name:   "bad week",
			weekID: "nope", category: "income", activity: "x",
			start: "09:00", end: "10:30", sDay: 0, eDay: 0,
			expectError: true,
		},
		{
			name:   "bad category",
			weekID: "2025-W07", category: "projects", activity: "x",
			start: "09:00", end: "10:30", sDay: 0, eDay: 0,
			expectError: true,
		},
		{
			name:   "missing activity",
			weekID: "2025-W07", category: "income", activity: "",
			start: "09:00", end: "10:30", sDay: 0, eDay: 0,
			expectError: true,
		},
		{
			name:   "note too long",
			weekID: "2025-W07", category: "income", activity: "x",
			note:  strings.Repeat("a", 501),
			start: "09:00", end: "10:30", sDay: 0, eDay: 0,
			expectError: true,
		},
		{
			name:   "bad end day",
			weekID: "2025-W07", category: "income", activity: "x",
			start: "09:00", end: "10:30", sDay: 0, eDay: 7,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SaveActivity(tt.weekID, tt.category, tt.activity, tt.note, tt.start, tt.end, tt.sDay, tt.eDay)
			if tt.expectError && err == nil {
				t.Fatalf("expected error for test case '%s'", tt.name)
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error for test case '%s': %v", tt.name, err)
			}
		})
	}
}

func TestTasks(t *testing.T) {
	if err := Tasks([]string{"Call client X", "Prep proposal"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Tasks([]string{strings.Repeat("a", 301)}); err == nil {
		t.Fatal("expected error for overlong task")
	}
}

func TestRemarks(t *testing.T) {
	if err := Remarks(strings.Repeat("a", 5000)); err != nil {
		t.Fatalf("unexpected error at limit: %v", err)
	}
	if err := Remarks(strings.Repeat("a", 5001)); err == nil {
		t.Fatal("expected error above limit")
	}
}
