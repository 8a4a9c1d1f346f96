package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/planora/weekplanner/internal/ai"
	"github.com/planora/weekplanner/internal/events"
	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/slotkey"
	"github.com/planora/weekplanner/internal/store"
)

// Generator is the slice of the AI client the services need.
type Generator interface {
	Generate(ctx context.Context, prompt, systemInstruction string, opts ai.Options) (string, bool)
}

// TaskService manages the fixed six-slot daily priority lists, including AI
// generation from the day's appointments.
type TaskService struct {
	store store.Store
	gen   Generator
	bus   *events.Bus
	log   zerolog.Logger
	now   func() time.Time
}

func NewTaskService(s store.Store, gen Generator, bus *events.Bus, log zerolog.Logger) *TaskService {
	return &TaskService{store: s, gen: gen, bus: bus, log: log, now: time.Now}
}

// normalizeTasks pads or truncates to exactly model.TaskListSize entries.
func normalizeTasks(tasks []string) []string {
	out := make([]string, model.TaskListSize)
	copy(out, tasks)
	return out
}

// Get returns the day's list, or an empty six-slot list when none was saved.
func (s *TaskService) Get(ctx context.Context, userID, weekID string, day int) (*model.TaskList, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}
	tl, err := s.store.Tasks().Get(ctx, userID, slotkey.DayKey(weekID, day))
	if err == nil {
		tl.Tasks = normalizeTasks(tl.Tasks)
		return tl, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return &model.TaskList{
		UserID:   userID,
		DayKey:   slotkey.DayKey(weekID, day),
		WeekID:   weekID,
		DayIndex: day,
		Tasks:    make([]string, model.TaskListSize),
	}, nil
}

// Put saves the day's list, normalized to six entries.
func (s *TaskService) Put(ctx context.Context, userID, weekID string, day int, tasks []string) (*model.TaskList, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}
	tl := &model.TaskList{
		UserID:    userID,
		DayKey:    slotkey.DayKey(weekID, day),
		WeekID:    weekID,
		DayIndex:  day,
		Tasks:     normalizeTasks(tasks),
		UpdatedAt: s.now().UTC(),
	}
	saved, err := s.store.Tasks().Upsert(ctx, tl)
	if err != nil {
		return nil, fmt.Errorf("save tasks %s: %w", tl.DayKey, err)
	}
	s.publish(userID, saved)
	return saved, nil
}

var jsonArrayRe = regexp.MustCompile(`(?s)\[.*?\]`)

// Generate asks the model for six short tasks grounded in the day's
// appointments and persists the result. The model must answer with a JSON
// array of strings; anything else is treated as the AI being unavailable.
func (s *TaskService) Generate(ctx context.Context, userID, weekID string, day int) (*model.TaskList, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}

	appointments, err := s.store.Appointments().ListByWeek(ctx, userID, weekID)
	if err != nil {
		return nil, fmt.Errorf("load week %s: %w", weekID, err)
	}
	apptContext := dayContext(appointments, day)

	prompt := fmt.Sprintf(`I need a daily to-do list of exactly %d short, actionable tasks for a salesperson.
Context for today: %s

Return ONLY a valid JSON array of %d strings. Example: ["Call client X", "Prep for meeting", ...]
Do not include markdown formatting or explanation.`, model.TaskListSize, apptContext, model.TaskListSize)

	text, ok := s.gen.Generate(ctx, prompt, "", ai.Options{})
	if !ok {
		return nil, fmt.Errorf("task generation: %w", model.ErrAIUnavailable)
	}

	tasks, err := parseTaskArray(text)
	if err != nil {
		s.log.Warn().Err(err).Str("week", weekID).Int("day", day).
			Msg("could not parse generated task list")
		return nil, fmt.Errorf("task generation: %w", model.ErrAIUnavailable)
	}
	return s.Put(ctx, userID, weekID, day, tasks)
}

// dayContext describes the day's activities, one entry per contiguous group
// run, for the generation prompt.
func dayContext(appointments []*model.Appointment, day int) string {
	var blocks []*model.Appointment
	for _, a := range appointments {
		if a.DayIndex == day {
			blocks = append(blocks, a)
		}
	}
	if len(blocks) == 0 {
		return "No specific appointments scheduled yet."
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].SlotIndex < blocks[j].SlotIndex })

	var parts []string
	lastGroup := ""
	for _, b := range blocks {
		if b.GroupID == lastGroup {
			continue
		}
		lastGroup = b.GroupID
		entry := b.Activity
		if b.Note != "" {
			entry += ": " + b.Note
		}
		parts = append(parts, entry)
	}
	return "Appointments today: " + strings.Join(parts, "; ")
}

// parseTaskArray extracts the first JSON array from the model's answer.
func parseTaskArray(text string) ([]string, error) {
	raw := jsonArrayRe.FindString(text)
	if raw == "" {
		raw = strings.TrimSpace(text)
	}
	var tasks []string
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("parse task array: %w", err)
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("empty task array")
	}
	if len(tasks) > model.TaskListSize {
		tasks = tasks[:model.TaskListSize]
	}
	return tasks, nil
}

func (s *TaskService) publish(userID string, tl *model.TaskList) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Collection: events.CollectionTasks,
		Op:         events.OpUpsert,
		UserID:     userID,
		Key:        tl.DayKey,
		Payload:    tl,
	})
}

func validDay(day int) error {
	if day < 0 || day > 6 {
		return fmt.Errorf("day %d out of range: %w", day, model.ErrValidation)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
