package storetest

import (
	"context"
	"sort"
	"sync"

	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/store"
)

// Fake is an in-memory store.Store for tests. It mirrors the natural-key
// semantics of the SQL drivers: upsert replaces, missing keys return
// model.ErrNotFound.
type Fake struct {
	mu           sync.Mutex
	appointments map[string]map[string]*model.Appointment // userID -> slotKey
	tasks        map[string]map[string]*model.TaskList    // userID -> dayKey
	metrics      map[string]map[string]*model.MetricTally // userID -> dayKey
	overviews    map[string]map[string]*model.WeeklyOverview

	// FailUpserts makes every write return the given error, for exercising
	// partial-failure paths.
	FailUpserts error
}

// NewFake returns an empty in-memory store.
func NewFake() *Fake {
	return &Fake{
		appointments: make(map[string]map[string]*model.Appointment),
		tasks:        make(map[string]map[string]*model.TaskList),
		metrics:      make(map[string]map[string]*model.MetricTally),
		overviews:    make(map[string]map[string]*model.WeeklyOverview),
	}
}

func (f *Fake) Appointments() store.Appointments { return (*fakeAppointments)(f) }
func (f *Fake) Tasks() store.Tasks               { return (*fakeTasks)(f) }
func (f *Fake) Metrics() store.Metrics           { return (*fakeMetrics)(f) }
func (f *Fake) Overviews() store.Overviews       { return (*fakeOverviews)(f) }

// HealthPing implements health.HealthPinger.
func (f *Fake) HealthPing(ctx context.Context) error { return nil }

func sortedValues[T any](m map[string]T, key func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

// --- appointments ---

type fakeAppointments Fake

func (f *fakeAppointments) Upsert(_ context.Context, a *model.Appointment) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUpserts != nil {
		return nil, f.FailUpserts
	}
	if f.appointments[a.UserID] == nil {
		f.appointments[a.UserID] = make(map[string]*model.Appointment)
	}
	cp := *a
	f.appointments[a.UserID][a.SlotKey] = &cp
	return &cp, nil
}

func (f *fakeAppointments) Get(_ context.Context, userID, slotKey string) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[userID][slotKey]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointments) ListByUser(_ context.Context, userID string) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedValues(f.appointments[userID], func(a *model.Appointment) string { return a.SlotKey }), nil
}

func (f *fakeAppointments) ListByWeek(_ context.Context, userID, weekID string) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, a := range f.appointments[userID] {
		if a.WeekID == weekID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayIndex != out[j].DayIndex {
			return out[i].DayIndex < out[j].DayIndex
		}
		return out[i].SlotIndex < out[j].SlotIndex
	})
	return out, nil
}

func (f *fakeAppointments) Delete(_ context.Context, userID, slotKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.appointments[userID], slotKey)
	return nil
}

func (f *fakeAppointments) DeleteByGroup(_ context.Context, userID, groupID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for key, a := range f.appointments[userID] {
		if a.GroupID == groupID {
			delete(f.appointments[userID], key)
			n++
		}
	}
	return n, nil
}

func (f *fakeAppointments) DeleteByUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.appointments, userID)
	return nil
}

// --- tasks ---

type fakeTasks Fake

func (f *fakeTasks) Upsert(_ context.Context, t *model.TaskList) (*model.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUpserts != nil {
		return nil, f.FailUpserts
	}
	if f.tasks[t.UserID] == nil {
		f.tasks[t.UserID] = make(map[string]*model.TaskList)
	}
	cp := *t
	cp.Tasks = append([]string(nil), t.Tasks...)
	f.tasks[t.UserID][t.DayKey] = &cp
	return &cp, nil
}

func (f *fakeTasks) Get(_ context.Context, userID, dayKey string) (*model.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[userID][dayKey]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *t
	cp.Tasks = append([]string(nil), t.Tasks...)
	return &cp, nil
}

func (f *fakeTasks) ListByUser(_ context.Context, userID string) ([]*model.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedValues(f.tasks[userID], func(t *model.TaskList) string { return t.DayKey }), nil
}

func (f *fakeTasks) ListByWeek(_ context.Context, userID, weekID string) ([]*model.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.TaskList
	for _, t := range f.tasks[userID] {
		if t.WeekID == weekID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayIndex < out[j].DayIndex })
	return out, nil
}

func (f *fakeTasks) Delete(_ context.Context, userID, dayKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tasks[userID], dayKey)
	return nil
}

func (f *fakeTasks) DeleteByUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tasks, userID)
	return nil
}

// --- metrics ---

type fakeMetrics Fake

func (f *fakeMetrics) Upsert(_ context.Context, m *model.MetricTally) (*model.MetricTally, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUpserts != nil {
		return nil, f.FailUpserts
	}
	if f.metrics[m.UserID] == nil {
		f.metrics[m.UserID] = make(map[string]*model.MetricTally)
	}
	cp := *m
	f.metrics[m.UserID][m.DayKey] = &cp
	return &cp, nil
}

func (f *fakeMetrics) Get(_ context.Context, userID, dayKey string) (*model.MetricTally, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.metrics[userID][dayKey]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMetrics) ListByUser(_ context.Context, userID string) ([]*model.MetricTally, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedValues(f.metrics[userID], func(m *model.MetricTally) string { return m.DayKey }), nil
}

func (f *fakeMetrics) ListByWeek(_ context.Context, userID, weekID string) ([]*model.MetricTally, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.MetricTally
	for _, m := range f.metrics[userID] {
		if m.WeekID == weekID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayIndex < out[j].DayIndex })
	return out, nil
}

func (f *fakeMetrics) Delete(_ context.Context, userID, dayKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.metrics[userID], dayKey)
	return nil
}

func (f *fakeMetrics) DeleteByUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.metrics, userID)
	return nil
}

// --- overviews ---

type fakeOverviews Fake

func (f *fakeOverviews) Upsert(_ context.Context, o *model.WeeklyOverview) (*model.WeeklyOverview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUpserts != nil {
		return nil, f.FailUpserts
	}
	if f.overviews[o.UserID] == nil {
		f.overviews[o.UserID] = make(map[string]*model.WeeklyOverview)
	}
	cp := *o
	f.overviews[o.UserID][o.WeekID] = &cp
	return &cp, nil
}

func (f *fakeOverviews) Get(_ context.Context, userID, weekID string) (*model.WeeklyOverview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.overviews[userID][weekID]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOverviews) ListByUser(_ context.Context, userID string) ([]*model.WeeklyOverview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedValues(f.overviews[userID], func(o *model.WeeklyOverview) string { return o.WeekID }), nil
}

func (f *fakeOverviews) Delete(_ context.Context, userID, weekID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.overviews[userID], weekID)
	return nil
}

func (f *fakeOverviews) DeleteByUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.overviews, userID)
	return nil
}
