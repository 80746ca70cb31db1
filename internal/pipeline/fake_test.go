package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/nao1215/edureport/internal/model"
)

var (
	friday   = time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, 2, 21, 0, 0, 0, 0, time.UTC)
	sunday   = time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC)
	monday   = time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
)

var errPortal = errors.New("portal unavailable")

// fakePortal is a scripted Portal. Errors keyed by active identity let a
// test fail one dependent and not another.
type fakePortal struct {
	parentID   string
	active     string
	dependents []string
	students   map[string]string
	children   map[string]string

	switchErr map[string]error
	parentErr error

	timetable        *model.Timetable
	timetableErr     map[string]error
	studentTimetable *model.Timetable
	studentErr       error

	grades    []model.Grade
	gradesErr map[string]error

	notifications    []model.Notification
	notificationsErr error

	meals    *model.MealDay
	mealsErr error

	calls []string
}

func newFakePortal() *fakePortal {
	return &fakePortal{
		parentID:     "Rodic1",
		active:       "Rodic1",
		students:     map[string]string{},
		children:     map[string]string{},
		switchErr:    map[string]error{},
		timetableErr: map[string]error{},
		gradesErr:    map[string]error{},
		timetable: &model.Timetable{Lessons: []model.Lesson{
			{StartTime: "08:00", EndTime: "08:45", Subject: "Matematika"},
		}},
	}
}

func (f *fakePortal) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakePortal) Dependents() []string { return f.dependents }

func (f *fakePortal) StudentName(id string) (string, bool) {
	name, ok := f.students[id]
	return name, ok
}

func (f *fakePortal) ChildName(id string) (string, bool) {
	name, ok := f.children[id]
	return name, ok
}

func (f *fakePortal) ActiveIdentity() string { return f.active }

func (f *fakePortal) SetActiveIdentity(id string) { f.active = id }

func (f *fakePortal) SwitchToChild(_ context.Context, id string) error {
	f.record("switch:" + id)
	return f.switchErr[id]
}

func (f *fakePortal) SwitchToParent(_ context.Context) error {
	f.record("parent")
	return f.parentErr
}

func (f *fakePortal) Timetable(_ context.Context, date time.Time) (*model.Timetable, error) {
	f.record("timetable:" + f.active + ":" + date.Format(time.DateOnly))
	if err := f.timetableErr[f.active]; err != nil {
		return nil, err
	}
	return f.timetable, nil
}

func (f *fakePortal) StudentTimetable(_ context.Context, studentID string, date time.Time) (*model.Timetable, error) {
	f.record("student-timetable:" + studentID + ":" + date.Format(time.DateOnly))
	if f.studentErr != nil {
		return nil, f.studentErr
	}
	return f.studentTimetable, nil
}

func (f *fakePortal) Grades(_ context.Context) ([]model.Grade, error) {
	f.record("grades:" + f.active)
	if err := f.gradesErr[f.active]; err != nil {
		return nil, err
	}
	return f.grades, nil
}

func (f *fakePortal) Notifications(_ context.Context) ([]model.Notification, error) {
	f.record("notifications:" + f.active)
	return f.notifications, f.notificationsErr
}

func (f *fakePortal) Meals(_ context.Context, date time.Time) (*model.MealDay, error) {
	f.record("meals:" + date.Format(time.DateOnly))
	return f.meals, f.mealsErr
}
