package pipeline

import (
	"context"
	"time"

	"github.com/nao1215/edureport/internal/model"
)

// TimetableSource fetches timetables.
type TimetableSource interface {
	// Timetable fetches the lessons of the active identity.
	Timetable(ctx context.Context, date time.Time) (*model.Timetable, error)

	// StudentTimetable fetches the lessons of an explicitly named student.
	StudentTimetable(ctx context.Context, studentID string, date time.Time) (*model.Timetable, error)
}

// GradeSource fetches the grades of the active identity.
type GradeSource interface {
	Grades(ctx context.Context) ([]model.Grade, error)
}

// NotificationSource fetches the notification timeline of the active identity.
type NotificationSource interface {
	Notifications(ctx context.Context) ([]model.Notification, error)
}

// MealSource fetches the meal set of the active identity for a date.
type MealSource interface {
	Meals(ctx context.Context, date time.Time) (*model.MealDay, error)
}

// NameResolver looks up display names of dependents.
type NameResolver interface {
	// StudentName looks the id up in the portal's student database.
	StudentName(id string) (string, bool)

	// ChildName reads the session's children map. ok reports whether the
	// id has an entry; name may be empty even then.
	ChildName(id string) (name string, ok bool)
}

// Switcher owns the session's active identity.
type Switcher interface {
	ActiveIdentity() string
	SetActiveIdentity(id string)
	SwitchToChild(ctx context.Context, id string) error
	SwitchToParent(ctx context.Context) error
}

// Portal is an authenticated session with one school.
// *edupage.Client implements it.
type Portal interface {
	TimetableSource
	GradeSource
	NotificationSource
	MealSource
	NameResolver
	Switcher

	// Dependents lists the children of a parent account in portal order.
	// It is empty for a student account.
	Dependents() []string
}

// Connector logs in to one school subdomain.
type Connector func(ctx context.Context, subdomain string) (Portal, error)
