package model

import "time"

// SchoolReport is the report for one school subdomain.
// It is produced by the pipeline runner and consumed by the writers.
type SchoolReport struct {
	// Subdomain is the school's portal subdomain.
	Subdomain string

	// Err is set when the school could not be processed at all
	// (typically an authentication failure). Identities is empty then.
	Err error

	// Direct is true when the account has no dependents and the report
	// was produced for the logged-in account itself.
	Direct bool

	// Identities holds one report per processed identity, in order.
	Identities []IdentityReport
}

// NewSchoolReport creates an empty report for the given subdomain.
func NewSchoolReport(subdomain string) *SchoolReport {
	return &SchoolReport{
		Subdomain:  subdomain,
		Identities: make([]IdentityReport, 0),
	}
}

// IdentityReport is the report for one identity within a school.
// Each section is nil when it was not requested.
type IdentityReport struct {
	Identity Identity

	// Err is set when the identity could not be processed (for example the
	// switch to a dependent failed). Sections filled before the failure are kept.
	Err error

	Timetable     *TimetableSection
	Grades        *GradesSection
	Notifications *NotificationsSection
	Lunch         *LunchSection

	// PerformedSteps lists the names of the steps that ran, in order.
	PerformedSteps []string
}

// Substitution describes why the timetable date differs from today.
type Substitution int

const (
	// NoSubstitution means the date is today or was given explicitly.
	NoSubstitution Substitution = iota

	// SaturdayToMonday means today is Saturday and Monday is shown.
	SaturdayToMonday

	// SundayToMonday means today is Sunday and Monday is shown.
	SundayToMonday
)

// TimetableSection is the result of the timetable step.
type TimetableSection struct {
	// Date is the resolved date the timetable was requested for.
	Date time.Time

	// Substitution explains a weekend fallback, if any.
	Substitution Substitution

	// Lessons in the portal's order. Empty means no lessons that day.
	Lessons []Lesson

	// Err is set when the timetable could not be fetched.
	Err error
}

// GradeEntry is a grade selected for display together with its inferred grade.
type GradeEntry struct {
	Grade

	// Inferred is the grade derived from the evaluation criteria. Empty if none.
	Inferred string
}

// GradesSection is the result of the grades step.
type GradesSection struct {
	// Entries are the most recent grades, newest first.
	Entries []GradeEntry

	// Err is set when the grades could not be fetched.
	Err error
}

// NotificationEntry is an announcement prepared for display.
type NotificationEntry struct {
	Author    string
	Timestamp time.Time

	// Text is the body converted to wrapped plain text.
	Text string
}

// NotificationsSection is the result of the notifications step.
type NotificationsSection struct {
	Entries []NotificationEntry

	// Err is set when the notifications could not be fetched.
	Err error
}

// LunchOutcome is the result class of a lunch lookup.
type LunchOutcome int

const (
	// LunchWeekend means the date is a weekend; nothing was fetched.
	LunchWeekend LunchOutcome = iota

	// LunchNoMeal means no lunch is served that day.
	LunchNoMeal

	// LunchNoOrder means lunch is served but nothing was ordered.
	LunchNoOrder

	// LunchUnresolved means the ordered id matched no menu item.
	LunchUnresolved

	// LunchSelected means the ordered menu item was found.
	LunchSelected

	// LunchFailed means the meal data could not be fetched; see Err.
	LunchFailed
)

// LunchSection is the result of the lunch step.
type LunchSection struct {
	Date    time.Time
	Outcome LunchOutcome

	// MealType is the meal's title (LunchSelected only).
	MealType string

	// Item is the selected menu item (LunchSelected only).
	Item MenuItem

	// OrderedID is the raw ordered id (LunchSelected and LunchUnresolved).
	OrderedID string

	// Available lists the menu numbers offered (LunchUnresolved only).
	Available []string

	// Err is set when Outcome is LunchFailed.
	Err error
}
