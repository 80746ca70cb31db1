package model

import "time"

// Lesson is one entry of a day's timetable.
type Lesson struct {
	// StartTime and EndTime are "HH:MM" strings as published by the school.
	StartTime string
	EndTime   string

	// Subject is the subject name. Empty when the lesson has none (e.g. a break duty).
	Subject string

	// Teachers and Classrooms are display names in the portal's order.
	Teachers   []string
	Classrooms []string

	// Cancelled is true when the lesson was called off.
	Cancelled bool
}

// Timetable is the list of lessons for one date, in the portal's order.
type Timetable struct {
	Date    time.Time
	Lessons []Lesson
}

// Grade is one grade record as fetched from the portal.
type Grade struct {
	// Date is when the grade was given.
	Date time.Time

	// Subject is the subject name. Empty if unknown.
	Subject string

	// Value is the raw grade value as published ("1", "17.5", "A").
	Value string

	// MaxPoints is set for point-based grades.
	MaxPoints *float64

	// Percent is the score as a percentage of MaxPoints, when the portal computed it.
	Percent *float64

	// Verbal is true for verbal (descriptive) evaluations.
	Verbal bool

	// MoreDetails holds free-text metadata blobs attached to the grade event.
	// Some of them embed the evaluation criteria as a literal mapping.
	MoreDetails []string

	// Title is the name of the graded event (test, homework).
	Title string

	// Comment is the teacher's note.
	Comment string
}

// Notification is one announcement from the portal timeline.
type Notification struct {
	// Author is the display name of the sender.
	Author string

	// Timestamp is when the announcement was published. Zero means unknown.
	Timestamp time.Time

	// Body is the announcement text as HTML.
	Body string
}

// Menu-number sentinels used by the meal order data.
const (
	// OrderNone is the ordered-item value that means nothing was ordered.
	// It is also the marker the portal uses for a menu row without a number.
	OrderNone = "None"

	// OrderSingleMenu is the placeholder the portal uses when the boarder is
	// registered for lunch without choosing a numbered menu. It matches the
	// menu row that has no number.
	OrderSingleMenu = "X"
)

// MenuItem is one choice in a meal's menu.
type MenuItem struct {
	// Number is the menu label ("1", "2", "A"). Free-form; may be OrderNone or empty.
	Number string

	// Name is the dish description.
	Name string
}

// Meal is one meal of a day together with the boarder's order.
type Meal struct {
	// MealType is the meal's title (e.g. "Obed"). Empty if unknown.
	MealType string

	// OrderedID is the ordered menu number. Empty means absent.
	OrderedID string

	// Menu lists the available choices in the portal's order.
	Menu []MenuItem
}

// MealDay is the set of meals served on one date.
type MealDay struct {
	Date time.Time

	// Lunch is nil when no lunch is served that day.
	Lunch *Meal
}
