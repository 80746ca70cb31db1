package pipeline

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/nao1215/edureport/internal/grade"
	"github.com/nao1215/edureport/internal/htmltext"
	"github.com/nao1215/edureport/internal/model"
)

// Selection limits of the report sections.
const (
	// DefaultGradeLimit is the number of most recent grades shown.
	DefaultGradeLimit = 10

	// DefaultNotificationLimit is the number of timeline entries shown.
	DefaultNotificationLimit = 5
)

// ResolveTimetableDate picks the date the timetable is shown for.
// An explicit date is used as is. Otherwise today is used, except that a
// Saturday or Sunday moves forward to the following Monday.
func ResolveTimetableDate(explicit, now time.Time) (time.Time, model.Substitution) {
	if !explicit.IsZero() {
		return explicit, model.NoSubstitution
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch today.Weekday() {
	case time.Saturday:
		return today.AddDate(0, 0, 2), model.SaturdayToMonday
	case time.Sunday:
		return today.AddDate(0, 0, 1), model.SundayToMonday
	default:
		return today, model.NoSubstitution
	}
}

// TimetableStep fetches the timetable of the current identity.
type TimetableStep struct {
	source TimetableSource
	date   time.Time
	now    func() time.Time
	logger *slog.Logger
}

// TimetableStepOption configures a TimetableStep.
type TimetableStepOption func(*TimetableStep)

// WithTimetableDate sets an explicit date. The zero time means automatic.
func WithTimetableDate(date time.Time) TimetableStepOption {
	return func(s *TimetableStep) {
		s.date = date
	}
}

// WithClock replaces time.Now for date resolution.
func WithClock(now func() time.Time) TimetableStepOption {
	return func(s *TimetableStep) {
		s.now = now
	}
}

// WithTimetableLogger sets a custom logger.
func WithTimetableLogger(logger *slog.Logger) TimetableStepOption {
	return func(s *TimetableStep) {
		s.logger = logger
	}
}

// NewTimetableStep creates a timetable step reading from source.
func NewTimetableStep(source TimetableSource, opts ...TimetableStepOption) *TimetableStep {
	s := &TimetableStep{
		source: source,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *TimetableStep) Name() string {
	return SectionTimetable
}

// Do fetches the timetable for the resolved date. When the active identity
// cannot be served and the report is for a dependent, the dependent's
// timetable is requested explicitly.
func (s *TimetableStep) Do(ctx context.Context, report *model.IdentityReport) error {
	date, substitution := ResolveTimetableDate(s.date, s.now())
	section := &model.TimetableSection{
		Date:         date,
		Substitution: substitution,
	}
	report.Timetable = section

	tt, err := s.source.Timetable(ctx, date)
	if err != nil && report.Identity.IsDependent() {
		s.logger.Debug("timetable of active identity failed, retrying for dependent",
			"dependent", report.Identity.ID,
			"error", err,
		)
		tt, err = s.source.StudentTimetable(ctx, report.Identity.ID, date)
	}
	if err != nil {
		section.Err = &FetchError{Section: SectionTimetable, Err: err}
		return nil
	}

	if tt != nil {
		section.Lessons = tt.Lessons
	}
	return nil
}

// GradesStep fetches grades and keeps the most recent ones.
type GradesStep struct {
	source GradeSource
	limit  int
}

// NewGradesStep creates a grades step keeping at most limit grades.
// A non-positive limit means DefaultGradeLimit.
func NewGradesStep(source GradeSource, limit int) *GradesStep {
	if limit <= 0 {
		limit = DefaultGradeLimit
	}
	return &GradesStep{source: source, limit: limit}
}

// Name returns the step name.
func (s *GradesStep) Name() string {
	return SectionGrades
}

// Do fetches the grades, orders them newest first (ties keep portal
// order), keeps the first limit, and infers display grades.
func (s *GradesStep) Do(ctx context.Context, report *model.IdentityReport) error {
	section := &model.GradesSection{}
	report.Grades = section

	grades, err := s.source.Grades(ctx)
	if err != nil {
		section.Err = &FetchError{Section: SectionGrades, Err: err}
		return nil
	}

	section.Entries = SelectRecentGrades(grades, s.limit)
	return nil
}

// SelectRecentGrades returns at most limit grades, newest first, with their
// inferred grades. The input slice is not modified.
func SelectRecentGrades(grades []model.Grade, limit int) []model.GradeEntry {
	sorted := slices.Clone(grades)
	slices.SortStableFunc(sorted, func(a, b model.Grade) int {
		return b.Date.Compare(a.Date)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]model.GradeEntry, 0, len(sorted))
	for _, g := range sorted {
		inferred, _ := grade.Infer(g)
		entries = append(entries, model.GradeEntry{Grade: g, Inferred: inferred})
	}
	return entries
}

// NotificationsStep fetches the timeline and converts the newest entries to text.
type NotificationsStep struct {
	source    NotificationSource
	limit     int
	converter *htmltext.Converter
	logger    *slog.Logger
}

// NewNotificationsStep creates a notifications step keeping at most limit
// entries. A non-positive limit means DefaultNotificationLimit.
func NewNotificationsStep(source NotificationSource, limit int, logger *slog.Logger) *NotificationsStep {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationsStep{
		source:    source,
		limit:     limit,
		converter: htmltext.NewConverter(htmltext.WithWidth(htmltext.DefaultWidth)),
		logger:    logger,
	}
}

// Name returns the step name.
func (s *NotificationsStep) Name() string {
	return SectionNotifications
}

// Do keeps the first limit entries in the order the portal returned them.
func (s *NotificationsStep) Do(ctx context.Context, report *model.IdentityReport) error {
	section := &model.NotificationsSection{}
	report.Notifications = section

	notifications, err := s.source.Notifications(ctx)
	if err != nil {
		section.Err = &FetchError{Section: SectionNotifications, Err: err}
		return nil
	}

	if len(notifications) > s.limit {
		notifications = notifications[:s.limit]
	}

	section.Entries = make([]model.NotificationEntry, 0, len(notifications))
	for _, n := range notifications {
		text, err := s.converter.Convert(n.Body)
		if err != nil {
			s.logger.Debug("failed to convert notification body", "error", err)
			text = strings.TrimSpace(n.Body)
		}
		section.Entries = append(section.Entries, model.NotificationEntry{
			Author:    n.Author,
			Timestamp: n.Timestamp,
			Text:      text,
		})
	}
	return nil
}

// LunchStep looks up the ordered lunch for a date.
type LunchStep struct {
	source MealSource
	date   time.Time
}

// NewLunchStep creates a lunch step for date.
func NewLunchStep(source MealSource, date time.Time) *LunchStep {
	return &LunchStep{source: source, date: date}
}

// Name returns the step name.
func (s *LunchStep) Name() string {
	return SectionLunch
}

// Do resolves the lunch order. Weekends are answered without a fetch.
func (s *LunchStep) Do(ctx context.Context, report *model.IdentityReport) error {
	if s.date.IsZero() {
		return ErrLunchDateRequired
	}

	section := &model.LunchSection{Date: s.date}
	report.Lunch = section

	if wd := s.date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		section.Outcome = model.LunchWeekend
		return nil
	}

	day, err := s.source.Meals(ctx, s.date)
	if err != nil {
		section.Outcome = model.LunchFailed
		section.Err = &FetchError{Section: SectionLunch, Err: err}
		return nil
	}
	if day == nil || day.Lunch == nil {
		section.Outcome = model.LunchNoMeal
		return nil
	}

	ResolveLunch(day.Lunch, section)
	return nil
}

// ResolveLunch fills section with the outcome of matching the lunch order
// against its menu.
//
// An absent order or the "None" order means nothing was ordered. The
// ordered id is matched against menu numbers as a string. The "X"
// placeholder additionally matches the menu row without a number.
func ResolveLunch(lunch *model.Meal, section *model.LunchSection) {
	ordered := lunch.OrderedID
	if ordered == "" || ordered == model.OrderNone {
		section.Outcome = model.LunchNoOrder
		return
	}

	item, ok := findMenuItem(lunch.Menu, func(item model.MenuItem) bool {
		return item.Number == ordered
	})
	if !ok && ordered == model.OrderSingleMenu {
		item, ok = findMenuItem(lunch.Menu, func(item model.MenuItem) bool {
			return item.Number == model.OrderNone || item.Number == ""
		})
	}

	section.OrderedID = ordered
	if !ok {
		section.Outcome = model.LunchUnresolved
		section.Available = make([]string, 0, len(lunch.Menu))
		for _, item := range lunch.Menu {
			section.Available = append(section.Available, item.Number)
		}
		return
	}

	section.Outcome = model.LunchSelected
	section.MealType = lunch.MealType
	section.Item = item
}

func findMenuItem(menu []model.MenuItem, match func(model.MenuItem) bool) (model.MenuItem, bool) {
	for _, item := range menu {
		if match(item) {
			return item, true
		}
	}
	return model.MenuItem{}, false
}
