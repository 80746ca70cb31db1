package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/edureport/internal/config"
	"github.com/nao1215/edureport/internal/model"
	"github.com/nao1215/edureport/internal/pipeline"
)

// Writer renders school reports.
// Write is called once per school, in run order, as soon as the school
// has been processed.
type Writer interface {
	// Write outputs one school's report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.SchoolReport) (int, error)
}

// NewWriter returns the writer for a config format.
func NewWriter(format string, output io.Writer, labels *Labels) (Writer, error) {
	switch format {
	case config.FormatText:
		return NewSimpleWriter(output, WithLabels(labels)), nil
	case config.FormatMarkdown:
		return NewMarkdownWriter(output, WithLabels(labels)), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidFormat, format)
	}
}

// Option configures the writers.
type Option func(*baseWriter)

// WithLabels sets the label catalog. Nil keeps the default.
func WithLabels(labels *Labels) Option {
	return func(w *baseWriter) {
		if labels != nil {
			w.labels = labels
		}
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
	labels *Labels
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, opts ...Option) baseWriter {
	w := baseWriter{output: output, labels: &slovak}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// identityName returns the heading name of a dependent.
func (w *baseWriter) identityName(identity model.Identity) string {
	switch identity.Source {
	case model.NameUnknown:
		return w.labels.UnknownName
	case model.NameSynthetic:
		return fmt.Sprintf(w.labels.SyntheticNamef, identity.ID)
	default:
		if identity.Name == "" {
			return fmt.Sprintf(w.labels.SyntheticNamef, identity.ID)
		}
		return identity.Name
	}
}

// schoolError returns the message for a school that could not be processed.
// The login wrapper is peeled off since the school is already named.
func (w *baseWriter) schoolError(report *model.SchoolReport) string {
	err := report.Err
	var authErr *pipeline.AuthenticationError
	if errors.As(err, &authErr) {
		err = authErr.Err
	}
	return fmt.Sprintf(w.labels.SchoolErrorf, report.Subdomain, err)
}

// childError returns the message for a dependent that could not be processed.
func (w *baseWriter) childError(identity model.IdentityReport) string {
	return fmt.Sprintf(w.labels.ChildErrorf, identity.Identity.ID, identity.Err)
}

// substitutionNote explains a weekend fallback of the timetable date.
func (w *baseWriter) substitutionNote(section *model.TimetableSection) string {
	switch section.Substitution {
	case model.SaturdayToMonday:
		return fmt.Sprintf(w.labels.SaturdayNotef, section.Date.Format(config.DateLayout))
	case model.SundayToMonday:
		return fmt.Sprintf(w.labels.SundayNotef, section.Date.Format(config.DateLayout))
	default:
		return ""
	}
}

// dateLine formats "Date: Weekday, DD.MM.YYYY".
func (w *baseWriter) dateLine(date time.Time) string {
	return fmt.Sprintf("%s: %s, %s", w.labels.Date, w.labels.Weekday(date), date.Format(config.DateLayout))
}

// lessonColumns returns the subject, first teacher and first classroom of
// a lesson with their placeholders applied.
func (w *baseWriter) lessonColumns(lesson model.Lesson) (subject, teacher, room string) {
	subject = orDefault(lesson.Subject, w.labels.NotAvailable)
	teacher = w.labels.NotAvailable
	if len(lesson.Teachers) > 0 {
		teacher = orDefault(lesson.Teachers[0], w.labels.NotAvailable)
	}
	room = "-"
	if len(lesson.Classrooms) > 0 {
		room = orDefault(lesson.Classrooms[0], "-")
	}
	return subject, teacher, room
}

// notificationTime formats a timeline timestamp, or N/A when absent.
func (w *baseWriter) notificationTime(entry model.NotificationEntry) string {
	if entry.Timestamp.IsZero() {
		return w.labels.NotAvailable
	}
	return entry.Timestamp.Format(config.DateLayout + " 15:04")
}

// lunchText returns the lines of a lunch section.
func (w *baseWriter) lunchText(section *model.LunchSection) string {
	switch section.Outcome {
	case model.LunchWeekend:
		return w.labels.LunchWeekend
	case model.LunchNoMeal:
		return w.labels.LunchNoMeal
	case model.LunchNoOrder:
		return w.labels.LunchNoOrder
	case model.LunchUnresolved:
		return fmt.Sprintf(w.labels.LunchUnresolvedf, section.OrderedID, strings.Join(section.Available, ", "))
	case model.LunchFailed:
		return fmt.Sprintf(w.labels.LunchFailedf, detail(section.Err))
	case model.LunchSelected:
		line := fmt.Sprintf("%s: %s",
			orDefault(section.MealType, w.labels.NotAvailable),
			orDefault(section.Item.Name, w.labels.NotAvailable))
		if section.OrderedID != model.OrderSingleMenu {
			line += " " + fmt.Sprintf(w.labels.LunchOrderedf, section.OrderedID)
		}
		return line
	default:
		return ""
	}
}

// detail returns the cause of a section failure without the section wrapper.
func detail(err error) error {
	var fetchErr *pipeline.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Err
	}
	return err
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
