package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"

	"github.com/nao1215/edureport/internal/config"
	"github.com/nao1215/edureport/internal/grade"
	"github.com/nao1215/edureport/internal/model"
)

// Layout of the text report.
const (
	ruleWidth      = 60
	schoolColumn   = 51
	subjectColumn  = 20
	teacherColumn  = 20
	displayColumn  = 12
	noticeIndent   = "     "
	lineIndent     = "  "
	gradeSeparator = " | "
)

// SimpleWriter outputs the line-oriented text report.
// Columns are padded by display width, so names with diacritics line up.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...Option) *SimpleWriter {
	return &SimpleWriter{
		baseWriter: newBaseWriter(output, opts...),
	}
}

// Write outputs one school's report.
func (w *SimpleWriter) Write(report *model.SchoolReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)

	if report.Err != nil {
		sb.WriteString(w.schoolError(report) + "\n")
		return w.output.Write([]byte(sb.String()))
	}

	if report.Direct {
		sb.WriteString(w.labels.DirectProfile + "\n")
	}

	for _, identity := range report.Identities {
		w.writeIdentity(&sb, report, identity)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the school banner.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.SchoolReport) {
	name := cases.Upper(w.labels.Tag).String(report.Subdomain)
	rule := strings.Repeat("=", ruleWidth)

	sb.WriteString(rule + "\n")
	fmt.Fprintf(sb, "%s: %s =\n", w.labels.School, runewidth.FillRight(name, schoolColumn))
	sb.WriteString(rule + "\n")
}

func (w *SimpleWriter) writeIdentity(sb *strings.Builder, report *model.SchoolReport, identity model.IdentityReport) {
	if !report.Direct {
		fmt.Fprintf(sb, "\n>>> %s: %s <<<\n", w.labels.Child, w.identityName(identity.Identity))
	}

	if identity.Timetable != nil {
		w.writeTimetable(sb, identity.Timetable)
	}
	if identity.Grades != nil {
		w.writeGrades(sb, identity.Grades)
	}
	if identity.Notifications != nil {
		w.writeNotifications(sb, identity.Notifications)
	}
	if identity.Lunch != nil {
		w.writeLunch(sb, identity.Lunch)
	}

	if identity.Err != nil {
		sb.WriteString(w.childError(identity) + "\n")
	}
}

func (w *SimpleWriter) writeTitle(sb *strings.Builder, title string) {
	fmt.Fprintf(sb, "\n[%s]\n", title)
}

func (w *SimpleWriter) writeTimetable(sb *strings.Builder, section *model.TimetableSection) {
	w.writeTitle(sb, w.labels.TimetableTitle)

	if note := w.substitutionNote(section); note != "" {
		sb.WriteString(note + "\n")
	}

	if section.Err != nil {
		sb.WriteString(fmt.Sprintf(w.labels.TimetableFailedf, detail(section.Err)) + "\n")
		return
	}

	sb.WriteString(w.dateLine(section.Date) + "\n")

	if len(section.Lessons) == 0 {
		sb.WriteString(noticeIndent + w.labels.NoLessons + "\n")
		return
	}

	for _, lesson := range section.Lessons {
		subject, teacher, room := w.lessonColumns(lesson)
		cancelled := ""
		if lesson.Cancelled {
			cancelled = w.labels.Cancelled
		}
		line := fmt.Sprintf("%s%s-%s: %s %s [%s] %s",
			lineIndent, lesson.StartTime, lesson.EndTime,
			runewidth.FillRight(subject, subjectColumn),
			runewidth.FillRight(teacher, teacherColumn),
			room, cancelled)
		sb.WriteString(strings.TrimRight(line, " ") + "\n")
	}
}

func (w *SimpleWriter) writeGrades(sb *strings.Builder, section *model.GradesSection) {
	w.writeTitle(sb, w.labels.GradesTitle)

	if section.Err != nil {
		sb.WriteString(fmt.Sprintf(w.labels.GradesFailedf, detail(section.Err)) + "\n")
		return
	}
	if len(section.Entries) == 0 {
		sb.WriteString(noticeIndent + w.labels.NoGrades + "\n")
		return
	}

	for _, entry := range section.Entries {
		display := grade.FormatDisplay(entry.Grade, entry.Inferred, w.labels.Verbal)

		var extra strings.Builder
		if entry.Title != "" {
			extra.WriteString(" - " + entry.Title)
		}
		if entry.Comment != "" {
			extra.WriteString(" [" + entry.Comment + "]")
		}

		line := lineIndent + entry.Date.Format(config.DateLayout) +
			gradeSeparator + runewidth.FillRight(orDefault(entry.Subject, w.labels.NotAvailable), subjectColumn) +
			gradeSeparator + w.labels.Grade + ": " + runewidth.FillRight(display, displayColumn) +
			" " + extra.String()
		sb.WriteString(strings.TrimRight(line, " ") + "\n")
	}
}

func (w *SimpleWriter) writeNotifications(sb *strings.Builder, section *model.NotificationsSection) {
	w.writeTitle(sb, w.labels.NotificationsTitle)

	if section.Err != nil {
		sb.WriteString(fmt.Sprintf(w.labels.NotificationsFailedf, detail(section.Err)) + "\n")
		return
	}
	if len(section.Entries) == 0 {
		sb.WriteString(noticeIndent + w.labels.NoNotifications + "\n")
		return
	}

	for i, entry := range section.Entries {
		fmt.Fprintf(sb, "\n--- %d. %s (%s) ---\n", i+1,
			orDefault(entry.Author, w.labels.NotAvailable), w.notificationTime(entry))
		if entry.Text != "" {
			sb.WriteString(entry.Text + "\n")
		}
	}
}

func (w *SimpleWriter) writeLunch(sb *strings.Builder, section *model.LunchSection) {
	w.writeTitle(sb, w.labels.LunchTitle)
	sb.WriteString(w.dateLine(section.Date) + "\n")
	sb.WriteString(lineIndent + w.lunchText(section) + "\n")
}
