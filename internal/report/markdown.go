package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"

	"github.com/nao1215/edureport/internal/config"
	"github.com/nao1215/edureport/internal/grade"
	"github.com/nao1215/edureport/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
// Lessons and grades become tables; failures become alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...Option) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output, opts...),
	}
}

// Write outputs one school's report in Markdown format.
func (w *MarkdownWriter) Write(report *model.SchoolReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(w.labels.School + ": " + cases.Upper(w.labels.Tag).String(report.Subdomain))
	md.PlainText("")

	switch {
	case report.Err != nil:
		md.Cautionf("%s", w.schoolError(report))
		md.PlainText("")
	case report.Direct:
		md.Note(w.labels.DirectProfile)
		md.PlainText("")
	}

	for _, identity := range report.Identities {
		w.writeIdentity(md, report, identity)
	}

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeIdentity(md *markdown.Markdown, report *model.SchoolReport, identity model.IdentityReport) {
	if !report.Direct {
		md.H2(w.labels.Child + ": " + w.identityName(identity.Identity))
		md.PlainText("")
	}

	if identity.Timetable != nil {
		w.writeTimetable(md, identity.Timetable)
	}
	if identity.Grades != nil {
		w.writeGrades(md, identity.Grades)
	}
	if identity.Notifications != nil {
		w.writeNotifications(md, identity.Notifications)
	}
	if identity.Lunch != nil {
		w.writeLunch(md, identity.Lunch)
	}

	if identity.Err != nil {
		md.Warningf("%s", w.childError(identity))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeTimetable(md *markdown.Markdown, section *model.TimetableSection) {
	md.H3(w.labels.TimetableTitle)
	md.PlainText("")

	if note := w.substitutionNote(section); note != "" {
		md.PlainText("_" + note + "_")
		md.PlainText("")
	}

	if section.Err != nil {
		md.Warningf(w.labels.TimetableFailedf, detail(section.Err))
		md.PlainText("")
		return
	}

	md.PlainText(w.dateLine(section.Date))
	md.PlainText("")

	if len(section.Lessons) == 0 {
		md.Note(w.labels.NoLessons)
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(section.Lessons))
	for _, lesson := range section.Lessons {
		subject, teacher, room := w.lessonColumns(lesson)
		note := ""
		if lesson.Cancelled {
			note = w.labels.Cancelled
			subject = "~~" + subject + "~~"
		}
		rows = append(rows, []string{
			lesson.StartTime + "-" + lesson.EndTime,
			cell(subject), cell(teacher), cell(room), note,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{w.labels.Time, w.labels.Subject, w.labels.Teacher, w.labels.Room, w.labels.Note},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeGrades(md *markdown.Markdown, section *model.GradesSection) {
	md.H3(w.labels.GradesTitle)
	md.PlainText("")

	if section.Err != nil {
		md.Warningf(w.labels.GradesFailedf, detail(section.Err))
		md.PlainText("")
		return
	}
	if len(section.Entries) == 0 {
		md.Note(w.labels.NoGrades)
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(section.Entries))
	for _, entry := range section.Entries {
		rows = append(rows, []string{
			entry.Date.Format(config.DateLayout),
			cell(orDefault(entry.Subject, w.labels.NotAvailable)),
			cell(grade.FormatDisplay(entry.Grade, entry.Inferred, w.labels.Verbal)),
			cell(orDefault(entry.Title, "-")),
			cell(orDefault(entry.Comment, "-")),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{w.labels.Date, w.labels.Subject, w.labels.Grade, w.labels.Title, w.labels.Comment},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeNotifications(md *markdown.Markdown, section *model.NotificationsSection) {
	md.H3(w.labels.NotificationsTitle)
	md.PlainText("")

	if section.Err != nil {
		md.Warningf(w.labels.NotificationsFailedf, detail(section.Err))
		md.PlainText("")
		return
	}
	if len(section.Entries) == 0 {
		md.Note(w.labels.NoNotifications)
		md.PlainText("")
		return
	}

	for i, entry := range section.Entries {
		md.H4(fmt.Sprintf("%d. %s (%s)", i+1,
			orDefault(entry.Author, w.labels.NotAvailable), w.notificationTime(entry)))
		md.PlainText("")
		if entry.Text != "" {
			md.PlainText(entry.Text)
			md.PlainText("")
		}
	}
}

func (w *MarkdownWriter) writeLunch(md *markdown.Markdown, section *model.LunchSection) {
	md.H3(w.labels.LunchTitle)
	md.PlainText("")
	md.PlainText(w.dateLine(section.Date))
	md.PlainText("")

	if section.Outcome == model.LunchFailed {
		md.Warningf("%s", w.lunchText(section))
	} else {
		md.BulletList(w.lunchText(section))
	}
	md.PlainText("")
}

// cell escapes a table cell value.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
