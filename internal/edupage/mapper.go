package edupage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/edureport/internal/model"
)

// Portal date layouts.
const (
	portalDateTimeLayout = "2006-01-02 15:04:05"
	portalDateLayout     = "2006-01-02"
	menuQueryLayout      = "20060102"
)

// mapper converts portal payloads into model records.
// It resolves ids (subjects, teachers, classrooms) through the session's dbi.
type mapper struct {
	dbi dbiDTO
	loc *time.Location
}

func newMapper(dbi dbiDTO, loc *time.Location) *mapper {
	if loc == nil {
		loc = time.Local
	}
	return &mapper{dbi: dbi, loc: loc}
}

// timetable keeps the lesson cards of the requested date in portal order.
func (m *mapper) timetable(date time.Time, items []ttItemDTO) *model.Timetable {
	day := date.Format(portalDateLayout)
	tt := &model.Timetable{Date: date, Lessons: make([]model.Lesson, 0, len(items))}

	for _, item := range items {
		if item.Type != "card" {
			continue
		}
		if item.Date != "" && item.Date != day {
			continue
		}

		lesson := model.Lesson{
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			Cancelled: item.Removed,
		}
		if subject, ok := m.dbi.Subjects[item.SubjectID.String()]; ok {
			lesson.Subject = subject.DisplayName()
		}
		for _, id := range item.TeacherIDs {
			if teacher, ok := m.dbi.Teachers[id.String()]; ok {
				lesson.Teachers = append(lesson.Teachers, teacher.FullName())
			}
		}
		for _, id := range item.ClassroomIDs {
			if room, ok := m.dbi.Classrooms[id.String()]; ok {
				lesson.Classrooms = append(lesson.Classrooms, room.DisplayName())
			}
		}
		tt.Lessons = append(tt.Lessons, lesson)
	}

	return tt
}

// grades joins each grade with its event and derives points and percent.
func (m *mapper) grades(page *gradesPageDTO) []model.Grade {
	grades := make([]model.Grade, 0, len(page.Grades))

	for _, g := range page.Grades {
		eventID := g.EventID.String()
		if eventID == excusedEventID {
			continue
		}
		event := page.Events.Edupage[eventID]

		// "17 (85%)" carries a computed percentage after the value.
		value := g.Value.String()
		if before, _, found := strings.Cut(value, " ("); found {
			value = strings.TrimSpace(before)
		}

		subjectID := g.SubjectID.String()
		if subjectID == "" {
			subjectID = event.SubjectID.String()
		}

		grade := model.Grade{
			Date:        m.parseTime(g.Date),
			Value:       value,
			MoreDetails: flattenMoreData(event.MoreData),
			Title:       strings.TrimSpace(event.Title),
			Comment:     strings.TrimSpace(g.Comment),
		}
		if subject, ok := m.dbi.Subjects[subjectID]; ok {
			grade.Subject = subject.DisplayName()
		}

		switch event.EvaluationType {
		case evaluationPoints:
			maxPoints, err := strconv.ParseFloat(event.Weight.String(), 64)
			if err != nil || maxPoints <= 0 {
				break
			}
			grade.MaxPoints = &maxPoints
			if points, err := strconv.ParseFloat(value, 64); err == nil {
				percent := points / maxPoints * 100
				grade.Percent = &percent
			}
		case evaluationPercent:
			if percent, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64); err == nil {
				grade.Percent = &percent
			}
		case evaluationVerbal:
			grade.Verbal = true
		}

		grades = append(grades, grade)
	}

	return grades
}

// notifications converts timeline items in the order the portal lists them.
func (m *mapper) notifications(items []timelineItemDTO) []model.Notification {
	notifications := make([]model.Notification, 0, len(items))
	for _, item := range items {
		notifications = append(notifications, model.Notification{
			Author:    strings.TrimSpace(item.Author),
			Timestamp: m.parseTime(item.CreatedAt),
			Body:      item.Text,
		})
	}
	return notifications
}

// lunchIndex is the key of the lunch within a day's meal set.
const lunchIndex = "2"

// mealDay reads the lunch for date out of a day's meal set.
// A missing or non-object day means nothing is served.
func (m *mapper) mealDay(date time.Time, day json.RawMessage) (*model.MealDay, error) {
	result := &model.MealDay{Date: date}

	day = bytes.TrimSpace(day)
	if len(day) == 0 || day[0] != '{' {
		return result, nil
	}

	var meals map[string]json.RawMessage
	if err := json.Unmarshal(day, &meals); err != nil {
		return nil, fmt.Errorf("%w: meal day: %w", ErrUnexpectedResponse, err)
	}

	raw, ok := meals[lunchIndex]
	if !ok || isEmptyJSON(raw) {
		return result, nil
	}

	var meal mealDTO
	if err := json.Unmarshal(raw, &meal); err != nil {
		return nil, fmt.Errorf("%w: lunch: %w", ErrUnexpectedResponse, err)
	}
	if meal.IsCooking != nil && !*meal.IsCooking {
		return result, nil
	}

	lunch := &model.Meal{
		MealType: strings.TrimSpace(meal.Title),
		Menu:     make([]model.MenuItem, 0, len(meal.Rows)),
	}
	if meal.Record != nil {
		lunch.OrderedID = meal.Record.State.String()
		if lunch.OrderedID == mealStateOrdered {
			lunch.OrderedID = meal.Record.Order.String()
		}
	}

	for _, rawRow := range meal.Rows {
		if isEmptyJSON(rawRow) {
			continue
		}
		var row menuRowDTO
		if err := json.Unmarshal(rawRow, &row); err != nil {
			continue
		}
		if row.Name == "" && row.Number == nil {
			continue
		}
		item := model.MenuItem{Name: strings.TrimSpace(row.Name)}
		if row.Number != nil {
			item.Number = strings.ReplaceAll(*row.Number, ": ", "")
		}
		lunch.Menu = append(lunch.Menu, item)
	}

	result.Lunch = lunch
	return result, nil
}

// parseTime reads a portal timestamp. Unparsable values give the zero time.
func (m *mapper) parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range []string{portalDateTimeLayout, portalDateLayout} {
		if t, err := time.ParseInLocation(layout, value, m.loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// childEntry is one entry of the session's children map.
type childEntry struct {
	ID      string
	Name    string
	HasName bool
}

// parseChildren reads the children map preserving key order.
func parseChildren(raw json.RawMessage) ([]childEntry, error) {
	if isEmptyJSON(raw) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		// An empty list is how the portal encodes "no children".
		return nil, nil
	}

	var children []childEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: children key %v", ErrUnexpectedResponse, keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		entry := childEntry{ID: key}
		var child childDTO
		if err := json.Unmarshal(value, &child); err == nil && child.Name != nil {
			entry.Name = strings.TrimSpace(*child.Name)
			entry.HasName = true
		}
		children = append(children, entry)
	}

	return children, nil
}

// flattenMoreData turns the free-form moredata value into text blobs.
// Strings are kept verbatim; structured values are re-encoded as JSON.
func flattenMoreData(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if isEmptyJSON(raw) {
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return []string{s}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		blobs := make([]string, 0, len(items))
		for _, item := range items {
			blobs = append(blobs, flattenMoreData(item)...)
		}
		return blobs
	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return nil
		}
		return []string{compact.String()}
	}
}

// isEmptyJSON reports whether raw is missing, null, false, or an empty object.
func isEmptyJSON(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "{}":
		return true
	}
	return false
}
