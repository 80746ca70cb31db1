package edupage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/nao1215/edureport/internal/model"
)

// Person-id prefixes of the portal's user ids ("Student1234").
const (
	prefixStudent = "Student"
	prefixTeacher = "Ucitel"
	prefixParent  = "Rodic"
)

// Timetable fetches the lessons of the active identity for date.
// ErrNoTimetable is returned when the active identity is a parent account.
func (c *Client) Timetable(ctx context.Context, date time.Time) (*model.Timetable, error) {
	table, id, err := personRef(c.activeID)
	if err != nil {
		return nil, err
	}
	return c.timetable(ctx, table, id, date)
}

// StudentTimetable fetches the lessons of an explicitly named student,
// independent of the active identity.
func (c *Client) StudentTimetable(ctx context.Context, studentID string, date time.Time) (*model.Timetable, error) {
	return c.timetable(ctx, "students", strings.TrimPrefix(studentID, prefixStudent), date)
}

func (c *Client) timetable(ctx context.Context, table, id string, date time.Time) (*model.Timetable, error) {
	day := date.Format(portalDateLayout)
	payload, err := json.Marshal(timetableRequestDTO{
		Args: []any{nil, timetableArgsDTO{
			Year:       schoolYear(date),
			DateFrom:   day,
			DateTo:     day,
			Table:      table,
			ID:         id,
			ShowColors: true,
			ShowOrig:   true,
			LogModule:  "CurrentTTView",
		}},
		GSH: c.gsecHash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode timetable request: %w", err)
	}

	body, _, err := c.post(ctx, pathTimetable, "application/json; charset=utf-8", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var resp timetableResponseDTO
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: timetable: %w", ErrUnexpectedResponse, err)
	}
	if resp.R == nil {
		return nil, fmt.Errorf("%w: timetable without result", ErrUnexpectedResponse)
	}
	if resp.R.Error != "" {
		return nil, fmt.Errorf("%w: timetable: %s", ErrUnexpectedResponse, resp.R.Error)
	}

	return c.mapper.timetable(date, resp.R.TTItems), nil
}

// personRef splits a portal user id into the timetable table and numeric id.
func personRef(userID string) (table, id string, err error) {
	switch {
	case strings.HasPrefix(userID, prefixParent):
		return "", "", fmt.Errorf("%w: %s", ErrNoTimetable, userID)
	case strings.HasPrefix(userID, prefixStudent):
		return "students", strings.TrimPrefix(userID, prefixStudent), nil
	case strings.HasPrefix(userID, prefixTeacher):
		return "teachers", strings.TrimPrefix(userID, prefixTeacher), nil
	case userID != "" && strings.IndexFunc(strings.TrimPrefix(userID, "-"), func(r rune) bool { return !unicode.IsDigit(r) }) < 0:
		// A bare id is what the switcher sets for a dependent.
		return "students", userID, nil
	default:
		return "", "", fmt.Errorf("%w: unrecognized user id %q", ErrNoTimetable, userID)
	}
}

// schoolYear returns the starting year of the school year containing date.
// Slovak school years start in September.
func schoolYear(date time.Time) int {
	if date.Month() < time.September {
		return date.Year() - 1
	}
	return date.Year()
}

// Grades fetches every grade of the active identity in portal order.
func (c *Client) Grades(ctx context.Context) ([]model.Grade, error) {
	body, _, err := c.get(ctx, pathGrades)
	if err != nil {
		return nil, err
	}

	var page gradesPageDTO
	if err := decodeEmbedded(body, markerGrades, &page); err != nil {
		return nil, err
	}
	return c.mapper.grades(&page), nil
}

// Notifications fetches the timeline of the active identity in portal order.
// The timeline is part of the session payload, so the landing page is reloaded.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	body, _, err := c.get(ctx, pathUserHome)
	if err != nil {
		return nil, err
	}

	home, err := parseUserHome(body)
	if err != nil {
		return nil, err
	}
	return c.mapper.notifications(home.Items), nil
}

// Meals fetches the meal set of the active identity for date.
// The returned day has a nil Lunch when no lunch is served.
func (c *Client) Meals(ctx context.Context, date time.Time) (*model.MealDay, error) {
	body, _, err := c.get(ctx, pathMenu+"?date="+date.Format(menuQueryLayout))
	if err != nil {
		return nil, err
	}

	var page map[string]struct {
		NewList map[string]json.RawMessage `json:"novyListok"`
	}
	if err := decodeEmbedded(body, markerMenu, &page); err != nil {
		return nil, err
	}

	school, ok := page[c.subdomain]
	if !ok {
		return nil, fmt.Errorf("%w: no menu for %s", ErrUnexpectedResponse, c.subdomain)
	}
	return c.mapper.mealDay(date, school.NewList[date.Format(portalDateLayout)])
}
