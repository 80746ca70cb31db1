package pipeline

import (
	"errors"
	"fmt"
)

// Report sections, used in FetchError and as step names.
const (
	SectionTimetable     = "timetable"
	SectionGrades        = "grades"
	SectionNotifications = "notifications"
	SectionLunch         = "lunch"
)

// ErrLunchDateRequired is returned by the lunch step when it runs without a date.
var ErrLunchDateRequired = errors.New("lunch report requires a date")

// FetchError records that one section of an identity's report could not
// be retrieved. Sibling sections and other identities are unaffected.
type FetchError struct {
	Section string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Section, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IdentitySwitchError records that the session could not be switched to a dependent.
type IdentitySwitchError struct {
	ID  string
	Err error
}

func (e *IdentitySwitchError) Error() string {
	return fmt.Sprintf("failed to switch to dependent %s: %v", e.ID, e.Err)
}

func (e *IdentitySwitchError) Unwrap() error {
	return e.Err
}

// AuthenticationError records that no session could be established for a target.
type AuthenticationError struct {
	Target string
	Err    error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("failed to log in to %s: %v", e.Target, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}
