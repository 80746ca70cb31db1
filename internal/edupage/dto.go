package edupage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// flexString accepts a JSON string, number, or boolean and keeps its text.
// The portal is inconsistent about quoting ids and numbers. null decodes to "".
type flexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
	case len(b) > 0 && (b[0] == '{' || b[0] == '['):
		return fmt.Errorf("cannot decode %s into a scalar", b)
	default:
		*s = flexString(b)
	}
	return nil
}

func (s flexString) String() string {
	return strings.TrimSpace(string(s))
}

// userHomeDTO is the session payload the landing page passes to userhome(...).
type userHomeDTO struct {
	UserID string `json:"userid"`

	// ParentStudentIDs is nil when the key is absent, which is different
	// from an empty list.
	ParentStudentIDs *[]flexString `json:"parentStudentids"`

	// Children maps a dependent id to its details. The raw form keeps the
	// key order, which decides the processing order of dependents.
	Children json.RawMessage `json:"children"`

	DBI   dbiDTO            `json:"dbi"`
	Items []timelineItemDTO `json:"items"`
}

// childDTO is one value of the children map.
type childDTO struct {
	Name *string `json:"meno"`
}

// dbiDTO is the portal's lookup database embedded in the session payload.
type dbiDTO struct {
	Students   map[string]personDTO `json:"students"`
	Teachers   map[string]personDTO `json:"teachers"`
	Subjects   map[string]namedDTO  `json:"subjects"`
	Classrooms map[string]namedDTO  `json:"classrooms"`
}

type personDTO struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// FullName joins the non-empty name parts.
func (p personDTO) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.Firstname) + " " + strings.TrimSpace(p.Lastname))
}

type namedDTO struct {
	Name  string `json:"name"`
	Short string `json:"short"`
}

// DisplayName prefers the full name and falls back to the short one.
func (n namedDTO) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Short
}

// timelineItemDTO is one entry of the session's notification timeline.
type timelineItemDTO struct {
	Type      string `json:"typ"`
	Author    string `json:"vlastnik_meno"`
	CreatedAt string `json:"cas_pridania"`
	Text      string `json:"text"`
}

// timetableRequestDTO is the body of a curentttGetData call.
type timetableRequestDTO struct {
	Args []any  `json:"__args"`
	GSH  string `json:"__gsh"`
}

type timetableArgsDTO struct {
	Year     int    `json:"year"`
	DateFrom string `json:"datefrom"`
	DateTo   string `json:"dateto"`
	Table    string `json:"table"`
	ID       string `json:"id"`

	ShowColors bool   `json:"showColors"`
	ShowOrig   bool   `json:"showOrig"`
	LogModule  string `json:"log_module"`
}

type timetableResponseDTO struct {
	R *struct {
		Error   string      `json:"error"`
		TTItems []ttItemDTO `json:"ttitems"`
	} `json:"r"`
}

// ttItemDTO is one timetable item. Only "card" items are lessons.
type ttItemDTO struct {
	Type         string       `json:"type"`
	Date         string       `json:"date"`
	StartTime    string       `json:"starttime"`
	EndTime      string       `json:"endtime"`
	SubjectID    flexString   `json:"subjectid"`
	TeacherIDs   []flexString `json:"teacherids"`
	ClassroomIDs []flexString `json:"classroomids"`
	Removed      bool         `json:"removed"`
}

// gradesPageDTO is the payload the grades page passes to znamkyStudentViewer(...).
type gradesPageDTO struct {
	Grades []gradeDTO `json:"vsetkyZnamky"`
	Events struct {
		Edupage map[string]gradeEventDTO `json:"edupage"`
	} `json:"vsetkyUdalosti"`
}

type gradeDTO struct {
	EventID   flexString `json:"udalostID"`
	SubjectID flexString `json:"predmetID"`
	Value     flexString `json:"data"`
	Date      string     `json:"datum"`
	Comment   string     `json:"poznamka"`
}

// gradeEventDTO describes the graded event (test, homework) a grade belongs to.
type gradeEventDTO struct {
	Title          string     `json:"p_meno"`
	SubjectID      flexString `json:"PredmetID"`
	EvaluationType string     `json:"p_typ_vyhodnotenia"`

	// Weight holds the maximum points for point-based events.
	Weight flexString `json:"p_vaha"`

	// MoreData is free-form: a string, a list of strings, or objects.
	MoreData json.RawMessage `json:"moredata"`
}

// Evaluation types of a graded event.
const (
	evaluationPoints  = "B"
	evaluationPercent = "P"
	evaluationVerbal  = "S"
)

// excusedEventID marks a grade entry that only records an excuse.
const excusedEventID = "vyd"

// mealDTO is one meal of a day on the menu page.
type mealDTO struct {
	Title     string            `json:"nazov"`
	IsCooking *bool             `json:"isCooking"`
	Record    *mealRecordDTO    `json:"evidencia"`
	Rows      []json.RawMessage `json:"rows"`
}

// mealRecordDTO is the boarder's order. Stav "V" means the order is in Obj.
type mealRecordDTO struct {
	State flexString `json:"stav"`
	Order flexString `json:"obj"`
}

const mealStateOrdered = "V"

type menuRowDTO struct {
	Name   string  `json:"nazov"`
	Number *string `json:"menusStr"`
}
