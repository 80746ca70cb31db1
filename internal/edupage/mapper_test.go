package edupage

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestPersonRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		userID    string
		wantTable string
		wantID    string
		wantErr   error
	}{
		{userID: "Student1234", wantTable: "students", wantID: "1234"},
		{userID: "Ucitel77", wantTable: "teachers", wantID: "77"},
		{userID: "101", wantTable: "students", wantID: "101"},
		{userID: "-5", wantTable: "students", wantID: "-5"},
		{userID: "Rodic9", wantErr: ErrNoTimetable},
		{userID: "", wantErr: ErrNoTimetable},
		{userID: "Admin1", wantErr: ErrNoTimetable},
	}

	for _, tt := range tests {
		t.Run(tt.userID, func(t *testing.T) {
			t.Parallel()

			table, id, err := personRef(tt.userID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if table != tt.wantTable || id != tt.wantID {
				t.Errorf("personRef() = (%q, %q), want (%q, %q)", table, id, tt.wantTable, tt.wantID)
			}
		})
	}
}

func TestSchoolYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date time.Time
		want int
	}{
		{date: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), want: 2025},
		{date: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), want: 2025},
		{date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), want: 2026},
		{date: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), want: 2026},
	}

	for _, tt := range tests {
		if got := schoolYear(tt.date); got != tt.want {
			t.Errorf("schoolYear(%s) = %d, want %d", tt.date.Format(time.DateOnly), got, tt.want)
		}
	}
}

func TestFlattenMoreData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "absent", raw: "", want: nil},
		{name: "null", raw: "null", want: nil},
		{name: "string", raw: `"{'vyhodnotenie': {}}"`, want: []string{"{'vyhodnotenie': {}}"}},
		{name: "object", raw: `{"a": 1, "b": [2]}`, want: []string{`{"a":1,"b":[2]}`}},
		{name: "list", raw: `["x", null, {"y": true}, 5]`, want: []string{"x", `{"y":true}`, "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := flattenMoreData(json.RawMessage(tt.raw))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("flattenMoreData() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlexString(t *testing.T) {
	t.Parallel()

	var v struct {
		A flexString `json:"a"`
		B flexString `json:"b"`
		C flexString `json:"c"`
		D flexString `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a": "101", "b": 102, "c": null, "d": 17.5}`), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.A != "101" || v.B != "102" || v.C != "" || v.D != "17.5" {
		t.Errorf("unexpected values: %+v", v)
	}

	if err := json.Unmarshal([]byte(`{"a": {"x": 1}}`), &v); err == nil {
		t.Error("expected an error for an object value")
	}
}

func TestParseChildren(t *testing.T) {
	t.Parallel()

	children, err := parseChildren(json.RawMessage(`{"30": {"meno": " Ján "}, "10": {"meno": null}, "20": []}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []childEntry{
		{ID: "30", Name: "Ján", HasName: true},
		{ID: "10"},
		{ID: "20"},
	}
	if !reflect.DeepEqual(children, want) {
		t.Errorf("parseChildren() = %+v, want %+v", children, want)
	}
}
