package report

import (
	"time"

	"golang.org/x/text/language"
)

// Labels is the set of user-facing strings a writer prints.
// Entries ending in "f" are fmt format strings.
type Labels struct {
	// Tag is the language of the catalog. It drives case mapping.
	Tag language.Tag

	School        string
	Child         string
	DirectProfile string

	UnknownName    string
	SyntheticNamef string
	ChildErrorf    string
	SchoolErrorf   string

	TimetableTitle     string
	GradesTitle        string
	NotificationsTitle string
	LunchTitle         string

	SaturdayNotef    string
	SundayNotef      string
	TimetableFailedf string
	Date             string
	NoLessons        string
	Cancelled        string

	GradesFailedf string
	NoGrades      string
	Grade         string
	Verbal        string

	NotificationsFailedf string
	NoNotifications      string

	LunchWeekend     string
	LunchNoMeal      string
	LunchNoOrder     string
	LunchUnresolvedf string
	LunchOrderedf    string
	LunchFailedf     string

	// Column headers of the Markdown tables.
	Time, Subject, Teacher, Room, Note, Title, Comment, Author string

	NotAvailable string

	// Weekdays is indexed by time.Weekday.
	Weekdays [7]string
}

var slovak = Labels{
	Tag: language.Slovak,

	School:        "ŠKOLA",
	Child:         "DIEŤA",
	DirectProfile: "Zpracovávam priamy profil...",

	UnknownName:    "Neznáme meno",
	SyntheticNamef: "Dieťa ID: %s",
	ChildErrorf:    "Chyba pri dieťati %s: %v",
	SchoolErrorf:   "Chyba pri škole %s: %v",

	TimetableTitle:     "ROZVRH HODÍN",
	GradesTitle:        "POSLEDNÉ ZNÁMKY",
	NotificationsTitle: "NAJNOVŠIE OZNAMY",
	LunchTitle:         "OBED",

	SaturdayNotef:    "(Dnes je sobota, načítavam rozvrh na pondelok %s)",
	SundayNotef:      "(Dnes je nedeľa, načítavam rozvrh na pondelok %s)",
	TimetableFailedf: "Nepodarilo sa načítať rozvrh. (Detail: %v)",
	Date:             "Dátum",
	NoLessons:        "Žiadne hodiny na tento deň.",
	Cancelled:        "(Odpadla)",

	GradesFailedf: "Nepodarilo sa načítať známky. (Detail: %v)",
	NoGrades:      "Nenašli sa žiadne známky.",
	Grade:         "Známka",
	Verbal:        "Slovné",

	NotificationsFailedf: "Nepodarilo sa načítať oznamy. (Detail: %v)",
	NoNotifications:      "Nenašli sa žiadne oznamy.",

	LunchWeekend:     "Cez víkend sa obed nepodáva.",
	LunchNoMeal:      "Na tento deň nie je obed.",
	LunchNoOrder:     "Obed nie je objednaný.",
	LunchUnresolvedf: "Objednané menu %s sa nenašlo v jedálnom lístku (dostupné: %s).",
	LunchOrderedf:    "(menu %s)",
	LunchFailedf:     "Nepodarilo sa načítať jedálny lístok. (Detail: %v)",

	Time:    "Čas",
	Subject: "Predmet",
	Teacher: "Učiteľ",
	Room:    "Učebňa",
	Note:    "Poznámka",
	Title:   "Téma",
	Comment: "Komentár",
	Author:  "Autor",

	NotAvailable: "N/A",

	Weekdays: [7]string{"Nedeľa", "Pondelok", "Utorok", "Streda", "Štvrtok", "Piatok", "Sobota"},
}

var english = Labels{
	Tag: language.English,

	School:        "SCHOOL",
	Child:         "CHILD",
	DirectProfile: "Processing direct profile...",

	UnknownName:    "Unknown name",
	SyntheticNamef: "Child ID: %s",
	ChildErrorf:    "Error for child %s: %v",
	SchoolErrorf:   "Error for school %s: %v",

	TimetableTitle:     "TIMETABLE",
	GradesTitle:        "RECENT GRADES",
	NotificationsTitle: "LATEST NOTICES",
	LunchTitle:         "LUNCH",

	SaturdayNotef:    "(Today is Saturday, loading the timetable for Monday %s)",
	SundayNotef:      "(Today is Sunday, loading the timetable for Monday %s)",
	TimetableFailedf: "Failed to load the timetable. (Detail: %v)",
	Date:             "Date",
	NoLessons:        "No lessons on this day.",
	Cancelled:        "(Cancelled)",

	GradesFailedf: "Failed to load grades. (Detail: %v)",
	NoGrades:      "No grades found.",
	Grade:         "Grade",
	Verbal:        "Verbal",

	NotificationsFailedf: "Failed to load notices. (Detail: %v)",
	NoNotifications:      "No notices found.",

	LunchWeekend:     "No lunch is served on weekends.",
	LunchNoMeal:      "No lunch for this day.",
	LunchNoOrder:     "No lunch ordered.",
	LunchUnresolvedf: "Ordered menu %s was not found in the menu (available: %s).",
	LunchOrderedf:    "(menu %s)",
	LunchFailedf:     "Failed to load the menu. (Detail: %v)",

	Time:    "Time",
	Subject: "Subject",
	Teacher: "Teacher",
	Room:    "Room",
	Note:    "Note",
	Title:   "Title",
	Comment: "Comment",
	Author:  "Author",

	NotAvailable: "N/A",

	Weekdays: [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
}

// catalogs is ordered like the matcher's supported tags; the first is the fallback.
var catalogs = []*Labels{&slovak, &english}

var matcher = language.NewMatcher([]language.Tag{language.Slovak, language.English})

// LabelsFor returns the catalog that best matches lang ("sk", "en-GB", ...).
// Unknown or empty values fall back to Slovak.
func LabelsFor(lang string) *Labels {
	_, index := language.MatchStrings(matcher, lang)
	return catalogs[index]
}

// Weekday returns the localized name of the date's weekday.
func (l *Labels) Weekday(date time.Time) string {
	return l.Weekdays[date.Weekday()]
}
