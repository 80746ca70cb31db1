package edupage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/edureport/internal/config"
	"github.com/nao1215/edureport/internal/model"
)

const (
	testSubdomain = "school"
	testCSRF      = "tok-123"
	testGsecHash  = "gsec-abc"
	testPassword  = "secret"
	testSession   = "PHPSESSID"
)

const parentHome = `{
	"userid": "Rodic77",
	"children": {"101": {"meno": "Anna z mapy"}, "102": {}},
	"dbi": {
		"students": {"101": {"firstname": "Anna", "lastname": "Nováková"}},
		"teachers": {"T1": {"firstname": "Eva", "lastname": "Malá"}},
		"subjects": {"S1": {"name": "Matematika", "short": "MAT"}, "S2": {"short": "SJL"}},
		"classrooms": {"C1": {"name": "U12"}}
	},
	"items": [
		{"typ": "sprava", "vlastnik_meno": "Eva Malá", "cas_pridania": "2026-02-19 08:15:00", "text": "<p>Zajtra <b>výlet</b></p>"},
		{"typ": "sprava", "vlastnik_meno": " Riaditeľ ", "cas_pridania": "", "text": "Oznam"}
	]
}`

const gradesPage = `<script>ASC.znamkyStudentViewer({
	"vsetkyZnamky": [
		{"udalostID": "E1", "predmetID": "S1", "data": "17", "datum": "2026-02-10 10:00:00", "poznamka": " dobre "},
		{"udalostID": "vyd", "data": "", "datum": "2026-02-11 10:00:00"},
		{"udalostID": "E2", "predmetID": "S2", "data": "1 (100%)", "datum": "2026-02-12 09:00:00"},
		{"udalostID": "E3", "predmetID": "S9", "data": "pekne", "datum": "2026-02-13"}
	],
	"vsetkyUdalosti": {"edupage": {
		"E1": {"p_meno": "Písomka", "p_typ_vyhodnotenia": "B", "p_vaha": "20",
			"moredata": {"vyhodnotenie": {"hodnoty": [{"do": 50, "znamka": "5"}]}}},
		"E2": {"p_meno": "Odpoveď", "p_typ_vyhodnotenia": "Z", "moredata": ["poznámka", "{'x': 1}", null]},
		"E3": {"p_typ_vyhodnotenia": "S"}
	}}
});
</script>`

const menuPage = `<script>
var data = {
	edupageData: {"school": {"novyListok": {
		"addInfo": {"stravnikid": "5"},
		"2026-02-20": {"2": {"nazov": "Obed", "isCooking": true,
			"evidencia": {"stav": "V", "obj": "2"},
			"rows": [null, {"nazov": "Polievka", "menusStr": null}, {"nazov": "Rezeň", "menusStr": "1: "}, {"nazov": "Rizoto", "menusStr": "2: "}, {}]}},
		"2026-02-23": {"2": {"nazov": "Obed", "isCooking": false}},
		"2026-02-24": {"1": {"nazov": "Desiata"}},
		"2026-02-25": {"2": {"nazov": "Obed", "evidencia": {"stav": "X"}, "rows": [{"nazov": "Menu", "menusStr": null}]}}
	}}},
	other: 1
};
</script>`

// fakePortal is an httptest EduPage portal.
type fakePortal struct {
	t *testing.T

	home          string
	loginForm     string
	rejectSwitch  string
	oversizedHome bool

	mu         sync.Mutex
	switches   []string
	ttRequests []map[string]any
	userAgents []string
}

func newFakePortal(t *testing.T) *fakePortal {
	t.Helper()
	return &fakePortal{
		t:         t,
		home:      parentHome,
		loginForm: `<form action="/login/edubarLogin.php" method="post"><input type="hidden" name="csrfauth" value="` + testCSRF + `"></form>`,
	}
}

func (p *fakePortal) start() *httptest.Server {
	p.t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /login/index.php", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, p.loginForm)
	})
	mux.HandleFunc("GET /login/{$}", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "login page")
	})
	mux.HandleFunc("POST /login/edubarLogin.php", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("csrfauth") != testCSRF {
			http.Error(w, "csrf", http.StatusForbidden)
			return
		}
		if r.PostForm.Get("password") != testPassword {
			http.Redirect(w, r, "/login/?bad=1", http.StatusFound)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: testSession, Value: "s1", Path: "/"})
		http.Redirect(w, r, "/user/", http.StatusFound)
	})
	mux.HandleFunc("GET /user/", p.authorized(func(w http.ResponseWriter, _ *http.Request) {
		if p.oversizedHome {
			fmt.Fprint(w, strings.Repeat("x", 2048))
		}
		fmt.Fprintf(w, "<script>ASC.gsecHash=\"%s\";\n$j(document).ready(function() { userhome(%s);\n});</script>", testGsecHash, p.home)
	}))
	mux.HandleFunc("GET /login/switchchild", p.authorized(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("studentid")
		p.mu.Lock()
		p.switches = append(p.switches, id)
		p.mu.Unlock()
		if id == p.rejectSwitch {
			fmt.Fprint(w, "ERROR")
			return
		}
		fmt.Fprint(w, "OK")
	}))
	mux.HandleFunc("POST /timetable/server/currenttt.js", p.authorized(p.serveTimetable))
	mux.HandleFunc("GET /znamky/", p.authorized(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, gradesPage)
	}))
	mux.HandleFunc("GET /menu/", p.authorized(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, menuPage)
	}))

	srv := httptest.NewServer(mux)
	p.t.Cleanup(srv.Close)
	return srv
}

// authorized rejects requests without the session cookie and records the User-Agent.
func (p *fakePortal) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.userAgents = append(p.userAgents, r.UserAgent())
		p.mu.Unlock()

		if _, err := r.Cookie(testSession); err != nil {
			http.Error(w, "not logged in", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

func (p *fakePortal) serveTimetable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Args []json.RawMessage `json:"__args"`
		GSH  string            `json:"__gsh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Args) != 2 || req.GSH != testGsecHash {
		fmt.Fprint(w, `{"r": {"error": "nepovolený prístup"}}`)
		return
	}

	var args map[string]any
	if err := json.Unmarshal(req.Args[1], &args); err != nil {
		fmt.Fprint(w, `{"r": {"error": "zlé argumenty"}}`)
		return
	}
	p.mu.Lock()
	p.ttRequests = append(p.ttRequests, args)
	p.mu.Unlock()

	fmt.Fprint(w, `{"r": {"ttitems": [
		{"type": "card", "date": "2026-02-20", "starttime": "08:00", "endtime": "08:45", "subjectid": "S1", "teacherids": ["T1"], "classroomids": ["C1"]},
		{"type": "event", "date": "2026-02-20", "starttime": "09:00", "endtime": "09:45"},
		{"type": "card", "date": "2026-02-20", "starttime": "08:55", "endtime": "09:40", "subjectid": 42, "teacherids": [], "classroomids": [], "removed": true},
		{"type": "card", "date": "2026-02-21", "starttime": "08:00", "endtime": "08:45", "subjectid": "S1"}
	]}}`)
}

func login(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{WithBaseURL(srv.URL), WithLocation(time.UTC), WithTimeout(5 * time.Second)}, opts...)
	c, err := Login(context.Background(), config.Credentials{Username: "rodic", Password: testPassword}, testSubdomain, opts...)
	require.NoError(t, err)
	return c
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("parses the session payload", func(t *testing.T) {
		t.Parallel()

		srv := newFakePortal(t).start()
		c := login(t, srv)

		assert.Equal(t, testSubdomain, c.Subdomain())
		assert.Equal(t, "Rodic77", c.ActiveIdentity())
		assert.Equal(t, []string{"101", "102"}, c.Dependents())

		name, ok := c.StudentName("101")
		assert.True(t, ok)
		assert.Equal(t, "Anna Nováková", name)

		_, ok = c.StudentName("102")
		assert.False(t, ok)

		name, ok = c.ChildName("101")
		assert.True(t, ok)
		assert.Equal(t, "Anna z mapy", name)

		name, ok = c.ChildName("102")
		assert.True(t, ok)
		assert.Empty(t, name)

		_, ok = c.ChildName("555")
		assert.False(t, ok)
	})

	t.Run("bad credentials", func(t *testing.T) {
		t.Parallel()

		srv := newFakePortal(t).start()
		_, err := Login(context.Background(), config.Credentials{Username: "rodic", Password: "wrong"}, testSubdomain, WithBaseURL(srv.URL))
		require.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("missing csrf token", func(t *testing.T) {
		t.Parallel()

		portal := newFakePortal(t)
		portal.loginForm = "<html><body>Stránka neexistuje</body></html>"
		srv := portal.start()

		_, err := Login(context.Background(), config.Credentials{Username: "rodic", Password: testPassword}, testSubdomain, WithBaseURL(srv.URL))
		require.ErrorIs(t, err, ErrMissingCSRFToken)
	})

	t.Run("landing page without payload", func(t *testing.T) {
		t.Parallel()

		portal := newFakePortal(t)
		portal.home = "not json"
		srv := portal.start()

		_, err := Login(context.Background(), config.Credentials{Username: "rodic", Password: testPassword}, testSubdomain, WithBaseURL(srv.URL))
		require.ErrorIs(t, err, ErrUnexpectedResponse)
	})

	t.Run("response size limit", func(t *testing.T) {
		t.Parallel()

		portal := newFakePortal(t)
		portal.oversizedHome = true
		srv := portal.start()

		_, err := Login(context.Background(), config.Credentials{Username: "rodic", Password: testPassword}, testSubdomain,
			WithBaseURL(srv.URL), WithMaxBodySize(1024))
		require.ErrorIs(t, err, ErrBodyTooLarge)
	})

	t.Run("sends the user agent", func(t *testing.T) {
		t.Parallel()

		portal := newFakePortal(t)
		srv := portal.start()
		login(t, srv, WithUserAgent("edureport-test/1.0"), WithLanguage("sk"))

		portal.mu.Lock()
		defer portal.mu.Unlock()
		require.NotEmpty(t, portal.userAgents)
		for _, ua := range portal.userAgents {
			assert.Equal(t, "edureport-test/1.0", ua)
		}
	})

	t.Run("invalid proxy", func(t *testing.T) {
		t.Parallel()

		_, err := Login(context.Background(), config.Credentials{Username: "rodic", Password: testPassword}, testSubdomain,
			WithProxy("ftp://proxy.example:21"))
		require.ErrorIs(t, err, ErrInvalidProxy)
	})
}

func TestClient_Dependents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		home string
		want []string
	}{
		{
			name: "parentStudentids wins over children",
			home: `{"userid": "Rodic1", "parentStudentids": [102, "101"], "children": {"101": {}}}`,
			want: []string{"102", "101"},
		},
		{
			name: "empty parentStudentids means no dependents",
			home: `{"userid": "Rodic1", "parentStudentids": [], "children": {"101": {}}}`,
			want: []string{},
		},
		{
			name: "children keys keep their order",
			home: `{"userid": "Rodic1", "children": {"9": {"meno": "B"}, "3": {"meno": "A"}}}`,
			want: []string{"9", "3"},
		},
		{
			name: "student account",
			home: `{"userid": "Student55", "children": []}`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			portal := newFakePortal(t)
			portal.home = tt.home
			c := login(t, portal.start())

			assert.Equal(t, tt.want, c.Dependents())
		})
	}
}

func TestClient_Switch(t *testing.T) {
	t.Parallel()

	t.Run("switch to child and back", func(t *testing.T) {
		t.Parallel()

		portal := newFakePortal(t)
		c := login(t, portal.start())

		require.NoError(t, c.SwitchToChild(context.Background(), "101"))
		require.NoError(t, c.SwitchToParent(context.Background()))

		portal.mu.Lock()
		defer portal.mu.Unlock()
		assert.Equal(t, []string{"101", parentStudentID}, portal.switches)
	})

	t.Run("rejected switch", func(t *testing.T) {
		t.Parallel()

		portal := newFakePortal(t)
		portal.rejectSwitch = "102"
		c := login(t, portal.start())

		err := c.SwitchToChild(context.Background(), "102")
		require.ErrorIs(t, err, ErrSwitchRejected)
	})
}

func TestClient_Timetable(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	t.Run("parent account has no timetable", func(t *testing.T) {
		t.Parallel()

		c := login(t, newFakePortal(t).start())
		_, err := c.Timetable(context.Background(), date)
		require.ErrorIs(t, err, ErrNoTimetable)
	})

	t.Run("active dependent", func(t *testing.T) {
		t.Parallel()

		portal := newFakePortal(t)
		c := login(t, portal.start())
		c.SetActiveIdentity("101")

		tt, err := c.Timetable(context.Background(), date)
		require.NoError(t, err)
		require.Len(t, tt.Lessons, 2)

		first := tt.Lessons[0]
		assert.Equal(t, "08:00", first.StartTime)
		assert.Equal(t, "08:45", first.EndTime)
		assert.Equal(t, "Matematika", first.Subject)
		assert.Equal(t, []string{"Eva Malá"}, first.Teachers)
		assert.Equal(t, []string{"U12"}, first.Classrooms)
		assert.False(t, first.Cancelled)

		second := tt.Lessons[1]
		assert.Empty(t, second.Subject)
		assert.Empty(t, second.Teachers)
		assert.True(t, second.Cancelled)

		portal.mu.Lock()
		defer portal.mu.Unlock()
		require.Len(t, portal.ttRequests, 1)
		assert.Equal(t, "students", portal.ttRequests[0]["table"])
		assert.Equal(t, "101", portal.ttRequests[0]["id"])
		assert.Equal(t, "2026-02-20", portal.ttRequests[0]["datefrom"])
		assert.InDelta(t, 2025, portal.ttRequests[0]["year"], 0)
	})

	t.Run("explicit student", func(t *testing.T) {
		t.Parallel()

		portal := newFakePortal(t)
		c := login(t, portal.start())

		tt, err := c.StudentTimetable(context.Background(), "102", date)
		require.NoError(t, err)
		assert.Len(t, tt.Lessons, 2)

		portal.mu.Lock()
		defer portal.mu.Unlock()
		assert.Equal(t, "102", portal.ttRequests[0]["id"])
	})
}

func TestClient_Grades(t *testing.T) {
	t.Parallel()

	c := login(t, newFakePortal(t).start())

	grades, err := c.Grades(context.Background())
	require.NoError(t, err)
	require.Len(t, grades, 3)

	points := grades[0]
	assert.Equal(t, time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC), points.Date)
	assert.Equal(t, "Matematika", points.Subject)
	assert.Equal(t, "17", points.Value)
	require.NotNil(t, points.MaxPoints)
	assert.InDelta(t, 20, *points.MaxPoints, 1e-9)
	require.NotNil(t, points.Percent)
	assert.InDelta(t, 85, *points.Percent, 1e-9)
	assert.Equal(t, "Písomka", points.Title)
	assert.Equal(t, "dobre", points.Comment)
	assert.Equal(t, []string{`{"vyhodnotenie":{"hodnoty":[{"do":50,"znamka":"5"}]}}`}, points.MoreDetails)

	classic := grades[1]
	assert.Equal(t, "1", classic.Value)
	assert.Equal(t, "SJL", classic.Subject)
	assert.Nil(t, classic.MaxPoints)
	assert.Equal(t, []string{"poznámka", "{'x': 1}"}, classic.MoreDetails)

	verbal := grades[2]
	assert.True(t, verbal.Verbal)
	assert.Empty(t, verbal.Subject)
	assert.Equal(t, time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), verbal.Date)
}

func TestClient_Notifications(t *testing.T) {
	t.Parallel()

	c := login(t, newFakePortal(t).start())

	notifications, err := c.Notifications(context.Background())
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	assert.Equal(t, "Eva Malá", notifications[0].Author)
	assert.Equal(t, time.Date(2026, 2, 19, 8, 15, 0, 0, time.UTC), notifications[0].Timestamp)
	assert.Equal(t, "<p>Zajtra <b>výlet</b></p>", notifications[0].Body)

	assert.Equal(t, "Riaditeľ", notifications[1].Author)
	assert.True(t, notifications[1].Timestamp.IsZero())
}

func TestClient_Meals(t *testing.T) {
	t.Parallel()

	c := login(t, newFakePortal(t).start())
	ctx := context.Background()

	t.Run("ordered lunch", func(t *testing.T) {
		day, err := c.Meals(ctx, time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NotNil(t, day.Lunch)

		assert.Equal(t, "Obed", day.Lunch.MealType)
		assert.Equal(t, "2", day.Lunch.OrderedID)
		assert.Equal(t, []string{"", "1", "2"}, menuNumbers(day.Lunch.Menu))
		assert.Equal(t, "Rizoto", day.Lunch.Menu[2].Name)
	})

	t.Run("placeholder order", func(t *testing.T) {
		day, err := c.Meals(ctx, time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NotNil(t, day.Lunch)
		assert.Equal(t, "X", day.Lunch.OrderedID)
	})

	noLunch := map[string]time.Time{
		"not cooking":   time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
		"only a snack":  time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC),
		"day not found": time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	for name, date := range noLunch {
		t.Run(name, func(t *testing.T) {
			day, err := c.Meals(ctx, date)
			require.NoError(t, err)
			assert.Nil(t, day.Lunch)
		})
	}
}

func menuNumbers(items []model.MenuItem) []string {
	numbers := make([]string, 0, len(items))
	for _, item := range items {
		numbers = append(numbers, item.Number)
	}
	return numbers
}
