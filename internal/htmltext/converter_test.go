package htmltext

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "plain text is trimmed",
			src:  "  Milí rodičia,  ",
			want: "Milí rodičia,",
		},
		{
			name: "whitespace is collapsed",
			src:  "Zajtra\n\n   bude\tvýlet.",
			want: "Zajtra bude výlet.",
		},
		{
			name: "links keep only their text",
			src:  `Viac na <a href="https://example.edupage.org/news/1">stránke školy</a>.`,
			want: "Viac na stránke školy.",
		},
		{
			name: "paragraphs are separated by a blank line",
			src:  "<p>Prvý odsek.</p><p>Druhý odsek.</p>",
			want: "Prvý odsek.\n\nDruhý odsek.",
		},
		{
			name: "line breaks",
			src:  "Riadok 1<br>Riadok 2<br/>Riadok 3",
			want: "Riadok 1\nRiadok 2\nRiadok 3",
		},
		{
			name: "list items",
			src:  "<ul><li>pero</li><li>zošit</li></ul>",
			want: "* pero\n  * zošit",
		},
		{
			name: "heading and emphasis",
			src:  "<h2>Oznam</h2><p><strong>Dôležité:</strong> prineste <em>prezuvky</em></p>",
			want: "## Oznam\n\n**Dôležité:** prineste _prezuvky_",
		},
		{
			name: "scripts and styles are dropped",
			src:  "<style>p{color:red}</style><script>alert(1)</script><p>Text</p>",
			want: "Text",
		},
		{
			name: "images are dropped",
			src:  `<p>Foto: <img src="a.png" alt="obrázok"></p>`,
			want: "Foto:",
		},
		{
			name: "empty emphasis has no markers",
			src:  "<p>a<b> </b>b</p>",
			want: "a b",
		},
		{
			name: "entities are decoded",
			src:  "Ceny &amp; odmeny&nbsp;2026",
			want: "Ceny & odmeny 2026",
		},
		{
			name: "empty input",
			src:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewConverter().Convert(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConverter_Wrap(t *testing.T) {
	t.Parallel()

	src := "<p>" + strings.Repeat("Učiteľka oznamuje zmenu rozvrhu. ", 20) + "</p>"

	t.Run("default width", func(t *testing.T) {
		t.Parallel()

		got, err := NewConverter().Convert(src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(got, "\n")
		if len(lines) < 2 {
			t.Fatalf("expected wrapped output, got a single line of width %d", runewidth.StringWidth(got))
		}
		for i, line := range lines {
			if w := runewidth.StringWidth(line); w > DefaultWidth {
				t.Errorf("line %d has width %d, exceeds %d", i, w, DefaultWidth)
			}
		}
	})

	t.Run("custom width", func(t *testing.T) {
		t.Parallel()

		got, err := NewConverter(WithWidth(40)).Convert(src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, line := range strings.Split(got, "\n") {
			if w := runewidth.StringWidth(line); w > 40 {
				t.Errorf("line %d has width %d, exceeds 40", i, w)
			}
		}
	})

	t.Run("wrapping disabled", func(t *testing.T) {
		t.Parallel()

		got, err := NewConverter(WithWidth(0)).Convert(src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(got, "\n") {
			t.Error("expected a single line when wrapping is disabled")
		}
	})
}
