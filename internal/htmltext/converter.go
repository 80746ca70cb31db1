package htmltext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultWidth is the column at which converted text is wrapped.
const DefaultWidth = 100

// Converter turns announcement HTML into plain text.
// Link targets and images are dropped; only the visible text is kept.
type Converter struct {
	width int
}

// Option configures a Converter.
type Option func(*Converter)

// WithWidth sets the wrap column. Zero or negative disables wrapping.
func WithWidth(width int) Option {
	return func(c *Converter) {
		c.width = width
	}
}

// NewConverter creates a Converter wrapping at DefaultWidth unless overridden.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{width: DefaultWidth}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert renders src as wrapped plain text with surrounding whitespace trimmed.
func (c *Converter) Convert(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", err
	}

	r := &renderer{}
	r.walk(doc)

	return c.finish(r.b.String()), nil
}

// finish normalizes blank lines and wraps every line to the width.
func (c *Converter) finish(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false

		if c.width > 0 {
			for _, wrapped := range strings.Split(ansi.Wordwrap(line, c.width, ""), "\n") {
				out = append(out, strings.TrimRightFunc(wrapped, unicode.IsSpace))
			}
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// renderer accumulates text while walking the node tree.
type renderer struct {
	b            strings.Builder
	pendingSpace bool
}

func (r *renderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.text(n.Data)
		return
	case html.ElementNode:
		r.element(n)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}
	r.children(n)
}

func (r *renderer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

func (r *renderer) element(n *html.Node) {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Title, atom.Img, atom.Noscript:
		return

	case atom.Br:
		r.newline()

	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		r.paragraph()
		level := int(n.Data[1] - '0')
		r.word(strings.Repeat("#", level))
		r.space()
		r.children(n)
		r.paragraph()

	case atom.P, atom.Div, atom.Section, atom.Article, atom.Blockquote,
		atom.Pre, atom.Table, atom.Ul, atom.Ol, atom.Hr, atom.Header, atom.Footer:
		r.paragraph()
		r.children(n)
		r.paragraph()

	case atom.Li:
		if !r.atLineStart() {
			r.newline()
		}
		r.raw("  * ")
		r.children(n)
		r.newline()

	case atom.Tr:
		r.newline()
		r.children(n)
		r.newline()

	case atom.Td, atom.Th:
		r.space()
		r.children(n)
		r.space()

	case atom.B, atom.Strong:
		r.emphasis(n, "**")

	case atom.I, atom.Em:
		r.emphasis(n, "_")

	default:
		// Links and other inline elements contribute their text only.
		r.children(n)
	}
}

// emphasis wraps the element's text in marker, skipping empty elements.
func (r *renderer) emphasis(n *html.Node, marker string) {
	if strings.TrimSpace(textContent(n)) == "" {
		r.children(n)
		return
	}
	r.word(marker)
	r.children(n)
	r.raw(marker)
}

// text writes a text node with its whitespace collapsed.
func (r *renderer) text(s string) {
	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" {
			r.space()
		}
		return
	}

	if first, _ := utf8.DecodeRuneInString(s); unicode.IsSpace(first) {
		r.space()
	}
	r.word(strings.Join(words, " "))
	if last, _ := utf8.DecodeLastRuneInString(s); unicode.IsSpace(last) {
		r.space()
	}
}

// word writes s, preceded by a single space when one is pending.
func (r *renderer) word(s string) {
	if r.pendingSpace && !r.atLineStart() && !strings.HasSuffix(r.b.String(), " ") {
		r.b.WriteByte(' ')
	}
	r.pendingSpace = false
	r.b.WriteString(s)
}

// raw writes s without consuming a pending space.
func (r *renderer) raw(s string) {
	r.b.WriteString(s)
}

func (r *renderer) space() {
	r.pendingSpace = true
}

func (r *renderer) newline() {
	r.pendingSpace = false
	r.b.WriteByte('\n')
}

// paragraph ensures the output ends with a blank line.
func (r *renderer) paragraph() {
	r.pendingSpace = false
	if r.b.Len() == 0 {
		return
	}
	for !strings.HasSuffix(r.b.String(), "\n\n") {
		r.b.WriteByte('\n')
	}
}

func (r *renderer) atLineStart() bool {
	return r.b.Len() == 0 || strings.HasSuffix(r.b.String(), "\n")
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
