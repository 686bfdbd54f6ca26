package html

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".html", ".htm"}
}

// Normalise extracts the <title> (or fallbackTitle) and the visible text.
func (n *Normaliser) Normalise(fallbackTitle string, data []byte) domain.NewDocument {
	title, content := extract(data)
	if title == "" {
		title = fallbackTitle
	}
	return domain.NewDocument{
		Title:   title,
		Content: content,
	}
}

// skipped elements contribute no text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Head:     true,
	atom.Svg:      true,
	atom.Template: true,
}

// block elements start a new line.
var block = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Tr: true, atom.Blockquote: true, atom.Pre: true, atom.Table: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Ul: true, atom.Ol: true, atom.Dt: true, atom.Dd: true,
}

var (
	multiSpaces   = regexp.MustCompile(`[ \t\f\v]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// extract walks the token stream once, collecting the title and body text.
func extract(data []byte) (title, content string) {
	z := html.NewTokenizer(bytes.NewReader(data))

	var (
		text      strings.Builder
		titleText strings.Builder
		skipDepth int
		inTitle   bool
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF, or malformed input: either way keep what was read.
			return strings.TrimSpace(collapse(titleText.String())), tidy(text.String())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Title {
				inTitle = tt == html.StartTagToken
				continue
			}
			if skipped[a] && tt == html.StartTagToken {
				skipDepth++
				continue
			}
			if block[a] {
				text.WriteByte('\n')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Title {
				inTitle = false
				continue
			}
			if skipped[a] && skipDepth > 0 {
				skipDepth--
				continue
			}
			if block[a] {
				text.WriteByte('\n')
			}

		case html.TextToken:
			if inTitle {
				titleText.Write(z.Text())
				continue
			}
			if skipDepth == 0 {
				text.Write(z.Text())
			}
		}
	}
}

func collapse(s string) string {
	return multiSpaces.ReplaceAllString(strings.ReplaceAll(s, "\n", " "), " ")
}

// tidy trims every line and drops blank ones.
func tidy(s string) string {
	s = multiSpaces.ReplaceAllString(s, " ")
	s = multiNewlines.ReplaceAllString(s, "\n\n")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
