// Package renderer turns page source into HTML for display. The output is
// never stored.
package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/niklasfasching/go-org/org"
)

const highlightStyle = "friendly"

// Renderer converts page source into an HTML fragment.
type Renderer interface {
	Render(source string) (string, error)
}

// New returns the renderer for markup, "markdown" or "org".
func New(markup string) (Renderer, error) {
	switch markup {
	case "markdown", "":
		return NewMarkdown(), nil
	case "org":
		return Org{}, nil
	}
	return nil, fmt.Errorf("unknown markup %q", markup)
}

// Org renders org-mode. A link such as [[test-page]] is relative, so from
// /view/{name} it resolves to another page.
type Org struct{}

func (Org) Render(source string) (string, error) {
	out, err := org.New().Parse(strings.NewReader(source), "").Write(orgWriter())
	if err != nil {
		return "", fmt.Errorf("error converting org-mode content to HTML: %w", err)
	}
	return out, nil
}

// orgWriter returns an org HTML writer whose source blocks are highlighted
// with class-based chroma markup, matching the markdown renderer.
func orgWriter() *org.HTMLWriter {
	w := org.NewHTMLWriter()
	w.HighlightCodeBlock = func(source, lang string, _ bool, _ map[string]string) string {
		return highlightBlock(source, lang)
	}
	return w
}

// highlightBlock returns source unchanged when chroma cannot tokenise it.
func highlightBlock(source, lang string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	tokens, err := chroma.Coalesce(lexer).Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf bytes.Buffer
	if err := html.New(html.WithClasses(true)).Format(&buf, styles.Get(highlightStyle), tokens); err != nil {
		return source
	}
	return buf.String()
}
