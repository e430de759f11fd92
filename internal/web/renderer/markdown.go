package renderer

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/wikilink"

	"grove/internal/slug"
)

// Markdown renders CommonMark with GitHub extensions. [[Page Name]] links to
// /view/page-name and fenced code blocks are highlighted.
type Markdown struct {
	md goldmark.Markdown
}

func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&wikilink.Extender{Resolver: pageLinks{}},
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		// Pages may embed raw HTML.
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)}
}

func (m *Markdown) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("error converting markdown content to HTML: %w", err)
	}
	return buf.String(), nil
}

type pageLinks struct{}

// ResolveWikilink points a wiki link at the canonical view URL of its target.
func (pageLinks) ResolveWikilink(n *wikilink.Node) ([]byte, error) {
	name := slug.Normalize(string(n.Target))
	if name == "" {
		return nil, nil
	}
	dest := "/view/" + name
	if len(n.Fragment) > 0 {
		dest += "#" + string(n.Fragment)
	}
	return []byte(dest), nil
}
