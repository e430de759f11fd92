package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

//go:embed templates
var templateFiles embed.FS

var pageTemplates = []string{
	"index.html",
	"view.html",
	"edit.html",
	"revisions.html",
	"error.html",
}

var templateFuncs = template.FuncMap{
	"timestamp": prettyTimestamp,
	"join":      strings.Join,
}

// prettyTimestamp shows a relative time followed by the exact local time.
func prettyTimestamp(t time.Time) string {
	return fmt.Sprintf("%s (%s)", humanize.Time(t), t.Local().Format("15:04:05 02/01/2006"))
}

// LoadTemplates parses one isolated template set per page, each combined
// with the shared layout.
func LoadTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFiles, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}
