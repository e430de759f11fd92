package viewmodels

import (
	"html/template"
	"time"

	"grove/internal/diff"
	"grove/internal/models"
)

// RevisionViewModel is one row of a page history.
type RevisionViewModel struct {
	ID                int64
	CreatedAt         time.Time
	Segments          []diff.Segment
	Categories        []string
	CategoriesAdded   []string
	CategoriesRemoved []string
}

// NewRevisionViewModel flattens a history entry for the template.
func NewRevisionViewModel(e diff.Entry) RevisionViewModel {
	return RevisionViewModel{
		ID:                e.Revision.ID,
		CreatedAt:         e.Revision.CreatedAt,
		Segments:          e.Segments,
		Categories:        e.Revision.Categories,
		CategoriesAdded:   e.Categories.Added,
		CategoriesRemoved: e.Categories.Removed,
	}
}

// PageData is a unified struct to hold all possible data for any page.
type PageData struct {
	Title     string
	Name      string
	Revision  *models.Revision // The revision being shown, nil for a new page
	BaseID    int64            // The revision an edit form is based on, 0 for a new page
	Content   template.HTML    // Rendered page body
	Source    string           // Raw page body for the editor
	Creating  bool
	Pages     []models.PageSummary
	Revisions []RevisionViewModel
	Flashes   []string
	Error     string
}
