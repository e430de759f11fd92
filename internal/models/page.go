package models

import "time"

// PageSummary is one distinct page name with the time of its latest revision.
type PageSummary struct {
	Name      string
	UpdatedAt time.Time
}
