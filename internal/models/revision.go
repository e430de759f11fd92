package models

import "time"

// Revision is one immutable snapshot of a page. The current state of a page
// is its revision with the greatest (CreatedAt, ID).
type Revision struct {
	ID         int64
	Name       string
	Content    string
	Categories []string
	CreatedAt  time.Time
}
