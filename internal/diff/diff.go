// Package diff compares consecutive revisions of a page for history display.
// Nothing produced here is persisted.
package diff

import (
	"fmt"
	"slices"

	"github.com/sergi/go-diff/diffmatchpatch"

	"grove/internal/models"
)

// Op is the kind of change a segment represents.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) String() string {
	switch o {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Segment is a run of text with a single Op.
type Segment struct {
	Op   Op
	Text string
}

func (s Segment) String() string {
	return fmt.Sprintf("(%s, %q)", s.Op, s.Text)
}

// Content returns the edit script turning previous into current. Joining the
// text of every non-Delete segment yields current; joining every non-Insert
// segment yields previous. The result depends only on the two inputs.
func Content(previous, current string) []Segment {
	dmp := diffmatchpatch.New()
	// A deadline would make large diffs depend on machine speed.
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMain(previous, current, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	segments := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = Insert
		case diffmatchpatch.DiffDelete:
			op = Delete
		default:
			op = Equal
		}
		segments = append(segments, Segment{Op: op, Text: d.Text})
	}
	return segments
}

// Delta holds the categories gained and lost between two revisions.
type Delta struct {
	Added   []string
	Removed []string
}

// Empty reports whether the delta has no changes.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Categories compares two category sets. Added is everything in current not
// in previous, Removed everything in previous not in current. Order follows
// the inputs but carries no meaning.
func Categories(previous, current []string) Delta {
	return Delta{
		Added:   difference(current, previous),
		Removed: difference(previous, current),
	}
}

func difference(xs, ys []string) []string {
	var out []string
	for _, x := range xs {
		if !slices.Contains(ys, x) && !slices.Contains(out, x) {
			out = append(out, x)
		}
	}
	return out
}

// Entry is one revision annotated with its changes relative to the revision
// directly before it.
type Entry struct {
	Revision   models.Revision
	Segments   []Segment
	Categories Delta
}

// History annotates revisions, which must be in ascending order, with the
// changes each introduced. The oldest revision is compared against an empty
// page, so all of its content is inserted and all of its categories added.
func History(revisions []models.Revision) []Entry {
	entries := make([]Entry, 0, len(revisions))
	var last models.Revision
	for _, rev := range revisions {
		entries = append(entries, Entry{
			Revision:   rev,
			Segments:   Content(last.Content, rev.Content),
			Categories: Categories(last.Categories, rev.Categories),
		})
		last = rev
	}
	return entries
}
