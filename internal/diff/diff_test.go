package diff

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"grove/internal/models"
)

func reconstruct(segments []Segment, skip Op) string {
	var b strings.Builder
	for _, s := range segments {
		if s.Op != skip {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

func TestContent(t *testing.T) {
	tests := []struct {
		previous, current string
		want              []Segment
	}{
		{"", "hello", []Segment{{Insert, "hello"}}},
		{"hello", "hello", []Segment{{Equal, "hello"}}},
		{"hello", "", []Segment{{Delete, "hello"}}},
		{"", "", []Segment{}},
	}
	for _, tt := range tests {
		got := Content(tt.previous, tt.current)
		if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Content(%q, %q) mismatch (-want +got):\n%s", tt.previous, tt.current, diff)
		}
	}
}

func TestContentRoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"hello", "hullo"},
		{"The quick brown fox", "The slow brown dog"},
		{"line one\nline two\n", "line one\nline 2\nline three\n"},
		{"# Title\n\nSome *markdown* here.", "# New Title\n\nSome **markdown** here and there."},
		{"naïve café", "naive cafe"},
		{"abc", "xyz"},
	}
	for _, p := range pairs {
		segments := Content(p[0], p[1])
		if got := reconstruct(segments, Delete); got != p[1] {
			t.Errorf("Content(%q, %q): non-delete text = %q, want %q", p[0], p[1], got, p[1])
		}
		if got := reconstruct(segments, Insert); got != p[0] {
			t.Errorf("Content(%q, %q): non-insert text = %q, want %q", p[0], p[1], got, p[0])
		}
	}
}

func TestContentDeterministic(t *testing.T) {
	prev := strings.Repeat("lorem ipsum dolor sit amet ", 200)
	cur := strings.ReplaceAll(prev, "dolor", "dolore")
	first := Content(prev, cur)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, Content(prev, cur)); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestCategories(t *testing.T) {
	got := Categories([]string{"a", "b"}, []string{"b", "c"})
	want := Delta{Added: []string{"c"}, Removed: []string{"a"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Categories mismatch (-want +got):\n%s", diff)
	}

	unchanged := Categories([]string{"a"}, []string{"a"})
	if !unchanged.Empty() {
		t.Errorf("Categories of equal sets = %+v, want empty", unchanged)
	}
}

func TestCategoriesIgnoresOrder(t *testing.T) {
	got := Categories([]string{"a", "b", "c"}, []string{"c", "a", "b"})
	if !got.Empty() {
		t.Errorf("reordering reported as change: %+v", got)
	}
}

func TestHistory(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	revisions := []models.Revision{
		{ID: 1, Name: "test-page", Content: "v1", Categories: nil, CreatedAt: base},
		{ID: 2, Name: "test-page", Content: "v2", Categories: nil, CreatedAt: base.Add(time.Minute)},
		{ID: 3, Name: "test-page", Content: "v2", Categories: []string{"drafts"}, CreatedAt: base.Add(2 * time.Minute)},
	}

	entries := History(revisions)
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	if diff := cmp.Diff([]Segment{{Insert, "v1"}}, entries[0].Segments); diff != "" {
		t.Errorf("first entry should be fully inserted (-want +got):\n%s", diff)
	}
	if got := reconstruct(entries[1].Segments, Insert); got != "v1" {
		t.Errorf("second entry previous text = %q, want %q", got, "v1")
	}
	if got := reconstruct(entries[1].Segments, Delete); got != "v2" {
		t.Errorf("second entry current text = %q, want %q", got, "v2")
	}
	if diff := cmp.Diff([]Segment{{Equal, "v2"}}, entries[2].Segments); diff != "" {
		t.Errorf("category-only revision content diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Delta{Added: []string{"drafts"}}, entries[2].Categories); diff != "" {
		t.Errorf("category delta (-want +got):\n%s", diff)
	}
	for i, e := range entries {
		if e.Revision.ID != revisions[i].ID {
			t.Errorf("entry %d revision ID = %d, want %d", i, e.Revision.ID, revisions[i].ID)
		}
	}
}

func TestHistorySeedsCategories(t *testing.T) {
	entries := History([]models.Revision{{Content: "x", Categories: []string{"a", "b"}}})
	if diff := cmp.Diff(Delta{Added: []string{"a", "b"}}, entries[0].Categories); diff != "" {
		t.Errorf("oldest revision should add every category (-want +got):\n%s", diff)
	}
}

func TestHistoryEmpty(t *testing.T) {
	if got := History(nil); len(got) != 0 {
		t.Errorf("History(nil) = %v, want empty", got)
	}
}
