package category

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestAdd(t *testing.T) {
	tests := []struct {
		name     string
		current  []string
		category string
		want     []string
	}{
		{"empty set", nil, "Recipes", []string{"recipes"}},
		{"appends at end", []string{"a", "b"}, "c", []string{"a", "b", "c"}},
		{"already present", []string{"a"}, "a", []string{"a"}},
		{"present after normalization", []string{"how-to"}, "How To", []string{"how-to"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Add(tt.current, tt.category)
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Add(%q, %q) mismatch (-want +got):\n%s", tt.current, tt.category, diff)
			}
		})
	}
}

func TestAddRejectsEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "!!!"} {
		_, err := Add(nil, in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Add(nil, %q) error = %v, want *ValidationError", in, err)
		}
		if !errors.Is(err, ErrEmptyCategory) {
			t.Errorf("Add(nil, %q) error does not wrap ErrEmptyCategory", in)
		}
	}
}

func TestAddDoesNotModifyInput(t *testing.T) {
	backing := make([]string, 1, 4)
	backing[0] = "a"
	got, err := Add(backing, "b")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if extended := backing[:2]; extended[1] != "" {
		t.Errorf("Add wrote into the input backing array: %q", extended)
	}
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name     string
		current  []string
		category string
		want     []string
	}{
		{"removes match", []string{"a", "b"}, "a", []string{"b"}},
		{"absent is no-op", []string{"a"}, "z", []string{"a"}},
		{"only first match", []string{"a", "b", "a"}, "a", []string{"b", "a"}},
		{"last element", []string{"a"}, "a", []string{}},
		{"exact match only", []string{"how-to"}, "How To", []string{"how-to"}},
		{"empty set", nil, "a", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Remove(tt.current, tt.category)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Remove(%q, %q) mismatch (-want +got):\n%s", tt.current, tt.category, diff)
			}
		})
	}
}

func TestRemoveDoesNotModifyInput(t *testing.T) {
	in := []string{"a", "b", "c"}
	_ = Remove(in, "a")
	if diff := cmp.Diff([]string{"a", "b", "c"}, in); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}
