// Package category computes new category sets for a page revision. The
// functions never touch storage; the caller appends the result together with
// the unchanged content to materialize a revision.
package category

import (
	"errors"
	"fmt"
	"slices"

	"grove/internal/slug"
)

// ErrEmptyCategory is reported when a category name normalizes to nothing.
var ErrEmptyCategory = errors.New("category name must not be empty")

// ValidationError describes malformed input to a category operation.
type ValidationError struct {
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid category %q: %v", e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Add returns current with the normalized newCategory appended. If the
// normalized category is already present, current is returned unchanged.
// The input slice is never modified.
func Add(current []string, newCategory string) ([]string, error) {
	normalized := slug.Normalize(newCategory)
	if normalized == "" {
		return nil, &ValidationError{Input: newCategory, Err: ErrEmptyCategory}
	}
	if slices.Contains(current, normalized) {
		return current, nil
	}
	next := make([]string, 0, len(current)+1)
	next = append(next, current...)
	return append(next, normalized), nil
}

// Remove returns current without the first exact match of category. Matching
// is by exact string, without normalization. If category is absent, current
// is returned unchanged.
func Remove(current []string, category string) []string {
	i := slices.Index(current, category)
	if i < 0 {
		return current
	}
	next := make([]string, 0, len(current)-1)
	next = append(next, current[:i]...)
	return append(next, current[i+1:]...)
}
