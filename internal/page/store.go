package page

import (
	"context"
	"errors"
	"fmt"

	"grove/internal/models"
)

var (
	// ErrConflict is returned by AppendIfLatest when another revision was
	// appended after the one the caller read.
	ErrConflict = errors.New("page was changed by someone else")
	// ErrPageNotFound is returned by operations that need an existing page.
	ErrPageNotFound = errors.New("page not found")
	// ErrNoPages is returned by RandomName when nothing has been written yet.
	ErrNoPages = errors.New("no pages exist")
)

// StorageError reports a failure of the persistence layer. The store never
// retries; a failed append leaves history exactly as it was.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Store persists immutable page revisions. Names are matched by exact string
// equality; callers normalize before writing.
type Store interface {
	// Latest returns the newest revision for name, or nil if there is none.
	Latest(ctx context.Context, name string) (*models.Revision, error)
	// History returns every revision for name, oldest first.
	History(ctx context.Context, name string) ([]models.Revision, error)
	// Append inserts a new revision unconditionally.
	Append(ctx context.Context, name, content string, categories []string) error
	// AppendIfLatest inserts a new revision only if the newest revision for
	// name still has ID baseID. A baseID of 0 requires that the page does not
	// exist yet. It returns ErrConflict otherwise.
	AppendIfLatest(ctx context.Context, name string, baseID int64, content string, categories []string) error
	// Pages lists every distinct page name alphabetically with the time of
	// its newest revision.
	Pages(ctx context.Context) ([]models.PageSummary, error)
	// RandomName returns the name of a random page, or ErrNoPages.
	RandomName(ctx context.Context) (string, error)
}
