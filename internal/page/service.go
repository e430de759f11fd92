package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"grove/internal/category"
	"grove/internal/diff"
	"grove/internal/models"
)

// ConcurrencyMode selects how a read-modify-append sequence treats writes
// that landed after the caller's read.
type ConcurrencyMode int

const (
	// Optimistic rejects an append with ErrConflict when the page changed
	// since the caller read it.
	Optimistic ConcurrencyMode = iota
	// LastWriteWins appends unconditionally. A concurrent writer's change
	// can be silently overwritten.
	LastWriteWins
)

// ParseConcurrencyMode maps a configuration value to a ConcurrencyMode.
func ParseConcurrencyMode(s string) (ConcurrencyMode, error) {
	switch s {
	case "", "optimistic":
		return Optimistic, nil
	case "last-write-wins":
		return LastWriteWins, nil
	}
	return 0, fmt.Errorf("unknown concurrency mode %q", s)
}

func (m ConcurrencyMode) String() string {
	if m == LastWriteWins {
		return "last-write-wins"
	}
	return "optimistic"
}

// NoBase is passed as baseID when the caller did not read a revision before
// writing. Such writes always append unconditionally.
const NoBase int64 = -1

// Service implements the page operations on top of a Store.
type Service struct {
	store Store
	mode  ConcurrencyMode
	log   *slog.Logger
}

// NewService creates a page service.
func NewService(store Store, mode ConcurrencyMode, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, mode: mode, log: log}
}

// Latest returns the current revision of name, or nil if the page does not
// exist yet.
func (s *Service) Latest(ctx context.Context, name string) (*models.Revision, error) {
	return s.store.Latest(ctx, name)
}

// History returns the revisions of name annotated with the changes each
// introduced, newest first.
func (s *Service) History(ctx context.Context, name string) ([]diff.Entry, error) {
	revisions, err := s.store.History(ctx, name)
	if err != nil {
		return nil, err
	}
	entries := diff.History(revisions)
	slices.Reverse(entries)
	return entries, nil
}

// Save records content as the new body of name. Resubmitting the current
// content is a no-op. The new revision keeps the page's categories.
// Invalid UTF-8 in content is replaced with U+FFFD before storage.
func (s *Service) Save(ctx context.Context, name, content string, baseID int64) (bool, error) {
	content = strings.ToValidUTF8(content, "\uFFFD")
	current, err := s.store.Latest(ctx, name)
	if err != nil {
		return false, err
	}
	if current != nil && current.Content == content {
		s.log.Debug("content unchanged, skipping revision", "page", name)
		return false, nil
	}

	var categories []string
	if current != nil {
		categories = current.Categories
	}
	if err := s.append(ctx, name, baseID, content, categories); err != nil {
		return false, err
	}
	s.log.Info("page saved", "page", name, "new", current == nil)
	return true, nil
}

// AddCategory adds category to the current revision of name.
func (s *Service) AddCategory(ctx context.Context, name, newCategory string, baseID int64) error {
	current, err := s.store.Latest(ctx, name)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("add category to %q: %w", name, ErrPageNotFound)
	}
	categories, err := category.Add(current.Categories, newCategory)
	if err != nil {
		return err
	}
	return s.updateCategories(ctx, current, categories, baseID)
}

// RemoveCategory removes category from the current revision of name.
func (s *Service) RemoveCategory(ctx context.Context, name, cat string, baseID int64) error {
	current, err := s.store.Latest(ctx, name)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("remove category from %q: %w", name, ErrPageNotFound)
	}
	return s.updateCategories(ctx, current, category.Remove(current.Categories, cat), baseID)
}

func (s *Service) updateCategories(ctx context.Context, current *models.Revision, categories []string, baseID int64) error {
	if slices.Equal(current.Categories, categories) {
		s.log.Debug("categories unchanged, skipping revision", "page", current.Name)
		return nil
	}
	if err := s.append(ctx, current.Name, baseID, current.Content, categories); err != nil {
		return err
	}
	s.log.Info("page categories changed", "page", current.Name, "categories", categories)
	return nil
}

// Pages lists every page.
func (s *Service) Pages(ctx context.Context) ([]models.PageSummary, error) {
	return s.store.Pages(ctx)
}

// Random returns the name of a random page.
func (s *Service) Random(ctx context.Context) (string, error) {
	return s.store.RandomName(ctx)
}

func (s *Service) append(ctx context.Context, name string, baseID int64, content string, categories []string) error {
	if s.mode == LastWriteWins || baseID < 0 {
		return s.store.Append(ctx, name, content, categories)
	}
	err := s.store.AppendIfLatest(ctx, name, baseID, content, categories)
	if errors.Is(err, ErrConflict) {
		s.log.Warn("rejected stale write", "page", name, "base", baseID)
	}
	return err
}
