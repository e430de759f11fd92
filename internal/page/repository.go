package page

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"grove/internal/models"
)

const (
	selectRevision = "SELECT id, name, content, categories, updated FROM pages"
	latestOrder    = "ORDER BY updated DESC, id DESC"
)

// Repository is a Store backed by SQLite through database/sql.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new page repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

var _ Store = (*Repository)(nil)

// Latest gets the most recent revision of a page.
func (r *Repository) Latest(ctx context.Context, name string) (*models.Revision, error) {
	row := r.DB.QueryRowContext(ctx, selectRevision+" WHERE name = ? "+latestOrder+" LIMIT 1", name)
	rev, err := scanRevision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("latest", err)
	}
	return &rev, nil
}

// History lists all revisions of a page, oldest first.
func (r *Repository) History(ctx context.Context, name string) ([]models.Revision, error) {
	rows, err := r.DB.QueryContext(ctx, selectRevision+" WHERE name = ? ORDER BY updated ASC, id ASC", name)
	if err != nil {
		return nil, storageError("history", err)
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, storageError("history", err)
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("history", err)
	}
	return revisions, nil
}

// Append inserts a new revision. The database assigns its timestamp.
func (r *Repository) Append(ctx context.Context, name, content string, categories []string) error {
	encoded, err := encodeCategories(categories)
	if err != nil {
		return storageError("append", err)
	}
	_, err = r.DB.ExecContext(ctx, "INSERT INTO pages (name, content, categories) VALUES (?, ?, ?)", name, content, encoded)
	if err != nil {
		return storageError("append", err)
	}
	return nil
}

// AppendIfLatest inserts a new revision if baseID is still the newest one.
// The check and the insert are a single statement, and SQLite serializes
// writers, so no other revision can land in between.
func (r *Repository) AppendIfLatest(ctx context.Context, name string, baseID int64, content string, categories []string) error {
	encoded, err := encodeCategories(categories)
	if err != nil {
		return storageError("append", err)
	}
	res, err := r.DB.ExecContext(ctx, `
INSERT INTO pages (name, content, categories)
SELECT ?, ?, ?
WHERE COALESCE((SELECT id FROM pages WHERE name = ? `+latestOrder+` LIMIT 1), 0) = ?`,
		name, content, encoded, name, baseID)
	if err != nil {
		return storageError("append", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageError("append", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// Pages lists every page with the time of its latest revision.
func (r *Repository) Pages(ctx context.Context) ([]models.PageSummary, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT p.name, p.updated FROM pages p
WHERE p.id = (SELECT q.id FROM pages q WHERE q.name = p.name ORDER BY q.updated DESC, q.id DESC LIMIT 1)
ORDER BY p.name ASC`)
	if err != nil {
		return nil, storageError("list pages", err)
	}
	defer rows.Close()

	var pages []models.PageSummary
	for rows.Next() {
		var p models.PageSummary
		if err := rows.Scan(&p.Name, &p.UpdatedAt); err != nil {
			return nil, storageError("list pages", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list pages", err)
	}
	return pages, nil
}

// RandomName picks the name of one page at random.
func (r *Repository) RandomName(ctx context.Context) (string, error) {
	var name string
	err := r.DB.QueryRowContext(ctx, "SELECT name FROM (SELECT DISTINCT name FROM pages) AS all_page_names ORDER BY RANDOM() LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoPages
	}
	if err != nil {
		return "", storageError("random page", err)
	}
	return name, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(s scanner) (models.Revision, error) {
	var rev models.Revision
	var categories string
	if err := s.Scan(&rev.ID, &rev.Name, &rev.Content, &categories, &rev.CreatedAt); err != nil {
		return models.Revision{}, err
	}
	if err := json.Unmarshal([]byte(categories), &rev.Categories); err != nil {
		return models.Revision{}, fmt.Errorf("error decoding categories of revision %d: %w", rev.ID, err)
	}
	if rev.Categories == nil {
		rev.Categories = []string{}
	}
	return rev, nil
}

func encodeCategories(categories []string) (string, error) {
	if categories == nil {
		categories = []string{}
	}
	b, err := json.Marshal(categories)
	if err != nil {
		return "", fmt.Errorf("error encoding categories: %w", err)
	}
	return string(b), nil
}
