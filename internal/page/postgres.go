package page

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"grove/internal/models"
)

const latestIDPostgres = `SELECT COALESCE((SELECT id FROM pages WHERE name = $1 ORDER BY updated DESC, id DESC LIMIT 1), 0)`

// PostgresRepository is a Store backed by a pgx connection pool. The pool is
// owned by the caller; every operation acquires one connection and releases
// it before returning.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository using pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var _ Store = (*PostgresRepository)(nil)

func (r *PostgresRepository) acquire(ctx context.Context, op string) (*pgxpool.Conn, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, storageError(op, fmt.Errorf("acquire connection: %w", err))
	}
	return conn, nil
}

func (r *PostgresRepository) Latest(ctx context.Context, name string) (*models.Revision, error) {
	conn, err := r.acquire(ctx, "latest")
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var rev models.Revision
	err = conn.QueryRow(ctx, `
		SELECT id, name, content, categories, updated FROM pages
		WHERE name = $1
		ORDER BY updated DESC, id DESC
		LIMIT 1
	`, name).Scan(&rev.ID, &rev.Name, &rev.Content, &rev.Categories, &rev.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("latest", err)
	}
	return &rev, nil
}

func (r *PostgresRepository) History(ctx context.Context, name string) ([]models.Revision, error) {
	conn, err := r.acquire(ctx, "history")
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT id, name, content, categories, updated FROM pages
		WHERE name = $1
		ORDER BY updated ASC, id ASC
	`, name)
	if err != nil {
		return nil, storageError("history", err)
	}
	revisions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Revision, error) {
		var rev models.Revision
		err := row.Scan(&rev.ID, &rev.Name, &rev.Content, &rev.Categories, &rev.CreatedAt)
		return rev, err
	})
	if err != nil {
		return nil, storageError("history", err)
	}
	return revisions, nil
}

func (r *PostgresRepository) Append(ctx context.Context, name, content string, categories []string) error {
	conn, err := r.acquire(ctx, "append")
	if err != nil {
		return err
	}
	defer conn.Release()

	if categories == nil {
		categories = []string{}
	}
	if _, err := conn.Exec(ctx, `INSERT INTO pages (name, content, categories) VALUES ($1, $2, $3)`, name, content, categories); err != nil {
		return storageError("append", err)
	}
	return nil
}

// AppendIfLatest serializes writers to the same name with a transaction
// scoped advisory lock, then checks the newest ID before inserting.
func (r *PostgresRepository) AppendIfLatest(ctx context.Context, name string, baseID int64, content string, categories []string) error {
	conn, err := r.acquire(ctx, "append")
	if err != nil {
		return err
	}
	defer conn.Release()

	if categories == nil {
		categories = []string{}
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return storageError("append", fmt.Errorf("begin: %w", err))
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, name); err != nil {
		return storageError("append", fmt.Errorf("lock page: %w", err))
	}

	var latestID int64
	if err := tx.QueryRow(ctx, latestIDPostgres, name).Scan(&latestID); err != nil {
		return storageError("append", fmt.Errorf("read latest id: %w", err))
	}
	if latestID != baseID {
		return ErrConflict
	}

	if _, err := tx.Exec(ctx, `INSERT INTO pages (name, content, categories) VALUES ($1, $2, $3)`, name, content, categories); err != nil {
		return storageError("append", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return storageError("append", fmt.Errorf("commit: %w", err))
	}
	return nil
}

func (r *PostgresRepository) Pages(ctx context.Context) ([]models.PageSummary, error) {
	conn, err := r.acquire(ctx, "list pages")
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT DISTINCT ON (name) name, updated FROM pages
		ORDER BY name ASC, updated DESC, id DESC
	`)
	if err != nil {
		return nil, storageError("list pages", err)
	}
	pages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PageSummary, error) {
		var p models.PageSummary
		err := row.Scan(&p.Name, &p.UpdatedAt)
		return p, err
	})
	if err != nil {
		return nil, storageError("list pages", err)
	}
	return pages, nil
}

func (r *PostgresRepository) RandomName(ctx context.Context) (string, error) {
	conn, err := r.acquire(ctx, "random page")
	if err != nil {
		return "", err
	}
	defer conn.Release()

	var name string
	err = conn.QueryRow(ctx, `SELECT name FROM (SELECT DISTINCT name FROM pages) AS all_page_names ORDER BY RANDOM() LIMIT 1`).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNoPages
	}
	if err != nil {
		return "", storageError("random page", err)
	}
	return name, nil
}
