package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgres creates a connection pool for databaseURL and checks that the
// server is reachable. The caller owns the pool and must Close it.
func NewPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 20
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// MigratePostgres creates the revision table and its immutability trigger.
// It is safe to run on every start.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS pages (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    content TEXT NOT NULL,
    categories TEXT[] NOT NULL DEFAULT '{}',
    updated TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);

ALTER TABLE pages ALTER COLUMN updated SET DEFAULT clock_timestamp();

CREATE INDEX IF NOT EXISTS pages_name_updated_idx ON pages (name, updated DESC, id DESC);

CREATE OR REPLACE FUNCTION pages_block_mutation() RETURNS trigger AS $$
BEGIN
    RAISE EXCEPTION 'page revisions are immutable';
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_pages_block_mutation ON pages;
CREATE TRIGGER trg_pages_block_mutation
    BEFORE UPDATE OR DELETE ON pages
    FOR EACH ROW EXECUTE FUNCTION pages_block_mutation();
`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
