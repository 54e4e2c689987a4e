package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens and pings a Postgres pool.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

const projectsSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id           TEXT PRIMARY KEY,
	slug         TEXT NOT NULL UNIQUE,
	title        TEXT NOT NULL,
	category     TEXT NOT NULL,
	client_name  TEXT NOT NULL DEFAULT '',
	value        TEXT NOT NULL DEFAULT '',
	location     TEXT NOT NULL DEFAULT '',
	period       TEXT NOT NULL DEFAULT '',
	summary      TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	cover_image  TEXT NOT NULL DEFAULT '',
	images       TEXT[] NOT NULL DEFAULT '{}',
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	sort_order   INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS projects_listing_idx ON projects (category, sort_order);

CREATE TABLE IF NOT EXISTS gallery_projects (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	category     TEXT NOT NULL,
	client_name  TEXT NOT NULL DEFAULT '',
	value        TEXT NOT NULL DEFAULT '',
	image        TEXT NOT NULL DEFAULT '',
	start_date   TEXT NOT NULL DEFAULT '',
	end_date     TEXT NOT NULL DEFAULT '',
	is_published BOOLEAN NOT NULL DEFAULT TRUE,
	sort_order   INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS gallery_projects_listing_idx ON gallery_projects (category, sort_order);
`

// EnsureProjectsSchema creates the project tables used when project records
// are stored in Postgres.
func EnsureProjectsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, projectsSchema); err != nil {
		return fmt.Errorf("ensure projects schema: %w", err)
	}
	return nil
}
