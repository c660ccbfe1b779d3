// Package db provides PostgreSQL storage for score report history.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL creates the report history table. Section scores are kept as
// columns for querying, and the full sections array as JSONB for retrieval.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS score_reports (
	id                 UUID PRIMARY KEY,
	source             TEXT NOT NULL DEFAULT '',
	skills_score       DOUBLE PRECISION NOT NULL,
	experience_score   DOUBLE PRECISION NOT NULL,
	achievements_score DOUBLE PRECISION NOT NULL,
	projects_score     DOUBLE PRECISION NOT NULL,
	total_score        DOUBLE PRECISION NOT NULL,
	sections           JSONB NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS score_reports_created_at_idx ON score_reports (created_at DESC);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// EnsureSchema creates the score_reports table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}
