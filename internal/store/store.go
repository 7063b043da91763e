package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a queued action does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS actions (
	id            TEXT PRIMARY KEY,
	job_id        UUID NOT NULL,
	user_id       TEXT NOT NULL,
	transcript_id TEXT,
	type          TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'pending',
	priority      TEXT NOT NULL,
	confidence    DOUBLE PRECISION NOT NULL,
	title         TEXT NOT NULL,
	payload       JSONB NOT NULL,
	user_feedback TEXT,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS actions_user_status_idx ON actions (user_id, status, created_at DESC);
CREATE INDEX IF NOT EXISTS actions_job_idx ON actions (job_id);

CREATE TABLE IF NOT EXISTS processing_stages (
	id            UUID PRIMARY KEY,
	job_id        UUID NOT NULL,
	transcript_id TEXT,
	stage         TEXT NOT NULL,
	status        TEXT NOT NULL,
	detail        JSONB,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);
CREATE INDEX IF NOT EXISTS processing_stages_job_idx ON processing_stages (job_id, created_at);
`

// Migrate creates the approval-queue tables if they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
