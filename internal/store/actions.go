package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/notewise/internal/action"
)

// Record is a queued action together with its review state.
type Record struct {
	action.Action
	JobID    uuid.UUID `json:"job_id"`
	Feedback *string   `json:"user_feedback,omitempty"`
}

// Filter narrows ListActions. Zero values match everything.
type Filter struct {
	UserID string
	Status action.Status
	Limit  int
}

const defaultListLimit = 50

// SaveActions queues every action of one analysis under jobID.
func (s *Store) SaveActions(ctx context.Context, jobID uuid.UUID, actions []action.Action) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range actions {
		payload, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshal action %s: %w", a.ID, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO actions (id, job_id, user_id, transcript_id, type, status, priority, confidence, title, payload, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			a.ID, jobID, a.UserID, a.TranscriptID, string(a.Type), string(a.Status), string(a.Priority),
			a.Confidence, a.Title, payload, a.CreatedAt, a.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert action %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const selectRecord = `SELECT job_id, status, payload, user_feedback, updated_at FROM actions`

func scanRecord(row pgx.Row) (*Record, error) {
	var (
		rec     Record
		status  string
		payload []byte
		updated time.Time
	)
	if err := row.Scan(&rec.JobID, &status, &payload, &rec.Feedback, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &rec.Action); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	// The columns are authoritative once the action has been reviewed.
	rec.Status = action.Status(status)
	rec.UpdatedAt = updated
	return &rec, nil
}

func (s *Store) GetAction(ctx context.Context, id string) (*Record, error) {
	rec, err := scanRecord(s.pool.QueryRow(ctx, selectRecord+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get action %s: %w", id, err)
	}
	return rec, nil
}

// ListActions returns queued actions, newest first.
func (s *Store) ListActions(ctx context.Context, f Filter) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)

	query := selectRecord
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Review moves an action to a new status, recording optional user feedback.
// Illegal moves fail with action.ErrInvalidTransition and leave the row as is.
func (s *Store) Review(ctx context.Context, id string, to action.Status, feedback *string, at time.Time) (*Record, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rec, err := scanRecord(tx.QueryRow(ctx, selectRecord+` WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock action %s: %w", id, err)
	}

	if err := rec.Transition(to, at); err != nil {
		return nil, err
	}
	if feedback != nil {
		rec.Feedback = feedback
	}

	_, err = tx.Exec(ctx, `
		UPDATE actions SET status = $1, user_feedback = $2, updated_at = $3
		WHERE id = $4`,
		string(rec.Status), rec.Feedback, rec.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update action %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}
