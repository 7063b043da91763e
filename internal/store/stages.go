package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage names one step of a transcript's trip through the pipeline.
type Stage string

const (
	StageIngested Stage = "ingested"
	StageParsed   Stage = "parsed"
	StageProposed Stage = "proposed"
	StageReviewed Stage = "reviewed"
	StageApproved Stage = "approved"
	StageExecuted Stage = "executed"
	StageFailed   Stage = "failed"
)

type StageEntry struct {
	ID           uuid.UUID      `json:"id"`
	JobID        uuid.UUID      `json:"job_id"`
	TranscriptID *string        `json:"transcript_id,omitempty"`
	Stage        Stage          `json:"stage"`
	Status       string         `json:"status"`
	Detail       map[string]any `json:"detail,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// LogStage appends an entry to the processing-stage log.
func (s *Store) LogStage(ctx context.Context, e StageEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	var detail []byte
	if e.Detail != nil {
		var err error
		if detail, err = json.Marshal(e.Detail); err != nil {
			return fmt.Errorf("marshal stage detail: %w", err)
		}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO processing_stages (id, job_id, transcript_id, stage, status, detail)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.JobID, e.TranscriptID, string(e.Stage), e.Status, detail,
	)
	if err != nil {
		return fmt.Errorf("insert stage %s: %w", e.Stage, err)
	}
	return nil
}

// Stages returns a job's log in the order it was written.
func (s *Store) Stages(ctx context.Context, jobID uuid.UUID) ([]StageEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, job_id, transcript_id, stage, status, detail, created_at
		FROM processing_stages WHERE job_id = $1
		ORDER BY created_at, id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("query stages: %w", err)
	}
	defer rows.Close()

	var out []StageEntry
	for rows.Next() {
		var (
			e      StageEntry
			stage  string
			detail []byte
		)
		if err := rows.Scan(&e.ID, &e.JobID, &e.TranscriptID, &stage, &e.Status, &detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		e.Stage = Stage(stage)
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &e.Detail); err != nil {
				return nil, fmt.Errorf("unmarshal stage detail: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
