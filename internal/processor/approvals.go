package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MikeSquared-Agency/notewise/internal/action"
	"github.com/MikeSquared-Agency/notewise/internal/hermes"
	"github.com/MikeSquared-Agency/notewise/internal/store"
)

// Review applies a user's verdict to a queued action.
func (p *Processor) Review(ctx context.Context, actionID string, to action.Status, feedback *string) (*store.Record, error) {
	if p.store == nil {
		return nil, ErrNoStore
	}

	rec, err := p.store.Review(ctx, actionID, to, feedback, p.clock())
	if err != nil {
		return nil, fmt.Errorf("review action %s: %w", actionID, err)
	}
	p.metrics.Reviewed(rec.Status)

	stage := store.StageReviewed
	if rec.Status == action.StatusApproved {
		stage = store.StageApproved
	}
	p.logStage(ctx, rec.JobID, rec.TranscriptID, stage, string(rec.Status), map[string]any{"action_id": rec.ID})

	p.publish(hermes.SubjectActionReviewed, hermes.ActionReviewedEvent{
		ActionID:   rec.ID,
		UserID:     rec.UserID,
		Status:     rec.Status,
		Feedback:   rec.Feedback,
		ReviewedAt: rec.UpdatedAt,
	})

	p.logger.Info("action reviewed",
		"action_id", rec.ID,
		"job_id", rec.JobID,
		"status", rec.Status,
		"user_id", rec.UserID,
	)
	return rec, nil
}

// HandleApproval is the NATS handler for notewise.action.approval.
func (p *Processor) HandleApproval(subject string, data []byte) {
	var evt hermes.ApprovalEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Warn("failed to parse approval event", "error", err)
		return
	}
	if evt.ActionID == "" {
		p.logger.Warn("approval event without action id")
		return
	}

	verdict := evt.Verdict()
	_, err := p.Review(context.Background(), evt.ActionID, verdict, evt.Feedback)
	switch {
	case err == nil:
	case errors.Is(err, action.ErrInvalidTransition), errors.Is(err, store.ErrNotFound):
		p.logger.Warn("approval rejected", "action_id", evt.ActionID, "status", verdict, "error", err)
	default:
		p.logger.Error("failed to apply approval", "action_id", evt.ActionID, "status", verdict, "error", err)
	}
}
