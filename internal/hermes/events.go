package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/notewise/internal/action"
)

// QueueGroup is shared by every notewise instance.
const QueueGroup = "notewise"

const (
	SubjectTranscriptStored  = "notewise.transcript.stored"
	SubjectActionApproval    = "notewise.action.approval"
	SubjectAnalysisCompleted = "notewise.analysis.completed"
	SubjectActionProposed    = "notewise.action.proposed"
	SubjectActionReviewed    = "notewise.action.reviewed"
)

// TranscriptEvent arrives when a transcript has been stored upstream.
type TranscriptEvent struct {
	TranscriptID string `json:"transcript_id"`
	UserID       string `json:"user_id"`
	Text         string `json:"text"`
}

// ApprovalEvent carries a user's verdict on a proposed action. Cancel wins
// over Approved when both are set.
type ApprovalEvent struct {
	ActionID  string    `json:"action_id"`
	Approved  bool      `json:"approved"`
	Cancel    bool      `json:"cancel,omitempty"`
	Feedback  *string   `json:"user_feedback,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Verdict maps the event to the status it requests.
func (e ApprovalEvent) Verdict() action.Status {
	switch {
	case e.Cancel:
		return action.StatusCancelled
	case e.Approved:
		return action.StatusApproved
	default:
		return action.StatusDenied
	}
}

type AnalysisCompletedEvent struct {
	JobID             string        `json:"job_id"`
	ResultID          string        `json:"result_id"`
	TranscriptID      *string       `json:"transcript_id,omitempty"`
	UserID            string        `json:"user_id"`
	ActionsExtracted  int           `json:"actions_extracted"`
	ActionTypes       []action.Type `json:"action_types"`
	OverallConfidence float64       `json:"overall_confidence"`
	Summary           string        `json:"summary"`
}

type ActionProposedEvent struct {
	JobID  string        `json:"job_id"`
	Action action.Action `json:"action"`
}

type ActionReviewedEvent struct {
	ActionID   string        `json:"action_id"`
	UserID     string        `json:"user_id"`
	Status     action.Status `json:"status"`
	Feedback   *string       `json:"user_feedback,omitempty"`
	ReviewedAt time.Time     `json:"reviewed_at"`
}
