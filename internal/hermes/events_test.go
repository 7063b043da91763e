package hermes

import (
	"encoding/json"
	"testing"

	"github.com/MikeSquared-Agency/notewise/internal/action"
)

func TestTranscriptEventParsing(t *testing.T) {
	raw := `{"transcript_id": "tr-001", "user_id": "u-42", "text": "Call John tomorrow"}`

	var ev TranscriptEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("failed to parse TranscriptEvent: %v", err)
	}
	if ev.TranscriptID != "tr-001" {
		t.Errorf("expected transcript_id 'tr-001', got '%s'", ev.TranscriptID)
	}
	if ev.UserID != "u-42" {
		t.Errorf("expected user_id 'u-42', got '%s'", ev.UserID)
	}
	if ev.Text != "Call John tomorrow" {
		t.Errorf("expected text, got '%s'", ev.Text)
	}
}

func TestApprovalEventVerdict(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want action.Status
	}{
		{"approved", `{"action_id": "a1", "approved": true}`, action.StatusApproved},
		{"denied", `{"action_id": "a1", "approved": false, "user_feedback": "wrong person"}`, action.StatusDenied},
		{"missing flag denies", `{"action_id": "a1"}`, action.StatusDenied},
		{"cancel wins", `{"action_id": "a1", "approved": true, "cancel": true}`, action.StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ev ApprovalEvent
			if err := json.Unmarshal([]byte(tt.raw), &ev); err != nil {
				t.Fatalf("failed to parse ApprovalEvent: %v", err)
			}
			if got := ev.Verdict(); got != tt.want {
				t.Errorf("Verdict() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApprovalEventFeedback(t *testing.T) {
	var ev ApprovalEvent
	if err := json.Unmarshal([]byte(`{"action_id": "a1", "user_feedback": "wrong person"}`), &ev); err != nil {
		t.Fatalf("failed to parse ApprovalEvent: %v", err)
	}
	if ev.Feedback == nil || *ev.Feedback != "wrong person" {
		t.Errorf("expected feedback 'wrong person', got %v", ev.Feedback)
	}
}

func TestSubjectConstants(t *testing.T) {
	subjects := map[string]string{
		SubjectTranscriptStored:  "notewise.transcript.stored",
		SubjectActionApproval:    "notewise.action.approval",
		SubjectAnalysisCompleted: "notewise.analysis.completed",
		SubjectActionProposed:    "notewise.action.proposed",
		SubjectActionReviewed:    "notewise.action.reviewed",
	}
	for got, want := range subjects {
		if got != want {
			t.Errorf("expected subject '%s', got '%s'", want, got)
		}
	}
}
