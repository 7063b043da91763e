package processor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/notewise/internal/action"
	"github.com/MikeSquared-Agency/notewise/internal/hermes"
	"github.com/MikeSquared-Agency/notewise/internal/store"
)

func queuedAction(t *testing.T, p *Processor) string {
	t.Helper()
	job, err := p.Analyze(context.Background(), Request{Text: "Call John tomorrow", UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, job.Result.Actions, 1)
	return job.Result.Actions[0].ID
}

func TestReview(t *testing.T) {
	st := newFakeStore()
	pub := &fakePublisher{}
	p := newTestProcessor(t, WithStore(st), WithPublisher(pub))
	id := queuedAction(t, p)

	feedback := "yes please"
	rec, err := p.Review(context.Background(), id, action.StatusApproved, &feedback)
	require.NoError(t, err)
	assert.Equal(t, action.StatusApproved, rec.Status)
	assert.Equal(t, fixedNow, rec.UpdatedAt)
	require.NotNil(t, rec.Feedback)
	assert.Equal(t, feedback, *rec.Feedback)

	names := st.stageNames()
	assert.Equal(t, store.StageApproved, names[len(names)-1])

	subjects := pub.subjects()
	assert.Equal(t, hermes.SubjectActionReviewed, subjects[len(subjects)-1])
	reviewed, ok := pub.msgs[len(pub.msgs)-1].data.(hermes.ActionReviewedEvent)
	require.True(t, ok)
	assert.Equal(t, id, reviewed.ActionID)
	assert.Equal(t, action.StatusApproved, reviewed.Status)
}

func TestReview_Errors(t *testing.T) {
	st := newFakeStore()
	p := newTestProcessor(t, WithStore(st))
	id := queuedAction(t, p)

	_, err := p.Review(context.Background(), "missing", action.StatusApproved, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = p.Review(context.Background(), id, action.StatusExecuted, nil)
	assert.ErrorIs(t, err, action.ErrInvalidTransition)
	assert.Equal(t, action.StatusPending, st.records[id].Status)

	_, err = newTestProcessor(t).Review(context.Background(), id, action.StatusApproved, nil)
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestHandleApproval(t *testing.T) {
	tests := []struct {
		name string
		evt  hermes.ApprovalEvent
		want action.Status
	}{
		{"approve", hermes.ApprovalEvent{Approved: true}, action.StatusApproved},
		{"deny", hermes.ApprovalEvent{Approved: false}, action.StatusDenied},
		{"cancel", hermes.ApprovalEvent{Cancel: true}, action.StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newFakeStore()
			p := newTestProcessor(t, WithStore(st))
			id := queuedAction(t, p)

			tt.evt.ActionID = id
			data, err := json.Marshal(tt.evt)
			require.NoError(t, err)
			p.HandleApproval(hermes.SubjectActionApproval, data)

			assert.Equal(t, tt.want, st.records[id].Status)
		})
	}
}

func TestHandleApproval_IgnoresBadEvents(t *testing.T) {
	st := newFakeStore()
	p := newTestProcessor(t, WithStore(st))
	id := queuedAction(t, p)

	assert.NotPanics(t, func() {
		p.HandleApproval(hermes.SubjectActionApproval, []byte(`{bad`))
		p.HandleApproval(hermes.SubjectActionApproval, []byte(`{"approved": true}`))
		p.HandleApproval(hermes.SubjectActionApproval, []byte(`{"action_id": "missing", "approved": true}`))
	})
	assert.Equal(t, action.StatusPending, st.records[id].Status)
}
