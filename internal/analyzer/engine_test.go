package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/notewise/internal/action"
	"github.com/MikeSquared-Agency/notewise/internal/detector"
	"github.com/MikeSquared-Agency/notewise/internal/sentiment"
)

// Thursday.
var fixedNow = time.Date(2026, 10, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(append([]Option{WithClock(fixedClock)}, opts...)...)
	require.NoError(t, err)
	return e
}

func ofType(actions []action.Action, typ action.Type) []action.Action {
	var out []action.Action
	for _, a := range actions {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

func TestAnalyzeText_ScheduleMeetingWithTask(t *testing.T) {
	text := "We need to schedule a meeting with Sarah tomorrow at 2pm"
	res, err := newEngine(t).AnalyzeText(text, "user-1", nil)
	require.NoError(t, err)

	scheduled := ofType(res.Actions, action.TypeScheduledEvent)
	require.NotEmpty(t, scheduled)
	ev := scheduled[0].EventDetails
	require.NotNil(t, ev)
	assert.Equal(t, "2026-10-16", *ev.StartDate)
	assert.Equal(t, "14:00", *ev.StartTime)
	assert.Contains(t, ev.Attendees, "Sarah")

	assert.NotEmpty(t, ofType(res.Actions, action.TypeTask))

	types := make([]action.Type, 0, len(res.Actions))
	for _, a := range res.Actions {
		types = append(types, a.Type)
	}
	assert.Equal(t, []action.Type{action.TypeScheduledEvent, action.TypeScheduledEvent, action.TypeTask}, types)

	assert.InDelta(t, 0.85, res.OverallConfidence, 1e-9)
	assert.Equal(t, "Analyzed 11 words and identified 3 actionable items including scheduled event, task.", res.Summary)
	assert.Equal(t, []string{"Text contains 11 words", insightCommunication}, res.KeyInsights)
}

func TestAnalyzeText_PositiveSentiment(t *testing.T) {
	res, err := newEngine(t).AnalyzeText("This project is going great, really happy with the progress", "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, sentiment.Positive, res.Sentiment.Overall)
	assert.Greater(t, res.Sentiment.Score, 0.0)
}

func TestAnalyzeText_CallWithPhone(t *testing.T) {
	res, err := newEngine(t).AnalyzeText("Call John at 555-123-4567 about the contract", "user-1", nil)
	require.NoError(t, err)

	calls := ofType(res.Actions, action.TypeCall)
	require.NotEmpty(t, calls)
	require.NotNil(t, calls[0].CallDetails)
	assert.Contains(t, calls[0].CallDetails.ContactName, "John")
	assert.Contains(t, res.Entities.Phones, "555-123-4567")
}

func TestAnalyzeText_ReminderByFriday(t *testing.T) {
	res, err := newEngine(t).AnalyzeText("Remind me to submit the report by Friday", "user-1", nil)
	require.NoError(t, err)

	reminders := ofType(res.Actions, action.TypeReminder)
	require.NotEmpty(t, reminders)
	require.NotNil(t, reminders[0].ReminderDetails)
	assert.False(t, reminders[0].ReminderDetails.RemindAt.IsZero())
	assert.Equal(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC), reminders[0].ReminderDetails.RemindAt)
}

func TestAnalyzeText_NothingActionable(t *testing.T) {
	res, err := newEngine(t).AnalyzeText("Hello there friend", "user-1", nil)
	require.NoError(t, err)

	assert.NotNil(t, res.Actions)
	assert.Empty(t, res.Actions)
	assert.Equal(t, 0.0, res.OverallConfidence)
	assert.Equal(t, []string{"Text contains 3 words"}, res.KeyInsights)
	assert.Equal(t, "Analyzed 3 words and identified 0 actionable items.", res.Summary)
	assert.Equal(t, sentiment.Neutral, res.Sentiment.Overall)
	assert.Equal(t, []string{"neutral"}, res.Sentiment.Emotions)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"actions":[]`)
}

func TestAnalyzeText_EmptyInput(t *testing.T) {
	res, err := newEngine(t).AnalyzeText("", "user-1", nil)
	require.NoError(t, err)
	assert.Empty(t, res.Actions)
	assert.Equal(t, 0.0, res.OverallConfidence)
	assert.Equal(t, []string{"Text contains 0 words"}, res.KeyInsights)
	assert.NotEmpty(t, res.Summary)
}

func TestAnalyzeText_Insights(t *testing.T) {
	text := "We decided the deadline is Friday, so let's call the vendor"
	res, err := newEngine(t).AnalyzeText(text, "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Text contains 11 words",
		insightDecision,
		insightTimeSensitive,
		insightCommunication,
	}, res.KeyInsights)
}

func TestAnalyzeText_Invariants(t *testing.T) {
	text := "URGENT: schedule a call with Dana Reyes tomorrow at 9am. " +
		"Weekly sync every Monday at 10:00. I'll prepare the slides. " +
		"Send an email to ops@example.com about the outage. " +
		"Priya's phone is 555-222-3333. Don't forget the deadline next week."
	transcript := "tr-42"

	res, err := newEngine(t).AnalyzeText(text, "user-7", &transcript)
	require.NoError(t, err)
	require.NotEmpty(t, res.Actions)

	var sum float64
	for _, a := range res.Actions {
		sum += a.Confidence
		assert.GreaterOrEqual(t, a.Confidence, 0.0)
		assert.LessOrEqual(t, a.Confidence, 0.95)
		assert.True(t, a.Priority.Valid())
		assert.Equal(t, action.StatusPending, a.Status)
		assert.Equal(t, a.CreatedAt, a.UpdatedAt)
		assert.Equal(t, text, a.SourceText)
		assert.Equal(t, "user-7", a.UserID)
		require.NotNil(t, a.TranscriptID)
		assert.Equal(t, transcript, *a.TranscriptID)
	}
	assert.InDelta(t, sum/float64(len(res.Actions)), res.OverallConfidence, 1e-9)

	// Actions arrive grouped in detector order.
	last := -1
	for _, a := range res.Actions {
		idx := -1
		for i, typ := range action.Types {
			if typ == a.Type {
				idx = i
			}
		}
		assert.GreaterOrEqual(t, idx, last, "action %s out of detector order", a.Type)
		last = idx
	}
}

func TestAnalyzeText_Idempotent(t *testing.T) {
	text := "Schedule a review with Omar next week. Remind me to send the deck by Friday."
	e := newEngine(t)

	first, err := e.AnalyzeText(text, "user-1", nil)
	require.NoError(t, err)
	second, err := e.AnalyzeText(text, "user-1", nil)
	require.NoError(t, err)

	require.Len(t, second.Actions, len(first.Actions))
	assert.NotEqual(t, first.ID, second.ID)
	for i := range first.Actions {
		a, b := first.Actions[i], second.Actions[i]
		assert.NotEqual(t, a.ID, b.ID)
		a.ID, b.ID = "", ""
		a.CreatedAt, b.CreatedAt = time.Time{}, time.Time{}
		a.UpdatedAt, b.UpdatedAt = time.Time{}, time.Time{}
		assert.Equal(t, a, b)
	}
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.KeyInsights, second.KeyInsights)
	assert.Equal(t, first.Entities, second.Entities)
}

func TestAnalyzeText_InjectedIDs(t *testing.T) {
	n := 0
	e := newEngine(t, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))

	res, err := e.AnalyzeText("Call John tomorrow", "user-1", nil)
	require.NoError(t, err)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, "id-1", res.Actions[0].ID)
	assert.Equal(t, "id-2", res.ID)
	assert.Equal(t, fixedNow, res.AnalysisTimestamp)
	assert.Equal(t, int64(0), res.ProcessingTimeMs)
}

func TestAnalyzeText_DetectorErrorAbortsCall(t *testing.T) {
	boom := errors.New("bad payload")
	failing, err := detector.New(detector.Definition{
		Type:     action.TypeTask,
		Family:   "task",
		Patterns: []detector.Pattern{{Name: "any", Regex: `\w+`}},
		Build:    func(*action.Action, detector.Match, detector.Input) error { return boom },
	})
	require.NoError(t, err)

	res, err := newEngine(t, WithDetectors([]*detector.Detector{failing})).AnalyzeText("anything", "user-1", nil)
	assert.Nil(t, res)

	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "analysis failed: ")
	assert.Contains(t, err.Error(), "bad payload")
}

func TestAnalyzeText_PanicBecomesAnalysisError(t *testing.T) {
	panicking, err := detector.New(detector.Definition{
		Type:     action.TypeCall,
		Family:   "call",
		Patterns: []detector.Pattern{{Name: "any", Regex: `\w+`}},
		Build: func(*action.Action, detector.Match, detector.Input) error {
			var m map[string]int
			m["x"] = 1
			return nil
		},
	})
	require.NoError(t, err)

	res, err := newEngine(t, WithDetectors([]*detector.Detector{panicking})).AnalyzeText("anything", "user-1", nil)
	assert.Nil(t, res)

	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, err.Error(), "panic")
}

func TestAnalyzeText_ConcurrentCallers(t *testing.T) {
	e := newEngine(t)
	text := "Call John at 555-123-4567 about the contract"

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.AnalyzeText(text, "user-1", nil)
			if err == nil {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	ids := make(map[string]bool)
	for _, res := range results {
		require.NotNil(t, res)
		assert.False(t, ids[res.ID], "duplicate result id %s", res.ID)
		ids[res.ID] = true
		assert.Len(t, res.Actions, len(results[0].Actions))
	}
}
