package analyzer

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/notewise/internal/action"
	"github.com/MikeSquared-Agency/notewise/internal/detector"
	"github.com/MikeSquared-Agency/notewise/internal/entity"
	"github.com/MikeSquared-Agency/notewise/internal/sentiment"
)

var (
	decisionRe      = regexp.MustCompile(`(?i)\b(?:decision|decisions|decide|decided)\b`)
	timeSensitiveRe = regexp.MustCompile(`(?i)\b(?:deadline|deadlines|due)\b`)
	communicationRe = regexp.MustCompile(`(?i)\b(?:meeting|meetings|call|calls)\b`)
)

const (
	insightDecision      = "Contains decision points that may need follow-up"
	insightTimeSensitive = "Mentions deadlines or due dates"
	insightCommunication = "Involves meetings or calls with others"
)

// Engine turns free text into a Result. Construct it once at startup and
// share it; it holds no mutable state and is safe for concurrent use.
type Engine struct {
	clock     func() time.Time
	newID     func() string
	entities  *entity.Extractor
	sentiment *sentiment.Analyzer
	detectors []*detector.Detector
	logger    *slog.Logger
}

type Option func(*Engine)

// WithClock sets the source of "now" for relative dates and timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithIDGenerator sets how result and action IDs are minted.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithDetectors replaces the built-in detector table.
func WithDetectors(detectors []*detector.Detector) Option {
	return func(e *Engine) { e.detectors = detectors }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		clock:     time.Now,
		newID:     uuid.NewString,
		entities:  entity.New(),
		sentiment: sentiment.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.detectors == nil {
		dets, err := detector.NewAll(detector.Defaults())
		if err != nil {
			return nil, fmt.Errorf("build default detectors: %w", err)
		}
		e.detectors = dets
	}
	return e, nil
}

// AnalyzeText runs entity extraction and sentiment once, then every detector
// in order. Any detector failure or panic aborts the whole call with an
// *AnalysisError; there are no partial results.
func (e *Engine) AnalyzeText(text, userID string, transcriptID *string) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &AnalysisError{Err: fmt.Errorf("panic: %v", r)}
			e.logger.Error("analysis panicked", "user_id", userID, "panic", r)
		}
	}()

	start := e.clock()
	ents := e.entities.Extract(text)
	mood := e.sentiment.Analyze(text)

	in := detector.Input{
		Text:         text,
		UserID:       userID,
		TranscriptID: transcriptID,
		Entities:     ents,
		Now:          start,
		NewID:        e.newID,
	}

	actions := make([]action.Action, 0)
	for _, d := range e.detectors {
		found, err := d.Detect(in)
		if err != nil {
			e.logger.Error("detector failed", "type", d.Type(), "user_id", userID, "error", err)
			return nil, &AnalysisError{Err: err}
		}
		actions = append(actions, found...)
	}

	words := len(strings.Fields(text))
	res = &Result{
		ID:                e.newID(),
		SourceText:        text,
		AnalysisTimestamp: start,
		OverallConfidence: meanConfidence(actions),
		Actions:           actions,
		Summary:           summarize(words, actions),
		KeyInsights:       insights(text, words),
		Sentiment:         mood,
		Entities:          ents,
	}
	res.ProcessingTimeMs = e.clock().Sub(start).Milliseconds()

	e.logger.Debug("text analyzed",
		"result_id", res.ID,
		"user_id", userID,
		"words", words,
		"actions", len(actions),
		"confidence", res.OverallConfidence,
	)
	return res, nil
}

func meanConfidence(actions []action.Action) float64 {
	if len(actions) == 0 {
		return 0
	}
	var sum float64
	for _, a := range actions {
		sum += a.Confidence
	}
	return sum / float64(len(actions))
}

// summarize reports word count, action count and the distinct action types in
// first-seen order.
func summarize(words int, actions []action.Action) string {
	s := fmt.Sprintf("Analyzed %d words and identified %d actionable items", words, len(actions))
	if len(actions) == 0 {
		return s + "."
	}
	seen := make(map[action.Type]bool)
	var kinds []string
	for _, a := range actions {
		if !seen[a.Type] {
			seen[a.Type] = true
			kinds = append(kinds, strings.ReplaceAll(string(a.Type), "_", " "))
		}
	}
	return s + " including " + strings.Join(kinds, ", ") + "."
}

func insights(text string, words int) []string {
	out := []string{fmt.Sprintf("Text contains %d words", words)}
	if decisionRe.MatchString(text) {
		out = append(out, insightDecision)
	}
	if timeSensitiveRe.MatchString(text) {
		out = append(out, insightTimeSensitive)
	}
	if communicationRe.MatchString(text) {
		out = append(out, insightCommunication)
	}
	return out
}
