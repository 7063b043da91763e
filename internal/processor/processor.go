package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/notewise/internal/action"
	"github.com/MikeSquared-Agency/notewise/internal/analyzer"
	"github.com/MikeSquared-Agency/notewise/internal/hermes"
	"github.com/MikeSquared-Agency/notewise/internal/metrics"
	"github.com/MikeSquared-Agency/notewise/internal/store"
)

// ErrNoStore is returned by review operations when no approval queue is configured.
var ErrNoStore = errors.New("approval queue not configured")

const (
	SourceAPI  = "api"
	SourceNATS = "nats"
	SourceCLI  = "cli"
)

type Analyzer interface {
	AnalyzeText(text, userID string, transcriptID *string) (*analyzer.Result, error)
}

type Store interface {
	SaveActions(ctx context.Context, jobID uuid.UUID, actions []action.Action) error
	Review(ctx context.Context, id string, to action.Status, feedback *string, at time.Time) (*store.Record, error)
	LogStage(ctx context.Context, e store.StageEntry) error
}

type Publisher interface {
	Publish(subject string, data any) error
}

// Processor runs analyses through the approval queue and announces the
// outcome. Store and publisher are optional.
type Processor struct {
	engine    Analyzer
	store     Store
	publisher Publisher
	metrics   *metrics.Metrics
	clock     func() time.Time
	logger    *slog.Logger
}

type Option func(*Processor)

func WithStore(s Store) Option {
	return func(p *Processor) { p.store = s }
}

func WithPublisher(pub Publisher) Option {
	return func(p *Processor) { p.publisher = pub }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// WithClock sets the timestamp source for reviews.
func WithClock(clock func() time.Time) Option {
	return func(p *Processor) { p.clock = clock }
}

func New(engine Analyzer, logger *slog.Logger, opts ...Option) *Processor {
	p := &Processor{
		engine: engine,
		clock:  time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type Request struct {
	Text         string  `json:"text"`
	UserID       string  `json:"user_id"`
	TranscriptID *string `json:"transcript_id,omitempty"`
	Source       string  `json:"-"`
}

// Job summarises one pass through the pipeline.
type Job struct {
	JobID            uuid.UUID        `json:"job_id"`
	Status           string           `json:"status"`
	ActionsExtracted int              `json:"actions_extracted"`
	Result           *analyzer.Result `json:"result"`
}

// Analyze runs the engine on req, queues the proposed actions for approval and
// publishes the outcome. Stage-log and publish failures are logged, not returned.
func (p *Processor) Analyze(ctx context.Context, req Request) (*Job, error) {
	jobID := uuid.New()
	p.logStage(ctx, jobID, req.TranscriptID, store.StageIngested, "ok", map[string]any{
		"user_id": req.UserID,
		"source":  req.Source,
	})

	start := time.Now()
	res, err := p.engine.AnalyzeText(req.Text, req.UserID, req.TranscriptID)
	if err != nil {
		p.metrics.AnalysisFailed(req.Source)
		p.logStage(ctx, jobID, req.TranscriptID, store.StageFailed, "error", map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("analyze text: %w", err)
	}
	p.metrics.ObserveAnalysis(req.Source, res.Actions, res.OverallConfidence, time.Since(start))
	p.logStage(ctx, jobID, req.TranscriptID, store.StageParsed, "ok", map[string]any{
		"result_id": res.ID,
		"actions":   len(res.Actions),
	})

	if p.store != nil && len(res.Actions) > 0 {
		if err := p.store.SaveActions(ctx, jobID, res.Actions); err != nil {
			p.metrics.PersistFailed()
			p.logStage(ctx, jobID, req.TranscriptID, store.StageFailed, "error", map[string]any{"error": err.Error()})
			return nil, fmt.Errorf("save actions: %w", err)
		}
		p.logStage(ctx, jobID, req.TranscriptID, store.StageProposed, "ok", map[string]any{"actions": len(res.Actions)})
	}

	p.publish(hermes.SubjectAnalysisCompleted, hermes.AnalysisCompletedEvent{
		JobID:             jobID.String(),
		ResultID:          res.ID,
		TranscriptID:      req.TranscriptID,
		UserID:            req.UserID,
		ActionsExtracted:  len(res.Actions),
		ActionTypes:       distinctTypes(res.Actions),
		OverallConfidence: res.OverallConfidence,
		Summary:           res.Summary,
	})
	for _, a := range res.Actions {
		p.publish(hermes.SubjectActionProposed, hermes.ActionProposedEvent{JobID: jobID.String(), Action: a})
	}

	p.logger.Info("analysis completed",
		"job_id", jobID,
		"result_id", res.ID,
		"user_id", req.UserID,
		"source", req.Source,
		"actions", len(res.Actions),
		"confidence", res.OverallConfidence,
	)

	return &Job{
		JobID:            jobID,
		Status:           "completed",
		ActionsExtracted: len(res.Actions),
		Result:           res,
	}, nil
}

// HandleTranscriptStored is the NATS handler for notewise.transcript.stored.
func (p *Processor) HandleTranscriptStored(subject string, data []byte) {
	ctx := context.Background()

	var evt hermes.TranscriptEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse transcript event", "error", err)
		return
	}
	if evt.UserID == "" {
		p.logger.Warn("transcript event without user", "transcript_id", evt.TranscriptID)
		return
	}

	var transcriptID *string
	if evt.TranscriptID != "" {
		transcriptID = &evt.TranscriptID
	}

	p.logger.Info("processing transcript", "transcript_id", evt.TranscriptID, "user_id", evt.UserID)

	if _, err := p.Analyze(ctx, Request{
		Text:         evt.Text,
		UserID:       evt.UserID,
		TranscriptID: transcriptID,
		Source:       SourceNATS,
	}); err != nil {
		p.logger.Error("transcript processing failed", "transcript_id", evt.TranscriptID, "error", err)
	}
}

func (p *Processor) logStage(ctx context.Context, jobID uuid.UUID, transcriptID *string, stage store.Stage, status string, detail map[string]any) {
	if p.store == nil {
		return
	}
	err := p.store.LogStage(ctx, store.StageEntry{
		JobID:        jobID,
		TranscriptID: transcriptID,
		Stage:        stage,
		Status:       status,
		Detail:       detail,
	})
	if err != nil {
		p.logger.Warn("failed to log stage", "job_id", jobID, "stage", stage, "error", err)
	}
}

func (p *Processor) publish(subject string, data any) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(subject, data); err != nil {
		p.logger.Error("failed to publish", "subject", subject, "error", err)
	}
}

func distinctTypes(actions []action.Action) []action.Type {
	seen := make(map[action.Type]bool)
	out := make([]action.Type, 0)
	for _, a := range actions {
		if !seen[a.Type] {
			seen[a.Type] = true
			out = append(out, a.Type)
		}
	}
	return out
}
