package analyzer

import (
	"time"

	"github.com/MikeSquared-Agency/notewise/internal/action"
	"github.com/MikeSquared-Agency/notewise/internal/entity"
	"github.com/MikeSquared-Agency/notewise/internal/sentiment"
)

// Result is everything one analysis produced. It is built fresh per call and
// owned by the caller.
type Result struct {
	ID                string              `json:"id"`
	SourceText        string              `json:"source_text"`
	AnalysisTimestamp time.Time           `json:"analysis_timestamp"`
	ProcessingTimeMs  int64               `json:"processing_time_ms"`
	OverallConfidence float64             `json:"overall_confidence"` // mean of action confidences, 0 when there are none
	Actions           []action.Action     `json:"actions"`            // detector order
	Summary           string              `json:"summary"`
	KeyInsights       []string            `json:"key_insights"`
	Sentiment         sentiment.Sentiment `json:"sentiment"`
	Entities          entity.Entities     `json:"entities"`
}

// AnalysisError is the only error AnalyzeText returns. The computation is
// stateless, so callers may simply retry.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return "analysis failed: " + e.Err.Error()
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
