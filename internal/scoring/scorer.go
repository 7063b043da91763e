package scoring

import (
	"regexp"
	"strings"

	"github.com/MikeSquared-Agency/notewise/internal/action"
)

const (
	baseConfidence = 0.5
	maxConfidence  = 0.95

	strongKeywordBoost = 0.2
	dateTimeBoost      = 0.15
	nameBoost          = 0.1
)

var strongKeywords = []string{"schedule", "meeting", "call", "appointment", "deadline"}

var (
	dateTimeRe = regexp.MustCompile(`(?i)\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday|tomorrow|next|today)\b|\b\d{1,2}:\d{2}\b`)
	nameRe     = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)

	urgentRe = regexp.MustCompile(`(?i)\b(?:urgent|urgently|asap|critical)\b`)
	highRe   = regexp.MustCompile(`(?i)\b(?:important|high|priority)\b`)
	lowRe    = regexp.MustCompile(`(?i)\b(?:low|when you can|sometime)\b`)
)

// Confidence scores a matched span. It starts at 0.5 and only ever adds,
// capped at 0.95.
func Confidence(match string) float64 {
	score := baseConfidence
	lower := strings.ToLower(match)

	for _, kw := range strongKeywords {
		if strings.Contains(lower, kw) {
			score += strongKeywordBoost
			break
		}
	}
	if dateTimeRe.MatchString(match) {
		score += dateTimeBoost
	}
	if nameRe.MatchString(match) {
		score += nameBoost
	}
	return ceiling(score)
}

// DeterminePriority maps urgency keywords to a priority. Urgent wins over
// high, high over low.
func DeterminePriority(text string) action.Priority {
	switch {
	case urgentRe.MatchString(text):
		return action.PriorityUrgent
	case highRe.MatchString(text):
		return action.PriorityHigh
	case lowRe.MatchString(text):
		return action.PriorityLow
	default:
		return action.PriorityMedium
	}
}

// HasDateTime reports whether text carries a date or clock-time cue.
func HasDateTime(text string) bool {
	return dateTimeRe.MatchString(text) || clock12Re.MatchString(text)
}

func ceiling(score float64) float64 {
	if score > maxConfidence {
		return maxConfidence
	}
	return score
}
