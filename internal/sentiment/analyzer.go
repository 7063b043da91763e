package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// Polarity is the overall tone of a text.
type Polarity string

const (
	Positive Polarity = "positive"
	Neutral  Polarity = "neutral"
	Negative Polarity = "negative"
)

// Sentiment summarises tone. Score is in [-0.9, 0.9].
type Sentiment struct {
	Overall  Polarity `json:"overall"`
	Score    float64  `json:"score"`
	Emotions []string `json:"emotions"`
}

const (
	baseScore = 0.5
	stepScore = 0.1
	maxScore  = 0.9
)

var defaultPositive = []string{
	"good", "great", "excellent", "amazing", "awesome", "happy", "glad", "love", "like",
	"progress", "success", "successful", "win", "perfect", "fantastic", "pleased", "excited",
	"thanks", "thank", "wonderful", "nice", "productive", "helpful", "improved", "solid",
}

var defaultNegative = []string{
	"bad", "terrible", "awful", "problem", "problems", "issue", "issues", "concern", "concerned",
	"worried", "delay", "delayed", "blocked", "blocker", "frustrated", "frustrating", "angry",
	"upset", "fail", "failed", "failure", "broken", "late", "risk", "unhappy", "disappointed",
}

var emotions = map[Polarity][]string{
	Positive: {"optimistic", "satisfied"},
	Negative: {"concerned", "frustrated"},
	Neutral:  {"neutral"},
}

// Analyzer scores text against fixed positive and negative word lists.
type Analyzer struct {
	positive map[string]bool
	negative map[string]bool
}

func New() *Analyzer {
	return &Analyzer{
		positive: wordSet(defaultPositive),
		negative: wordSet(defaultNegative),
	}
}

// Analyze counts lexicon hits over whitespace tokens. Each extra hit on the
// winning side moves the score 0.1 further from 0.5, up to 0.9.
func (a *Analyzer) Analyze(text string) Sentiment {
	var pos, neg int
	for _, tok := range strings.Fields(text) {
		w := strings.ToLower(strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		switch {
		case a.positive[w]:
			pos++
		case a.negative[w]:
			neg++
		}
	}

	overall, score := Neutral, 0.0
	switch {
	case pos > neg:
		overall = Positive
		score = math.Min(maxScore, baseScore+stepScore*float64(pos-neg))
	case neg > pos:
		overall = Negative
		score = math.Max(-maxScore, -(baseScore + stepScore*float64(neg-pos)))
	}

	return Sentiment{
		Overall:  overall,
		Score:    score,
		Emotions: append([]string(nil), emotions[overall]...),
	}
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
