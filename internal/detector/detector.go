package detector

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/notewise/internal/action"
	"github.com/MikeSquared-Agency/notewise/internal/entity"
	"github.com/MikeSquared-Agency/notewise/internal/scoring"
)

// Pattern is one named phrasing a detector looks for. Named capture groups
// (?P<name>...) are handed to the payload builder.
type Pattern struct {
	Name  string `yaml:"name"`
	Regex string `yaml:"regex"`
}

// Match is a single hit of a pattern against the input text.
type Match struct {
	Pattern string
	Text    string // trimmed matched span
	Start   int
	End     int
	groups  map[string]string
}

// Group returns a named capture, or "" when the pattern has no such group or
// it did not participate.
func (m Match) Group(name string) string {
	return m.groups[name]
}

// Input is what every detector sees for one analysis.
type Input struct {
	Text         string
	UserID       string
	TranscriptID *string
	Entities     entity.Entities
	Now          time.Time
	NewID        func() string
}

// BuildFunc fills the type-specific payload of a from the match.
type BuildFunc func(a *action.Action, m Match, in Input) error

// Definition declares a detector: the action type it emits, the patterns it
// scans for and how a match becomes a payload.
type Definition struct {
	Type     action.Type
	Family   string
	Patterns []Pattern
	Build    BuildFunc
}

type compiledPattern struct {
	Pattern
	regex *regexp.Regexp
}

// Detector runs one Definition. It is immutable after New and safe for
// concurrent use.
type Detector struct {
	def      Definition
	patterns []compiledPattern
}

// New compiles every pattern of def and fails on the first bad regex.
func New(def Definition) (*Detector, error) {
	if !def.Type.Valid() {
		return nil, fmt.Errorf("new detector: unknown action type %q", def.Type)
	}
	if def.Build == nil {
		return nil, fmt.Errorf("new detector %s: no payload builder", def.Type)
	}
	compiled := make([]compiledPattern, 0, len(def.Patterns))
	for _, p := range def.Patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern %s: %w", def.Type, p.Name, err)
		}
		compiled = append(compiled, compiledPattern{Pattern: p, regex: re})
	}
	return &Detector{def: def, patterns: compiled}, nil
}

// NewAll builds a detector per definition, preserving order.
func NewAll(defs []Definition) ([]*Detector, error) {
	out := make([]*Detector, 0, len(defs))
	for _, def := range defs {
		d, err := New(def)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (d *Detector) Type() action.Type { return d.def.Type }

// Detect emits one pending action per match of every pattern, in pattern
// order then text order. Overlapping matches from different patterns are all
// kept.
func (d *Detector) Detect(in Input) ([]action.Action, error) {
	newID := in.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	var out []action.Action
	for _, p := range d.patterns {
		names := p.regex.SubexpNames()
		for _, idx := range p.regex.FindAllStringSubmatchIndex(in.Text, -1) {
			m := newMatch(p.Name, in.Text, idx, names)
			if m.Text == "" {
				continue
			}

			a := action.Action{
				ID:           newID(),
				Type:         d.def.Type,
				Title:        scoring.Title(m.Text),
				Description:  m.Text,
				Priority:     scoring.DeterminePriority(m.Text),
				Confidence:   scoring.Confidence(m.Text),
				Reasoning:    fmt.Sprintf("Matched %s pattern %q on %q", d.def.Family, p.Name, m.Text),
				Status:       action.StatusPending,
				CreatedAt:    in.Now,
				UpdatedAt:    in.Now,
				SourceText:   in.Text,
				UserID:       in.UserID,
				TranscriptID: in.TranscriptID,
			}
			if err := d.def.Build(&a, m, in); err != nil {
				return nil, fmt.Errorf("build %s from pattern %s: %w", d.def.Type, p.Name, err)
			}
			out = append(out, a)
		}
	}
	return out, nil
}

func newMatch(pattern, text string, idx []int, names []string) Match {
	m := Match{
		Pattern: pattern,
		Text:    strings.TrimSpace(text[idx[0]:idx[1]]),
		Start:   idx[0],
		End:     idx[1],
		groups:  make(map[string]string),
	}
	for i, name := range names {
		if name == "" || idx[2*i] < 0 {
			continue
		}
		m.groups[name] = strings.TrimSpace(text[idx[2*i]:idx[2*i+1]])
	}
	return m
}
