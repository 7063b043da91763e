package detector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/notewise/internal/action"
)

// PatternFile is the on-disk format for extra phrasings:
//
//	patterns:
//	  - type: task
//	    name: jira_ticket
//	    regex: '(?i)\bticket\s+[A-Z]+-\d+[^.!?\n]*'
type PatternFile struct {
	Patterns []ExtraPattern `yaml:"patterns"`
}

// ExtraPattern is a Pattern tagged with the action type it belongs to.
type ExtraPattern struct {
	Type    action.Type `yaml:"type"`
	Pattern `yaml:",inline"`
}

// LoadPatterns reads a YAML pattern file.
func LoadPatterns(path string) ([]ExtraPattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	var f PatternFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse pattern file %s: %w", path, err)
	}
	for i, p := range f.Patterns {
		if p.Name == "" || p.Regex == "" {
			return nil, fmt.Errorf("pattern file %s: entry %d needs name and regex", path, i)
		}
	}
	return f.Patterns, nil
}

// Extend appends extra patterns to the definition of their action type. The
// input definitions are not modified.
func Extend(defs []Definition, extra []ExtraPattern) ([]Definition, error) {
	out := make([]Definition, len(defs))
	index := make(map[action.Type]int, len(defs))
	for i, def := range defs {
		def.Patterns = append([]Pattern(nil), def.Patterns...)
		out[i] = def
		index[def.Type] = i
	}
	for _, p := range extra {
		i, ok := index[p.Type]
		if !ok {
			return nil, fmt.Errorf("extend pattern %s: no detector for type %q", p.Name, p.Type)
		}
		out[i].Patterns = append(out[i].Patterns, p.Pattern)
	}
	return out, nil
}
