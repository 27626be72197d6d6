// Package matching decides shortlist/reject for a CV given its extracted
// skills and the configured keyword criteria.
package matching

import (
	"strings"

	"cv-shortlisting-backend/internal/skills"
)

// Mode selects how required/optional keywords are combined.
type Mode string

const (
	ModeAnd      Mode = "AND"
	ModeOr       Mode = "OR"
	ModeWeighted Mode = "WEIGHTED"
)

// ParseMode maps a raw string onto a Mode. Unrecognized input falls back to
// AND; the ok result lets callers log the fallback.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(strings.ToUpper(strings.TrimSpace(raw))) {
	case ModeAnd:
		return ModeAnd, true
	case ModeOr:
		return ModeOr, true
	case ModeWeighted:
		return ModeWeighted, true
	}
	return ModeAnd, false
}

// Weighted-mode point values.
const (
	requiredPoints = 10
	optionalPoints = 5
)

// Config holds the keyword criteria for one batch. It is immutable for the
// duration of a batch and safe to share across workers.
type Config struct {
	Required  []string
	Optional  []string
	Excluded  []string
	Mode      Mode
	Threshold int
}

// NewConfig normalizes keyword lists (trimmed, lowercased, deduplicated).
func NewConfig(required, optional, excluded []string, mode Mode, threshold int) Config {
	return Config{
		Required:  normalizeKeywords(required),
		Optional:  normalizeKeywords(optional),
		Excluded:  normalizeKeywords(excluded),
		Mode:      mode,
		Threshold: threshold,
	}
}

// Matches applies the configured criteria. Excluded keywords are matched
// whole-word against the raw content and take precedence over everything
// else; required/optional keywords are matched against the canonical skill
// set.
func (c Config) Matches(content string, skillSet []string) bool {
	if c.ContainsExcluded(content) {
		return false
	}
	have := toSet(skillSet)
	switch c.Mode {
	case ModeOr:
		for _, req := range c.Required {
			if _, ok := have[req]; ok {
				return true
			}
		}
		return false
	case ModeWeighted:
		score, max := c.WeightedScore(skillSet)
		if max == 0 {
			return false
		}
		return (score*100)/max >= c.Threshold
	default:
		for _, req := range c.Required {
			if _, ok := have[req]; !ok {
				return false
			}
		}
		return true
	}
}

// ContainsExcluded reports whether any excluded keyword appears as a whole
// word in the content.
func (c Config) ContainsExcluded(content string) bool {
	for _, kw := range c.Excluded {
		if skills.ContainsWord(content, kw) {
			return true
		}
	}
	return false
}

// WeightedScore returns the earned and maximum possible points for weighted
// mode: each required keyword present is worth 10, each optional 5.
func (c Config) WeightedScore(skillSet []string) (score, max int) {
	have := toSet(skillSet)
	for _, req := range c.Required {
		max += requiredPoints
		if _, ok := have[req]; ok {
			score += requiredPoints
		}
	}
	for _, opt := range c.Optional {
		max += optionalPoints
		if _, ok := have[opt]; ok {
			score += optionalPoints
		}
	}
	return score, max
}

func normalizeKeywords(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, kw := range raw {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
