// Package risk provides the scoring engine that combines resume claims with
// verification evidence into risk flags and a trust score.
package risk

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-verifier/internal/types"
)

// Default penalties subtracted from the baseline score per fired flag.
const (
	defaultCriticalPenalty = 40
	defaultHighPenalty     = 20
	defaultMediumPenalty   = 10
	defaultLowPenalty      = 5
)

// Default risk-level thresholds. A score at or above a threshold takes the
// lower (safer) label, so exactly 70 is LOW.
const (
	defaultLowThreshold    = 70
	defaultMediumThreshold = 50
	defaultHighThreshold   = 30
)

// Rule trigger defaults.
const (
	defaultMinRepoCount     = 3
	defaultMinFollowerCount = 5
	defaultNameMatchCutoff  = 0.5
	baselineScore           = 100
)

// ScoringConfig fixes the severity penalties and risk-level thresholds used
// by the aggregator. The engine copies it at construction and never mutates
// it afterwards.
type ScoringConfig struct {
	Penalties  map[types.Severity]int `json:"penalties"`
	Thresholds RiskThresholds         `json:"thresholds"`
}

// RiskThresholds are the inclusive lower score bounds of the LOW, MEDIUM and
// HIGH buckets; anything below High is CRITICAL.
type RiskThresholds struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// RuleConfig carries the data-driven parts of the flag rules: seniority
// vocabulary, skill-synonym normalization, and numeric trigger thresholds.
type RuleConfig struct {
	SeniorityKeywords []string            `json:"seniority_keywords"`
	SkillSynonyms     map[string][]string `json:"skill_synonyms"`
	MinRepoCount      int                 `json:"min_repo_count"`
	MinFollowerCount  int                 `json:"min_follower_count"`
	NameMatchCutoff   float64             `json:"name_match_cutoff"`
}

// Config is the full engine configuration.
type Config struct {
	Scoring ScoringConfig `json:"scoring"`
	Rules   RuleConfig    `json:"rules"`
}

// DefaultScoringConfig returns the standard penalty and threshold table.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Penalties: map[types.Severity]int{
			types.SeverityCritical: defaultCriticalPenalty,
			types.SeverityHigh:     defaultHighPenalty,
			types.SeverityMedium:   defaultMediumPenalty,
			types.SeverityLow:      defaultLowPenalty,
		},
		Thresholds: RiskThresholds{
			Low:    defaultLowThreshold,
			Medium: defaultMediumThreshold,
			High:   defaultHighThreshold,
		},
	}
}

// DefaultRuleConfig returns the standard rule vocabulary and thresholds.
// The keyword and synonym lists are a minimum working set, not an exhaustive
// taxonomy; deployments extend them through configuration.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		SeniorityKeywords: []string{
			"senior", "lead", "principal", "staff",
			"architect", "head", "director", "vp", "chief", "manager",
		},
		SkillSynonyms: map[string][]string{
			"react":            {"javascript", "typescript"},
			"reactjs":          {"javascript", "typescript"},
			"node":             {"javascript", "typescript"},
			"nodejs":           {"javascript", "typescript"},
			"express":          {"javascript", "typescript"},
			"vue":              {"javascript", "vue"},
			"angular":          {"typescript", "javascript"},
			"js":               {"javascript"},
			"ts":               {"typescript"},
			"django":           {"python"},
			"flask":            {"python"},
			"fastapi":          {"python"},
			"pandas":           {"python", "jupyter notebook"},
			"numpy":            {"python", "jupyter notebook"},
			"machine learning": {"python", "jupyter notebook"},
			"spring":           {"java"},
			"spring boot":      {"java"},
			"rails":            {"ruby"},
			"laravel":          {"php"},
			"dotnet":           {"c#"},
			".net":             {"c#"},
			"golang":           {"go"},
			"docker":           {"dockerfile"},
			"terraform":        {"hcl"},
			"bash":             {"shell"},
			"k8s":              {"yaml", "go"},
			"kubernetes":       {"yaml", "go"},
		},
		MinRepoCount:     defaultMinRepoCount,
		MinFollowerCount: defaultMinFollowerCount,
		NameMatchCutoff:  defaultNameMatchCutoff,
	}
}

// DefaultConfig returns the full default engine configuration.
func DefaultConfig() Config {
	return Config{
		Scoring: DefaultScoringConfig(),
		Rules:   DefaultRuleConfig(),
	}
}

// Validate checks the configuration for values the engine cannot score with.
func (c *Config) Validate() error {
	for _, severity := range []types.Severity{
		types.SeverityCritical, types.SeverityHigh, types.SeverityMedium, types.SeverityLow,
	} {
		penalty, ok := c.Scoring.Penalties[severity]
		if !ok {
			return &ConfigError{Message: "missing penalty for severity " + string(severity)}
		}
		if penalty < 0 {
			return &ConfigError{Message: "negative penalty for severity " + string(severity)}
		}
	}
	t := c.Scoring.Thresholds
	if t.Low <= t.Medium || t.Medium <= t.High {
		return &ConfigError{Message: "risk thresholds must be strictly descending (low > medium > high)"}
	}
	if t.High < 0 || t.Low > baselineScore {
		return &ConfigError{Message: "risk thresholds must fall within the score range"}
	}
	if c.Rules.NameMatchCutoff < 0 || c.Rules.NameMatchCutoff > 1 {
		return &ConfigError{Message: "name match cutoff must be within [0, 1]"}
	}
	return nil
}

// normalized returns a deep copy with lower-cased vocabulary so rule
// evaluation never touches caller-owned maps or slices.
func (c Config) normalized() Config {
	out := c
	out.Scoring.Penalties = make(map[types.Severity]int, len(c.Scoring.Penalties))
	for severity, penalty := range c.Scoring.Penalties {
		out.Scoring.Penalties[severity] = penalty
	}
	out.Rules.SeniorityKeywords = make([]string, 0, len(c.Rules.SeniorityKeywords))
	for _, keyword := range c.Rules.SeniorityKeywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			out.Rules.SeniorityKeywords = append(out.Rules.SeniorityKeywords, keyword)
		}
	}
	out.Rules.SkillSynonyms = make(map[string][]string, len(c.Rules.SkillSynonyms))
	for skill, languages := range c.Rules.SkillSynonyms {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		copied := make([]string, 0, len(languages))
		for _, lang := range languages {
			lang = strings.ToLower(strings.TrimSpace(lang))
			if lang != "" {
				copied = append(copied, lang)
			}
		}
		sort.Strings(copied)
		out.Rules.SkillSynonyms[skill] = copied
	}
	return out
}
