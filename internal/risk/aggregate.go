// Package risk provides the scoring engine that combines resume claims with
// verification evidence into risk flags and a trust score.
package risk

import "github.com/jonathan/resume-verifier/internal/types"

// Aggregator folds a set of fired flags into a trust score and risk level.
// The model is conservative: every candidate starts at the baseline and
// evidence can only subtract, never add back past perfect.
type Aggregator struct {
	cfg ScoringConfig
}

// NewAggregator builds an aggregator around an immutable scoring
// configuration. The penalty map is copied so later caller mutations cannot
// change scoring behavior.
func NewAggregator(cfg ScoringConfig) *Aggregator {
	penalties := make(map[types.Severity]int, len(cfg.Penalties))
	for severity, penalty := range cfg.Penalties {
		penalties[severity] = penalty
	}
	cfg.Penalties = penalties
	return &Aggregator{cfg: cfg}
}

// Aggregate subtracts the per-severity penalty for every fired flag from the
// baseline, clamps the sum to [0, 100], and buckets the result. Penalties are
// additive: two critical flags subtract twice the critical penalty.
func (a *Aggregator) Aggregate(flags []types.RiskFlag) types.Score {
	score := baselineScore
	for _, flag := range flags {
		score -= a.cfg.Penalties[flag.Severity]
	}
	if score < 0 {
		score = 0
	}
	if score > baselineScore {
		score = baselineScore
	}
	return types.Score{TrustScore: score, RiskLevel: a.Level(score)}
}

// Level buckets a clamped score into a risk level. Threshold values belong to
// the safer bucket: a score exactly at the LOW threshold is LOW.
func (a *Aggregator) Level(score int) types.RiskLevel {
	switch {
	case score >= a.cfg.Thresholds.Low:
		return types.RiskLow
	case score >= a.cfg.Thresholds.Medium:
		return types.RiskMedium
	case score >= a.cfg.Thresholds.High:
		return types.RiskHigh
	default:
		return types.RiskCritical
	}
}
