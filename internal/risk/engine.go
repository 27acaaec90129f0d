// Package risk provides the scoring engine that combines resume claims with
// verification evidence into risk flags and a trust score.
//
// The engine is synchronous and side-effect-free: it performs no I/O, holds
// no per-request state, and produces identical output for identical input.
// All network evidence must be resolved by the verification collaborators
// before the engine runs; transient lookup failures arrive as explicit
// unknown results, never as errors.
package risk

import (
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-verifier/internal/types"
)

// Engine evaluates flag rules and aggregates their outcome. Construct once at
// startup and share freely; the configuration is copied and read-only, so
// concurrent Analyze calls need no locking.
type Engine struct {
	cfg   Config
	rules []rule
	agg   *Aggregator
	now   func() time.Time
}

// NewEngine builds an engine from the given configuration.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg: cfg.normalized(),
		agg: NewAggregator(cfg.Scoring),
		now: time.Now,
	}
	e.rules = e.ruleSequence()
	return e, nil
}

// NewDefaultEngine builds an engine with the default configuration.
func NewDefaultEngine() *Engine {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		// Default configuration is validated by tests; reaching this is a bug.
		panic(err)
	}
	return engine
}

// Analyze runs the full pipeline: validate the resume, evaluate every rule,
// aggregate the score, and assemble the report.
func (e *Engine) Analyze(resume *types.ParsedResume, bundle *types.EvidenceBundle) (*types.RiskReport, error) {
	if bundle == nil {
		bundle = &types.EvidenceBundle{}
	}
	if err := ValidateResume(resume, e.now()); err != nil {
		return nil, err
	}
	flags := e.EvaluateFlags(resume, bundle.Companies, bundle.Identity, bundle.LinkedIn)
	score := e.AggregateScore(flags)
	return AssembleReport(resume, flags, score)
}

// AggregateScore folds the fired flags into a trust score and risk level.
func (e *Engine) AggregateScore(flags []types.RiskFlag) types.Score {
	return e.agg.Aggregate(flags)
}

// Config returns the active engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ValidateResume rejects resumes the engine cannot score: a missing candidate
// name, a work entry ending before it starts, or a start date in the future
// relative to now.
func ValidateResume(resume *types.ParsedResume, now time.Time) error {
	if resume == nil {
		return &ValidationError{Message: "resume is required"}
	}
	if strings.TrimSpace(resume.CandidateName) == "" {
		return &ValidationError{Message: "candidate name is required", Field: "candidate_name"}
	}
	for i, entry := range resume.WorkHistory {
		if entry.StartDate != nil && entry.EndDate != nil && entry.EndDate.Before(*entry.StartDate) {
			return &ValidationError{
				Message: "end date precedes start date for " + entry.CompanyName,
				Field:   workHistoryField(i),
			}
		}
		if entry.StartDate != nil && entry.StartDate.After(now) {
			return &ValidationError{
				Message: "start date is in the future for " + entry.CompanyName,
				Field:   workHistoryField(i),
			}
		}
	}
	return nil
}

func workHistoryField(index int) string {
	return "work_history[" + strconv.Itoa(index) + "]"
}
