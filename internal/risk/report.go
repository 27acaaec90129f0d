// Package risk provides the scoring engine that combines resume claims with
// verification evidence into risk flags and a trust score.
package risk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-verifier/internal/types"
)

// AssembleReport orders the fired flags by descending severity and packages
// them with the aggregate score into the final report. Equal-severity flags
// keep the rule-evaluation order. A resume without a candidate name is
// refused rather than reported anonymously.
func AssembleReport(resume *types.ParsedResume, flags []types.RiskFlag, score types.Score) (*types.RiskReport, error) {
	name := strings.TrimSpace(resume.CandidateName)
	if name == "" {
		return nil, &ValidationError{Message: "candidate name is required", Field: "candidate_name"}
	}

	ordered := make([]types.RiskFlag, len(flags))
	copy(ordered, flags)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Severity.Rank() < ordered[j].Severity.Rank()
	})

	return &types.RiskReport{
		CandidateName: name,
		TrustScore:    score.TrustScore,
		RiskLevel:     score.RiskLevel,
		Flags:         ordered,
		Summary:       summarize(name, ordered, score),
	}, nil
}

// summarize builds the one-paragraph human summary shown to screeners. The
// text is a pure function of the inputs so repeated analyses stay identical.
func summarize(name string, flags []types.RiskFlag, score types.Score) string {
	if len(flags) == 0 {
		return fmt.Sprintf("%s: no inconsistencies found; every claim held up against the available evidence. Trust score %d (%s risk).",
			name, score.TrustScore, strings.ToLower(string(score.RiskLevel)))
	}

	counts := make(map[types.Severity]int, 4)
	for _, flag := range flags {
		counts[flag.Severity]++
	}
	parts := make([]string, 0, 4)
	for _, severity := range []types.Severity{
		types.SeverityCritical, types.SeverityHigh, types.SeverityMedium, types.SeverityLow,
	} {
		if n := counts[severity]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, strings.ToLower(string(severity))))
		}
	}

	return fmt.Sprintf("%s: %d finding(s) (%s). Trust score %d (%s risk).",
		name, len(flags), strings.Join(parts, ", "), score.TrustScore, strings.ToLower(string(score.RiskLevel)))
}
