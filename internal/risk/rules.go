// Package risk provides the scoring engine that combines resume claims with
// verification evidence into risk flags and a trust score.
package risk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-verifier/internal/types"
)

// ruleFunc evaluates one rule against the resume and the resolved evidence.
// Rules are pure: no I/O, no shared state, and the same inputs always produce
// the same flags. A rule that lacks the evidence it needs emits nothing;
// absence of proof is never treated as proof of absence.
type ruleFunc func(resume *types.ParsedResume, bundle *types.EvidenceBundle) []types.RiskFlag

// rule tags an evaluation function with the flag code it emits.
type rule struct {
	code types.FlagCode
	eval ruleFunc
}

// ruleSequence returns the fixed evaluation order. The order never changes
// which flags fire, only how equal-severity flags tie-break in the report.
func (e *Engine) ruleSequence() []rule {
	return []rule{
		{types.FlagGhostCompany, e.ghostCompanyFlags},
		{types.FlagTimelineMismatch, e.timelineMismatchFlags},
		{types.FlagHyperInflation, e.hyperInflationFlags},
		{types.FlagSkillMismatch, e.skillMismatchFlags},
		{types.FlagInvalidGitHub, e.invalidGitHubFlags},
		{types.FlagNameMismatch, e.nameMismatchFlags},
	}
}

// EvaluateFlags runs every rule in the fixed order and collects the fired
// flags. Verification results must already be resolved; a lookup that failed
// upstream arrives as an explicit unknown and triggers nothing here.
func (e *Engine) EvaluateFlags(resume *types.ParsedResume, companies []types.CompanyVerification, identity *types.IdentityVerification, linkedIn *types.LinkedInVerification) []types.RiskFlag {
	bundle := &types.EvidenceBundle{
		Companies: companies,
		Identity:  identity,
		LinkedIn:  linkedIn,
	}

	var flags []types.RiskFlag
	for _, r := range e.rules {
		flags = append(flags, r.eval(resume, bundle)...)
	}
	return flags
}

// ghostCompanyFlags fires once per claimed employer with an explicit negative
// registry answer and no discoverable website. An unknown registry answer
// never triggers.
func (e *Engine) ghostCompanyFlags(_ *types.ParsedResume, bundle *types.EvidenceBundle) []types.RiskFlag {
	var flags []types.RiskFlag
	for i := range bundle.Companies {
		company := bundle.Companies[i]
		if !company.LegallyRegistered.IsFalse() || company.HasWebsite {
			continue
		}
		flags = append(flags, types.RiskFlag{
			Code:     types.FlagGhostCompany,
			Severity: types.SeverityCritical,
			Message:  fmt.Sprintf("%s: no legal registration found and no website presence", company.CompanyName),
			Evidence: &types.EvidenceRef{Company: &company},
		})
	}
	return flags
}

// timelineMismatchFlags fires once per employer whose domain was registered
// after the candidate claims to have started working there.
func (e *Engine) timelineMismatchFlags(resume *types.ParsedResume, bundle *types.EvidenceBundle) []types.RiskFlag {
	var flags []types.RiskFlag
	for i := range bundle.Companies {
		company := bundle.Companies[i]
		if company.DomainCreationDate == nil {
			continue
		}
		start := resume.EarliestStart(company.CompanyName)
		if start == nil || !start.Before(*company.DomainCreationDate) {
			continue
		}
		flags = append(flags, types.RiskFlag{
			Code:     types.FlagTimelineMismatch,
			Severity: types.SeverityHigh,
			Message: fmt.Sprintf("%s: claimed start %s predates the company domain registration on %s",
				company.CompanyName, start.Format("2006-01-02"), company.DomainCreationDate.Format("2006-01-02")),
			Evidence: &types.EvidenceRef{Company: &company},
		})
	}
	return flags
}

// hyperInflationFlags fires at most once: a seniority title paired with a
// verified GitHub profile showing near-zero public footprint.
func (e *Engine) hyperInflationFlags(resume *types.ParsedResume, bundle *types.EvidenceBundle) []types.RiskFlag {
	identity := bundle.Identity
	if identity == nil || !identity.ProfileExists.IsTrue() {
		return nil
	}
	if identity.PublicRepoCount >= e.cfg.Rules.MinRepoCount || identity.FollowerCount >= e.cfg.Rules.MinFollowerCount {
		return nil
	}
	title := e.firstSeniorTitle(resume)
	if title == "" {
		return nil
	}
	return []types.RiskFlag{{
		Code:     types.FlagHyperInflation,
		Severity: types.SeverityHigh,
		Message: fmt.Sprintf("title %q claims seniority but GitHub shows %d public repos and %d followers",
			title, identity.PublicRepoCount, identity.FollowerCount),
		Evidence: &types.EvidenceRef{Identity: identity},
	}}
}

// skillMismatchFlags fires at most once, listing every claimed skill with no
// trace in the candidate's public repository languages.
func (e *Engine) skillMismatchFlags(resume *types.ParsedResume, bundle *types.EvidenceBundle) []types.RiskFlag {
	identity := bundle.Identity
	if identity == nil || !identity.ProfileExists.IsTrue() || len(resume.ClaimedSkills) == 0 {
		return nil
	}

	detected := make(map[string]bool, len(identity.DetectedLanguages))
	for _, lang := range identity.DetectedLanguages {
		detected[strings.ToLower(strings.TrimSpace(lang))] = true
	}

	var missing []string
	for _, skill := range resume.ClaimedSkills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || e.skillEvidenced(skill, detected) {
			continue
		}
		missing = append(missing, skill)
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return []types.RiskFlag{{
		Code:     types.FlagSkillMismatch,
		Severity: types.SeverityMedium,
		Message:  fmt.Sprintf("claimed skills with no trace in public code: %s", strings.Join(missing, ", ")),
		Evidence: &types.EvidenceRef{Identity: identity},
	}}
}

// invalidGitHubFlags fires when the resume links a GitHub profile that the
// lookup explicitly reported as nonexistent. Rate limits and timeouts arrive
// as unknown and trigger nothing.
func (e *Engine) invalidGitHubFlags(resume *types.ParsedResume, bundle *types.EvidenceBundle) []types.RiskFlag {
	if resume.GitHubURL == "" {
		return nil
	}
	identity := bundle.Identity
	if identity == nil || !identity.ProfileExists.IsFalse() {
		return nil
	}
	return []types.RiskFlag{{
		Code:     types.FlagInvalidGitHub,
		Severity: types.SeverityMedium,
		Message:  "resume links to a GitHub profile that does not exist",
		Evidence: &types.EvidenceRef{Identity: identity},
	}}
}

// nameMismatchFlags fires when a reachable LinkedIn profile's slug barely
// resembles the candidate name.
func (e *Engine) nameMismatchFlags(_ *types.ParsedResume, bundle *types.EvidenceBundle) []types.RiskFlag {
	linkedIn := bundle.LinkedIn
	if linkedIn == nil || !linkedIn.ProfileReachable.IsTrue() {
		return nil
	}
	if linkedIn.SlugNameSimilarity >= e.cfg.Rules.NameMatchCutoff {
		return nil
	}
	return []types.RiskFlag{{
		Code:     types.FlagNameMismatch,
		Severity: types.SeverityLow,
		Message:  fmt.Sprintf("LinkedIn profile slug barely matches the candidate name (similarity %.2f)", linkedIn.SlugNameSimilarity),
		Evidence: &types.EvidenceRef{LinkedIn: linkedIn},
	}}
}

// firstSeniorTitle returns the first work-history title containing a
// seniority keyword, or "" when none does.
func (e *Engine) firstSeniorTitle(resume *types.ParsedResume) string {
	for _, entry := range resume.WorkHistory {
		title := strings.ToLower(entry.Title)
		for _, keyword := range e.cfg.Rules.SeniorityKeywords {
			if strings.Contains(title, keyword) {
				return entry.Title
			}
		}
	}
	return ""
}

// skillEvidenced reports whether a claimed skill matches a detected language
// directly or through the synonym table.
func (e *Engine) skillEvidenced(skill string, detected map[string]bool) bool {
	if detected[skill] {
		return true
	}
	for _, lang := range e.cfg.Rules.SkillSynonyms[skill] {
		if detected[lang] {
			return true
		}
	}
	return false
}
