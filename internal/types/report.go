// Package types provides type definitions for structured data used throughout the resume-verifier system.
package types

// FlagCode names a specific inconsistency between claimed and verified facts.
type FlagCode string

// FlagCode values.
const (
	FlagGhostCompany     FlagCode = "GHOST_COMPANY"
	FlagTimelineMismatch FlagCode = "TIMELINE_MISMATCH"
	FlagHyperInflation   FlagCode = "HYPER_INFLATION"
	FlagSkillMismatch    FlagCode = "SKILL_MISMATCH"
	FlagInvalidGitHub    FlagCode = "INVALID_GITHUB"
	FlagNameMismatch     FlagCode = "NAME_MISMATCH"
)

// Severity grades how damaging a flag is to the candidate's trustworthiness.
type Severity string

// Severity values, most damaging first.
const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Rank returns the sort position of the severity, 0 for the most damaging.
// Unrecognized severities sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// RiskLevel buckets a trust score into a screening recommendation.
type RiskLevel string

// RiskLevel values.
const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// EvidenceRef points at the verification result(s) that triggered a flag.
// At most the fields relevant to the rule are set; the referenced records are
// serialized inline so a stored report remains auditable on its own.
type EvidenceRef struct {
	Company  *CompanyVerification  `json:"company,omitempty"`
	Identity *IdentityVerification `json:"identity,omitempty"`
	LinkedIn *LinkedInVerification `json:"linkedin,omitempty"`
}

// RiskFlag is a single named finding. Flags are immutable once created.
type RiskFlag struct {
	Code     FlagCode     `json:"code"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
	Evidence *EvidenceRef `json:"evidence,omitempty"`
}

// Score is the aggregate outcome over a set of fired flags.
type Score struct {
	TrustScore int       `json:"trust_score"`
	RiskLevel  RiskLevel `json:"risk_level"`
}

// RiskReport is the final product of one analysis: the trust score, its risk
// bucket, and the fired flags ordered by descending severity. Reports are
// never mutated after assembly.
type RiskReport struct {
	CandidateName string     `json:"candidate_name"`
	TrustScore    int        `json:"trust_score"`
	RiskLevel     RiskLevel  `json:"risk_level"`
	Flags         []RiskFlag `json:"flags"`
	Summary       string     `json:"summary,omitempty"`
}
