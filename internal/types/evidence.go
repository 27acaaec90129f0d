// Package types provides type definitions for structured data used throughout the resume-verifier system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// TriState records a verification outcome that must distinguish an explicit
// negative answer from evidence that could not be gathered. Rules that demand
// an explicit negative (ghost company, invalid profile) check IsFalse; an
// unknown value never triggers any rule.
type TriState string

// TriState values.
const (
	TriUnknown TriState = "unknown"
	TriFalse   TriState = "false"
	TriTrue    TriState = "true"
)

// IsTrue reports whether the outcome is an explicit positive.
func (t TriState) IsTrue() bool { return t == TriTrue }

// IsFalse reports whether the outcome is an explicit negative, not merely unknown.
func (t TriState) IsFalse() bool { return t == TriFalse }

// Known reports whether any definite answer was obtained.
func (t TriState) Known() bool { return t == TriTrue || t == TriFalse }

// RegistrySource identifies which company registry produced a verification answer.
type RegistrySource string

// RegistrySource values.
const (
	RegistryUK    RegistrySource = "UK"
	RegistryUS    RegistrySource = "US"
	RegistryIndia RegistrySource = "India"
	RegistryNone  RegistrySource = "none"
)

// CompanyVerification is the resolved evidence for a single claimed employer.
type CompanyVerification struct {
	CompanyName        string         `json:"company_name"`
	LegallyRegistered  TriState       `json:"legally_registered"`
	RegistrySource     RegistrySource `json:"registry_source"`
	HasWebsite         bool           `json:"has_website"`
	HasLinkedInPage    bool           `json:"has_linkedin_page"`
	DomainCreationDate *time.Time     `json:"domain_creation_date,omitempty"`
}

// IdentityVerification is the resolved GitHub evidence for a candidate.
type IdentityVerification struct {
	ProfileExists     TriState   `json:"profile_exists"`
	AccountCreated    *time.Time `json:"account_created,omitempty"`
	PublicRepoCount   int        `json:"public_repo_count"`
	FollowerCount     int        `json:"follower_count"`
	DetectedLanguages []string   `json:"detected_languages,omitempty"`
	LastActivityDate  *time.Time `json:"last_activity_date,omitempty"`
}

// LinkedInVerification is the resolved professional-network evidence for a candidate.
type LinkedInVerification struct {
	ProfileReachable   TriState `json:"profile_reachable"`
	SlugNameSimilarity float64  `json:"slug_name_similarity"`
}

// EvidenceBundle collects every resolved verification result for one analysis.
// Collaborators must resolve all lookups before the scoring engine runs; a
// lookup that failed or was skipped appears as an explicit unknown result,
// never as a missing field with implied meaning.
type EvidenceBundle struct {
	Companies []CompanyVerification `json:"companies,omitempty"`
	Identity  *IdentityVerification `json:"identity,omitempty"`
	LinkedIn  *LinkedInVerification `json:"linkedin,omitempty"`
}

// ScoreInput is a replay document: a parsed resume plus its fully resolved
// evidence bundle, scored with no network activity.
type ScoreInput struct {
	Resume   ParsedResume   `json:"resume"`
	Evidence EvidenceBundle `json:"evidence"`
}
