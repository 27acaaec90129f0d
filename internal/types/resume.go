// Package types provides type definitions for structured data used throughout the resume-verifier system.
package types

import (
	"strings"
	"time"
)

// ParsedResume holds the candidate-declared facts extracted from a resume document.
type ParsedResume struct {
	CandidateName string      `json:"candidate_name"`
	Email         string      `json:"email,omitempty"`
	Phone         string      `json:"phone,omitempty"`
	GitHubURL     string      `json:"github_url,omitempty"`
	LinkedInURL   string      `json:"linkedin_url,omitempty"`
	PortfolioURL  string      `json:"portfolio_url,omitempty"`
	ClaimedSkills []string    `json:"claimed_skills,omitempty"`
	WorkHistory   []WorkEntry `json:"work_history,omitempty"`
}

// WorkEntry is a single claimed employment: company, title, and the claimed period.
type WorkEntry struct {
	CompanyName string     `json:"company_name"`
	Title       string     `json:"title"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// CompanyNames returns the distinct company names in work-history order.
func (r *ParsedResume) CompanyNames() []string {
	seen := make(map[string]bool, len(r.WorkHistory))
	names := make([]string, 0, len(r.WorkHistory))
	for _, entry := range r.WorkHistory {
		key := normalizeCompanyKey(entry.CompanyName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, entry.CompanyName)
	}
	return names
}

// EarliestStart returns the earliest claimed start date for the named company,
// or nil when no dated entry exists for it.
func (r *ParsedResume) EarliestStart(companyName string) *time.Time {
	key := normalizeCompanyKey(companyName)
	var earliest *time.Time
	for i := range r.WorkHistory {
		entry := &r.WorkHistory[i]
		if normalizeCompanyKey(entry.CompanyName) != key || entry.StartDate == nil {
			continue
		}
		if earliest == nil || entry.StartDate.Before(*earliest) {
			earliest = entry.StartDate
		}
	}
	return earliest
}

func normalizeCompanyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
