// Package observability provides Prometheus metrics and formatted CLI output
// for the verification service.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/resume-verifier/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintParsedResume outputs a human-readable summary of the extracted resume facts.
func (p *Printer) PrintParsedResume(resume *types.ParsedResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Candidate: %s\n", resume.CandidateName))
	if resume.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:     %s\n", resume.Email))
	}
	if resume.GitHubURL != "" {
		sb.WriteString(fmt.Sprintf("GitHub:    %s\n", resume.GitHubURL))
	}
	if resume.LinkedInURL != "" {
		sb.WriteString(fmt.Sprintf("LinkedIn:  %s\n", resume.LinkedInURL))
	}

	if len(resume.ClaimedSkills) > 0 {
		sb.WriteString("\nClaimed Skills:\n")
		count := min(len(resume.ClaimedSkills), maxItemsToShow)
		skills := strings.Join(resume.ClaimedSkills[:count], ", ")
		if len(skills) > 50 {
			skills = skills[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", skills))
		if len(resume.ClaimedSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.ClaimedSkills)-maxItemsToShow))
		}
	}

	if len(resume.WorkHistory) > 0 {
		sb.WriteString("\nWork History:\n")
		count := min(len(resume.WorkHistory), maxItemsToShow)
		for i := 0; i < count; i++ {
			entry := resume.WorkHistory[i]
			sb.WriteString(fmt.Sprintf("  • %s", entry.CompanyName))
			if entry.Title != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", entry.Title))
			}
			if period := formatPeriod(entry.StartDate, entry.EndDate); period != "" {
				sb.WriteString(fmt.Sprintf(", %s", period))
			}
			sb.WriteString("\n")
		}
		if len(resume.WorkHistory) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.WorkHistory)-maxItemsToShow))
		}
	}

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvidence outputs a summary of the gathered verification evidence.
func (p *Printer) PrintEvidence(bundle *types.EvidenceBundle) {
	if bundle == nil {
		return
	}

	var sb strings.Builder

	if len(bundle.Companies) > 0 {
		sb.WriteString("Companies:\n")
		for _, company := range bundle.Companies {
			sb.WriteString(fmt.Sprintf("  • %s: %s", company.CompanyName, registrationLabel(company)))
			markers := []string{}
			if company.HasWebsite {
				markers = append(markers, "✓web")
			}
			if company.HasLinkedInPage {
				markers = append(markers, "✓linkedin")
			}
			if len(markers) > 0 {
				sb.WriteString(fmt.Sprintf(" [%s]", strings.Join(markers, " ")))
			}
			sb.WriteString("\n")
			if company.DomainCreationDate != nil {
				sb.WriteString(fmt.Sprintf("    domain since %s\n", company.DomainCreationDate.Format("Jan 2006")))
			}
		}
		sb.WriteString("\n")
	}

	if bundle.Identity != nil {
		sb.WriteString(fmt.Sprintf("GitHub:   %s\n", triLabel(bundle.Identity.ProfileExists, "verified", "not found")))
		if bundle.Identity.ProfileExists.IsTrue() {
			sb.WriteString(fmt.Sprintf("  Repos: %d  Followers: %d\n", bundle.Identity.PublicRepoCount, bundle.Identity.FollowerCount))
			if len(bundle.Identity.DetectedLanguages) > 0 {
				languages := strings.Join(bundle.Identity.DetectedLanguages, ", ")
				if len(languages) > 40 {
					languages = languages[:37] + "..."
				}
				sb.WriteString(fmt.Sprintf("  Languages: %s\n", languages))
			}
		}
	}

	if bundle.LinkedIn != nil {
		sb.WriteString(fmt.Sprintf("LinkedIn: %s", triLabel(bundle.LinkedIn.ProfileReachable, "reachable", "not found")))
		if bundle.LinkedIn.ProfileReachable.IsTrue() {
			sb.WriteString(fmt.Sprintf(" (name match %.2f)", bundle.LinkedIn.SlugNameSimilarity))
		}
		sb.WriteString("\n")
	}

	content := strings.TrimSuffix(sb.String(), "\n")
	if content == "" {
		content = "No evidence gathered"
	}
	p.printBox("GATHERED EVIDENCE", content)
}

// PrintReport outputs the final risk report with its fired flags.
func (p *Printer) PrintReport(report *types.RiskReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate:   %s\n", report.CandidateName))
	sb.WriteString(fmt.Sprintf("Trust Score: %d/100\n", report.TrustScore))
	sb.WriteString(fmt.Sprintf("Risk Level:  %s\n", report.RiskLevel))

	if len(report.Flags) == 0 {
		sb.WriteString("\n✅ NO RISK FLAGS")
	} else {
		sb.WriteString(fmt.Sprintf("\nFound %d flags:\n\n", len(report.Flags)))
		for i, flag := range report.Flags {
			message := flag.Message
			if len(message) > 45 {
				message = message[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("⚠ [%s] %s\n", flag.Severity, flag.Code))
			sb.WriteString(fmt.Sprintf("  %s\n", message))
			if i < len(report.Flags)-1 {
				sb.WriteString("\n")
			}
		}
	}

	p.printBox("RISK REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

func registrationLabel(company types.CompanyVerification) string {
	switch {
	case company.LegallyRegistered.IsTrue():
		return fmt.Sprintf("registered (%s)", company.RegistrySource)
	case company.LegallyRegistered.IsFalse():
		return "no registry record"
	default:
		return "unverified"
	}
}

func triLabel(state types.TriState, positive, negative string) string {
	switch {
	case state.IsTrue():
		return positive
	case state.IsFalse():
		return negative
	default:
		return "unverified"
	}
}

func formatPeriod(start, end *time.Time) string {
	if start == nil {
		return ""
	}
	from := start.Format("Jan 2006")
	if end == nil {
		return from + " - present"
	}
	return from + " - " + end.Format("Jan 2006")
}
