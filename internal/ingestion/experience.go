package ingestion

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-verifier/internal/types"
)

// maxWorkEntries bounds how many employment entries are extracted.
const maxWorkEntries = 10

var experienceHeadings = []string{
	"work experience", "professional experience", "employment history",
	"work history", "experience", "employment",
}

var terminatingHeadings = []string{
	"education", "skills", "technical skills", "projects", "certifications",
	"achievements", "awards", "references", "interests", "publications",
}

var (
	atCompanyRe = regexp.MustCompile(`(?:^|\s)(?:@|(?i:at))\s+([A-Z][A-Za-z0-9&.\- ]+?)(?:\s*[,|(]|\s+(?i:as|from|for)\s|$)`)

	pipeTitleRe = regexp.MustCompile(`^([A-Z][A-Za-z0-9&.\- ]+?)\s*[|–—-]\s*(.+)$`)

	workedAtRe = regexp.MustCompile(`(?i:worked at|working at|employed at|employed by|joined)\s+([A-Z][A-Za-z0-9&.\- ]+?)(?:\s*[,.]|\s+(?i:as|in)\s|$)`)

	labeledCompanyRe = regexp.MustCompile(`(?i:company|employer|organization)\s*[:\-]\s*([A-Z][A-Za-z0-9&.\- ]+)`)
)

// titleIndicators mark the right-hand side of "Company | Title" lines.
var titleIndicators = []string{
	"software", "senior", "junior", "lead", "staff", "principal", "engineer",
	"developer", "manager", "analyst", "architect", "intern", "consultant",
	"designer", "scientist",
}

var companyExclusions = []string{
	"university", "college", "school", "institute", "academy",
	"coursera", "udemy", "udacity", "edx", "hackerrank", "leetcode",
}

var companyBadPrefixes = []string{"the ", "a ", "an ", "my ", "our "}

// experienceSection returns the lines between an experience heading and the
// next section heading. When no heading is found the whole text is used.
func experienceSection(text string) string {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if matchesHeading(line, experienceHeadings) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return text
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if matchesHeading(lines[i], terminatingHeadings) {
			end = i
			break
		}
	}
	return strings.Join(lines[start:end], "\n")
}

func matchesHeading(line string, headings []string) bool {
	norm := strings.ToLower(strings.TrimSpace(line))
	norm = strings.TrimRight(norm, ": ")
	for _, h := range headings {
		if norm == h {
			return true
		}
	}
	return false
}

// parseWorkHistory extracts employment entries from the experience section.
// The scan is line oriented: a company match opens a new entry, and the first
// recognized title and date range seen afterwards attach to it. A title line
// directly above its company line is kept with that company.
func parseWorkHistory(section string) []types.WorkEntry {
	var entries []types.WorkEntry
	var current *types.WorkEntry

	flush := func() {
		if current != nil && current.CompanyName != "" && len(entries) < maxWorkEntries {
			entries = append(entries, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(section, "\n") {
		if len(entries) == maxWorkEntries {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}

		if company := companyFromLine(line); company != "" {
			if current == nil || current.CompanyName != "" {
				flush()
				current = &types.WorkEntry{}
			}
			current.CompanyName = company
		} else if current == nil {
			current = &types.WorkEntry{}
		}

		if current.Title == "" {
			current.Title = titleFromLine(line)
		}
		if current.StartDate == nil {
			if start, end, ok := parseDateRange(line); ok {
				current.StartDate = start
				current.EndDate = end
			}
		}
	}
	flush()

	return entries
}

// companyFromLine tries the employment patterns in order of reliability.
func companyFromLine(line string) string {
	if m := atCompanyRe.FindStringSubmatch(line); m != nil {
		if c := cleanCompany(m[1]); c != "" {
			return c
		}
	}

	if m := pipeTitleRe.FindStringSubmatch(line); m != nil {
		right := strings.ToLower(m[2])
		for _, kw := range titleIndicators {
			if strings.Contains(right, kw) {
				if c := cleanCompany(m[1]); c != "" {
					return c
				}
				break
			}
		}
	}

	if m := workedAtRe.FindStringSubmatch(line); m != nil {
		if c := cleanCompany(m[1]); c != "" {
			return c
		}
	}

	if m := labeledCompanyRe.FindStringSubmatch(line); m != nil {
		if c := cleanCompany(m[1]); c != "" {
			return c
		}
	}

	// "Google (Jan 2020 - Present)": company text preceding a date range.
	if loc := firstDateIndex(line); loc > 0 {
		if c := cleanCompany(line[:loc]); c != "" {
			return c
		}
	}

	return ""
}

func firstDateIndex(line string) int {
	best := -1
	for _, re := range []*regexp.Regexp{monthYearRangeRe, numericRangeRe, yearRangeRe} {
		if loc := re.FindStringIndex(line); loc != nil {
			if best < 0 || loc[0] < best {
				best = loc[0]
			}
		}
	}
	return best
}

func cleanCompany(raw string) string {
	company := strings.Join(strings.Fields(raw), " ")
	company = strings.Trim(company, " .,-|(–—")

	if len(company) < 3 || len(company) > 50 {
		return ""
	}

	lower := strings.ToLower(company)
	for _, exc := range companyExclusions {
		if strings.Contains(lower, exc) {
			return ""
		}
	}
	// Reject bare job titles masquerading as company names.
	for _, kw := range []string{"engineer", "developer", "manager", "analyst", "intern", "consultant", "designer"} {
		if strings.Contains(lower, kw) {
			return ""
		}
	}
	for _, prefix := range companyBadPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}
	return company
}

// titleFromLine returns the most specific recognized job title, preserving
// the casing used in the resume.
func titleFromLine(line string) string {
	lower := strings.ToLower(line)
	for _, title := range jobTitles {
		if idx := strings.Index(lower, title); idx >= 0 {
			return line[idx : idx+len(title)]
		}
	}
	return ""
}
