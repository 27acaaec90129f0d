// Package ingestion turns uploaded resume documents into structured
// candidate data. Extraction is heuristic: regular expressions and keyword
// vocabularies, no model inference, so the same document always parses to
// the same result.
package ingestion

import (
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-verifier/internal/types"
)

// UnknownCandidate is the fallback name when no heuristic finds one.
const UnknownCandidate = "Unknown Candidate"

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`),
		regexp.MustCompile(`\+?91[-.\s]?[0-9]{10}`),
		regexp.MustCompile(`\+?91[-.\s]?[0-9]{5}[-.\s]?[0-9]{5}`),
		regexp.MustCompile(`\+?[0-9]{1,3}[-.\s]?[0-9]{3,4}[-.\s]?[0-9]{3,4}[-.\s]?[0-9]{3,4}`),
	}

	urlRe = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

	nameLabelRe = regexp.MustCompile(`(?i)(?:name|full name)\s*[:\-]\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)
)

// nameStopWords disqualify a line from being read as the candidate name.
var nameStopWords = []string{"resume", "curriculum", "vitae", "page", "objective"}

// Parser extracts structured fields from resume text.
type Parser struct {
	skills []string
}

// NewParser builds a parser with the given skill vocabulary. Entries are
// lowercased; an empty vocabulary falls back to DefaultSkillVocabulary.
func NewParser(vocabulary []string) *Parser {
	if len(vocabulary) == 0 {
		vocabulary = DefaultSkillVocabulary
	}
	skills := make([]string, 0, len(vocabulary))
	for _, s := range vocabulary {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			skills = append(skills, s)
		}
	}
	return &Parser{skills: skills}
}

// Parse extracts a ParsedResume from raw document text.
func (p *Parser) Parse(text string) (*types.ParsedResume, error) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, ErrEmptyDocument
	}

	urls := extractURLs(cleaned)

	resume := &types.ParsedResume{
		CandidateName: extractName(cleaned),
		Email:         extractEmail(cleaned),
		Phone:         extractPhone(cleaned),
		GitHubURL:     urls.github,
		LinkedInURL:   urls.linkedin,
		PortfolioURL:  urls.portfolio,
		ClaimedSkills: p.extractSkills(cleaned),
		WorkHistory:   parseWorkHistory(experienceSection(cleaned)),
	}
	return resume, nil
}

// ParseFile extracts text from a document on disk and parses it.
func (p *Parser) ParseFile(path string) (*types.ParsedResume, error) {
	text, err := ExtractFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

// ParseUpload extracts text from an uploaded document and parses it.
func (p *Parser) ParseUpload(r io.Reader, filename string) (*types.ParsedResume, error) {
	text, err := ExtractText(r, filename)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

// extractName finds the candidate name. Heuristics in order: a name-looking
// line near the top, an explicit "Name:" label, then the text directly
// preceding the email address.
func extractName(text string) string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > 7 {
			break
		}
		if looksLikeName(line) {
			return line
		}
	}

	if m := nameLabelRe.FindStringSubmatch(head(text, 500)); m != nil {
		return strings.TrimSpace(m[1])
	}

	if name := nameNearEmail(text); name != "" {
		return name
	}

	return UnknownCandidate
}

// looksLikeName reports whether a line reads as a person's name: two to four
// capitalized words, no digits, no contact info, no document boilerplate.
func looksLikeName(line string) bool {
	if strings.ContainsAny(line, "0123456789@") {
		return false
	}
	lower := strings.ToLower(line)
	if strings.Contains(lower, "http") {
		return false
	}
	for _, stop := range nameStopWords {
		if strings.Contains(lower, stop) {
			return false
		}
	}

	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 4 {
		return false
	}
	for _, f := range fields {
		r, _ := utf8.DecodeRuneInString(f)
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// nameNearEmail reads the line fragment immediately before the email address.
func nameNearEmail(text string) string {
	loc := emailRe.FindStringIndex(head(text, 500))
	if loc == nil {
		return ""
	}

	before := strings.TrimSpace(text[:loc[0]])
	if idx := strings.LastIndexByte(before, '\n'); idx >= 0 {
		before = before[idx+1:]
	}
	before = strings.TrimSpace(before)
	if looksLikeName(before) {
		return before
	}
	return ""
}

func extractEmail(text string) string {
	return emailRe.FindString(text)
}

func extractPhone(text string) string {
	for _, re := range phoneRes {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

type resumeURLs struct {
	github    string
	linkedin  string
	portfolio string
}

// extractURLs classifies every URL in the document. The first GitHub and
// LinkedIn links win; the first link that is neither becomes the portfolio.
func extractURLs(text string) resumeURLs {
	var urls resumeURLs

	for _, raw := range urlRe.FindAllString(text, -1) {
		url := strings.TrimRight(raw, ".,;:!?)")
		lower := strings.ToLower(url)

		switch {
		case strings.Contains(lower, "github.com"):
			if urls.github == "" {
				urls.github = url
			}
		case strings.Contains(lower, "linkedin.com"):
			if urls.linkedin == "" {
				urls.linkedin = url
			}
		default:
			if urls.portfolio == "" {
				urls.portfolio = url
			}
		}
	}
	return urls
}

// extractSkills scans for vocabulary terms with token boundaries, so "go"
// matches as a word but not inside "google". Results are lowercase, unique,
// and sorted.
func (p *Parser) extractSkills(text string) []string {
	lower := strings.ToLower(text)

	found := make(map[string]bool)
	for _, skill := range p.skills {
		if containsToken(lower, skill) {
			found[skill] = true
		}
	}

	skills := make([]string, 0, len(found))
	for s := range found {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return skills
}

// containsToken reports whether token occurs in text delimited by non-token
// runes. Letters, digits, '+' and '#' continue a token, which keeps "c++"
// and "c#" intact while separating "go" from "google".
func containsToken(text, token string) bool {
	if token == "" {
		return false
	}
	for i := 0; ; {
		j := strings.Index(text[i:], token)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(token)

		beforeOK := start == 0
		if !beforeOK {
			r, _ := utf8.DecodeLastRuneInString(text[:start])
			beforeOK = !isTokenRune(r)
		}
		afterOK := end == len(text)
		if !afterOK {
			r, _ := utf8.DecodeRuneInString(text[end:])
			afterOK = !isTokenRune(r)
		}

		if beforeOK && afterOK {
			return true
		}
		i = start + 1
	}
}

func isTokenRune(r rune) bool {
	return r == '+' || r == '#' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// head returns the first n bytes of s without splitting a rune.
func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
