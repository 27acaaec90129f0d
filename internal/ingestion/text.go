package ingestion

import (
	"regexp"
	"strings"
)

// bulletRunes are decorative list markers that PDF extractors leave behind.
const bulletRunes = "•‣◦⁃∙●○■□☐☑☒·"

var (
	spaceRunRe = regexp.MustCompile(`[ \t]+`)
	blankRunRe = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted resume text while preserving line structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF -> LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Strip decorative bullet characters
	content = strings.Map(func(r rune) rune {
		if strings.ContainsRune(bulletRunes, r) {
			return -1
		}
		return r
	}, content)

	// 3. Collapse runs of spaces and tabs within each line
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = spaceRunRe.ReplaceAllString(line, " ")
		cleaned = append(cleaned, strings.TrimSpace(line))
	}
	content = strings.Join(cleaned, "\n")

	// 4. Reduce consecutive blank lines to one
	content = blankRunRe.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
