package ingestion

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthPattern = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|sept|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

const openEndPattern = `present|current|now`

var (
	monthYearRangeRe = regexp.MustCompile(`(?i)\b(` + monthPattern + `)\.?\s+(\d{4})\s*(?:[-–—]|to)\s*(?:(` + openEndPattern + `)|(` + monthPattern + `)\.?\s+(\d{4}))`)
	numericRangeRe   = regexp.MustCompile(`(?i)\b(\d{1,2})/(\d{4})\s*(?:[-–—]|to)\s*(?:(` + openEndPattern + `)|(\d{1,2})/(\d{4}))`)
	yearRangeRe      = regexp.MustCompile(`(?i)\b(\d{4})\s*(?:[-–—]|to)\s*(?:(` + openEndPattern + `)|(\d{4}))\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseDateRange recognizes an employment date range in a line of text.
// A nil end with ok=true means the range is open ("Present", "Current").
// Supported forms: "Jan 2020 - Mar 2022", "01/2020 - 03/2022", "2020 - 2022".
func parseDateRange(line string) (start, end *time.Time, ok bool) {
	if m := monthYearRangeRe.FindStringSubmatch(line); m != nil {
		s := monthYearDate(m[1], m[2])
		if s == nil {
			return nil, nil, false
		}
		if m[3] != "" {
			return s, nil, true
		}
		e := monthYearDate(m[4], m[5])
		if e == nil {
			return nil, nil, false
		}
		return s, e, true
	}

	if m := numericRangeRe.FindStringSubmatch(line); m != nil {
		s := numericDate(m[1], m[2])
		if s == nil {
			return nil, nil, false
		}
		if m[3] != "" {
			return s, nil, true
		}
		e := numericDate(m[4], m[5])
		if e == nil {
			return nil, nil, false
		}
		return s, e, true
	}

	if m := yearRangeRe.FindStringSubmatch(line); m != nil {
		s := yearDate(m[1])
		if m[2] != "" {
			return s, nil, true
		}
		return s, yearDate(m[3]), true
	}

	return nil, nil, false
}

func monthYearDate(month, year string) *time.Time {
	prefix := strings.ToLower(month)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	m, found := monthsByPrefix[prefix]
	if !found {
		return nil
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}
	t := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func numericDate(month, year string) *time.Time {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return nil
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}
	t := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func yearDate(year string) *time.Time {
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}
	t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &t
}
