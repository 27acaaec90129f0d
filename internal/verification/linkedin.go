package verification

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-verifier/internal/fetch"
	"github.com/jonathan/resume-verifier/internal/types"
)

// linkedInBotStatus is the non-standard code LinkedIn answers to clients it
// classifies as bots. The profile URL still resolved, so it counts as
// reachable.
const linkedInBotStatus = 999

// slugHashRe matches the hex suffix LinkedIn appends to slugs of duplicate
// names ("jane-doe-1a2b3c").
var slugHashRe = regexp.MustCompile(`-[a-f0-9]{5,}$`)

// VerifyLinkedIn probes the public profile URL and scores how well its slug
// matches the candidate name. A URL that is not a profile URL at all is an
// explicit negative; blocks and transport failures resolve to unknown.
func (v *Verifier) VerifyLinkedIn(ctx context.Context, linkedInURL, candidateName string) *types.LinkedInVerification {
	result := &types.LinkedInVerification{ProfileReachable: types.TriUnknown}

	if !strings.Contains(strings.ToLower(linkedInURL), "linkedin.com/in/") {
		result.ProfileReachable = types.TriFalse
		return result
	}

	result.SlugNameSimilarity = SlugNameSimilarity(linkedInURL, candidateName)

	opts := &fetch.Options{
		Timeout:   v.cfg.Timeout,
		UserAgent: fetch.DefaultUserAgent,
		Headers:   fetch.SiteRequestHeaders(fetch.SiteLinkedIn),
	}
	probeURL := v.linkedInBase + "/in/" + url.PathEscape(linkedInSlug(linkedInURL))

	status, err := fetch.Probe(ctx, probeURL, opts)
	if err != nil {
		v.log.Debug("linkedin probe failed", zap.String("url", linkedInURL), zap.Error(err))
		return result
	}

	switch {
	case status == http.StatusNotFound:
		result.ProfileReachable = types.TriFalse
	case status == linkedInBotStatus || (status >= 200 && status < 300):
		result.ProfileReachable = types.TriTrue
	default:
		// Blocked or throttled; proof of nothing
	}
	return result
}

// SlugNameSimilarity scores how much of the candidate name survives in the
// profile slug: matched name parts over total parts, after stripping the
// hash suffix. 1.0 means every part of the name appears in the slug.
func SlugNameSimilarity(linkedInURL, candidateName string) float64 {
	slugClean := slugHashRe.ReplaceAllString(strings.ToLower(linkedInSlug(linkedInURL)), "")
	slugParts := strings.Split(slugClean, "-")

	nameParts := strings.Fields(strings.ToLower(candidateName))
	if len(nameParts) == 0 {
		return 0
	}

	matched := 0
	for _, part := range nameParts {
		if len(part) <= 2 {
			continue // initials and particles carry no signal
		}
		for _, slugPart := range slugParts {
			if slugPart == "" {
				continue
			}
			if strings.Contains(slugPart, part) || strings.Contains(part, slugPart) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(nameParts))
}

// linkedInSlug returns the raw profile slug from the URL.
func linkedInSlug(linkedInURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(linkedInURL), "/")
	slug := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if i := strings.Index(slug, "?"); i >= 0 {
		slug = slug[:i]
	}
	return slug
}
