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

// Registry identifier patterns surfaced in debug logs when a lookup hits.
var (
	ukCompanyNumberRe = regexp.MustCompile(`/company/(\d+)`)
	secCIKRe          = regexp.MustCompile(`(?i)CIK=(\d+)`)
	indiaCINRe        = regexp.MustCompile(`[UL]\d{5}[A-Z]{2}\d{4}[A-Z]{3}\d{6}`)
)

// legalSuffixes are trailing tokens dropped when deriving domains and slugs.
var legalSuffixes = map[string]bool{
	"inc":         true,
	"llc":         true,
	"ltd":         true,
	"limited":     true,
	"corp":        true,
	"corporation": true,
	"co":          true,
	"plc":         true,
	"pvt":         true,
	"gmbh":        true,
}

// VerifyCompany resolves registration, web presence, and domain evidence for
// one claimed employer. Results are cached by lowercased name for the
// configured TTL, so repeated analyses of the same employer answer
// identically without re-querying the registries.
func (v *Verifier) VerifyCompany(ctx context.Context, name string) types.CompanyVerification {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.CompanyVerification{
			LegallyRegistered: types.TriUnknown,
			RegistrySource:    types.RegistryNone,
		}
	}

	key := strings.ToLower(name)
	if cached, ok := v.cachedCompany(key); ok {
		return cached
	}

	result := v.verifyCompanyUncached(ctx, name)
	v.storeCompany(key, result)
	return result
}

func (v *Verifier) verifyCompanyUncached(ctx context.Context, name string) types.CompanyVerification {
	result := types.CompanyVerification{
		CompanyName:       name,
		LegallyRegistered: types.TriUnknown,
		RegistrySource:    types.RegistryNone,
	}

	// Registries in fixed order; the first definitive hit wins. A negative
	// is only trusted when every registry answered definitively.
	checks := []struct {
		source types.RegistrySource
		check  func(context.Context, string) types.TriState
	}{
		{types.RegistryUK, v.checkUKRegistry},
		{types.RegistryUS, v.checkSECEdgar},
		{types.RegistryIndia, v.checkIndiaRegistry},
	}

	allNegative := true
	for _, c := range checks {
		outcome := c.check(ctx, name)
		if outcome.IsTrue() {
			result.LegallyRegistered = types.TriTrue
			result.RegistrySource = c.source
			break
		}
		if !outcome.IsFalse() {
			allNegative = false
		}
	}
	if !result.LegallyRegistered.IsTrue() && allNegative {
		result.LegallyRegistered = types.TriFalse
	}

	// Direct domain probes first, then the web-presence fallback.
	domain, hasSite := v.checkWebsite(ctx, name)
	if !hasSite && v.webPresence(ctx, name) {
		hasSite = true
	}
	result.HasWebsite = hasSite
	if domain != "" {
		result.DomainCreationDate = v.DomainCreationDate(ctx, domain)
	}

	result.HasLinkedInPage = v.checkLinkedInPage(ctx, name)

	v.log.Debug("company verified",
		zap.String("company", name),
		zap.String("registered", string(result.LegallyRegistered)),
		zap.String("registry", string(result.RegistrySource)),
		zap.Bool("website", result.HasWebsite),
		zap.Bool("linkedin_page", result.HasLinkedInPage))

	return result
}

// checkUKRegistry searches the UK Companies House public index. A hit there
// means legally registered.
func (v *Verifier) checkUKRegistry(ctx context.Context, name string) types.TriState {
	searchURL := v.ukRegistryBase + "/search?q=" + url.QueryEscape(name)

	res, err := v.fetcher.Fetch(ctx, searchURL)
	if res == nil {
		v.log.Debug("uk registry unreachable", zap.String("company", name), zap.Error(err))
		return types.TriUnknown
	}
	if res.StatusCode != http.StatusOK {
		if res.StatusCode == http.StatusNotFound {
			return types.TriFalse
		}
		return types.TriUnknown
	}

	if !mentionsCompany(res.HTML, name) {
		return types.TriFalse
	}
	if m := ukCompanyNumberRe.FindStringSubmatch(res.HTML); m != nil {
		v.log.Debug("uk registry hit", zap.String("company", name), zap.String("company_number", m[1]))
	}
	return types.TriTrue
}

// checkSECEdgar searches SEC EDGAR for US registrants. The results page
// carries CIK identifiers only when at least one company matched.
func (v *Verifier) checkSECEdgar(ctx context.Context, name string) types.TriState {
	searchURL := v.secEdgarBase + "/cgi-bin/browse-edgar?company=" + url.QueryEscape(name) +
		"&type=&dateb=&owner=include&count=10&action=getcompany"

	res, err := v.fetcher.Fetch(ctx, searchURL)
	if res == nil {
		v.log.Debug("sec edgar unreachable", zap.String("company", name), zap.Error(err))
		return types.TriUnknown
	}
	if res.StatusCode != http.StatusOK {
		if res.StatusCode == http.StatusNotFound {
			return types.TriFalse
		}
		return types.TriUnknown
	}

	content := strings.ToLower(res.HTML)
	if !strings.Contains(content, "cik=") && !strings.Contains(content, strings.ToLower(name)) {
		return types.TriFalse
	}
	if m := secCIKRe.FindStringSubmatch(res.HTML); m != nil {
		v.log.Debug("sec edgar hit", zap.String("company", name), zap.String("cik", m[1]))
	}
	return types.TriTrue
}

// checkIndiaRegistry looks the company up on the public MCA mirror, which
// lists registered Indian companies with their CIN.
func (v *Verifier) checkIndiaRegistry(ctx context.Context, name string) types.TriState {
	runes := []rune(name)
	first := strings.ToUpper(string(runes[0]))
	searchURL := v.indiaRegistryBase + "/company-list/" + url.PathEscape(first) + "/" + url.PathEscape(name) + ".html"

	res, err := v.fetcher.Fetch(ctx, searchURL)
	if res == nil {
		v.log.Debug("india registry unreachable", zap.String("company", name), zap.Error(err))
		return types.TriUnknown
	}
	if res.StatusCode != http.StatusOK {
		if res.StatusCode == http.StatusNotFound {
			return types.TriFalse
		}
		return types.TriUnknown
	}

	content := strings.ToLower(res.HTML)
	if !strings.Contains(content, strings.ToLower(name)) && !strings.Contains(content, "cin") {
		return types.TriFalse
	}
	if m := indiaCINRe.FindString(res.HTML); m != "" {
		v.log.Debug("india registry hit", zap.String("company", name), zap.String("cin", m))
	}
	return types.TriTrue
}

// checkWebsite probes the domains the company would plausibly own and
// returns the first one that answers. With UseBrowser set, a reachable
// domain only counts when the rendered page actually mentions the company;
// that filters parked domains at the cost of a browser launch.
func (v *Verifier) checkWebsite(ctx context.Context, name string) (string, bool) {
	for _, domain := range CandidateDomains(name) {
		siteURL := v.websiteBase + domain

		status, err := fetch.Probe(ctx, siteURL, v.fetchOpts)
		if err != nil || status < 200 || status >= 300 {
			continue
		}

		if v.cfg.UseBrowser {
			html, err := fetch.RenderedHTML(ctx, siteURL, v.fetchOpts, v.cfg.Verbose)
			if err != nil || !mentionsCompany(html, name) {
				continue
			}
		}
		return domain, true
	}
	return "", false
}

// webPresence asks the DuckDuckGo instant-answer API whether the company has
// any notable web footprint. Weaker than a registry hit, but enough to keep
// a real company from looking like a ghost.
func (v *Verifier) webPresence(ctx context.Context, name string) bool {
	reqURL := v.duckDuckGoBase + "/?q=" + url.QueryEscape(name+" company") + "&format=json&no_redirect=1"

	var answer struct {
		Abstract string `json:"Abstract"`
		Heading  string `json:"Heading"`
	}
	if err := v.getJSON(ctx, reqURL, &answer); err != nil {
		v.log.Debug("web presence lookup failed", zap.String("company", name), zap.Error(err))
		return false
	}
	return answer.Abstract != "" || answer.Heading != ""
}

// checkLinkedInPage probes the company page URL. Only an actual 2xx counts;
// LinkedIn's bot status 999 says nothing about whether the page exists.
func (v *Verifier) checkLinkedInPage(ctx context.Context, name string) bool {
	slug := companySlug(name)
	if slug == "" {
		return false
	}

	opts := &fetch.Options{
		Timeout:   v.cfg.Timeout,
		UserAgent: fetch.DefaultUserAgent,
		Headers:   fetch.SiteRequestHeaders(fetch.SiteLinkedIn),
	}
	status, err := fetch.Probe(ctx, v.linkedInBase+"/company/"+url.PathEscape(slug), opts)
	return err == nil && status >= 200 && status < 300
}

// mentionsCompany reports whether page content plausibly refers to the
// company: the full name, or any distinctive word from it.
func mentionsCompany(content, name string) bool {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	if nameLower == "" {
		return false
	}
	contentLower := strings.ToLower(content)
	if strings.Contains(contentLower, nameLower) {
		return true
	}
	for _, word := range strings.Fields(nameLower) {
		if len(word) > 3 && strings.Contains(contentLower, word) {
			return true
		}
	}
	return false
}

// companyTokens lowercases the name, strips punctuation, and drops trailing
// legal suffixes.
func companyTokens(name string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '\t':
			return ' '
		default:
			return -1
		}
	}, strings.ToLower(name))

	tokens := strings.Fields(cleaned)
	for len(tokens) > 1 && legalSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// CandidateDomains derives the domains a company of this name would
// plausibly own, most likely first.
func CandidateDomains(name string) []string {
	tokens := companyTokens(name)
	if len(tokens) == 0 {
		return nil
	}

	joined := strings.Join(tokens, "")
	domains := []string{joined + ".com", joined + ".io"}
	if len(tokens) > 1 {
		domains = append(domains, strings.Join(tokens, "-")+".com")
	}
	return domains
}

// companySlug builds the LinkedIn company-page slug for a name.
func companySlug(name string) string {
	return strings.Join(companyTokens(name), "-")
}
