// Package verification resolves external evidence about candidates and their
// claimed employers before scoring runs. Every lookup that fails or is
// blocked resolves to an explicit unknown outcome; the scoring engine never
// sees a transport error and never has to guess what a missing field means.
package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-verifier/internal/fetch"
	"github.com/jonathan/resume-verifier/internal/types"
)

// DefaultTimeout is the per-request timeout for external lookups.
const DefaultTimeout = 10 * time.Second

// DefaultCacheTTL is how long a resolved company verification stays cached.
const DefaultCacheTTL = time.Hour

// Production endpoints. Tests point these fields at local servers.
const (
	defaultUKRegistryBase    = "https://find-and-update.company-information.service.gov.uk"
	defaultSECEdgarBase      = "https://www.sec.gov"
	defaultIndiaRegistryBase = "https://www.zaubacorp.com"
	defaultDuckDuckGoBase    = "https://api.duckduckgo.com"
	defaultGitHubAPIBase     = "https://api.github.com"
	defaultLinkedInBase      = "https://www.linkedin.com"
	defaultRDAPBase          = "https://rdap.org"
	defaultWebsiteBase       = "https://"
)

// Config controls the external lookups.
type Config struct {
	GitHubToken string        // optional, raises the GitHub API rate limit
	Timeout     time.Duration // per-request timeout
	CacheTTL    time.Duration // company verification cache lifetime
	UseBrowser  bool          // confirm company sites with a headless browser render
	Verbose     bool
}

// Verifier gathers company, identity, and profile evidence from public
// sources. Safe for concurrent use; the bundle orchestrator fans lookups out
// across goroutines sharing one Verifier.
type Verifier struct {
	cfg       Config
	log       *zap.Logger
	client    *http.Client
	fetcher   *fetch.CachedFetcher
	fetchOpts *fetch.Options

	ukRegistryBase    string
	secEdgarBase      string
	indiaRegistryBase string
	duckDuckGoBase    string
	gitHubAPIBase     string
	linkedInBase      string
	rdapBase          string
	websiteBase       string

	mu           sync.Mutex
	companyCache map[string]companyCacheEntry
}

type companyCacheEntry struct {
	verification types.CompanyVerification
	storedAt     time.Time
}

// NewVerifier creates a verifier with production endpoints.
func NewVerifier(cfg Config, logger *zap.Logger) *Verifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := &fetch.Options{
		Timeout:   cfg.Timeout,
		UserAgent: fetch.DefaultUserAgent,
	}

	return &Verifier{
		cfg:       cfg,
		log:       logger,
		client:    &http.Client{Timeout: cfg.Timeout},
		fetcher:   fetch.NewCachedFetcher(&fetch.CachedFetcherConfig{CacheTTL: cfg.CacheTTL, Options: opts}),
		fetchOpts: opts,

		ukRegistryBase:    defaultUKRegistryBase,
		secEdgarBase:      defaultSECEdgarBase,
		indiaRegistryBase: defaultIndiaRegistryBase,
		duckDuckGoBase:    defaultDuckDuckGoBase,
		gitHubAPIBase:     defaultGitHubAPIBase,
		linkedInBase:      defaultLinkedInBase,
		rdapBase:          defaultRDAPBase,
		websiteBase:       defaultWebsiteBase,

		companyCache: make(map[string]companyCacheEntry),
	}
}

// getJSON issues a GET and decodes a JSON body. Any non-200 status is an
// error; callers that need to distinguish statuses issue their own requests.
func (v *Verifier) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", fetch.DefaultUserAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (v *Verifier) cachedCompany(key string) (types.CompanyVerification, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.companyCache[key]
	if !ok {
		return types.CompanyVerification{}, false
	}
	if time.Since(entry.storedAt) > v.cfg.CacheTTL {
		delete(v.companyCache, key)
		return types.CompanyVerification{}, false
	}
	return entry.verification, true
}

func (v *Verifier) storeCompany(key string, verification types.CompanyVerification) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.companyCache[key] = companyCacheEntry{verification: verification, storedAt: time.Now()}
}
