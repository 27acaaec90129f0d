// Package fetch provides generic URL fetching with optional caching.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a fetched page stays fresh.
const DefaultCacheTTL = time.Hour

// failureBackoff is how long a URL that failed at the transport level is
// skipped before a retry is allowed.
const failureBackoff = 5 * time.Minute

// CachedFetcher wraps URL fetching with an in-memory TTL cache. Registry and
// profile lookups repeat the same URLs across analyses; the cache keeps the
// verifier from hammering those hosts. Safe for concurrent use.
type CachedFetcher struct {
	mu        sync.Mutex
	pages     map[string]cachedPage
	failures  map[string]time.Time
	options   *Options
	cacheTTL  time.Duration
	skipCache bool // For testing or forcing fresh fetches
}

type cachedPage struct {
	result    Result
	fetchedAt time.Time
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL:  DefaultCacheTTL,
		SkipCache: false,
		Options:   DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher.
func NewCachedFetcher(config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	return &CachedFetcher{
		pages:     make(map[string]cachedPage),
		failures:  make(map[string]time.Time),
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool // Whether this result came from cache
}

// Fetch retrieves a URL, using cache if available and fresh.
// Like URL, a response with a non-success status returns both the result and
// an error; those responses are cached too, so a repeated lookup sees the
// same definitive answer instead of a backoff error. Only transport failures
// (DNS, refused connection, timeout) enter the failure backoff window.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	// Step 1: Check whether the URL is inside the failure backoff window
	if !f.skipCache {
		if until, backoff := f.failedRecently(urlStr); backoff {
			return nil, &Error{
				URL:     urlStr,
				Message: fmt.Sprintf("URL skipped until %s after earlier failure", until.Format(time.RFC3339)),
			}
		}
	}

	// Step 2: Try to get a fresh cached page
	if !f.skipCache {
		if cached, ok := f.fresh(urlStr); ok {
			res := &CachedResult{Result: cached, FromCache: true}
			if cached.StatusCode != http.StatusOK {
				return res, &Error{
					URL:     urlStr,
					Message: fmt.Sprintf("HTTP status %d", cached.StatusCode),
				}
			}
			return res, nil
		}
	}

	// Step 3: Fetch fresh content
	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		if result == nil {
			// Transport failure: back off, retry later
			f.recordFailure(urlStr)
			return nil, err
		}
		// Definitive HTTP answer: cache it so repeat lookups stay stable
		f.store(urlStr, result)
		return &CachedResult{Result: result, FromCache: false}, err
	}

	// Step 4: Extract text from HTML
	site := DetectSite(urlStr)
	text, _ := ExtractMainText(result.HTML, SiteContentSelectors(site), SiteNoiseSelectors(site)...)
	result.Text = text

	// Step 5: Store in cache
	f.store(urlStr, result)

	return &CachedResult{Result: result, FromCache: false}, nil
}

// FetchMultiple fetches multiple URLs with caching.
// Returns results in the same order as input URLs. Failed fetches are nil in the result slice.
func (f *CachedFetcher) FetchMultiple(ctx context.Context, urls []string) ([]*CachedResult, []error) {
	results := make([]*CachedResult, len(urls))
	errors := make([]error, len(urls))

	// Sequential on purpose; the verification orchestrator already fans out
	// per candidate, and registries throttle aggressive clients.
	for i, url := range urls {
		result, err := f.Fetch(ctx, url)
		if err != nil {
			errors[i] = err
		} else {
			results[i] = result
		}
	}

	return results, errors
}

// InvalidateCache drops any cached entry for the URL, forcing a re-fetch on
// the next request.
func (f *CachedFetcher) InvalidateCache(urlStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pages, urlStr)
	delete(f.failures, urlStr)
}

// fresh returns a copy of the cached page if it is within the TTL. Stale
// entries are dropped on access.
func (f *CachedFetcher) fresh(urlStr string) (*Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.pages[urlStr]
	if !ok {
		return nil, false
	}
	if time.Since(entry.fetchedAt) > f.cacheTTL {
		delete(f.pages, urlStr)
		return nil, false
	}

	res := entry.result
	return &res, true
}

func (f *CachedFetcher) store(urlStr string, result *Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[urlStr] = cachedPage{result: *result, fetchedAt: time.Now()}
}

// failedRecently reports whether the URL failed within the backoff window.
// Expired failure records are dropped on access.
func (f *CachedFetcher) failedRecently(urlStr string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	failedAt, ok := f.failures[urlStr]
	if !ok {
		return time.Time{}, false
	}
	until := failedAt.Add(failureBackoff)
	if time.Now().After(until) {
		delete(f.failures, urlStr)
		return time.Time{}, false
	}
	return until, true
}

func (f *CachedFetcher) recordFailure(urlStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[urlStr] = time.Now()
}
