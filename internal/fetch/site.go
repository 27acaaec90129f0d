// Package fetch - site.go provides site detection and site-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Site represents a class of host the verifier talks to.
type Site string

const (
	// SiteGitHub is github.com and subdomains
	SiteGitHub Site = "github"
	// SiteLinkedIn is linkedin.com and subdomains
	SiteLinkedIn Site = "linkedin"
	// SiteRegistry is a government or corporate registry host
	SiteRegistry Site = "registry"
	// SiteUnknown is an unrecognized host
	SiteUnknown Site = "unknown"
)

// DetectSite identifies the site class from a URL.
func DetectSite(urlStr string) Site {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return SiteUnknown
	}

	host := strings.ToLower(parsed.Host)

	if strings.Contains(host, "github.com") {
		return SiteGitHub
	}

	if strings.Contains(host, "linkedin.com") {
		return SiteLinkedIn
	}

	// Registry hosts queried by the company verifier
	if strings.Contains(host, "company-information.service.gov.uk") ||
		strings.Contains(host, "sec.gov") ||
		strings.Contains(host, "zaubacorp.com") ||
		strings.Contains(host, "opencorporates.com") {
		return SiteRegistry
	}

	return SiteUnknown
}

// SiteContentSelectors returns content selectors tuned for a specific site.
func SiteContentSelectors(site Site) []string {
	switch site {
	case SiteGitHub:
		return []string{
			".js-profile-editable-area",
			".vcard-names-container",
			"#js-pjax-container",
			"main",
			"#content",
		}
	case SiteLinkedIn:
		return []string{
			".core-rail",
			".top-card-layout",
			".profile",
			"main",
			"#main-content",
		}
	case SiteRegistry:
		return RegistryResultSelectors()
	default:
		return DefaultTextSelectors()
	}
}

// SiteNoiseSelectors returns noise exclusion selectors for a specific site.
func SiteNoiseSelectors(site Site) []string {
	// Common noise selectors for all sites
	common := []string{
		"form",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",

		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Generic navigation already handled in fetch.go
	}

	switch site {
	case SiteLinkedIn:
		return append(common,
			".authwall",
			".join-form",
			".nav__button",
			".contextual-sign-in-modal",
			".cta-modal",
		)
	case SiteGitHub:
		return append(common,
			".js-header-wrapper",
			".footer",
			".Popover",
			".signup-prompt",
		)
	default:
		return common
	}
}

// SiteRequestHeaders returns extra request headers for sites that gate plain
// bot requests. LinkedIn answers status 999 or an auth wall unless the
// request looks like a browser.
func SiteRequestHeaders(site Site) map[string]string {
	switch site {
	case SiteLinkedIn:
		return map[string]string{
			"User-Agent":      BrowserUserAgent,
			"Accept-Language": "en-US,en;q=0.9",
		}
	default:
		return nil
	}
}
