package verification

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-verifier/internal/types"
)

// maxCompanyLookups caps how many distinct employers are verified per
// resume. The parser already bounds work history, this is the backstop.
const maxCompanyLookups = 10

// GatherEvidence resolves every verification the scoring engine needs for
// one resume. Company, identity, and profile lookups run concurrently; each
// branch resolves to explicit evidence (unknown on failure) and never aborts
// the others. Companies come back in work-history order.
func (v *Verifier) GatherEvidence(ctx context.Context, resume *types.ParsedResume) *types.EvidenceBundle {
	bundle := &types.EvidenceBundle{}

	names := resume.CompanyNames()
	if len(names) > maxCompanyLookups {
		names = names[:maxCompanyLookups]
	}
	companies := make([]types.CompanyVerification, len(names))

	g, gCtx := errgroup.WithContext(ctx)

	for i, name := range names {
		g.Go(func() error {
			companies[i] = v.VerifyCompany(gCtx, name)
			return nil
		})
	}

	if resume.GitHubURL != "" {
		g.Go(func() error {
			bundle.Identity = v.VerifyGitHub(gCtx, resume.GitHubURL)
			return nil
		})
	}

	if resume.LinkedInURL != "" {
		g.Go(func() error {
			bundle.LinkedIn = v.VerifyLinkedIn(gCtx, resume.LinkedInURL, resume.CandidateName)
			return nil
		})
	}

	// Branches never return errors; failures are already explicit unknowns
	_ = g.Wait()

	bundle.Companies = companies
	return bundle
}
