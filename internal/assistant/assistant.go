// Package assistant implements the recruiter chat assistant. Messages that
// name a GitHub or LinkedIn profile get a direct verification reply; every
// other question goes to the language model with the stored candidate
// analyses serialized as context.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-verifier/internal/llm"
	"github.com/jonathan/resume-verifier/internal/types"
)

var (
	githubMentionRe   = regexp.MustCompile(`github\.com/([a-zA-Z0-9_-]+)`)
	linkedinMentionRe = regexp.MustCompile(`linkedin\.com/in/([a-zA-Z0-9_-]+)`)
)

const maxLanguagesInReply = 5

const systemPrompt = `You are an HR screening assistant for a resume verification service. You help recruiters interpret candidate trust scores and risk flags.

Current analyzed candidates:
%s

Be concise and professional. Answer questions about candidate risk scores, flags, and hiring considerations in plain text.`

// ProfileVerifier resolves profile URLs mentioned in chat messages.
type ProfileVerifier interface {
	VerifyGitHub(ctx context.Context, githubURL string) *types.IdentityVerification
	VerifyLinkedIn(ctx context.Context, linkedInURL, candidateName string) *types.LinkedInVerification
}

// CandidateContext is one stored analysis in prompt form.
type CandidateContext struct {
	Name       string
	Email      string
	TrustScore int
	RiskLevel  string
	Flags      []string
}

// Assistant answers recruiter questions about stored candidate analyses.
type Assistant struct {
	client   llm.Client
	verifier ProfileVerifier
	logger   *zap.Logger
}

// New creates an assistant. client may be nil, in which case free-form
// questions fall back to deterministic summaries.
func New(client llm.Client, verifier ProfileVerifier, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{client: client, verifier: verifier, logger: logger}
}

// Reply answers one chat message.
func (a *Assistant) Reply(ctx context.Context, message string, candidates []CandidateContext) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("empty message")
	}

	// Profile URLs take precedence over the language model: the answer is a
	// verification result, not an opinion.
	if match := githubMentionRe.FindStringSubmatch(message); match != nil {
		username := match[1]
		identity := a.verifier.VerifyGitHub(ctx, "https://github.com/"+username)
		return formatGitHubReply(username, identity), nil
	}

	if match := linkedinMentionRe.FindStringSubmatch(message); match != nil {
		slug := match[1]
		result := a.verifier.VerifyLinkedIn(ctx, "https://linkedin.com/in/"+slug, "")
		return formatLinkedInReply(slug, result), nil
	}

	if a.client == nil {
		return cannedReply(candidates), nil
	}

	prompt := fmt.Sprintf(systemPrompt, candidateLines(candidates)) + "\n\nQuestion: " + message
	reply, err := a.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		a.logger.Warn("assistant generation failed", zap.Error(err))
		return "The assistant is currently unavailable; please try again later.", nil
	}
	return strings.TrimSpace(reply), nil
}

func formatGitHubReply(username string, identity *types.IdentityVerification) string {
	switch {
	case identity.ProfileExists.IsTrue():
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("GitHub profile @%s is verified.\n", username))
		sb.WriteString(fmt.Sprintf("Public repos: %d, followers: %d.", identity.PublicRepoCount, identity.FollowerCount))
		if identity.AccountCreated != nil {
			sb.WriteString(fmt.Sprintf("\nAccount created %s.", identity.AccountCreated.Format("January 2006")))
		}
		if len(identity.DetectedLanguages) > 0 {
			languages := identity.DetectedLanguages
			if len(languages) > maxLanguagesInReply {
				languages = languages[:maxLanguagesInReply]
			}
			sb.WriteString(fmt.Sprintf("\nTop languages: %s.", strings.Join(languages, ", ")))
		}
		return sb.String()
	case identity.ProfileExists.IsFalse():
		return fmt.Sprintf("GitHub profile @%s does not exist.", username)
	default:
		return fmt.Sprintf("GitHub could not be reached to verify @%s; try again later.", username)
	}
}

func formatLinkedInReply(slug string, result *types.LinkedInVerification) string {
	switch {
	case result.ProfileReachable.IsTrue():
		return fmt.Sprintf("LinkedIn profile linkedin.com/in/%s is accessible.", slug)
	case result.ProfileReachable.IsFalse():
		return fmt.Sprintf("LinkedIn profile linkedin.com/in/%s is not accessible.", slug)
	default:
		return fmt.Sprintf("LinkedIn could not be reached to check linkedin.com/in/%s; try again later.", slug)
	}
}

// cannedReply answers without a language model: a deterministic summary of
// the stored analyses.
func cannedReply(candidates []CandidateContext) string {
	if len(candidates) == 0 {
		return "No candidates analyzed yet. Upload a resume to get a trust score, or paste a GitHub or LinkedIn profile URL to verify it."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d candidate(s) analyzed:\n", len(candidates)))
	for _, candidate := range candidates {
		sb.WriteString(fmt.Sprintf("- %s: trust score %d/100, %s risk", candidate.Name, candidate.TrustScore, candidate.RiskLevel))
		if len(candidate.Flags) > 0 {
			sb.WriteString(fmt.Sprintf(", %d flag(s)", len(candidate.Flags)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Paste a GitHub or LinkedIn profile URL to verify it directly.")
	return sb.String()
}

func candidateLines(candidates []CandidateContext) string {
	if len(candidates) == 0 {
		return "No candidates analyzed yet."
	}

	var sb strings.Builder
	for _, candidate := range candidates {
		sb.WriteString(fmt.Sprintf("Candidate: %s\n", candidate.Name))
		sb.WriteString(fmt.Sprintf("- Trust Score: %d/100\n", candidate.TrustScore))
		sb.WriteString(fmt.Sprintf("- Risk Level: %s\n", candidate.RiskLevel))
		if candidate.Email != "" {
			sb.WriteString(fmt.Sprintf("- Email: %s\n", candidate.Email))
		}
		for _, flag := range candidate.Flags {
			sb.WriteString(fmt.Sprintf("- Flag: %s\n", flag))
		}
	}
	return strings.TrimSpace(sb.String())
}
