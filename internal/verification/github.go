package verification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-verifier/internal/fetch"
	"github.com/jonathan/resume-verifier/internal/types"
)

// maxReposAnalyzed bounds the per-candidate repository scan.
const maxReposAnalyzed = 30

// GitHubUsername pulls the username out of a profile URL. Returns "" when
// the URL does not name a user.
func GitHubUsername(githubURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(githubURL), "/")
	username := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if i := strings.Index(username, "?"); i >= 0 {
		username = username[:i]
	}

	switch strings.ToLower(username) {
	case "", "github.com", "www.github.com":
		return ""
	}
	return username
}

// VerifyGitHub resolves the candidate's public GitHub evidence. A 404 from
// the users API is an explicit negative; rate limits, API errors, and
// transport failures all resolve to unknown.
func (v *Verifier) VerifyGitHub(ctx context.Context, githubURL string) *types.IdentityVerification {
	identity := &types.IdentityVerification{ProfileExists: types.TriUnknown}

	username := GitHubUsername(githubURL)
	if username == "" {
		// The resume links GitHub but not any user profile
		identity.ProfileExists = types.TriFalse
		return identity
	}

	resp, err := v.githubGet(ctx, v.gitHubAPIBase+"/users/"+url.PathEscape(username))
	if err != nil {
		v.log.Debug("github user lookup failed", zap.String("username", username), zap.Error(err))
		return identity
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		identity.ProfileExists = types.TriFalse
		return identity
	case http.StatusForbidden:
		v.log.Warn("github API rate limited", zap.String("username", username))
		return identity
	default:
		v.log.Debug("github API error", zap.String("username", username), zap.Int("status", resp.StatusCode))
		return identity
	}

	var user struct {
		CreatedAt   time.Time `json:"created_at"`
		PublicRepos int       `json:"public_repos"`
		Followers   int       `json:"followers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		v.log.Debug("github user decode failed", zap.String("username", username), zap.Error(err))
		return identity
	}

	identity.ProfileExists = types.TriTrue
	identity.PublicRepoCount = user.PublicRepos
	identity.FollowerCount = user.Followers
	if !user.CreatedAt.IsZero() {
		created := user.CreatedAt
		identity.AccountCreated = &created
	}

	v.analyzeRepos(ctx, username, identity)
	return identity
}

// analyzeRepos fills language and activity evidence from the most recently
// updated public repositories. A failure here leaves those fields empty;
// profile existence is already settled.
func (v *Verifier) analyzeRepos(ctx context.Context, username string, identity *types.IdentityVerification) {
	reposURL := v.gitHubAPIBase + "/users/" + url.PathEscape(username) + "/repos?sort=updated&per_page=100"

	resp, err := v.githubGet(ctx, reposURL)
	if err != nil {
		v.log.Debug("github repos lookup failed", zap.String("username", username), zap.Error(err))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		v.log.Debug("github repos status", zap.String("username", username), zap.Int("status", resp.StatusCode))
		return
	}

	var repos []struct {
		Name      string    `json:"name"`
		Language  string    `json:"language"`
		Fork      bool      `json:"fork"`
		UpdatedAt time.Time `json:"updated_at"`
		PushedAt  time.Time `json:"pushed_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		v.log.Debug("github repos decode failed", zap.String("username", username), zap.Error(err))
		return
	}
	if len(repos) > maxReposAnalyzed {
		repos = repos[:maxReposAnalyzed]
	}

	// Forks still count as activity, but only original repos count as
	// evidence the candidate writes the language.
	counts := make(map[string]int)
	var lastActivity time.Time
	for _, repo := range repos {
		if !repo.Fork && repo.Language != "" {
			counts[repo.Language]++
		}
		activity := repo.PushedAt
		if activity.IsZero() {
			activity = repo.UpdatedAt
		}
		if activity.After(lastActivity) {
			lastActivity = activity
		}
	}

	languages := make([]string, 0, len(counts))
	for lang := range counts {
		languages = append(languages, lang)
	}
	// Most-used first; alphabetical tie-break keeps output stable
	sort.Slice(languages, func(i, j int) bool {
		if counts[languages[i]] != counts[languages[j]] {
			return counts[languages[i]] > counts[languages[j]]
		}
		return languages[i] < languages[j]
	})

	if len(languages) > 0 {
		identity.DetectedLanguages = languages
	}
	if !lastActivity.IsZero() {
		last := lastActivity
		identity.LastActivityDate = &last
	}
}

func (v *Verifier) githubGet(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", fetch.DefaultUserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if v.cfg.GitHubToken != "" {
		req.Header.Set("Authorization", "token "+v.cfg.GitHubToken)
	}
	return v.client.Do(req)
}
