package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-verifier/internal/assistant"
	"github.com/jonathan/resume-verifier/internal/types"
)

// fakeProfileVerifier returns scripted verification results and records the
// URLs it was asked about.
type fakeProfileVerifier struct {
	identity *types.IdentityVerification
	linkedin *types.LinkedInVerification

	githubURL   string
	linkedinURL string
}

func (f *fakeProfileVerifier) VerifyGitHub(_ context.Context, url string) *types.IdentityVerification {
	f.githubURL = url
	return f.identity
}

func (f *fakeProfileVerifier) VerifyLinkedIn(_ context.Context, url, _ string) *types.LinkedInVerification {
	f.linkedinURL = url
	return f.linkedin
}

func chatWith(t *testing.T, s *Server, message string) *ChatResponse {
	t.Helper()

	w := doJSON(t, s.routes(), http.MethodPost, "/api/chat", ChatRequest{Message: message})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp
}

func TestChatEndpoint_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	w := doRaw(t, s.routes(), http.MethodPost, "/api/chat", `{oops`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestChatEndpoint_EmptyMessage(t *testing.T) {
	s := newTestServer(t)

	for _, message := range []string{"", "   ", "\n\t"} {
		w := doJSON(t, s.routes(), http.MethodPost, "/api/chat", ChatRequest{Message: message})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "message is required")
	}
}

func TestChatEndpoint_NoCandidates(t *testing.T) {
	s := newTestServer(t)

	resp := chatWith(t, s, "who should I hire?")
	assert.Contains(t, resp.Reply, "No candidates analyzed yet")
}

func TestChatEndpoint_SummarizesStoredAnalyses(t *testing.T) {
	s := newTestServer(t)

	seedCandidate(t, s, "Jane Doe", "jane@example.com", 60, types.RiskMedium, []types.RiskFlag{{
		Code:     types.FlagGhostCompany,
		Severity: types.SeverityCritical,
		Message:  "Hooli: no legal registration found and no website presence",
	}})
	seedCandidate(t, s, "John Smith", "john@example.com", 100, types.RiskLow, nil)

	resp := chatWith(t, s, "summarize the candidates")
	assert.Contains(t, resp.Reply, "2 candidate(s) analyzed")
	assert.Contains(t, resp.Reply, "Jane Doe: trust score 60/100, MEDIUM risk, 1 flag(s)")
	assert.Contains(t, resp.Reply, "John Smith: trust score 100/100, LOW risk")
}

func TestChatEndpoint_GitHubMention(t *testing.T) {
	s := newTestServer(t)
	fake := &fakeProfileVerifier{
		identity: &types.IdentityVerification{
			ProfileExists:     types.TriTrue,
			PublicRepoCount:   12,
			FollowerCount:     34,
			DetectedLanguages: []string{"Go", "Python"},
		},
	}
	s.assistant = assistant.New(nil, fake, nil)

	resp := chatWith(t, s, "can you check github.com/janedoe for me?")
	assert.Equal(t, "https://github.com/janedoe", fake.githubURL)
	assert.Contains(t, resp.Reply, "@janedoe is verified")
	assert.Contains(t, resp.Reply, "Public repos: 12, followers: 34")
	assert.Contains(t, resp.Reply, "Go, Python")
}

func TestChatEndpoint_GitHubMissingProfile(t *testing.T) {
	s := newTestServer(t)
	fake := &fakeProfileVerifier{
		identity: &types.IdentityVerification{ProfileExists: types.TriFalse},
	}
	s.assistant = assistant.New(nil, fake, nil)

	resp := chatWith(t, s, "is github.com/ghost real?")
	assert.Contains(t, resp.Reply, "@ghost does not exist")
}

func TestChatEndpoint_LinkedInMention(t *testing.T) {
	s := newTestServer(t)
	fake := &fakeProfileVerifier{
		linkedin: &types.LinkedInVerification{ProfileReachable: types.TriFalse},
	}
	s.assistant = assistant.New(nil, fake, nil)

	resp := chatWith(t, s, "check linkedin.com/in/jane-doe please")
	assert.Equal(t, "https://linkedin.com/in/jane-doe", fake.linkedinURL)
	assert.Contains(t, resp.Reply, "linkedin.com/in/jane-doe is not accessible")
}
