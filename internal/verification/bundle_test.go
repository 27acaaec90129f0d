package verification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-verifier/internal/types"
)

func TestGatherEvidence_FullResume(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/uk/search", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(strings.ToLower(r.URL.Query().Get("q")), "acme") {
			_, _ = w.Write([]byte(ukHitPage))
			return
		}
		_, _ = w.Write([]byte(ukMissPage))
	})
	mux.HandleFunc("/gh/users/janedoe", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"created_at":"2016-02-10T08:00:00Z","public_repos":12,"followers":30}`))
	})
	mux.HandleFunc("/gh/users/janedoe/repos", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/li/in/jane-doe", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	v := newTestVerifier(server.URL)
	resume := &types.ParsedResume{
		CandidateName: "Jane Doe",
		GitHubURL:     "https://github.com/janedoe",
		LinkedInURL:   "https://www.linkedin.com/in/jane-doe",
		WorkHistory: []types.WorkEntry{
			{CompanyName: "Acme Widgets", Title: "Engineer"},
			{CompanyName: "Ghost Shell LLC", Title: "Senior Engineer"},
		},
	}

	bundle := v.GatherEvidence(context.Background(), resume)

	require.NotNil(t, bundle)
	require.Len(t, bundle.Companies, 2)
	assert.Equal(t, "Acme Widgets", bundle.Companies[0].CompanyName)
	assert.Equal(t, "Ghost Shell LLC", bundle.Companies[1].CompanyName)
	assert.Equal(t, types.TriTrue, bundle.Companies[0].LegallyRegistered)
	assert.Equal(t, types.RegistryUK, bundle.Companies[0].RegistrySource)
	assert.Equal(t, types.TriFalse, bundle.Companies[1].LegallyRegistered)
	assert.False(t, bundle.Companies[1].HasWebsite)

	require.NotNil(t, bundle.Identity)
	assert.Equal(t, types.TriTrue, bundle.Identity.ProfileExists)
	assert.Equal(t, 12, bundle.Identity.PublicRepoCount)

	require.NotNil(t, bundle.LinkedIn)
	assert.Equal(t, types.TriTrue, bundle.LinkedIn.ProfileReachable)
	assert.InDelta(t, 1.0, bundle.LinkedIn.SlugNameSimilarity, 0.001)
}

func TestGatherEvidence_NoOptionalURLs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/uk/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(ukHitPage))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	v := newTestVerifier(server.URL)
	resume := &types.ParsedResume{
		CandidateName: "Jane Doe",
		WorkHistory:   []types.WorkEntry{{CompanyName: "Acme Widgets"}},
	}

	bundle := v.GatherEvidence(context.Background(), resume)

	require.Len(t, bundle.Companies, 1)
	assert.Nil(t, bundle.Identity)
	assert.Nil(t, bundle.LinkedIn)
}

func TestGatherEvidence_OfflineResolvesToUnknowns(t *testing.T) {
	server := httptest.NewServer(http.NewServeMux())
	serverURL := server.URL
	server.Close()

	v := newTestVerifier(serverURL)
	resume := &types.ParsedResume{
		CandidateName: "Jane Doe",
		GitHubURL:     "https://github.com/janedoe",
		LinkedInURL:   "https://www.linkedin.com/in/jane-doe",
		WorkHistory:   []types.WorkEntry{{CompanyName: "Acme Widgets"}},
	}

	bundle := v.GatherEvidence(context.Background(), resume)

	require.Len(t, bundle.Companies, 1)
	assert.Equal(t, types.TriUnknown, bundle.Companies[0].LegallyRegistered)
	assert.Equal(t, types.RegistryNone, bundle.Companies[0].RegistrySource)

	require.NotNil(t, bundle.Identity)
	assert.Equal(t, types.TriUnknown, bundle.Identity.ProfileExists)
	require.NotNil(t, bundle.LinkedIn)
	assert.Equal(t, types.TriUnknown, bundle.LinkedIn.ProfileReachable)
}

func TestGatherEvidence_DuplicateCompaniesVerifiedOnce(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/uk/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(ukHitPage))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	v := newTestVerifier(server.URL)
	resume := &types.ParsedResume{
		CandidateName: "Jane Doe",
		WorkHistory: []types.WorkEntry{
			{CompanyName: "Acme Widgets", Title: "Engineer"},
			{CompanyName: "acme widgets", Title: "Senior Engineer"},
		},
	}

	bundle := v.GatherEvidence(context.Background(), resume)

	require.Len(t, bundle.Companies, 1)
	assert.Equal(t, "Acme Widgets", bundle.Companies[0].CompanyName)
}
