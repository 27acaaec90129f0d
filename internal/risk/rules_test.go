package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-verifier/internal/types"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	return engine
}

func flagCodes(flags []types.RiskFlag) []types.FlagCode {
	codes := make([]types.FlagCode, 0, len(flags))
	for _, flag := range flags {
		codes = append(codes, flag.Code)
	}
	return codes
}

func TestGhostCompanyRule(t *testing.T) {
	engine := newTestEngine(t)
	resume := &types.ParsedResume{
		CandidateName: "Jane Smith",
		WorkHistory:   []types.WorkEntry{{CompanyName: "Acme Corp", Title: "Engineer"}},
	}

	tests := []struct {
		name    string
		company types.CompanyVerification
		want    int
	}{
		{
			name: "unregistered without website fires",
			company: types.CompanyVerification{
				CompanyName:       "Acme Corp",
				LegallyRegistered: types.TriFalse,
				RegistrySource:    types.RegistryNone,
			},
			want: 1,
		},
		{
			name: "unregistered with website does not fire",
			company: types.CompanyVerification{
				CompanyName:       "Acme Corp",
				LegallyRegistered: types.TriFalse,
				RegistrySource:    types.RegistryNone,
				HasWebsite:        true,
			},
			want: 0,
		},
		{
			name: "unknown registry answer never fires",
			company: types.CompanyVerification{
				CompanyName:       "Acme Corp",
				LegallyRegistered: types.TriUnknown,
				RegistrySource:    types.RegistryNone,
			},
			want: 0,
		},
		{
			name: "registered company does not fire",
			company: types.CompanyVerification{
				CompanyName:       "Acme Corp",
				LegallyRegistered: types.TriTrue,
				RegistrySource:    types.RegistryUK,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := engine.EvaluateFlags(resume, []types.CompanyVerification{tt.company}, nil, nil)
			require.Len(t, flags, tt.want)
			if tt.want == 1 {
				assert.Equal(t, types.FlagGhostCompany, flags[0].Code)
				assert.Equal(t, types.SeverityCritical, flags[0].Severity)
				assert.Contains(t, flags[0].Message, "Acme Corp")
				require.NotNil(t, flags[0].Evidence)
				require.NotNil(t, flags[0].Evidence.Company)
				assert.Equal(t, "Acme Corp", flags[0].Evidence.Company.CompanyName)
			}
		})
	}
}

func TestGhostCompanyRule_FiresPerCompany(t *testing.T) {
	engine := newTestEngine(t)
	resume := &types.ParsedResume{
		CandidateName: "Jane Smith",
		WorkHistory: []types.WorkEntry{
			{CompanyName: "Acme Corp", Title: "Engineer"},
			{CompanyName: "Globex", Title: "Engineer"},
		},
	}
	companies := []types.CompanyVerification{
		{CompanyName: "Acme Corp", LegallyRegistered: types.TriFalse, RegistrySource: types.RegistryNone},
		{CompanyName: "Globex", LegallyRegistered: types.TriFalse, RegistrySource: types.RegistryNone},
	}

	flags := engine.EvaluateFlags(resume, companies, nil, nil)
	require.Len(t, flags, 2)
	assert.Equal(t, types.FlagGhostCompany, flags[0].Code)
	assert.Equal(t, types.FlagGhostCompany, flags[1].Code)
	assert.Contains(t, flags[0].Message, "Acme Corp")
	assert.Contains(t, flags[1].Message, "Globex")
}

func TestTimelineMismatchRule(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name       string
		start      *time.Time
		domainDate *time.Time
		want       int
	}{
		{
			name:       "start before domain registration fires",
			start:      datePtr(2015, time.January, 1),
			domainDate: datePtr(2018, time.January, 1),
			want:       1,
		},
		{
			name:       "start after domain registration does not fire",
			start:      datePtr(2019, time.June, 1),
			domainDate: datePtr(2018, time.January, 1),
			want:       0,
		},
		{
			name:       "start equal to domain registration does not fire",
			start:      datePtr(2018, time.January, 1),
			domainDate: datePtr(2018, time.January, 1),
			want:       0,
		},
		{
			name:       "missing domain date never fires",
			start:      datePtr(2015, time.January, 1),
			domainDate: nil,
			want:       0,
		},
		{
			name:       "undated work entry never fires",
			start:      nil,
			domainDate: datePtr(2018, time.January, 1),
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := &types.ParsedResume{
				CandidateName: "Jane Smith",
				WorkHistory: []types.WorkEntry{
					{CompanyName: "Acme Corp", Title: "Engineer", StartDate: tt.start},
				},
			}
			companies := []types.CompanyVerification{{
				CompanyName:        "Acme Corp",
				LegallyRegistered:  types.TriTrue,
				RegistrySource:     types.RegistryUK,
				HasWebsite:         true,
				DomainCreationDate: tt.domainDate,
			}}

			flags := engine.EvaluateFlags(resume, companies, nil, nil)
			require.Len(t, flags, tt.want)
			if tt.want == 1 {
				assert.Equal(t, types.FlagTimelineMismatch, flags[0].Code)
				assert.Equal(t, types.SeverityHigh, flags[0].Severity)
				assert.Contains(t, flags[0].Message, "2015-01-01")
				assert.Contains(t, flags[0].Message, "2018-01-01")
			}
		})
	}
}

func TestTimelineMismatchRule_UsesEarliestStartForRepeatedCompany(t *testing.T) {
	engine := newTestEngine(t)
	resume := &types.ParsedResume{
		CandidateName: "Jane Smith",
		WorkHistory: []types.WorkEntry{
			{CompanyName: "Acme Corp", Title: "Engineer", StartDate: datePtr(2019, time.March, 1)},
			{CompanyName: "acme corp", Title: "Senior Engineer", StartDate: datePtr(2016, time.March, 1)},
		},
	}
	companies := []types.CompanyVerification{{
		CompanyName:        "Acme Corp",
		LegallyRegistered:  types.TriTrue,
		RegistrySource:     types.RegistryUS,
		HasWebsite:         true,
		DomainCreationDate: datePtr(2018, time.January, 1),
	}}

	flags := engine.EvaluateFlags(resume, companies, nil, nil)
	require.Len(t, flags, 1)
	assert.Equal(t, types.FlagTimelineMismatch, flags[0].Code)
	assert.Contains(t, flags[0].Message, "2016-03-01")
}

func TestHyperInflationRule(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		title    string
		identity *types.IdentityVerification
		want     int
	}{
		{
			name:  "senior title with thin github fires",
			title: "Senior Backend Engineer",
			identity: &types.IdentityVerification{
				ProfileExists:   types.TriTrue,
				PublicRepoCount: 1,
				FollowerCount:   2,
			},
			want: 1,
		},
		{
			name:  "junior title does not fire",
			title: "Backend Engineer",
			identity: &types.IdentityVerification{
				ProfileExists:   types.TriTrue,
				PublicRepoCount: 1,
				FollowerCount:   2,
			},
			want: 0,
		},
		{
			name:  "senior title with enough repos does not fire",
			title: "Senior Backend Engineer",
			identity: &types.IdentityVerification{
				ProfileExists:   types.TriTrue,
				PublicRepoCount: 12,
				FollowerCount:   2,
			},
			want: 0,
		},
		{
			name:  "senior title with enough followers does not fire",
			title: "Staff Engineer",
			identity: &types.IdentityVerification{
				ProfileExists:   types.TriTrue,
				PublicRepoCount: 1,
				FollowerCount:   40,
			},
			want: 0,
		},
		{
			name:  "unverified profile never fires",
			title: "Principal Engineer",
			identity: &types.IdentityVerification{
				ProfileExists:   types.TriUnknown,
				PublicRepoCount: 0,
				FollowerCount:   0,
			},
			want: 0,
		},
		{
			name:     "missing identity evidence never fires",
			title:    "Lead Engineer",
			identity: nil,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := &types.ParsedResume{
				CandidateName: "Jane Smith",
				WorkHistory:   []types.WorkEntry{{CompanyName: "Acme Corp", Title: tt.title}},
			}

			flags := engine.EvaluateFlags(resume, nil, tt.identity, nil)
			require.Len(t, flags, tt.want)
			if tt.want == 1 {
				assert.Equal(t, types.FlagHyperInflation, flags[0].Code)
				assert.Equal(t, types.SeverityHigh, flags[0].Severity)
				assert.Contains(t, flags[0].Message, tt.title)
			}
		})
	}
}

func TestHyperInflationRule_FiresOncePerResume(t *testing.T) {
	engine := newTestEngine(t)
	resume := &types.ParsedResume{
		CandidateName: "Jane Smith",
		WorkHistory: []types.WorkEntry{
			{CompanyName: "Acme Corp", Title: "Senior Engineer"},
			{CompanyName: "Globex", Title: "Principal Engineer"},
		},
	}
	identity := &types.IdentityVerification{
		ProfileExists:   types.TriTrue,
		PublicRepoCount: 0,
		FollowerCount:   0,
	}

	flags := engine.EvaluateFlags(resume, nil, identity, nil)
	require.Len(t, flags, 1)
	assert.Equal(t, types.FlagHyperInflation, flags[0].Code)
}

func TestSkillMismatchRule(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name      string
		skills    []string
		languages []string
		exists    types.TriState
		want      int
		missing   string
	}{
		{
			name:      "unmatched skills fire once",
			skills:    []string{"rust", "go"},
			languages: []string{"python"},
			exists:    types.TriTrue,
			want:      1,
			missing:   "go, rust",
		},
		{
			name:      "synonym match suppresses the flag",
			skills:    []string{"react"},
			languages: []string{"javascript"},
			exists:    types.TriTrue,
			want:      0,
		},
		{
			name:      "direct match suppresses the flag",
			skills:    []string{"python"},
			languages: []string{"Python"},
			exists:    types.TriTrue,
			want:      0,
		},
		{
			name:      "no claimed skills never fires",
			skills:    nil,
			languages: []string{"python"},
			exists:    types.TriTrue,
			want:      0,
		},
		{
			name:      "unverified profile never fires",
			skills:    []string{"rust"},
			languages: nil,
			exists:    types.TriUnknown,
			want:      0,
		},
		{
			name:      "partial mismatch reports only missing skills",
			skills:    []string{"python", "rust"},
			languages: []string{"python"},
			exists:    types.TriTrue,
			want:      1,
			missing:   "rust",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := &types.ParsedResume{
				CandidateName: "Jane Smith",
				ClaimedSkills: tt.skills,
			}
			identity := &types.IdentityVerification{
				ProfileExists:     tt.exists,
				PublicRepoCount:   10,
				FollowerCount:     10,
				DetectedLanguages: tt.languages,
			}

			flags := engine.EvaluateFlags(resume, nil, identity, nil)
			require.Len(t, flags, tt.want)
			if tt.want == 1 {
				assert.Equal(t, types.FlagSkillMismatch, flags[0].Code)
				assert.Equal(t, types.SeverityMedium, flags[0].Severity)
				assert.Contains(t, flags[0].Message, tt.missing)
			}
		})
	}
}

func TestInvalidGitHubRule(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name      string
		githubURL string
		identity  *types.IdentityVerification
		want      int
	}{
		{
			name:      "linked profile that does not exist fires",
			githubURL: "https://github.com/jane-smith",
			identity:  &types.IdentityVerification{ProfileExists: types.TriFalse},
			want:      1,
		},
		{
			name:      "no github url on resume never fires",
			githubURL: "",
			identity:  &types.IdentityVerification{ProfileExists: types.TriFalse},
			want:      0,
		},
		{
			name:      "rate-limited lookup arrives unknown and never fires",
			githubURL: "https://github.com/jane-smith",
			identity:  &types.IdentityVerification{ProfileExists: types.TriUnknown},
			want:      0,
		},
		{
			name:      "existing profile does not fire",
			githubURL: "https://github.com/jane-smith",
			identity:  &types.IdentityVerification{ProfileExists: types.TriTrue, PublicRepoCount: 5, FollowerCount: 10},
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := &types.ParsedResume{
				CandidateName: "Jane Smith",
				GitHubURL:     tt.githubURL,
			}

			flags := engine.EvaluateFlags(resume, nil, tt.identity, nil)
			require.Len(t, flags, tt.want)
			if tt.want == 1 {
				assert.Equal(t, types.FlagInvalidGitHub, flags[0].Code)
				assert.Equal(t, types.SeverityMedium, flags[0].Severity)
			}
		})
	}
}

func TestNameMismatchRule(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		linkedIn *types.LinkedInVerification
		want     int
	}{
		{
			name:     "low similarity on reachable profile fires",
			linkedIn: &types.LinkedInVerification{ProfileReachable: types.TriTrue, SlugNameSimilarity: 0.0},
			want:     1,
		},
		{
			name:     "similarity at the cutoff does not fire",
			linkedIn: &types.LinkedInVerification{ProfileReachable: types.TriTrue, SlugNameSimilarity: 0.5},
			want:     0,
		},
		{
			name:     "high similarity does not fire",
			linkedIn: &types.LinkedInVerification{ProfileReachable: types.TriTrue, SlugNameSimilarity: 1.0},
			want:     0,
		},
		{
			name:     "unreachable profile never fires",
			linkedIn: &types.LinkedInVerification{ProfileReachable: types.TriUnknown, SlugNameSimilarity: 0.0},
			want:     0,
		},
		{
			name:     "missing linkedin evidence never fires",
			linkedIn: nil,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := &types.ParsedResume{CandidateName: "Jane Smith"}

			flags := engine.EvaluateFlags(resume, nil, nil, tt.linkedIn)
			require.Len(t, flags, tt.want)
			if tt.want == 1 {
				assert.Equal(t, types.FlagNameMismatch, flags[0].Code)
				assert.Equal(t, types.SeverityLow, flags[0].Severity)
			}
		})
	}
}

func TestEvaluateFlags_CustomSeniorityKeywords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules.SeniorityKeywords = append(cfg.Rules.SeniorityKeywords, "wizard")
	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	resume := &types.ParsedResume{
		CandidateName: "Jane Smith",
		WorkHistory:   []types.WorkEntry{{CompanyName: "Acme Corp", Title: "Code Wizard"}},
	}
	identity := &types.IdentityVerification{ProfileExists: types.TriTrue}

	flags := engine.EvaluateFlags(resume, nil, identity, nil)
	require.Len(t, flags, 1)
	assert.Equal(t, types.FlagHyperInflation, flags[0].Code)
}
