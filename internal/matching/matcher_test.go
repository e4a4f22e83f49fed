package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentdesk/exec-connect/internal/matching"
	"github.com/talentdesk/exec-connect/internal/registry"
)

func portfolioManager() *registry.Candidate {
	return &registry.Candidate{
		Name:            "Emily Chen",
		Skills:          []string{"Portfolio Management", "Risk Analysis"},
		YearsExperience: 15,
		Specializations: []string{"Fixed Income"},
	}
}

func TestScoreFullMatch(t *testing.T) {
	client := &registry.Client{
		CompanyName:        "Meridian Capital",
		RequiredSkills:     []string{"Portfolio Management", "Risk Analysis"},
		MinExperienceYears: 10,
	}

	// 40 skills + 30 experience + 20 specializations (no requirement) +
	// 10 location (no requirement).
	assert.Equal(t, 100.0, matching.Score(portfolioManager(), client))
}

func TestScoreExperienceTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		years  float64
		minExp float64
		expect float64
	}{
		{
			name:   "no requirement gives full credit",
			years:  0,
			minExp: 0,
			expect: 30,
		},
		{
			name:   "meets requirement exactly",
			years:  10,
			minExp: 10,
			expect: 30,
		},
		{
			name:   "exceeding earns no bonus",
			years:  40,
			minExp: 10,
			expect: 30,
		},
		{
			name:   "three quarters lands in the close tier",
			years:  15,
			minExp: 20,
			expect: 20,
		},
		{
			name:   "seventy percent boundary is inclusive",
			years:  7,
			minExp: 10,
			expect: 20,
		},
		{
			name:   "half way lands in the weak tier",
			years:  5,
			minExp: 10,
			expect: 10,
		},
		{
			name:   "forty percent boundary is inclusive",
			years:  4,
			minExp: 10,
			expect: 10,
		},
		{
			name:   "below forty percent scores nothing",
			years:  3,
			minExp: 10,
			expect: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			candidate := &registry.Candidate{Name: "X", YearsExperience: tt.years}
			client := &registry.Client{
				CompanyName:              "Y",
				RequiredSkills:           []string{"Nope"}, // zero out every other factor
				MinExperienceYears:       tt.minExp,
				PreferredSpecializations: []string{"Nope"},
				Location:                 "Mars",
			}

			assert.Equal(t, tt.expect, matching.Score(candidate, client))
		})
	}
}

func TestScoreEmptyRequirements(t *testing.T) {
	// A client with no requirements at all is a perfect fit for anyone.
	anyone := &registry.Candidate{Name: "X"}
	client := &registry.Client{CompanyName: "Y"}

	assert.Equal(t, 100.0, matching.Score(anyone, client))
}

func TestScoreSkillRatio(t *testing.T) {
	candidate := &registry.Candidate{Name: "X", Skills: []string{"Equity Research"}}
	client := &registry.Client{
		CompanyName:              "Y",
		RequiredSkills:           []string{"Equity Research", "Derivatives"},
		MinExperienceYears:       10,
		PreferredSpecializations: []string{"Macro"},
		Location:                 "London",
	}

	// 1 of 2 skills = 20 points; everything else scores zero.
	assert.Equal(t, 20.0, matching.Score(candidate, client))
}

func TestScoreLocationSubstringBothDirections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		preferred []string
		location  string
		expect    float64
	}{
		{
			name:      "client location inside preferred location",
			preferred: []string{"Greater New York Area"},
			location:  "new york",
			expect:    10,
		},
		{
			name:      "preferred location inside client location",
			preferred: []string{"Boston"},
			location:  "Boston, MA",
			expect:    10,
		},
		{
			name:      "no overlap",
			preferred: []string{"Chicago, IL"},
			location:  "Boston, MA",
			expect:    0,
		},
		{
			name:      "no preferred locations with a required one",
			preferred: nil,
			location:  "Boston, MA",
			expect:    0,
		},
		{
			name:      "empty client location is trivially satisfied",
			preferred: nil,
			location:  "",
			expect:    10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			candidate := &registry.Candidate{Name: "X", PreferredLocations: tt.preferred}
			client := &registry.Client{
				CompanyName:              "Y",
				RequiredSkills:           []string{"Nope"},
				MinExperienceYears:       10,
				PreferredSpecializations: []string{"Nope"},
				Location:                 tt.location,
			}

			assert.Equal(t, tt.expect, matching.Score(candidate, client))
		})
	}
}

func TestScoreBounds(t *testing.T) {
	candidates := []*registry.Candidate{
		{Name: "empty"},
		portfolioManager(),
		{Name: "everything", Skills: []string{"A", "B"}, YearsExperience: 50,
			Specializations: []string{"S"}, PreferredLocations: []string{"Anywhere"}},
	}
	clients := []*registry.Client{
		{CompanyName: "empty"},
		{CompanyName: "picky", RequiredSkills: []string{"A", "B", "C"},
			MinExperienceYears: 25, PreferredSpecializations: []string{"S", "T"}, Location: "Anywhere"},
	}

	for _, candidate := range candidates {
		for _, client := range clients {
			score := matching.Score(candidate, client)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		}
	}
}

func TestCandidatesForClient(t *testing.T) {
	candidates := registry.NewCandidateStore()
	clients := registry.NewClientStore()

	// Scores against the client below: strong 100, mid and midTie both
	// 70 (skills 20 + experience 20 + specializations 20 + location 10),
	// weak 40.
	strong := portfolioManager()
	strong.PreferredLocations = []string{"New York, NY"}

	mid := &registry.Candidate{
		Name:               "Marcus Johnson",
		Skills:             []string{"Portfolio Management"},
		YearsExperience:    8,
		PreferredLocations: []string{"New York, NY"},
	}
	midTie := &registry.Candidate{
		Name:               "Priya Nair",
		Skills:             []string{"Risk Analysis"},
		YearsExperience:    8,
		PreferredLocations: []string{"New York, NY"},
	}
	weak := &registry.Candidate{
		Name:               "David Kim",
		Skills:             []string{"Portfolio Management"},
		YearsExperience:    2,
		PreferredLocations: []string{"San Francisco, CA"},
	}

	for _, c := range []*registry.Candidate{strong, mid, midTie, weak} {
		_, err := candidates.Add(c)
		require.NoError(t, err)
	}

	client := &registry.Client{
		CompanyName:        "Meridian Capital",
		RequiredSkills:     []string{"Portfolio Management", "Risk Analysis"},
		MinExperienceYears: 10,
		Location:           "New York, NY",
	}
	_, err := clients.Add(client)
	require.NoError(t, err)

	matcher := matching.New(candidates, clients, nil)

	t.Run("threshold and descending order", func(t *testing.T) {
		matches := matcher.CandidatesForClient(client, 60, 0)
		require.Len(t, matches, 3)
		assert.Equal(t, "Emily Chen", matches[0].Candidate.Name)
		assert.Equal(t, 100.0, matches[0].Score)
		for _, m := range matches {
			assert.GreaterOrEqual(t, m.Score, 60.0)
		}
		for i := 1; i < len(matches); i++ {
			assert.LessOrEqual(t, matches[i].Score, matches[i-1].Score)
		}
	})

	t.Run("ties keep insertion order", func(t *testing.T) {
		matches := matcher.CandidatesForClient(client, 60, 0)
		require.Len(t, matches, 3)
		assert.Equal(t, matches[1].Score, matches[2].Score)
		assert.Equal(t, "Marcus Johnson", matches[1].Candidate.Name)
		assert.Equal(t, "Priya Nair", matches[2].Candidate.Name)
	})

	t.Run("limit truncates", func(t *testing.T) {
		matches := matcher.CandidatesForClient(client, 0, 2)
		require.Len(t, matches, 2)
		assert.Equal(t, "Emily Chen", matches[0].Candidate.Name)
	})

	t.Run("impossible threshold yields empty, not error", func(t *testing.T) {
		assert.Empty(t, matcher.CandidatesForClient(client, 100.1, 0))
	})
}

func TestClientsForCandidate(t *testing.T) {
	candidates := registry.NewCandidateStore()
	clients := registry.NewClientStore()

	candidate := portfolioManager()
	_, err := candidates.Add(candidate)
	require.NoError(t, err)

	easy := &registry.Client{CompanyName: "Open Door"}
	picky := &registry.Client{
		CompanyName:              "Fortress",
		RequiredSkills:           []string{"Quant Research", "C++"},
		MinExperienceYears:       20,
		PreferredSpecializations: []string{"HFT"},
		Location:                 "Chicago, IL",
	}

	_, err = clients.Add(easy)
	require.NoError(t, err)
	_, err = clients.Add(picky)
	require.NoError(t, err)

	matcher := matching.New(candidates, clients, nil)

	matches := matcher.ClientsForCandidate(candidate, 0, 0)
	require.Len(t, matches, 2)
	assert.Equal(t, "Open Door", matches[0].Client.CompanyName)
	assert.Equal(t, 100.0, matches[0].Score)
	assert.Equal(t, "Fortress", matches[1].Client.CompanyName)

	filtered := matcher.ClientsForCandidate(candidate, 60, 0)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Open Door", filtered[0].Client.CompanyName)
}
