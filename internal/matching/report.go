package matching

import (
	"fmt"

	"github.com/talentdesk/exec-connect/internal/registry"
)

// Recommendation tiers. Lower bounds are inclusive.
const (
	strongMatchThreshold   = 80.0
	goodMatchThreshold     = 60.0
	possibleMatchThreshold = 40.0

	RecommendationStrong   = "Strong match"
	RecommendationGood     = "Good match"
	RecommendationPossible = "Possible match"
	RecommendationWeak     = "Weak match"
)

// Report is the structured explanation for one (candidate, client) pair.
// It is derived on demand and never stored.
type Report struct {
	CandidateID   string  `json:"candidate_id"`
	CandidateName string  `json:"candidate_name"`
	ClientID      string  `json:"client_id"`
	CompanyName   string  `json:"company_name"`
	OverallScore  float64 `json:"overall_score"`

	SkillsMet              []string `json:"skills_met"`
	SkillsMissing          []string `json:"skills_missing"`
	SpecializationsMatched []string `json:"specializations_matched"`

	ExperienceRequired  float64 `json:"experience_required"`
	CandidateExperience float64 `json:"candidate_experience"`
	ExperienceMet       bool    `json:"experience_met"`
	ExperienceGap       string  `json:"experience_gap"`

	LocationFit    bool   `json:"location_fit"`
	Recommendation string `json:"recommendation"`
}

// Report recomputes the full factor breakdown for the pair and wraps it
// with a recommendation tier.
func (m *Matcher) Report(candidate *registry.Candidate, client *registry.Client) *Report {
	b := evaluate(candidate, client)
	score := b.total()

	experienceMet := candidate.YearsExperience >= client.MinExperienceYears

	return &Report{
		CandidateID:            candidate.ID,
		CandidateName:          candidate.Name,
		ClientID:               client.ID,
		CompanyName:            client.CompanyName,
		OverallScore:           score,
		SkillsMet:              b.skillsMet,
		SkillsMissing:          b.skillsMissing,
		SpecializationsMatched: b.specializationsMatched,
		ExperienceRequired:     client.MinExperienceYears,
		CandidateExperience:    candidate.YearsExperience,
		ExperienceMet:          experienceMet,
		ExperienceGap:          describeExperienceGap(candidate.YearsExperience, client.MinExperienceYears),
		LocationFit:            b.locationFit,
		Recommendation:         Recommendation(score),
	}
}

// Recommendation maps a score to its tier. Boundaries are inclusive at
// the lower bound: 80.0 is already a strong match, 79.9 is not.
func Recommendation(score float64) string {
	switch {
	case score >= strongMatchThreshold:
		return RecommendationStrong
	case score >= goodMatchThreshold:
		return RecommendationGood
	case score >= possibleMatchThreshold:
		return RecommendationPossible
	default:
		return RecommendationWeak
	}
}

func describeExperienceGap(have, required float64) string {
	if required == 0 {
		return "no experience requirement"
	}
	if have >= required {
		return "meets requirement"
	}
	return fmt.Sprintf("%.1f years below the %.1f year minimum", required-have, required)
}
