package matching

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/talentdesk/exec-connect/internal/registry"
)

// Score weights. Each factor is clamped to its budget before summing, so
// the total always lands in [0,100].
const (
	maxSkillsScore         = 40.0
	maxExperienceScore     = 30.0
	maxSpecializationScore = 20.0
	maxLocationScore       = 10.0

	// Experience partial-credit tiers. Deliberate step function: a
	// candidate at 70% of the required years gets 20 points, at 40%
	// gets 10, below that nothing. Exceeding the floor earns no bonus.
	closeExperienceRatio = 0.7
	closeExperienceScore = 20.0
	weakExperienceRatio  = 0.4
	weakExperienceScore  = 10.0
)

// Matcher ranks candidates and clients against each other using the
// deterministic pairwise score. It only reads from the stores.
type Matcher struct {
	candidates *registry.CandidateStore
	clients    *registry.ClientStore
	logger     *zap.Logger
}

func New(candidates *registry.CandidateStore, clients *registry.ClientStore, logger *zap.Logger) *Matcher {
	return &Matcher{
		candidates: candidates,
		clients:    clients,
		logger:     logger,
	}
}

// CandidateMatch pairs a candidate with its score against some client.
type CandidateMatch struct {
	Candidate *registry.Candidate
	Score     float64
}

// ClientMatch pairs a client with its score against some candidate.
type ClientMatch struct {
	Client *registry.Client
	Score  float64
}

// breakdown carries the four sub-scores plus the detail needed for
// reports, so a report never recomputes the factors inconsistently.
type breakdown struct {
	skills          float64
	experience      float64
	specializations float64
	location        float64

	skillsMet              []string
	skillsMissing          []string
	specializationsMatched []string
	locationFit            bool
}

func (b breakdown) total() float64 {
	return round1(b.skills + b.experience + b.specializations + b.location)
}

// Score computes the 0-100 compatibility score for one pair. It is a
// pure function of its inputs.
func Score(candidate *registry.Candidate, client *registry.Client) float64 {
	return evaluate(candidate, client).total()
}

func evaluate(candidate *registry.Candidate, client *registry.Client) breakdown {
	b := breakdown{
		skillsMet:              []string{},
		skillsMissing:          []string{},
		specializationsMatched: []string{},
	}

	// Skills: no requirement is trivially satisfied.
	if len(client.RequiredSkills) == 0 {
		b.skills = maxSkillsScore
	} else {
		for _, skill := range client.RequiredSkills {
			if candidate.HasSkill(skill) {
				b.skillsMet = append(b.skillsMet, skill)
			} else {
				b.skillsMissing = append(b.skillsMissing, skill)
			}
		}
		ratio := float64(len(b.skillsMet)) / float64(len(client.RequiredSkills))
		b.skills = math.Min(maxSkillsScore*ratio, maxSkillsScore)
	}

	// Experience: fixed tiers, never a bonus above the budget.
	switch {
	case client.MinExperienceYears == 0:
		b.experience = maxExperienceScore
	case candidate.YearsExperience >= client.MinExperienceYears:
		b.experience = maxExperienceScore
	case candidate.YearsExperience >= closeExperienceRatio*client.MinExperienceYears:
		b.experience = closeExperienceScore
	case candidate.YearsExperience >= weakExperienceRatio*client.MinExperienceYears:
		b.experience = weakExperienceScore
	}

	// Specializations: same ratio rule as skills.
	if len(client.PreferredSpecializations) == 0 {
		b.specializations = maxSpecializationScore
	} else {
		for _, spec := range client.PreferredSpecializations {
			for _, have := range candidate.Specializations {
				if strings.EqualFold(have, spec) {
					b.specializationsMatched = append(b.specializationsMatched, spec)
					break
				}
			}
		}
		ratio := float64(len(b.specializationsMatched)) / float64(len(client.PreferredSpecializations))
		b.specializations = math.Min(maxSpecializationScore*ratio, maxSpecializationScore)
	}

	// Location: binary, substring in either direction.
	if client.Location == "" {
		b.location = maxLocationScore
		b.locationFit = true
	} else if locationMatches(candidate.PreferredLocations, client.Location) {
		b.location = maxLocationScore
		b.locationFit = true
	}

	return b
}

// locationMatches reports whether any preferred location contains, or is
// contained by, the client location, ignoring case.
func locationMatches(preferred []string, location string) bool {
	want := strings.ToLower(location)
	for _, loc := range preferred {
		have := strings.ToLower(loc)
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return true
		}
	}
	return false
}

// CandidatesForClient scores every stored candidate against the client,
// keeps those at or above minScore, and returns them sorted by score
// descending. Ties keep store insertion order. A limit of zero or less
// means unlimited.
func (m *Matcher) CandidatesForClient(client *registry.Client, minScore float64, limit int) []CandidateMatch {
	matches := make([]CandidateMatch, 0)
	for _, candidate := range m.candidates.All() {
		score := Score(candidate, client)
		if score >= minScore {
			matches = append(matches, CandidateMatch{Candidate: candidate, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	if m.logger != nil {
		m.logger.Debug("ranked candidates for client",
			zap.String("client_id", client.ID),
			zap.Float64("min_score", minScore),
			zap.Int("matches", len(matches)),
		)
	}

	return matches
}

// ClientsForCandidate is the symmetric ranking over the client store.
func (m *Matcher) ClientsForCandidate(candidate *registry.Candidate, minScore float64, limit int) []ClientMatch {
	matches := make([]ClientMatch, 0)
	for _, client := range m.clients.All() {
		score := Score(candidate, client)
		if score >= minScore {
			matches = append(matches, ClientMatch{Client: client, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	if m.logger != nil {
		m.logger.Debug("ranked clients for candidate",
			zap.String("candidate_id", candidate.ID),
			zap.Float64("min_score", minScore),
			zap.Int("matches", len(matches)),
		)
	}

	return matches
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
