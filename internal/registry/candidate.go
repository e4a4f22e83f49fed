package registry

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Availability describes whether a candidate can be placed right now.
type Availability string

const (
	AvailabilityAvailable    Availability = "available"
	AvailabilityInterviewing Availability = "interviewing"
	AvailabilityPlaced       Availability = "placed"
	AvailabilityUnavailable  Availability = "unavailable"
)

// validate is shared by both stores. validator.Validate is safe for
// concurrent use and caches struct metadata.
var validate = validator.New()

// Candidate is one person's profile. Slices are compared
// case-insensitively for matching but keep their original casing.
type Candidate struct {
	// ID is assigned by the store on Add and never changes afterwards.
	ID                 string       `json:"id,omitempty"`
	Name               string       `json:"name" validate:"required"`
	Email              string       `json:"email"`
	Phone              string       `json:"phone"`
	Skills             []string     `json:"skills"`
	YearsExperience    float64      `json:"years_experience" validate:"gte=0"`
	Specializations    []string     `json:"specializations"`
	Certifications     []string     `json:"certifications"`
	PortfolioURL       string       `json:"portfolio_url,omitempty"`
	Availability       Availability `json:"availability" validate:"omitempty,oneof=available interviewing placed unavailable"`
	HourlyRate         *float64     `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	PreferredLocations []string     `json:"preferred_locations"`
	CreatedAt          time.Time    `json:"created_at,omitempty"`
}

// HasSkill reports whether the candidate lists the skill, ignoring case.
func (c *Candidate) HasSkill(skill string) bool {
	for _, s := range c.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

// hasSpecialization is the case-insensitive counterpart for specializations.
func (c *Candidate) hasSpecialization(spec string) bool {
	for _, s := range c.Specializations {
		if strings.EqualFold(s, spec) {
			return true
		}
	}
	return false
}

// MeetsRequirements reports whether the candidate satisfies every
// required skill and specialization and the experience floor. It is a
// boolean prefilter, not a score.
func (c *Candidate) MeetsRequirements(requiredSkills []string, minExperience float64, requiredSpecializations []string) bool {
	for _, skill := range requiredSkills {
		if !c.HasSkill(skill) {
			return false
		}
	}

	if c.YearsExperience < minExperience {
		return false
	}

	for _, spec := range requiredSpecializations {
		if !c.hasSpecialization(spec) {
			return false
		}
	}

	return true
}

// normalize applies defaults and makes sure every slice field is owned
// by this instance, so serialization emits empty arrays instead of null.
func (c *Candidate) normalize() {
	if c.Availability == "" {
		c.Availability = AvailabilityAvailable
	}
	if c.Skills == nil {
		c.Skills = []string{}
	}
	if c.Specializations == nil {
		c.Specializations = []string{}
	}
	if c.Certifications == nil {
		c.Certifications = []string{}
	}
	if c.PreferredLocations == nil {
		c.PreferredLocations = []string{}
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
}
