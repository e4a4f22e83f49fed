package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

const candidateIDPrefix = "CAND-"

// CandidateStore keeps candidate records in memory, keyed by identifier,
// preserving insertion order for searches and serialization. It defines
// no internal locking; concurrent callers need their own.
type CandidateStore struct {
	items map[string]*Candidate
	order []string
}

// candidateDocument is the persisted JSON layout.
type candidateDocument struct {
	Candidates []*Candidate `json:"candidates"`
}

func NewCandidateStore() *CandidateStore {
	return &CandidateStore{
		items: make(map[string]*Candidate),
	}
}

// Add validates the record, applies defaults, assigns a fresh identifier
// and inserts the record. The assigned identifier is returned.
func (s *CandidateStore) Add(c *Candidate) (string, error) {
	c.normalize()

	if err := validate.Struct(c); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	if c.ID == "" {
		c.ID = candidateIDPrefix + uuid.NewString()
	}

	if _, exists := s.items[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.items[c.ID] = c

	return c.ID, nil
}

// Get returns the record with the given identifier or ErrNotFound.
func (s *CandidateStore) Get(id string) (*Candidate, error) {
	c, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("candidate %q: %w", id, ErrNotFound)
	}
	return c, nil
}

// Remove deletes the record. A second removal of the same identifier
// fails with ErrNotFound.
func (s *CandidateStore) Remove(id string) error {
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("candidate %q: %w", id, ErrNotFound)
	}

	delete(s.items, id)
	for idx, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:idx], s.order[idx+1:]...)
			break
		}
	}
	return nil
}

// All returns every candidate in insertion order.
func (s *CandidateStore) All() []*Candidate {
	result := make([]*Candidate, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.items[id])
	}
	return result
}

func (s *CandidateStore) Len() int {
	return len(s.items)
}

// SearchBySkill returns candidates listing the skill, ignoring case,
// in insertion order.
func (s *CandidateStore) SearchBySkill(skill string) []*Candidate {
	result := make([]*Candidate, 0)
	for _, c := range s.All() {
		if c.HasSkill(skill) {
			result = append(result, c)
		}
	}
	return result
}

// SearchByAvailability filters on the availability status. An unknown
// status yields an empty result rather than an error, so callers can
// probe statuses this version does not know about.
func (s *CandidateStore) SearchByAvailability(status Availability) []*Candidate {
	result := make([]*Candidate, 0)
	for _, c := range s.All() {
		if c.Availability == status {
			result = append(result, c)
		}
	}
	return result
}

// SearchByExperience returns candidates with at least minYears of
// experience. minYears must not be negative.
func (s *CandidateStore) SearchByExperience(minYears float64) ([]*Candidate, error) {
	if minYears < 0 {
		return nil, fmt.Errorf("%w: minimum experience must not be negative", ErrInvalidRecord)
	}

	result := make([]*Candidate, 0)
	for _, c := range s.All() {
		if c.YearsExperience >= minYears {
			result = append(result, c)
		}
	}
	return result, nil
}

// FindMatches is a boolean prefilter over the store: candidates with the
// given availability that satisfy every listed requirement.
func (s *CandidateStore) FindMatches(requiredSkills []string, minExperience float64, requiredSpecializations []string, availability Availability) []*Candidate {
	result := make([]*Candidate, 0)
	for _, c := range s.All() {
		if c.Availability != availability {
			continue
		}
		if c.MeetsRequirements(requiredSkills, minExperience, requiredSpecializations) {
			result = append(result, c)
		}
	}
	return result
}

// SaveToFile writes the store as an indented JSON document. Records keep
// their insertion order.
func (s *CandidateStore) SaveToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("saving candidate store: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(candidateDocument{Candidates: s.All()}); err != nil {
		return fmt.Errorf("saving candidate store: %w", err)
	}
	return nil
}

// LoadFromFile replaces the store's contents with the document at path.
// The load is all-or-nothing: on any error the store keeps its previous
// contents.
func (s *CandidateStore) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("loading candidate store: %w", err)
	}
	defer file.Close()

	dec := json.NewDecoder(file)
	dec.DisallowUnknownFields()

	var doc candidateDocument
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if doc.Candidates == nil {
		return fmt.Errorf("%w: missing candidates field", ErrMalformedDocument)
	}

	items := make(map[string]*Candidate, len(doc.Candidates))
	order := make([]string, 0, len(doc.Candidates))
	for _, c := range doc.Candidates {
		if c == nil {
			return fmt.Errorf("%w: null candidate record", ErrMalformedDocument)
		}
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("%w: candidate without id", ErrMalformedDocument)
		}
		if _, dup := items[c.ID]; dup {
			return fmt.Errorf("%w: duplicate candidate id %q", ErrMalformedDocument, c.ID)
		}

		c.normalize()
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("%w: candidate %q: %v", ErrMalformedDocument, c.ID, err)
		}

		items[c.ID] = c
		order = append(order, c.ID)
	}

	s.items = items
	s.order = order
	return nil
}
