package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

const clientIDPrefix = "CLI-"

// ClientStore is the client-side counterpart of CandidateStore: an
// in-memory, insertion-ordered collection with JSON persistence and no
// internal locking.
type ClientStore struct {
	items map[string]*Client
	order []string
}

type clientDocument struct {
	Clients []*Client `json:"clients"`
}

func NewClientStore() *ClientStore {
	return &ClientStore{
		items: make(map[string]*Client),
	}
}

// Add validates the record, applies defaults, assigns a fresh identifier
// and inserts the record.
func (s *ClientStore) Add(c *Client) (string, error) {
	c.normalize()

	if err := validate.Struct(c); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	if c.ID == "" {
		c.ID = clientIDPrefix + uuid.NewString()
	}

	if _, exists := s.items[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.items[c.ID] = c

	return c.ID, nil
}

// Get returns the record with the given identifier or ErrNotFound.
func (s *ClientStore) Get(id string) (*Client, error) {
	c, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("client %q: %w", id, ErrNotFound)
	}
	return c, nil
}

// Remove deletes the record or fails with ErrNotFound.
func (s *ClientStore) Remove(id string) error {
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("client %q: %w", id, ErrNotFound)
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

// All returns every client in insertion order.
func (s *ClientStore) All() []*Client {
	result := make([]*Client, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.items[id])
	}
	return result
}

func (s *ClientStore) Len() int {
	return len(s.items)
}

// SearchByType filters on the client type, exact match.
func (s *ClientStore) SearchByType(clientType ClientType) []*Client {
	result := make([]*Client, 0)
	for _, c := range s.All() {
		if c.Type == clientType {
			result = append(result, c)
		}
	}
	return result
}

// SearchUrgent returns clients flagged as urgent.
func (s *ClientStore) SearchUrgent() []*Client {
	result := make([]*Client, 0)
	for _, c := range s.All() {
		if c.Urgent {
			result = append(result, c)
		}
	}
	return result
}

// SearchByLocation matches the substring against each client's location,
// ignoring case.
func (s *ClientStore) SearchByLocation(substring string) []*Client {
	needle := strings.ToLower(substring)
	result := make([]*Client, 0)
	for _, c := range s.All() {
		if strings.Contains(strings.ToLower(c.Location), needle) {
			result = append(result, c)
		}
	}
	return result
}

// SaveToFile writes the store as an indented JSON document in insertion
// order.
func (s *ClientStore) SaveToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("saving client store: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(clientDocument{Clients: s.All()}); err != nil {
		return fmt.Errorf("saving client store: %w", err)
	}
	return nil
}

// LoadFromFile replaces the store's contents, all-or-nothing.
func (s *ClientStore) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("loading client store: %w", err)
	}
	defer file.Close()

	dec := json.NewDecoder(file)
	dec.DisallowUnknownFields()

	var doc clientDocument
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if doc.Clients == nil {
		return fmt.Errorf("%w: missing clients field", ErrMalformedDocument)
	}

	items := make(map[string]*Client, len(doc.Clients))
	order := make([]string, 0, len(doc.Clients))
	for _, c := range doc.Clients {
		if c == nil {
			return fmt.Errorf("%w: null client record", ErrMalformedDocument)
		}
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("%w: client without id", ErrMalformedDocument)
		}
		if _, dup := items[c.ID]; dup {
			return fmt.Errorf("%w: duplicate client id %q", ErrMalformedDocument, c.ID)
		}

		c.normalize()
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("%w: client %q: %v", ErrMalformedDocument, c.ID, err)
		}

		items[c.ID] = c
		order = append(order, c.ID)
	}

	s.items = items
	s.order = order
	return nil
}
