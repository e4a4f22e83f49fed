package ai

import (
	"context"

	"github.com/talentdesk/exec-connect/internal/matching"
	"github.com/talentdesk/exec-connect/internal/registry"
)

// Outreach is a drafted introduction for a (candidate, client) pair.
type Outreach struct {
	Subject string
	Message string
	Raw     string
}

// Composer drafts outreach messages from a match report.
type Composer interface {
	Compose(ctx context.Context, candidate *registry.Candidate, client *registry.Client, report *matching.Report) (*Outreach, error)
}
