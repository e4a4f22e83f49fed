package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/talentdesk/exec-connect/internal/ai"
	"github.com/talentdesk/exec-connect/internal/matching"
	"github.com/talentdesk/exec-connect/internal/registry"
	"github.com/talentdesk/exec-connect/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	retryBackoff        = 2 * time.Second
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Composer drafts outreach messages for matched pairs via Gemini.
type Composer struct {
	generator  contentGenerator
	logger     *zap.Logger
	maxRetries int
	maxLogLen  int
}

func NewComposer(generator contentGenerator, logger *zap.Logger, maxRetries, maxLogLength int) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Composer{
		generator:  generator,
		logger:     logger,
		maxRetries: maxRetries,
		maxLogLen:  maxLogLength,
	}
}

// Compose builds the prompt from the pair and its match report, asks the
// generator and parses the structured response. Transient generator
// failures are retried with a fixed backoff.
func (c *Composer) Compose(ctx context.Context, candidate *registry.Candidate, client *registry.Client, report *matching.Report) (*ai.Outreach, error) {
	if candidate == nil {
		return nil, fmt.Errorf("candidate is required")
	}
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if report == nil {
		return nil, fmt.Errorf("match report is required")
	}

	prompt, err := buildPrompt(candidate, client, report)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini outreach request",
		zap.String("candidate_id", candidate.ID),
		zap.String("client_id", client.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini outreach response",
		zap.String("candidate_id", candidate.ID),
		zap.String("client_id", client.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
	)

	outreach, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	outreach.Raw = raw
	return outreach, nil
}

func (c *Composer) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying gemini request", zap.Int("attempt", attempt))
			if err := utils.WaitFor(ctx, retryBackoff); err != nil {
				return "", err
			}
		}

		raw, err := c.generator.GenerateContent(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func buildPrompt(candidate *registry.Candidate, client *registry.Client, report *matching.Report) (string, error) {
	candidateJSON, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate payload: %w", err)
	}

	clientJSON, err := json.MarshalIndent(client, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal client payload: %w", err)
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report payload: %w", err)
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{CANDIDATE_JSON}}", string(candidateJSON))
	prompt = strings.ReplaceAll(prompt, "{{CLIENT_JSON}}", string(clientJSON))
	prompt = strings.ReplaceAll(prompt, "{{REPORT_JSON}}", string(reportJSON))
	return prompt, nil
}

func parseResponse(raw string) (*ai.Outreach, error) {
	cleaned := extractJSON(raw)

	var data struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	message := strings.TrimSpace(data.Message)
	if message == "" {
		return nil, fmt.Errorf("gemini response has no message")
	}

	return &ai.Outreach{
		Subject: strings.TrimSpace(data.Subject),
		Message: message,
	}, nil
}

// extractJSON strips markdown code fences the model tends to wrap its
// JSON in.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
