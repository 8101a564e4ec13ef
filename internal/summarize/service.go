package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"versepulse/internal/domain"
	"versepulse/internal/ports"
)

// promptContentLimit clips thread content inside the prompt, below the
// extraction cap, to leave room for the instructions and the completion.
const promptContentLimit = 6000

const promptTemplate = `Analyze the following Star Citizen patch notes and provide:
1. A brief 1-2 sentence summary of what this patch is about
2. A list of NEW FEATURES only (not bug fixes, not improvements to existing features)

Patch Title: %s

Patch Content:
%s

Respond in this exact format:
SUMMARY: [Your 1-2 sentence summary here]

FEATURES:
- [Feature 1]
- [Feature 2]
- [Feature 3]

If there are no new features, write "FEATURES: None"
`

// Service produces patch summaries through the model backend, degrading to
// placeholder summaries whenever the backend cannot help.
type Service struct {
	backend ports.ModelBackend
	logger  *slog.Logger
}

var _ ports.Summarizer = (*Service)(nil)

// NewService wires the model backend.
func NewService(backend ports.ModelBackend, logger *slog.Logger) *Service {
	return &Service{backend: backend, logger: logger}
}

// Summarize asks the backend for a structured summary of the thread
// content and parses the reply. Failures are never propagated: missing
// content, backend errors, and unreachable backends each map to a fixed
// placeholder summary with no features, keeping the item deliverable.
func (s *Service) Summarize(ctx context.Context, title, content string) domain.PatchSummary {
	if content == "" {
		return domain.PatchSummary{
			Summary:  "No content available for this patch.",
			Features: []string{},
		}
	}

	prompt := fmt.Sprintf(promptTemplate, title, clip(content, promptContentLimit))

	reply, err := s.backend.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, ports.ErrBackendUnavailable) {
			s.warn("model backend unreachable", "error", err)
			return domain.PatchSummary{
				Summary:  fmt.Sprintf("Patch: %s (summarization unavailable)", title),
				Features: []string{},
			}
		}
		s.warn("generate summary failed", "error", err)
		return domain.PatchSummary{
			Summary:  fmt.Sprintf("Patch: %s", title),
			Features: []string{},
		}
	}

	return ParseResponse(reply, title)
}

func clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit]))
}

func (s *Service) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
