package ports

import (
	"context"
	"errors"
	"time"

	"versepulse/internal/domain"
)

// ErrBackendUnavailable marks transport-level failures reaching the model
// backend, as opposed to the backend answering with an error status.
var ErrBackendUnavailable = errors.New("model backend unavailable")

// ModelBackend is the black-box text completion service.
type ModelBackend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ThreadSource enumerates candidate threads on the listing page.
type ThreadSource interface {
	Discover(ctx context.Context) ([]domain.Thread, error)
}

// ContentExtractor fetches and cleans the body text of a single thread.
// Extraction failure for one thread yields an empty string, never an error.
type ContentExtractor interface {
	Extract(ctx context.Context, thread domain.Thread) string
}

// Summarizer turns thread content into a structured patch summary.
// Implementations degrade to a placeholder summary instead of failing.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) domain.PatchSummary
}

// Notifier delivers one push message; a nil error is the only positive
// delivery acknowledgment the coordinator acts on.
type Notifier interface {
	Send(ctx context.Context, thread domain.Thread, summary domain.PatchSummary) error
}

// SeenStore is the append-only delivery ledger keyed by thread ID.
type SeenStore interface {
	Contains(ctx context.Context, id string) (bool, error)
	MarkSeen(ctx context.Context, record domain.SeenRecord) error
	Count(ctx context.Context) (int, error)
}

// Scheduler controls when monitor cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
