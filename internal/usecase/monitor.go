package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"versepulse/internal/domain"
	"versepulse/internal/ports"
)

// MonitorDeps wires all driven adapters into the monitoring cycle.
type MonitorDeps struct {
	Source     ports.ThreadSource
	Extractor  ports.ContentExtractor
	Summarizer ports.Summarizer
	Notifier   ports.Notifier
	Store      ports.SeenStore
	Logger     *slog.Logger
}

// Monitor orchestrates one check cycle: discover threads, filter the seen
// ledger, enrich, summarize, and deliver each new thread exactly once.
type Monitor struct {
	source     ports.ThreadSource
	extractor  ports.ContentExtractor
	summarizer ports.Summarizer
	notifier   ports.Notifier
	store      ports.SeenStore
	logger     *slog.Logger
}

// NewMonitor constructs the orchestration component.
func NewMonitor(deps MonitorDeps) *Monitor {
	return &Monitor{
		source:     deps.Source,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		notifier:   deps.Notifier,
		store:      deps.Store,
		logger:     deps.Logger,
	}
}

// RunCycle processes threads strictly sequentially in discovery order.
// Per-thread failures are logged and skipped; only discovery and ledger
// read failures abort the cycle, and an aborted cycle leaves every
// unrecorded thread eligible for the next one.
func (m *Monitor) RunCycle(ctx context.Context) error {
	m.info("checking for new patch notes")

	threads, err := m.source.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discover threads: %w", err)
	}

	if len(threads) == 0 {
		m.warn("no threads found")
		return nil
	}

	newCount := 0
	for _, thread := range threads {
		seen, err := m.store.Contains(ctx, thread.ID)
		if err != nil {
			return fmt.Errorf("check seen ledger for %s: %w", thread.ID, err)
		}
		if seen {
			continue
		}

		m.info("new thread found", "id", thread.ID, "title", thread.Title)
		newCount++

		thread.Content = m.extractor.Extract(ctx, thread)
		summary := m.summarizer.Summarize(ctx, thread.Title, thread.Content)

		if err := m.notifyThenRecord(ctx, thread, summary); err != nil {
			m.error("delivery failed, thread stays eligible for retry", "id", thread.ID, "error", err)
			continue
		}

		m.info("notification sent", "id", thread.ID, "title", thread.Title)
	}

	if newCount == 0 {
		m.info("no new threads")
	} else {
		m.info("cycle done", "new_threads", newCount)
	}

	return nil
}

// notifyThenRecord is the at-most-one-delivery invariant in one place:
// the ledger insert happens only after a positive send acknowledgment.
// Never decompose or reorder these two steps.
func (m *Monitor) notifyThenRecord(ctx context.Context, thread domain.Thread, summary domain.PatchSummary) error {
	if err := m.notifier.Send(ctx, thread, summary); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	if err := m.store.MarkSeen(ctx, domain.SeenRecord{
		PostID: thread.ID,
		Title:  thread.Title,
		URL:    thread.URL,
	}); err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}

	return nil
}

func (m *Monitor) info(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Info(msg, args...)
	}
}

func (m *Monitor) warn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}

func (m *Monitor) error(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Error(msg, args...)
	}
}
