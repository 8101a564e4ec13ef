package scrape

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"versepulse/internal/domain"
	"versepulse/internal/ports"
)

// Content strategies, richest containers first. The 200-character floor
// filters matching-but-wrong elements (headers, breadcrumbs) that satisfy
// a selector while carrying only a few words.
var contentStrategies = []Strategy{
	{Selector: ".thread-content .content-main", MinTextLen: 200},
	{Selector: ".message-content", MinTextLen: 200},
	{Selector: ".post-content", MinTextLen: 200},
	{Selector: "[class*='ThreadContent']", MinTextLen: 200},
	{Selector: ".content-main", MinTextLen: 200},
	{Selector: "article", MinTextLen: 200},
}

// Extractor pulls the body text of a single thread page.
type Extractor struct {
	fetcher *Fetcher
	settle  time.Duration
	logger  *slog.Logger
}

var _ ports.ContentExtractor = (*Extractor)(nil)

// NewExtractor wires the fetcher with the content settle delay.
func NewExtractor(fetcher *Fetcher, settle time.Duration, logger *slog.Logger) *Extractor {
	return &Extractor{fetcher: fetcher, settle: settle, logger: logger}
}

// Extract fetches the thread page and resolves its text. Every failure
// degrades to an empty string: one unreadable thread must not abort the
// batch. Output never exceeds MaxExtractLen.
func (e *Extractor) Extract(ctx context.Context, thread domain.Thread) string {
	page, err := e.fetcher.Fetch(ctx, thread.URL, e.settle)
	if err != nil {
		e.warn("load thread page failed", "thread", thread.ID, "url", thread.URL, "error", err)
		return ""
	}

	text, matched, err := ResolveText(page, contentStrategies)
	if err != nil {
		if errors.Is(err, ErrNoContent) {
			e.warn("thread page yielded no content", "thread", thread.ID, "url", thread.URL)
			return ""
		}
		e.warn("resolve thread content failed", "thread", thread.ID, "error", err)
		return ""
	}

	e.debug("extracted thread content", "thread", thread.ID, "selector", matched.Selector, "chars", len(text))
	return truncate(text, MaxExtractLen)
}

func (e *Extractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e *Extractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
