package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"versepulse/internal/domain"
	"versepulse/internal/ports"
)

const minTitleLen = 5

// Listing strategies, most layout-specific first. The forum markup is not
// a stable contract; new layouts are handled by appending strategies here.
var listingStrategies = []Strategy{
	{Selector: ".forum-thread-item a[href*='/thread/']"},
	{Selector: "[class*='thread-item'] a[href*='/thread/']"},
	{Selector: "[class*='ThreadItem'] a[href*='/thread/']"},
	{Selector: ".thread-row a[href*='/thread/']"},
	{Selector: "a[href*='/thread/']"},
}

// Discovery enumerates candidate threads on the forum listing page.
type Discovery struct {
	fetcher    *Fetcher
	listingURL string
	maxItems   int
	settle     time.Duration
	logger     *slog.Logger
}

var _ ports.ThreadSource = (*Discovery)(nil)

// NewDiscovery wires the fetcher with listing-page parameters.
func NewDiscovery(fetcher *Fetcher, listingURL string, maxItems int, settle time.Duration, logger *slog.Logger) *Discovery {
	return &Discovery{
		fetcher:    fetcher,
		listingURL: listingURL,
		maxItems:   maxItems,
		settle:     settle,
		logger:     logger,
	}
}

// Discover scrapes the listing page and returns up to maxItems threads in
// DOM order of first occurrence, deduplicated by normalized thread ID.
// Content is left unset; enrichment happens per thread later.
func (d *Discovery) Discover(ctx context.Context) ([]domain.Thread, error) {
	page, err := d.fetcher.Fetch(ctx, d.listingURL, d.settle)
	if err != nil {
		return nil, fmt.Errorf("load listing page: %w", err)
	}

	anchors, matched, ok := ResolveNodes(page, listingStrategies)
	if !ok {
		d.debug("no thread anchors found", "url", d.listingURL)
		return nil, nil
	}
	d.debug("matched listing strategy", "selector", matched.Selector, "anchors", anchors.Length())

	base := page.URL
	seen := map[string]struct{}{}
	threads := make([]domain.Thread, 0, d.maxItems)

	anchors.EachWithBreak(func(i int, link *goquery.Selection) bool {
		href, exists := link.Attr("href")
		if !exists {
			return true
		}

		title := strings.TrimSpace(link.Text())
		if len([]rune(title)) < minTitleLen {
			// Icon-only or decorative link, not a thread title.
			return true
		}

		absolute, id, err := normalizeThreadURL(base, href)
		if err != nil {
			d.debug("skip malformed href", "href", href, "error", err)
			return true
		}
		if id == "" {
			return true
		}

		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}

		threads = append(threads, domain.Thread{
			ID:    id,
			Title: title,
			URL:   absolute,
		})

		return len(threads) < d.maxItems
	})

	d.debug("discovery done", "threads", len(threads))
	return threads, nil
}

// normalizeThreadURL absolutizes href against the listing base and derives
// the thread ID: the path segment following /thread/ up to the next slash
// or the path end. Two hrefs normalizing to the same ID are one thread.
func normalizeThreadURL(base *url.URL, href string) (string, string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", "", fmt.Errorf("parse href: %w", err)
	}

	absolute := ref
	if base != nil {
		absolute = base.ResolveReference(ref)
	}

	return absolute.String(), threadID(absolute.Path), nil
}

func threadID(path string) string {
	const marker = "/thread/"
	idx := strings.Index(path, marker)
	if idx < 0 {
		return ""
	}

	id := path[idx+len(marker):]
	if slash := strings.IndexByte(id, '/'); slash >= 0 {
		id = id[:slash]
	}
	return id
}

func (d *Discovery) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
