package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Page is a fetched, parsed page handle consumed by the resolution engine.
type Page struct {
	URL     *url.URL
	RawHTML string
	Doc     *goquery.Document
}

// Fetcher loads pages over HTTP and parses them into goquery documents.
type Fetcher struct {
	client *http.Client
}

// NewFetcher wires an HTTP client; timeout bounds a single navigation.
func NewFetcher(client *http.Client, timeout time.Duration) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{client: client}
}

// Fetch retrieves pageURL and waits out the settle delay before returning.
// The delay is a concession to client-rendered content mirrored from the
// browser-driven origin of this scraper, kept configurable so tests can
// zero it.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string, settle time.Duration) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read page body: %w", err)
	}

	if err := settleWait(ctx, settle); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return &Page{URL: resp.Request.URL, RawHTML: string(raw), Doc: doc}, nil
}

func settleWait(ctx context.Context, settle time.Duration) error {
	if settle <= 0 {
		return nil
	}

	timer := time.NewTimer(settle)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
