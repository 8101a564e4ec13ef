package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchParsesDocument(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != browserUserAgent {
			t.Errorf("unexpected user agent: %s", got)
		}
		_, _ = w.Write([]byte(`<html><body><h1>Spectrum</h1></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(nil, 0)

	page, err := fetcher.Fetch(context.Background(), server.URL, 0)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if page.URL == nil || page.URL.Host == "" {
		t.Fatal("page URL not recorded")
	}
	if got := page.Doc.Find("h1").Text(); got != "Spectrum" {
		t.Fatalf("unexpected document content: %q", got)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(nil, 0)

	if _, err := fetcher.Fetch(context.Background(), server.URL, 0); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFetchSettleHonorsCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>ok</body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(nil, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := fetcher.Fetch(ctx, server.URL, 10*time.Second)
	if err == nil {
		t.Fatal("expected context error during settle wait")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("settle wait ignored cancellation, took %s", elapsed)
	}
}
