package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"versepulse/internal/ports"
)

const (
	probeTimeout    = 10 * time.Second
	generateTimeout = 120 * time.Second
	// Pulling a large model can legitimately take minutes.
	pullTimeout = 10 * time.Minute
)

// Model describes one model installed on the backend.
type Model struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Client talks to an Ollama-compatible completion backend.
type Client struct {
	http   *resty.Client
	model  string
	logger *slog.Logger
}

var _ ports.ModelBackend = (*Client)(nil)

// NewClient builds a client bound to one host and model.
func NewClient(host, model string, logger *slog.Logger) *Client {
	return &Client{
		http:   resty.New().SetBaseURL(host),
		model:  model,
		logger: logger,
	}
}

// Generate requests a non-streamed completion and returns the reply text.
// Transport failures wrap ports.ErrBackendUnavailable so callers can tell
// an unreachable backend from one answering with an error status.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	body := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": 0.3,
			"num_predict": 500,
		},
	}

	var out struct {
		Response string `json:"response"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("generate: %w: %v", ports.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("generate: backend returned %s", resp.Status())
	}

	return out.Response, nil
}

// ListModels returns the models installed on the backend; doubles as the
// availability probe.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var out struct {
		Models []Model `json:"models"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/tags")
	if err != nil {
		return nil, fmt.Errorf("list models: %w: %v", ports.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list models: backend returned %s", resp.Status())
	}

	return out.Models, nil
}

// Pull asks the backend to download the configured model.
func (c *Client) Pull(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pullTimeout)
	defer cancel()

	c.info("pulling model", "model", c.model)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"name": c.model, "stream": false}).
		Post("/api/pull")
	if err != nil {
		return fmt.Errorf("pull model: %w: %v", ports.ErrBackendUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("pull model: backend returned %s", resp.Status())
	}

	c.info("model pulled", "model", c.model)
	return nil
}

// EnsureModel verifies the configured model is installed, pulling it when
// absent. Tags like "mistral:7b" match on the base name.
func (c *Client) EnsureModel(ctx context.Context) error {
	models, err := c.ListModels(ctx)
	if err != nil {
		return err
	}

	want := baseName(c.model)
	for _, m := range models {
		if baseName(m.Name) == want {
			c.info("model available", "model", c.model)
			return nil
		}
	}

	return c.Pull(ctx)
}

// WaitAvailable probes the backend until it answers, up to maxRetries
// attempts spaced by delay. This is the only retry loop in the system.
func (c *Client) WaitAvailable(ctx context.Context, maxRetries int, delay time.Duration) error {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if _, err := c.ListModels(ctx); err == nil {
			c.info("backend available")
			return nil
		}

		c.info("waiting for backend", "attempt", attempt, "max", maxRetries)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return fmt.Errorf("backend did not become available after %d attempts: %w", maxRetries, ports.ErrBackendUnavailable)
}

func baseName(model string) string {
	name, _, _ := strings.Cut(model, ":")
	return name
}

func (c *Client) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}
