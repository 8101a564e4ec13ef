package pushbullet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"versepulse/internal/domain"
	"versepulse/internal/ports"
)

const (
	pushURL     = "https://api.pushbullet.com/v2/pushes"
	sendTimeout = 30 * time.Second
	// Pushbullet truncates long notes; ten features keeps pushes readable.
	maxFeatures = 10
)

// Notifier sends patch summaries as Pushbullet note pushes.
type Notifier struct {
	apiKey string
	http   *resty.Client
	logger *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers the access token.
func NewNotifier(apiKey string, logger *slog.Logger) *Notifier {
	return &Notifier{
		apiKey: apiKey,
		http:   resty.New(),
		logger: logger,
	}
}

// Send pushes one note. A nil return is the delivery acknowledgment the
// coordinator records against; any other outcome leaves the thread
// eligible for retry.
func (n *Notifier) Send(ctx context.Context, thread domain.Thread, summary domain.PatchSummary) error {
	if n.apiKey == "" {
		return fmt.Errorf("pushbullet notifier misconfigured: empty access token")
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := n.http.R().
		SetContext(ctx).
		SetHeader("Access-Token", n.apiKey).
		SetBody(map[string]string{
			"type":  "note",
			"title": "🚀 " + thread.Title,
			"body":  buildBody(summary, thread.URL),
		}).
		Post(pushURL)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("pushbullet returned %s: %s", resp.Status(), strings.TrimSpace(resp.String()))
	}

	n.debug("push sent", "thread", thread.ID, "title", thread.Title)
	return nil
}

// TestPush sends a fixed verification note to confirm the token works.
func (n *Notifier) TestPush(ctx context.Context) error {
	return n.Send(ctx,
		domain.Thread{
			ID:    "test",
			Title: "VersePulse Test",
			URL:   "https://robertsspaceindustries.com/spectrum/community/SC/forum/190048",
		},
		domain.PatchSummary{
			Summary:  "VersePulse is configured and working!",
			Features: []string{"Test notification successful"},
		})
}

func buildBody(summary domain.PatchSummary, url string) string {
	parts := []string{summary.Summary, ""}

	if len(summary.Features) > 0 {
		parts = append(parts, "New Features:")
		features := summary.Features
		if len(features) > maxFeatures {
			features = features[:maxFeatures]
		}
		for _, feature := range features {
			parts = append(parts, "• "+feature)
		}
		parts = append(parts, "")
	}

	parts = append(parts, "Read more: "+url)

	return strings.Join(parts, "\n")
}

func (n *Notifier) debug(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}
