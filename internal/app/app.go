package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"versepulse/internal/config"
	"versepulse/internal/infrastructure/ollama"
	"versepulse/internal/infrastructure/pushbullet"
	"versepulse/internal/infrastructure/storage"
	"versepulse/internal/logging"
	"versepulse/internal/scheduler"
	"versepulse/internal/scrape"
	"versepulse/internal/summarize"
	"versepulse/internal/usecase"
)

const (
	backendWaitRetries = 30
	backendWaitDelay   = 10 * time.Second
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	backend   *ollama.Client
	store     *storage.SeenStore
	scheduler *usecase.Scheduler
}

// New validates startup configuration and builds a runnable instance.
// Misconfiguration here is an Abort condition: the process must not start.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if cfg.Pushbullet.APIKey == "" {
		return nil, fmt.Errorf("PUSHBULLET_API_KEY is required")
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open seen ledger: %w", err)
	}

	fetcher := scrape.NewFetcher(nil, cfg.Forum.NavTimeout())
	discovery := scrape.NewDiscovery(fetcher, cfg.Forum.URL, cfg.Forum.MaxItems, cfg.Forum.ListingSettle(),
		baseLogger.With("component", "discovery"))
	extractor := scrape.NewExtractor(fetcher, cfg.Forum.ContentSettle(),
		baseLogger.With("component", "extractor"))

	backend := ollama.NewClient(cfg.Ollama.Host, cfg.Ollama.Model, baseLogger.With("component", "ollama"))
	summarizer := summarize.NewService(backend, baseLogger.With("component", "summarizer"))
	notifier := pushbullet.NewNotifier(cfg.Pushbullet.APIKey, baseLogger.With("component", "notifier"))

	monitor := usecase.NewMonitor(usecase.MonitorDeps{
		Source:     discovery,
		Extractor:  extractor,
		Summarizer: summarizer,
		Notifier:   notifier,
		Store:      store,
		Logger:     baseLogger.With("component", "monitor"),
	})

	driver := scheduler.NewIntervalScheduler(cfg.Scheduler.CheckInterval())

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		backend:   backend,
		store:     store,
		scheduler: usecase.NewScheduler(driver, monitor, baseLogger.With("component", "scheduler")),
	}, nil
}

// Run performs the startup sequence and blocks until the context ends.
// The model backend must answer within the bounded probe window and carry
// the configured model; both are environment problems, not data problems,
// so either failure aborts the process.
func (a *Application) Run(ctx context.Context) error {
	defer a.store.Close()

	count, err := a.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("read seen ledger: %w", err)
	}
	a.logger.Info("seen ledger ready", "delivered_threads", count)

	a.logger.Info("waiting for model backend", "host", a.cfg.Ollama.Host)
	if err := a.backend.WaitAvailable(ctx, backendWaitRetries, backendWaitDelay); err != nil {
		return fmt.Errorf("model backend unavailable: %w", err)
	}

	if err := a.backend.EnsureModel(ctx); err != nil {
		return fmt.Errorf("ensure model %s: %w", a.cfg.Ollama.Model, err)
	}

	a.logger.Info("startup complete",
		"forum", a.cfg.Forum.URL,
		"interval", a.cfg.Scheduler.CheckInterval().String())

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}
