package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"versepulse/internal/app"
	"versepulse/internal/config"
	"versepulse/internal/infrastructure/pushbullet"
	"versepulse/internal/logging"
)

func main() {
	root := &cobra.Command{
		Use:          "versepulse",
		Short:        "Monitors the RSI Spectrum forum for new patch notes and pushes summaries",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, logger)
			if err != nil {
				logger.Error("startup failed", "error", err)
				return err
			}

			if err := application.Run(ctx); err != nil {
				logger.Error("application stopped", "error", err)
				return err
			}
			return nil
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "test-notification",
		Short: "Send a verification push to confirm the Pushbullet token works",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)

			notifier := pushbullet.NewNotifier(cfg.Pushbullet.APIKey, logger.With("component", "notifier"))
			if err := notifier.TestPush(cmd.Context()); err != nil {
				logger.Error("test notification failed", "error", err)
				return err
			}

			logger.Info("test notification sent")
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
