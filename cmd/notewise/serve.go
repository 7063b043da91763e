package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/notewise/internal/api"
	"github.com/MikeSquared-Agency/notewise/internal/config"
	"github.com/MikeSquared-Agency/notewise/internal/hermes"
	"github.com/MikeSquared-Agency/notewise/internal/metrics"
	"github.com/MikeSquared-Agency/notewise/internal/processor"
	"github.com/MikeSquared-Agency/notewise/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the transcript consumer and HTTP API",
	Long: `Run notewise as a service: consume transcript and approval events from
NATS, queue proposed actions in Postgres and serve the HTTP API.

Postgres is optional; without DATABASE_URL actions are analyzed and
published but not queued for approval.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setupLogging(cfg.LogLevel, os.Stdout)

	slog.Info("notewise starting", "port", cfg.Port, "timezone", cfg.Timezone)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	engine, err := newEngine(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	opts := []processor.Option{processor.WithMetrics(metrics.NewMetrics())}

	// Database (optional: without it there is no approval queue)
	var queue api.Queue
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		slog.Info("database connected")
		opts = append(opts, processor.WithStore(db))
		queue = db
	} else {
		slog.Warn("DATABASE_URL not set, running without approval queue")
	}

	// NATS/Hermes
	hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		return err
	}
	defer hermesClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)
	opts = append(opts, processor.WithPublisher(hermesClient))

	proc := processor.New(engine, slog.Default(), opts...)

	if err := hermesClient.Subscribe(hermes.SubjectTranscriptStored, proc.HandleTranscriptStored); err != nil {
		return err
	}
	if err := hermesClient.Subscribe(hermes.SubjectActionApproval, proc.HandleApproval); err != nil {
		return err
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, proc, queue)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	if cfg.APIToken == "" {
		slog.Warn("NOTEWISE_API_TOKEN not set, API is unauthenticated")
	}

	if err := hermesClient.Publish("notewise.service.registered", map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
		"version":   version,
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("notewise ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	slog.Info("shutting down")
	cancel()
	slog.Info("notewise stopped")
	return nil
}
