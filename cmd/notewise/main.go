// Package main implements the notewise service and CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/notewise/internal/analyzer"
	"github.com/MikeSquared-Agency/notewise/internal/config"
	"github.com/MikeSquared-Agency/notewise/internal/detector"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "notewise",
	Short: "Extract actionable items from free text",
	Long: `notewise turns meeting notes and transcripts into proposed actions:
events, tasks, emails, contacts, reminders and calls.

Run "notewise serve" for the NATS consumer and HTTP API, or
"notewise analyze" to analyze text once and print the result.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func setupLogging(level string, w io.Writer) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// newEngine builds the analysis engine from config: the configured timezone
// drives relative dates and any pattern file extends the built-in detectors.
func newEngine(cfg config.Config, logger *slog.Logger) (*analyzer.Engine, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	defs := detector.Defaults()
	if cfg.PatternsFile != "" {
		extra, err := detector.LoadPatterns(cfg.PatternsFile)
		if err != nil {
			return nil, err
		}
		if defs, err = detector.Extend(defs, extra); err != nil {
			return nil, err
		}
		logger.Info("custom patterns loaded", "file", cfg.PatternsFile, "patterns", len(extra))
	}
	dets, err := detector.NewAll(defs)
	if err != nil {
		return nil, fmt.Errorf("build detectors: %w", err)
	}

	return analyzer.New(
		analyzer.WithClock(func() time.Time { return time.Now().In(loc) }),
		analyzer.WithDetectors(dets),
		analyzer.WithLogger(logger),
	)
}
