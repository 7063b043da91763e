package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/notewise/internal/config"
	"github.com/MikeSquared-Agency/notewise/internal/metrics"
	"github.com/MikeSquared-Agency/notewise/internal/processor"
)

var (
	analyzeUser       string
	analyzeTranscript string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeUser, "user", "cli", "user id recorded on every action")
	analyzeCmd.Flags().StringVar(&analyzeTranscript, "transcript", "", "transcript id recorded on every action")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze text and print the result as JSON",
	Long: `Analyze text once and print the full result as indented JSON.

Examples:
  # Analyze an argument
  notewise analyze "Call John at 555-123-4567 about the contract"

  # Analyze stdin
  cat notes.txt | notewise analyze --user u-42 --transcript tr-7`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setupLogging(cfg.LogLevel, cmd.ErrOrStderr())

	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimSpace(string(raw))
	}

	engine, err := newEngine(cfg, slog.Default())
	if err != nil {
		return err
	}

	var transcriptID *string
	if analyzeTranscript != "" {
		transcriptID = &analyzeTranscript
	}

	proc := processor.New(engine, slog.Default(), processor.WithMetrics(metrics.NewMetrics()))
	job, err := proc.Analyze(cmd.Context(), processor.Request{
		Text:         text,
		UserID:       analyzeUser,
		TranscriptID: transcriptID,
		Source:       processor.SourceCLI,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(job.Result)
}
