package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/panyam/letterfreq"
	"github.com/panyam/letterfreq/internal/config"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitStartupError = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 1 {
		printUsage(stderr)
		return ExitInvalidArgs
	}
	if len(args) == 1 {
		switch args[0] {
		case "help", "-h", "--help":
			printUsage(stderr)
			return ExitSuccess
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitStartupError
	}
	if len(args) == 1 {
		cfg = cfg.Merge(config.Config{Strategy: args[0]})
	}

	strategy, err := letterfreq.ParseStrategy(cfg.Strategy)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printUsage(stderr)
		return ExitInvalidArgs
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	batch, err := letterfreq.NewBatch(cfg.Template, cfg.First, cfg.Last)
	if err != nil {
		var serr *letterfreq.StartupError
		if errors.As(err, &serr) {
			logger.Error("Cannot build document batch", "error", err)
			return ExitStartupError
		}
		logger.Error("Unexpected batch error", "error", err)
		return ExitGeneralError
	}

	fetcher := letterfreq.NewSchemeFetcher(letterfreq.NewHTTPFetcher(letterfreq.HTTPOptions{
		MaxIdleConnsPerHost: cfg.HTTP.MaxIdleConnsPerHost,
		Timeout:             cfg.HTTP.Timeout,
	}))
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("Failed to close fetcher", "error", err)
		}
	}()

	counter, err := letterfreq.NewCounter(strategy, fetcher,
		letterfreq.WithLogger(logger),
		letterfreq.WithPollInterval(cfg.PollInterval),
		letterfreq.WithWorkers(cfg.Workers),
	)
	if err != nil {
		logger.Error("Cannot create counter", "error", err)
		return ExitGeneralError
	}

	logger.Info("Counting letters", "strategy", strategy, "documents", len(batch))
	report, err := letterfreq.Run(context.Background(), strategy, counter, batch)
	if err != nil {
		logger.Error("Run failed", "error", err)
		return ExitGeneralError
	}
	if report.Failed > 0 {
		logger.Warn("Some documents could not be fetched", "failed", report.Failed, "documents", report.Documents)
	}
	if _, err := report.WriteTo(stdout); err != nil {
		logger.Error("Failed to write report", "error", err)
		return ExitGeneralError
	}
	return ExitSuccess
}

// loadConfig reads the optional file named by LETTERFREQ_CONFIG, then env.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if path := os.Getenv("LETTERFREQ_CONFIG"); path != "" {
		fileCfg, err := config.LoadFromFile(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: letterfreq [strategy]

Fetches a batch of documents and prints a combined a-z letter histogram.

Strategies:
  sequential  Fetch and count one document at a time
  locked      One goroutine per document, one mutex around the tally, polled completion
  atomic      One goroutine per document, atomic buckets, joined completion (default)
  pooled      Bounded worker pool, partial histograms merged by a reducer

Configuration comes from the YAML file named by LETTERFREQ_CONFIG and
LETTERFREQ_* environment variables.`)
}
