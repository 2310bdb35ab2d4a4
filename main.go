package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"triage_server/adapter/out/source"
	"triage_server/config"
	"triage_server/internal/bootstrap"
)

func main() {
	// Load .env file if exists (for local development)
	_ = godotenv.Load()

	mode := flag.String("mode", "analyze", "Run mode: analyze, report")
	input := flag.String("input", "messages.json", "Path to the message batch file (analyze mode)")
	date := flag.String("date", "", "Report date as YYYY-MM-DD, defaults to today (report mode)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)

	// Fatal would skip deferred cleanup inside run, so errors bubble up
	// here and the exit happens after the pool is closed.
	if err := run(cfg, log, *mode, *input, *date); err != nil {
		log.Error().Err(err).Str("mode", *mode).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger, mode, input, date string) error {
	app, cleanup, err := bootstrap.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	// SIGINT/SIGTERM cancel the batch; completed work is kept.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "analyze":
		return runAnalyze(ctx, cfg, app, input)
	case "report":
		return runReport(ctx, app, date)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func runAnalyze(ctx context.Context, cfg *config.Config, app *bootstrap.App, input string) error {
	src := source.NewFileSource(input, cfg.FilterIntake, app.Log)
	messages, err := src.FetchBatch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch message batch: %w", err)
	}
	app.Log.Info().Int("count", len(messages)).Str("input", input).Msg("batch fetched")

	result := app.Pipeline.ProcessBatch(ctx, messages)

	rep := app.Reports.Aggregate(result.Enriched, result.Stored)
	app.Reports.Publish(ctx, rep)
	fmt.Println(rep.RenderText())

	app.Log.Info().
		Int("processed", rep.TotalProcessed).
		Int("stored", result.Stored).
		Int("failed", result.Failed).
		Bool("cancelled", result.Cancelled).
		Msg("analysis run complete")
	return nil
}

func runReport(ctx context.Context, app *bootstrap.App, date string) error {
	if app.Messages == nil {
		return fmt.Errorf("report mode requires DATABASE_URL")
	}

	day := time.Now().UTC()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return fmt.Errorf("invalid -date %q: %w", date, err)
		}
		day = parsed
	}

	enriched, err := app.Messages.ListByDate(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to load messages for %s: %w", day.Format("2006-01-02"), err)
	}
	app.Log.Info().Int("count", len(enriched)).Str("date", day.Format("2006-01-02")).Msg("messages loaded")

	rep := app.Reports.Aggregate(enriched, len(enriched))
	fmt.Println(rep.RenderText())
	return nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	var log zerolog.Logger
	if cfg.IsDevelopment() {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	} else {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return log.With().Str("service", "triage").Logger()
}
