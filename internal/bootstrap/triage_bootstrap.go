// Package bootstrap wires configuration into the service graph.
package bootstrap

import (
	"github.com/rs/zerolog"

	"triage_server/adapter/out/mailer"
	"triage_server/adapter/out/persistence"
	"triage_server/config"
	"triage_server/core/agent/llm"
	"triage_server/core/port/out"
	"triage_server/core/service/analysis"
	"triage_server/core/service/extraction"
	"triage_server/core/service/pipeline"
	"triage_server/core/service/report"
	"triage_server/core/service/response"
	"triage_server/infra/database"
	"triage_server/pkg/ratelimit"
)

// App is the wired application graph.
type App struct {
	Pipeline *pipeline.Pipeline
	Reports  *report.Service
	Messages out.EnrichedMessageRepository
	Log      zerolog.Logger
}

// New builds the full dependency graph from config. The returned cleanup
// closes the database pool when one was opened.
func New(cfg *config.Config, log zerolog.Logger) (*App, func(), error) {
	cleanup := func() {}

	var messageRepo out.EnrichedMessageRepository
	var reportRepo out.ReportRepository
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		cleanup = pool.Close
		db := database.WrapSQLX(pool)
		messageRepo = persistence.NewEnrichedMessageAdapter(db)
		reportRepo = persistence.NewReportAdapter(db)
		log.Info().Msg("persistence enabled")
	} else {
		log.Warn().Msg("DATABASE_URL not set, running without persistence")
	}

	var analysisOracle, responseOracle out.Oracle
	if cfg.OracleEnabled {
		pacer := ratelimit.NewPacer(&ratelimit.Config{
			MaxConcurrent: cfg.OracleConcurrency,
			MinInterval:   0, // batch pacing handles spacing
		})
		base := llm.NewClientWithConfig(llm.ClientConfig{
			APIKey:      cfg.OracleAPIKey,
			BaseURL:     cfg.OracleBaseURL,
			Model:       cfg.OracleModel,
			MaxTokens:   cfg.AnalysisMaxTokens,
			Temperature: cfg.AnalysisTemp,
			Timeout:     cfg.OracleTimeout,
			Pacer:       pacer,
		})
		analysisOracle = base
		responseOracle = base.WithOverrides(cfg.ResponseMaxTokens, cfg.ResponseTemp)
	} else {
		log.Warn().Msg("oracle disabled, running lexical-only")
	}

	var outMailer out.Mailer
	if cfg.AutoRespond {
		outMailer = mailer.NewSendGridAdapter(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromEmail)
	}

	pipe := pipeline.NewPipeline(
		analysis.NewAnalyzer(analysisOracle, cfg.PriorityScheme, log),
		extraction.NewExtractor(analysisOracle, log),
		response.NewResponder(responseOracle, log),
		messageRepo,
		outMailer,
		pipeline.Config{
			PacingDelay: cfg.PacingDelay,
			AutoRespond: cfg.AutoRespond,
		},
		log,
	)

	return &App{
		Pipeline: pipe,
		Reports:  report.NewService(reportRepo, log),
		Messages: messageRepo,
		Log:      log,
	}, cleanup, nil
}
