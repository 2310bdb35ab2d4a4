// Package pipeline orchestrates batch enrichment: analysis, extraction,
// and response drafting per message, with per-message failure isolation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/core/service/analysis"
	"triage_server/core/service/extraction"
	"triage_server/core/service/response"
)

// Config tunes batch behavior.
type Config struct {
	// PacingDelay spaces consecutive messages to keep oracle traffic polite.
	PacingDelay time.Duration

	// AutoRespond hands drafts to the mailer after each message.
	AutoRespond bool
}

// Pipeline runs the three enrichment stages over a batch, sequentially.
type Pipeline struct {
	analyzer   *analysis.Analyzer
	extractor  *extraction.Extractor
	responder  *response.Responder
	repository out.EnrichedMessageRepository
	mailer     out.Mailer
	cfg        Config
	log        zerolog.Logger
}

// NewPipeline wires the stages. Repository and mailer are optional;
// nil disables persistence and auto-respond respectively.
func NewPipeline(
	analyzer *analysis.Analyzer,
	extractor *extraction.Extractor,
	responder *response.Responder,
	repository out.EnrichedMessageRepository,
	mailer out.Mailer,
	cfg Config,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		analyzer:   analyzer,
		extractor:  extractor,
		responder:  responder,
		repository: repository,
		mailer:     mailer,
		cfg:        cfg,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// BatchResult carries the processed records plus bookkeeping counts.
type BatchResult struct {
	Enriched  []*domain.EnrichedMessage
	Stored    int
	Failed    int
	Cancelled bool
}

// ProcessBatch enriches messages one at a time. One failing message never
// sinks the batch: it gets a default record with the error noted.
// Cancellation is honored between messages, returning completed work.
func (p *Pipeline) ProcessBatch(ctx context.Context, messages []domain.Message) *BatchResult {
	result := &BatchResult{}

	for i := range messages {
		if ctx.Err() != nil {
			p.log.Warn().Int("processed", len(result.Enriched)).Int("total", len(messages)).
				Msg("batch cancelled, returning completed work")
			result.Cancelled = true
			return result
		}

		if i > 0 && p.cfg.PacingDelay > 0 {
			select {
			case <-time.After(p.cfg.PacingDelay):
			case <-ctx.Done():
				result.Cancelled = true
				return result
			}
		}

		enriched := p.processOne(ctx, &messages[i])
		if enriched.ProcessingError != "" {
			result.Failed++
		}
		result.Enriched = append(result.Enriched, enriched)

		if p.repository != nil {
			if err := p.repository.Save(ctx, enriched); err != nil {
				p.log.Error().Err(err).Str("message_id", enriched.Message.ID.String()).
					Msg("failed to store enriched message")
			} else {
				result.Stored++
			}
		}

		if p.cfg.AutoRespond && p.mailer != nil && enriched.Response != nil && enriched.ProcessingError == "" {
			if err := p.mailer.Send(ctx, enriched.Message.Sender, "Re: "+enriched.Message.Subject, enriched.Response.Body); err != nil {
				p.log.Error().Err(err).Str("to", enriched.Message.Sender).Msg("failed to send auto-response")
			}
		}
	}

	p.log.Info().Int("processed", len(result.Enriched)).Int("stored", result.Stored).
		Int("failed", result.Failed).Msg("batch complete")
	return result
}

// processOne runs all stages for a single message, converting panics into
// a best-effort default record.
func (p *Pipeline) processOne(ctx context.Context, msg *domain.Message) (enriched *domain.EnrichedMessage) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Any("panic", r).Str("subject", msg.Subject).Msg("message processing panicked")
			enriched = p.failedRecord(msg, fmt.Sprintf("panic: %v", r))
		}
	}()

	analysisResult := p.analyzer.Analyze(ctx, msg)
	extractionResult := p.extractor.Extract(ctx, msg)
	draft := p.responder.Draft(ctx, msg, analysisResult, extractionResult)

	return &domain.EnrichedMessage{
		Message:     *msg,
		Analysis:    analysisResult,
		Extraction:  extractionResult,
		Response:    draft,
		ProcessedAt: time.Now().UTC(),
	}
}

// failedRecord carries defaults so downstream aggregation always has all
// three labels even for a message that blew up.
func (p *Pipeline) failedRecord(msg *domain.Message, reason string) *domain.EnrichedMessage {
	return &domain.EnrichedMessage{
		Message:         *msg,
		Analysis:        analysis.FallbackResult(reason),
		Extraction:      &domain.ExtractedInfo{ExtractedAt: time.Now().UTC()},
		Response:        nil,
		ProcessingError: reason,
		ProcessedAt:     time.Now().UTC(),
	}
}
