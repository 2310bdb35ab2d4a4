package persistence

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"triage_server/core/domain"
)

// ReportAdapter implements out.ReportRepository.
type ReportAdapter struct {
	db *sqlx.DB
}

// NewReportAdapter creates a new ReportAdapter.
func NewReportAdapter(db *sqlx.DB) *ReportAdapter {
	return &ReportAdapter{db: db}
}

// SaveReport stores the full report as a JSONB payload alongside the
// headline columns used for querying.
func (a *ReportAdapter) SaveReport(ctx context.Context, rep *domain.BatchReport) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to encode report payload: %w", err)
	}

	query := `
		INSERT INTO batch_reports (id, analysis_date, total_processed, total_stored, payload, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = a.db.ExecContext(ctx, query,
		rep.ID, rep.AnalysisDate, rep.TotalProcessed, rep.TotalStored, payload, rep.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to save batch report: %w", err)
	}
	return nil
}

// UpsertDailyStats folds the batch into the per-day rolling counters.
func (a *ReportAdapter) UpsertDailyStats(ctx context.Context, rep *domain.BatchReport) error {
	urgent := rep.PriorityBreakdown.Get(string(domain.PriorityUrgent))
	negative := rep.SentimentBreakdown.Get(string(domain.SentimentNegative))

	query := `
		INSERT INTO daily_stats (stat_date, total_processed, urgent_count, negative_count, avg_sentiment_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (stat_date) DO UPDATE SET
			total_processed = daily_stats.total_processed + EXCLUDED.total_processed,
			urgent_count = daily_stats.urgent_count + EXCLUDED.urgent_count,
			negative_count = daily_stats.negative_count + EXCLUDED.negative_count,
			avg_sentiment_score = (daily_stats.avg_sentiment_score + EXCLUDED.avg_sentiment_score) / 2`

	_, err := a.db.ExecContext(ctx, query,
		rep.AnalysisDate, rep.TotalProcessed, urgent, negative,
		rep.Statistics.AverageSentimentScore)
	if err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}
	return nil
}
