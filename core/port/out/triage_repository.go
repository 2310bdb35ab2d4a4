package out

import (
	"context"
	"time"

	"triage_server/core/domain"
)

// EnrichedMessageRepository persists fully processed messages.
type EnrichedMessageRepository interface {
	Save(ctx context.Context, msg *domain.EnrichedMessage) error
	ListByDate(ctx context.Context, date time.Time) ([]*domain.EnrichedMessage, error)
}

// ReportRepository persists batch reports and rolling daily stats.
type ReportRepository interface {
	SaveReport(ctx context.Context, report *domain.BatchReport) error
	UpsertDailyStats(ctx context.Context, report *domain.BatchReport) error
}
