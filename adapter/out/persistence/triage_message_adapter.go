// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"triage_server/core/domain"
)

// EnrichedMessageAdapter implements out.EnrichedMessageRepository.
type EnrichedMessageAdapter struct {
	db *sqlx.DB
}

// NewEnrichedMessageAdapter creates a new EnrichedMessageAdapter.
func NewEnrichedMessageAdapter(db *sqlx.DB) *EnrichedMessageAdapter {
	return &EnrichedMessageAdapter{db: db}
}

// enrichedMessageRow represents the database row.
type enrichedMessageRow struct {
	ID              uuid.UUID       `db:"id"`
	Subject         string          `db:"subject"`
	Body            string          `db:"body"`
	Sender          string          `db:"sender"`
	SenderName      sql.NullString  `db:"sender_name"`
	ReceivedAt      time.Time       `db:"received_at"`
	Sentiment       string          `db:"sentiment"`
	SentimentScore  float64         `db:"sentiment_score"`
	Priority        string          `db:"priority"`
	PriorityConf    float64         `db:"priority_confidence"`
	Category        string          `db:"category"`
	CategoryConf    float64         `db:"category_confidence"`
	Keywords        pq.StringArray  `db:"keywords"`
	Extraction      []byte          `db:"extraction"`
	ResponseBody    sql.NullString  `db:"response_body"`
	ResponseMethod  sql.NullString  `db:"response_method"`
	ResponseConf    sql.NullFloat64 `db:"response_confidence"`
	ProcessingError sql.NullString  `db:"processing_error"`
	ProcessedAt     time.Time       `db:"processed_at"`
}

func (r *enrichedMessageRow) toEntity() (*domain.EnrichedMessage, error) {
	em := &domain.EnrichedMessage{
		Message: domain.Message{
			ID:         r.ID,
			Subject:    r.Subject,
			Body:       r.Body,
			Sender:     r.Sender,
			ReceivedAt: r.ReceivedAt,
		},
		Analysis: &domain.AnalysisResult{
			Sentiment:          domain.Sentiment(r.Sentiment),
			SentimentScore:     r.SentimentScore,
			Priority:           domain.Priority(r.Priority),
			PriorityConfidence: r.PriorityConf,
			Category:           domain.Category(r.Category),
			CategoryConfidence: r.CategoryConf,
			Keywords:           r.Keywords,
		},
		ProcessedAt: r.ProcessedAt,
	}
	if r.SenderName.Valid {
		em.Message.SenderName = r.SenderName.String
	}
	if len(r.Extraction) > 0 {
		var info domain.ExtractedInfo
		if err := json.Unmarshal(r.Extraction, &info); err != nil {
			return nil, fmt.Errorf("failed to decode extraction payload: %w", err)
		}
		em.Extraction = &info
	}
	if r.ResponseBody.Valid {
		em.Response = &domain.ResponseDraft{
			Body:       r.ResponseBody.String,
			Method:     domain.GenerationMethod(r.ResponseMethod.String),
			Confidence: r.ResponseConf.Float64,
		}
	}
	if r.ProcessingError.Valid {
		em.ProcessingError = r.ProcessingError.String
	}
	return em, nil
}

// Save upserts an enriched message keyed by message ID.
func (a *EnrichedMessageAdapter) Save(ctx context.Context, em *domain.EnrichedMessage) error {
	if em.Message.ID == uuid.Nil {
		em.Message.ID = uuid.New()
	}

	extraction, err := json.Marshal(em.Extraction)
	if err != nil {
		return fmt.Errorf("failed to encode extraction payload: %w", err)
	}

	var responseBody, responseMethod sql.NullString
	var responseConf sql.NullFloat64
	if em.Response != nil {
		responseBody = sql.NullString{String: em.Response.Body, Valid: true}
		responseMethod = sql.NullString{String: string(em.Response.Method), Valid: true}
		responseConf = sql.NullFloat64{Float64: em.Response.Confidence, Valid: true}
	}

	query := `
		INSERT INTO enriched_messages (
			id, subject, body, sender, sender_name, received_at,
			sentiment, sentiment_score, priority, priority_confidence,
			category, category_confidence, keywords, extraction,
			response_body, response_method, response_confidence,
			processing_error, processed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19
		)
		ON CONFLICT (id) DO UPDATE SET
			sentiment = EXCLUDED.sentiment,
			sentiment_score = EXCLUDED.sentiment_score,
			priority = EXCLUDED.priority,
			priority_confidence = EXCLUDED.priority_confidence,
			category = EXCLUDED.category,
			category_confidence = EXCLUDED.category_confidence,
			keywords = EXCLUDED.keywords,
			extraction = EXCLUDED.extraction,
			response_body = EXCLUDED.response_body,
			response_method = EXCLUDED.response_method,
			response_confidence = EXCLUDED.response_confidence,
			processing_error = EXCLUDED.processing_error,
			processed_at = EXCLUDED.processed_at`

	_, err = a.db.ExecContext(ctx, query,
		em.Message.ID, em.Message.Subject, em.Message.Body, em.Message.Sender,
		nullString(em.Message.SenderName), em.Message.ReceivedAt,
		string(em.Analysis.Sentiment), em.Analysis.SentimentScore,
		string(em.Analysis.Priority), em.Analysis.PriorityConfidence,
		string(em.Analysis.Category), em.Analysis.CategoryConfidence,
		pq.StringArray(em.Analysis.Keywords), extraction,
		responseBody, responseMethod, responseConf,
		nullString(em.ProcessingError), em.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save enriched message: %w", err)
	}
	return nil
}

// ListByDate retrieves messages processed on the given calendar day (UTC).
func (a *EnrichedMessageAdapter) ListByDate(ctx context.Context, date time.Time) ([]*domain.EnrichedMessage, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var rows []enrichedMessageRow
	query := `SELECT * FROM enriched_messages
		WHERE processed_at >= $1 AND processed_at < $2
		ORDER BY processed_at`

	if err := a.db.SelectContext(ctx, &rows, query, dayStart, dayStart.Add(24*time.Hour)); err != nil {
		return nil, fmt.Errorf("failed to list enriched messages: %w", err)
	}

	messages := make([]*domain.EnrichedMessage, 0, len(rows))
	for i := range rows {
		em, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		messages = append(messages, em)
	}
	return messages, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
