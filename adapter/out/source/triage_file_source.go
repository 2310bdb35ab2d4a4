// Package source provides message source adapters for batch runs.
package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"triage_server/core/domain"
)

// FileSource implements out.MessageSource over a JSON fixture file. Live
// mailbox ingestion would slot in behind the same port.
type FileSource struct {
	path       string
	filterSpam bool
	log        zerolog.Logger
}

// NewFileSource creates a file-backed message source. When filterSpam is
// set, messages outside the support vocabulary are dropped at intake.
func NewFileSource(path string, filterSpam bool, log zerolog.Logger) *FileSource {
	return &FileSource{
		path:       path,
		filterSpam: filterSpam,
		log:        log.With().Str("component", "source").Logger(),
	}
}

type messageRecord struct {
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Sender     string `json:"sender"`
	SenderName string `json:"sender_name"`
	ReceivedAt string `json:"received_at"`
}

// FetchBatch reads all messages from the fixture file.
func (s *FileSource) FetchBatch(_ context.Context) ([]domain.Message, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message file: %w", err)
	}

	var records []messageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse message file: %w", err)
	}

	messages := make([]domain.Message, 0, len(records))
	skipped := 0
	for _, rec := range records {
		msg := domain.Message{
			ID:         uuid.New(),
			Subject:    rec.Subject,
			Body:       rec.Body,
			Sender:     rec.Sender,
			SenderName: rec.SenderName,
			ReceivedAt: parseReceivedAt(rec.ReceivedAt),
		}
		if s.filterSpam && !msg.IsSupportRelated() {
			skipped++
			continue
		}
		messages = append(messages, msg)
	}

	s.log.Info().Int("loaded", len(messages)).Int("skipped", skipped).
		Str("path", s.path).Msg("fetched message batch")
	return messages, nil
}

func parseReceivedAt(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
