package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is an inbound support email awaiting enrichment.
type Message struct {
	ID         uuid.UUID `json:"id"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Sender     string    `json:"sender"`
	SenderName string    `json:"sender_name,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// supportVocabulary gates intake: a message mentioning none of these terms
// is not routed through the enrichment pipeline.
var supportVocabulary = []string{
	"help", "support", "issue", "problem", "error", "bug", "broken",
	"crash", "login", "password", "account", "billing", "payment",
	"refund", "cancel", "upgrade", "feature", "request", "urgent", "asap",
}

// FullText returns the text the analyzers and extractors scan.
func (m *Message) FullText() string {
	return m.Subject + "\n\n" + m.Body
}

// IsSupportRelated reports whether the message matches the support vocabulary.
func (m *Message) IsSupportRelated() bool {
	text := strings.ToLower(m.FullText())
	for _, term := range supportVocabulary {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// SenderDisplayName returns the best-effort addressee for response drafts.
// Falls back to the capitalized local part of the sender address.
func (m *Message) SenderDisplayName() string {
	if m.SenderName != "" {
		return m.SenderName
	}
	local := m.Sender
	if at := strings.Index(local, "@"); at > 0 {
		local = local[:at]
	}
	if local == "" {
		return "Customer"
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

// EnrichedMessage is the fully processed record: the original message plus
// all three enrichment stage outputs.
type EnrichedMessage struct {
	Message    Message         `json:"message"`
	Analysis   *AnalysisResult `json:"analysis"`
	Extraction *ExtractedInfo  `json:"extraction"`
	Response   *ResponseDraft  `json:"response"`

	// ProcessingError notes a per-message failure; the record still carries
	// best-effort defaults so one bad message never sinks a batch.
	ProcessingError string `json:"processing_error,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}
