package domain

import "time"

// GenerationMethod records which path produced a response draft.
type GenerationMethod string

const (
	MethodOracle   GenerationMethod = "oracle"
	MethodTemplate GenerationMethod = "template"
)

// ResponseDraft is a suggested reply for a support message.
type ResponseDraft struct {
	Body       string           `json:"body"`
	Method     GenerationMethod `json:"method"`
	Confidence float64          `json:"confidence"`

	// ContextUsed is set when a knowledge-base snippet informed the draft.
	ContextUsed bool `json:"context_used"`

	GeneratedAt time.Time `json:"generated_at"`
}
