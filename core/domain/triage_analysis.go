package domain

import (
	"strings"
	"time"
)

// Sentiment is the emotional tone label for a message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment coerces arbitrary input into the closed sentiment set.
// Unknown values map to neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Priority is the handling urgency tier.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// PriorityScheme selects how many tiers the deployment distinguishes.
type PriorityScheme string

const (
	SchemeFourTier PriorityScheme = "four_tier"
	SchemeTwoTier  PriorityScheme = "two_tier"
)

// ParsePriority coerces arbitrary input into the closed priority set.
// Unknown values map to normal.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityUrgent:
		return PriorityUrgent
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// Normalize maps a priority onto the configured scheme. Two-tier mode
// collapses high into urgent and low into normal.
func (p Priority) Normalize(scheme PriorityScheme) Priority {
	if scheme != SchemeTwoTier {
		return p
	}
	switch p {
	case PriorityUrgent, PriorityHigh:
		return PriorityUrgent
	default:
		return PriorityNormal
	}
}

// IsUrgent reports whether the tier demands immediate handling.
func (p Priority) IsUrgent() bool {
	return p == PriorityUrgent
}

// Category is the support routing label.
type Category string

const (
	CategoryTechnical Category = "Technical Support"
	CategoryAccount   Category = "Account Support"
	CategoryBilling   Category = "Billing Support"
	CategorySales     Category = "Sales Inquiry"
	CategoryComplaint Category = "Complaint"
	CategoryFeature   Category = "Feature Request"
	CategoryGeneral   Category = "General Support"
)

// Categories lists the closed category set in canonical order.
var Categories = []Category{
	CategoryTechnical,
	CategoryAccount,
	CategoryBilling,
	CategorySales,
	CategoryComplaint,
	CategoryFeature,
	CategoryGeneral,
}

// ParseCategory coerces arbitrary input into the closed category set.
// Matching is case-insensitive; unknown values map to General Support.
func ParseCategory(s string) Category {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if normalized == strings.ToLower(string(c)) {
			return c
		}
	}
	return CategoryGeneral
}

// AnalysisResult holds the three classification axes plus extracted keywords.
// Every field is always populated: a failed oracle call falls back to the
// lexical classifier, never to a null label.
type AnalysisResult struct {
	Sentiment          Sentiment `json:"sentiment"`
	SentimentScore     float64   `json:"sentiment_score"`
	SentimentReasoning string    `json:"sentiment_reasoning,omitempty"`
	KeyIndicators      []string  `json:"key_indicators,omitempty"`
	EmotionalTone      string    `json:"emotional_tone,omitempty"`
	EmpathyRequired    bool      `json:"empathy_required"`

	Priority           Priority `json:"priority"`
	PriorityConfidence float64  `json:"priority_confidence"`
	PriorityReasoning  string   `json:"priority_reasoning,omitempty"`
	UrgencyIndicators  []string `json:"urgency_indicators,omitempty"`

	Category           Category `json:"category"`
	CategoryConfidence float64  `json:"category_confidence"`
	CategoryReasoning  string   `json:"category_reasoning,omitempty"`

	Keywords []string `json:"keywords,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}
