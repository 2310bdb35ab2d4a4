package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"triage_server/core/agent/llm"
	"triage_server/core/domain"
	"triage_server/core/port/out"
)

// Analyzer runs the analysis stage: three classification axes plus keyword
// extraction. Axes are independent; an oracle failure on one axis only
// degrades that axis to the lexical fallback.
type Analyzer struct {
	oracle out.Oracle
	scheme domain.PriorityScheme
	log    zerolog.Logger
}

// NewAnalyzer creates an analyzer. A nil oracle means lexical-only mode.
func NewAnalyzer(oracle out.Oracle, scheme domain.PriorityScheme, log zerolog.Logger) *Analyzer {
	if scheme == "" {
		scheme = domain.SchemeFourTier
	}
	return &Analyzer{
		oracle: oracle,
		scheme: scheme,
		log:    log.With().Str("stage", "analysis").Logger(),
	}
}

// Analyze classifies a message on all axes. It never fails: every axis has
// a deterministic fallback, so the result is always fully populated.
func (a *Analyzer) Analyze(ctx context.Context, msg *domain.Message) *domain.AnalysisResult {
	result := &domain.AnalysisResult{
		AnalyzedAt: time.Now().UTC(),
	}

	a.analyzeSentiment(ctx, msg, result)
	a.analyzePriority(ctx, msg, result)
	a.analyzeCategory(ctx, msg, result)
	result.Keywords = ExtractKeywords(msg.FullText())

	return result
}

func (a *Analyzer) analyzeSentiment(ctx context.Context, msg *domain.Message, result *domain.AnalysisResult) {
	fields, err := a.askOracle(ctx, sentimentSystemPrompt, a.messagePrompt(msg))
	if err != nil {
		a.log.Warn().Err(err).Str("axis", "sentiment").Msg("oracle failed, using lexical fallback")
		sentiment, score, reasoning, indicators := LexicalSentiment(msg.FullText())
		result.Sentiment = sentiment
		result.SentimentScore = score
		result.SentimentReasoning = "fallback: " + reasoning
		result.KeyIndicators = indicators
		return
	}

	result.Sentiment = domain.ParseSentiment(llm.StringField(fields, "sentiment"))
	result.SentimentScore = llm.ScoreField(fields, "score")
	result.SentimentReasoning = llm.StringField(fields, "reasoning")
	result.KeyIndicators = llm.StringSliceField(fields, "key_indicators")
	result.EmotionalTone = llm.StringField(fields, "emotional_tone")
	result.EmpathyRequired = llm.BoolField(fields, "empathy_required")
}

func (a *Analyzer) analyzePriority(ctx context.Context, msg *domain.Message, result *domain.AnalysisResult) {
	fields, err := a.askOracle(ctx, a.prioritySystemPrompt(), a.messagePrompt(msg))
	if err != nil {
		a.log.Warn().Err(err).Str("axis", "priority").Msg("oracle failed, using lexical fallback")
		priority, confidence, indicators := LexicalPriority(msg.FullText())
		result.Priority = priority.Normalize(a.scheme)
		result.PriorityConfidence = confidence
		result.PriorityReasoning = "fallback: urgent keyword scan"
		result.UrgencyIndicators = indicators
		return
	}

	result.Priority = domain.ParsePriority(llm.StringField(fields, "priority")).Normalize(a.scheme)
	result.PriorityConfidence = llm.ScoreField(fields, "confidence")
	result.PriorityReasoning = llm.StringField(fields, "reasoning")
	result.UrgencyIndicators = llm.StringSliceField(fields, "urgency_indicators")
}

func (a *Analyzer) analyzeCategory(ctx context.Context, msg *domain.Message, result *domain.AnalysisResult) {
	fields, err := a.askOracle(ctx, categorySystemPrompt, a.messagePrompt(msg))
	if err != nil {
		a.log.Warn().Err(err).Str("axis", "category").Msg("oracle failed, using lexical fallback")
		category, reasoning := LexicalCategory(msg.FullText())
		result.Category = category
		result.CategoryConfidence = 0.6
		result.CategoryReasoning = "fallback: " + reasoning
		return
	}

	result.Category = domain.ParseCategory(llm.StringField(fields, "category"))
	result.CategoryConfidence = llm.ScoreField(fields, "confidence")
	result.CategoryReasoning = llm.StringField(fields, "reasoning")
}

// askOracle sends one axis prompt and parses the JSON reply. Both transport
// failures and unusable output surface as errors so the caller can fall
// back; results are never fabricated here.
func (a *Analyzer) askOracle(ctx context.Context, systemPrompt, userPrompt string) (map[string]any, error) {
	if a.oracle == nil {
		return nil, fmt.Errorf("no oracle configured")
	}
	resp, err := a.oracle.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	return llm.ParseJSONObject(resp)
}

func (a *Analyzer) messagePrompt(msg *domain.Message) string {
	return fmt.Sprintf("From: %s\nSubject: %s\n\nBody:\n%s",
		msg.Sender, msg.Subject, truncateBody(msg.Body, 2000))
}

const sentimentSystemPrompt = `You are a customer support sentiment analyst. Analyze the email and respond with JSON only.

Respond with this exact JSON format:
{
  "sentiment": "positive|negative|neutral",
  "score": 0.0-1.0,
  "reasoning": "brief explanation",
  "key_indicators": ["phrase1", "phrase2"],
  "emotional_tone": "calm|frustrated|angry|pleased|anxious",
  "empathy_required": true|false
}`

func (a *Analyzer) prioritySystemPrompt() string {
	tiers := "urgent|high|normal|low"
	if a.scheme == domain.SchemeTwoTier {
		tiers = "urgent|normal"
	}
	return fmt.Sprintf(`You are a customer support triage analyst. Determine handling priority and respond with JSON only.

Priority guidelines:
- urgent: service down, data loss, security incident, blocked business, explicit deadline
- high: major functionality impaired, escalation requested
- normal: standard questions and requests
- low: feedback, nice-to-have requests

Respond with this exact JSON format:
{
  "priority": "%s",
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation",
  "urgency_indicators": ["phrase1", "phrase2"]
}`, tiers)
}

const categorySystemPrompt = `You are a customer support routing analyst. Pick exactly ONE category and respond with JSON only.

Categories:
- Technical Support: bugs, errors, crashes, product malfunctions
- Account Support: login, password, account access, verification
- Billing Support: invoices, charges, payments, refunds
- Sales Inquiry: pricing, purchases, plans, demos
- Complaint: dissatisfaction with product or service
- Feature Request: suggestions for new functionality
- General Support: anything else

Respond with this exact JSON format:
{
  "category": "category name",
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation"
}`

func truncateBody(body string, maxLen int) string {
	if len(body) <= maxLen {
		return body
	}
	// Back up to a rune boundary so the prompt stays valid UTF-8.
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}

// FallbackResult builds the defaults used when a message blows up mid-stage:
// neutral sentiment, normal priority, General Support, no keywords.
func FallbackResult(reason string) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Sentiment:          domain.SentimentNeutral,
		SentimentScore:     0.5,
		SentimentReasoning: "analysis failed: " + strings.TrimSpace(reason),
		Priority:           domain.PriorityNormal,
		PriorityConfidence: 0.5,
		Category:           domain.CategoryGeneral,
		CategoryConfidence: 0.5,
		AnalyzedAt:         time.Now().UTC(),
	}
}
