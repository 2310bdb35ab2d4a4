package extraction

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

// Extractor runs the extraction stage: the regex pass for hard facts, an
// oracle pass for requirements, and the additive confidence score.
type Extractor struct {
	patterns *PatternExtractor
	oracle   out.Oracle
	log      zerolog.Logger
}

// NewExtractor creates an extractor. A nil oracle means requirements come
// from the keyword fallback only.
func NewExtractor(oracle out.Oracle, log zerolog.Logger) *Extractor {
	return &Extractor{
		patterns: NewPatternExtractor(),
		oracle:   oracle,
		log:      log.With().Str("stage", "extraction").Logger(),
	}
}

// Extract produces the structured-fact record for a message. It never
// fails: the regex pass is deterministic and the requirements pass has a
// keyword fallback.
func (e *Extractor) Extract(ctx context.Context, msg *domain.Message) *domain.ExtractedInfo {
	info := e.patterns.Extract(msg)

	if err := e.extractRequirements(ctx, msg, info); err != nil {
		e.log.Warn().Err(err).Msg("oracle requirements failed, using keyword fallback")
		fallbackRequirements(msg, info)
	}

	info.ConfidenceScore = confidenceScore(info)
	info.ExtractedAt = time.Now().UTC()
	return info
}

func (e *Extractor) extractRequirements(ctx context.Context, msg *domain.Message, info *domain.ExtractedInfo) error {
	if e.oracle == nil {
		return fmt.Errorf("no oracle configured")
	}

	userPrompt := fmt.Sprintf("From: %s\nSubject: %s\n\nBody:\n%s",
		msg.Sender, msg.Subject, truncateBody(msg.Body, 2000))

	resp, err := e.oracle.Complete(ctx, requirementsSystemPrompt, userPrompt)
	if err != nil {
		return err
	}

	fields, err := llm.ParseJSONObject(resp)
	if err != nil {
		return err
	}

	info.Requirements.PrimaryRequest = llm.StringField(fields, "primary_request")
	info.Requirements.RequestedActions = llm.StringSliceField(fields, "requested_actions")
	info.Requirements.UrgencySignals = llm.StringSliceField(fields, "urgency_signals")

	if info.Requirements.PrimaryRequest == "" {
		info.Requirements.PrimaryRequest = msg.Subject
	}
	return nil
}

const requirementsSystemPrompt = `You are a customer support analyst. Identify what the sender needs and respond with JSON only.

Respond with this exact JSON format:
{
  "primary_request": "one sentence stating the main thing the sender wants",
  "requested_actions": ["action 1", "action 2"],
  "urgency_signals": ["phrase indicating time pressure"]
}`

// fallbackRequirements derives requirements from keywords when the oracle
// is unavailable: the subject stands in for the primary request.
func fallbackRequirements(msg *domain.Message, info *domain.ExtractedInfo) {
	lower := strings.ToLower(msg.FullText())

	info.Requirements.PrimaryRequest = strings.TrimSpace(msg.Subject)
	if info.Requirements.PrimaryRequest == "" {
		info.Requirements.PrimaryRequest = "General inquiry"
	}

	var actions []string
	if containsAny(lower, "help", "support", "assist") {
		actions = append(actions, "Provide assistance")
	}
	if containsAny(lower, "fix", "resolve", "solve", "repair") {
		actions = append(actions, "Fix the reported issue")
	}
	if containsAny(lower, "information", "details", "explain", "clarify") {
		actions = append(actions, "Provide information")
	}
	info.Requirements.RequestedActions = actions

	if containsAny(lower, "deadline", "by tomorrow", "by friday", "end of day", "eod", "asap") {
		info.Requirements.UrgencySignals = append(info.Requirements.UrgencySignals, "time constraint mentioned")
	}
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// confidenceScore is additive over the fact groups present, capped at 1.0:
// phone +0.2, alternate email +0.1, primary request +0.3, requested
// actions +0.2, error code or version +0.2.
func confidenceScore(info *domain.ExtractedInfo) float64 {
	score := 0.0
	if info.HasPhone() {
		score += 0.2
	}
	if info.HasAlternateEmail() {
		score += 0.1
	}
	if info.Requirements.PrimaryRequest != "" {
		score += 0.3
	}
	if len(info.Requirements.RequestedActions) > 0 {
		score += 0.2
	}
	if len(info.Technical.ErrorCodes) > 0 || len(info.Technical.Versions) > 0 {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

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
