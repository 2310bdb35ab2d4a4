package response

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"triage_server/core/domain"
	"triage_server/core/port/out"
)

const (
	oracleConfidence   = 0.9
	templateConfidence = 0.7
)

// Responder runs the response stage: an oracle draft informed by the
// analysis and a knowledge-base snippet, with a template assembly fallback.
type Responder struct {
	oracle out.Oracle
	log    zerolog.Logger
}

// NewResponder creates a responder. A nil oracle means template-only mode.
func NewResponder(oracle out.Oracle, log zerolog.Logger) *Responder {
	return &Responder{
		oracle: oracle,
		log:    log.With().Str("stage", "response").Logger(),
	}
}

// Draft produces a reply suggestion. It never fails: template assembly is
// fully deterministic.
func (r *Responder) Draft(ctx context.Context, msg *domain.Message, analysis *domain.AnalysisResult, extraction *domain.ExtractedInfo) *domain.ResponseDraft {
	snippet := LookupSnippet(analysis.Category)

	if body, err := r.draftWithOracle(ctx, msg, analysis, extraction, snippet); err == nil {
		return &domain.ResponseDraft{
			Body:        body,
			Method:      domain.MethodOracle,
			Confidence:  oracleConfidence,
			ContextUsed: snippet != "",
			GeneratedAt: time.Now().UTC(),
		}
	} else {
		r.log.Warn().Err(err).Msg("oracle draft failed, assembling template response")
	}

	return &domain.ResponseDraft{
		Body:        r.assembleTemplate(msg, analysis, snippet),
		Method:      domain.MethodTemplate,
		Confidence:  templateConfidence,
		ContextUsed: snippet != "",
		GeneratedAt: time.Now().UTC(),
	}
}

func (r *Responder) draftWithOracle(ctx context.Context, msg *domain.Message, analysis *domain.AnalysisResult, extraction *domain.ExtractedInfo, snippet string) (string, error) {
	if r.oracle == nil {
		return "", fmt.Errorf("no oracle configured")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Customer email:\nFrom: %s\nSubject: %s\n\n%s\n\n", msg.Sender, msg.Subject, truncateBody(msg.Body, 2000))
	fmt.Fprintf(&sb, "Analysis:\n- Category: %s\n- Priority: %s\n- Sentiment: %s", analysis.Category, analysis.Priority, analysis.Sentiment)
	if analysis.EmotionalTone != "" {
		fmt.Fprintf(&sb, "\n- Emotional tone: %s", analysis.EmotionalTone)
	}
	if analysis.EmpathyRequired {
		sb.WriteString("\n- The customer needs an explicitly empathetic reply")
	}
	if extraction != nil && extraction.Requirements.PrimaryRequest != "" {
		fmt.Fprintf(&sb, "\n- Primary request: %s", extraction.Requirements.PrimaryRequest)
	}
	if snippet != "" {
		fmt.Fprintf(&sb, "\n\nRelevant knowledge base context:\n%s", snippet)
	}

	resp, err := r.oracle.Complete(ctx, responseSystemPrompt, sb.String())
	if err != nil {
		return "", err
	}
	body := strings.TrimSpace(resp)
	if body == "" {
		return "", fmt.Errorf("empty draft from oracle")
	}
	return body, nil
}

const responseSystemPrompt = `You are a professional customer support agent. Write a complete reply email for the customer message below.

Rules:
- Match the tone to the customer's sentiment and the stated priority
- Address the primary request directly
- Use the knowledge base context when it is relevant
- Sign off as "Customer Support Team"
- Output only the reply body, no subject line`

// assembleTemplate builds the deterministic fallback reply: greeting,
// sentiment opener, tone blocks for the priority tier, knowledge-base line,
// and sign-off.
func (r *Responder) assembleTemplate(msg *domain.Message, analysis *domain.AnalysisResult, snippet string) string {
	tone, ok := toneTemplates[analysis.Priority]
	if !ok {
		tone = toneTemplates[domain.PriorityNormal]
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Dear %s,", msg.SenderDisplayName()))
	parts = append(parts, tone.greeting)
	if opener := sentimentOpeners[analysis.Sentiment]; opener != "" {
		parts = append(parts, opener)
	}
	parts = append(parts, tone.acknowledgment)
	if snippet != "" {
		parts = append(parts, "Here is some information that may help: "+snippet)
	}
	parts = append(parts, tone.action)
	parts = append(parts, tone.contact)
	parts = append(parts, signOff)

	return strings.Join(parts, "\n\n")
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
