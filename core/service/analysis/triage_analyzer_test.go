package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"triage_server/core/domain"
)

// fakeOracle returns canned completions keyed by a marker in the system
// prompt, or a transport error when failing is set.
type fakeOracle struct {
	failing   bool
	sentiment string
	priority  string
	category  string
	calls     int
}

func (f *fakeOracle) Complete(_ context.Context, systemPrompt, _ string) (string, error) {
	f.calls++
	if f.failing {
		return "", errors.New("connection refused")
	}
	switch {
	case strings.Contains(systemPrompt, "sentiment"):
		return f.sentiment, nil
	case strings.Contains(systemPrompt, "priority"):
		return f.priority, nil
	default:
		return f.category, nil
	}
}

func testMessage(subject, body string) *domain.Message {
	return &domain.Message{
		Subject:    subject,
		Body:       body,
		Sender:     "customer@example.com",
		ReceivedAt: time.Now(),
	}
}

func TestAnalyzeOraclePath(t *testing.T) {
	oracle := &fakeOracle{
		sentiment: `{"sentiment": "negative", "score": 0.9, "reasoning": "customer is upset", "key_indicators": ["unacceptable"], "emotional_tone": "angry", "empathy_required": true}`,
		priority:  `{"priority": "urgent", "confidence": 0.95, "reasoning": "production outage", "urgency_indicators": ["down"]}`,
		category:  `{"category": "Technical Support", "confidence": 0.85, "reasoning": "service outage"}`,
	}
	analyzer := NewAnalyzer(oracle, domain.SchemeFourTier, zerolog.Nop())

	result := analyzer.Analyze(context.Background(), testMessage("Site down", "Our production site is down, this is unacceptable"))

	if result.Sentiment != domain.SentimentNegative {
		t.Errorf("expected negative sentiment, got %q", result.Sentiment)
	}
	if result.SentimentScore != 0.9 {
		t.Errorf("expected score 0.9, got %v", result.SentimentScore)
	}
	if !result.EmpathyRequired {
		t.Error("expected empathy_required to carry through")
	}
	if result.Priority != domain.PriorityUrgent {
		t.Errorf("expected urgent, got %q", result.Priority)
	}
	if result.Category != domain.CategoryTechnical {
		t.Errorf("expected Technical Support, got %q", result.Category)
	}
	if len(result.Keywords) == 0 {
		t.Error("expected keywords even on oracle path")
	}
	if result.AnalyzedAt.IsZero() {
		t.Error("expected AnalyzedAt to be set")
	}
}

func TestAnalyzeCategoryClosure(t *testing.T) {
	// An out-of-set category from the oracle must coerce to the default.
	oracle := &fakeOracle{
		sentiment: `{"sentiment": "neutral", "score": 0.5}`,
		priority:  `{"priority": "normal", "confidence": 0.6}`,
		category:  `{"category": "Random Topic", "confidence": 0.9}`,
	}
	analyzer := NewAnalyzer(oracle, domain.SchemeFourTier, zerolog.Nop())

	result := analyzer.Analyze(context.Background(), testMessage("Hi", "Just a question"))
	if result.Category != domain.CategoryGeneral {
		t.Errorf("expected General Support for unknown category, got %q", result.Category)
	}
}

func TestAnalyzeFallbackOnOracleFailure(t *testing.T) {
	analyzer := NewAnalyzer(&fakeOracle{failing: true}, domain.SchemeFourTier, zerolog.Nop())

	result := analyzer.Analyze(context.Background(), testMessage(
		"URGENT: cannot login",
		"I am really frustrated, this is terrible. I cannot access my account.",
	))

	if result.Sentiment != domain.SentimentNegative {
		t.Errorf("expected lexical negative sentiment, got %q", result.Sentiment)
	}
	if result.Priority != domain.PriorityUrgent {
		t.Errorf("expected lexical urgent priority, got %q", result.Priority)
	}
	if result.PriorityConfidence != 0.8 {
		t.Errorf("expected fallback confidence 0.8, got %v", result.PriorityConfidence)
	}
	if result.Category != domain.CategoryAccount {
		t.Errorf("expected Account Support from lexical rules, got %q", result.Category)
	}
	if !strings.HasPrefix(result.SentimentReasoning, "fallback:") {
		t.Errorf("expected fallback marker in reasoning, got %q", result.SentimentReasoning)
	}
	want := []string{"frustrated", "terrible"}
	if len(result.KeyIndicators) != len(want) {
		t.Fatalf("expected key indicators %v, got %v", want, result.KeyIndicators)
	}
	for i, kw := range want {
		if result.KeyIndicators[i] != kw {
			t.Errorf("indicator %d: expected %q, got %q", i, kw, result.KeyIndicators[i])
		}
	}
}

func TestAnalyzeNilOracleIsLexicalOnly(t *testing.T) {
	analyzer := NewAnalyzer(nil, domain.SchemeFourTier, zerolog.Nop())

	result := analyzer.Analyze(context.Background(), testMessage("Question", "What plans do you offer? Pricing info please."))
	if result.Category != domain.CategorySales {
		t.Errorf("expected Sales Inquiry, got %q", result.Category)
	}
	if result.Priority != domain.PriorityNormal {
		t.Errorf("expected normal, got %q", result.Priority)
	}
}

func TestAnalyzeTwoTierScheme(t *testing.T) {
	oracle := &fakeOracle{
		sentiment: `{"sentiment": "neutral", "score": 0.5}`,
		priority:  `{"priority": "high", "confidence": 0.7}`,
		category:  `{"category": "General Support", "confidence": 0.5}`,
	}
	analyzer := NewAnalyzer(oracle, domain.SchemeTwoTier, zerolog.Nop())

	result := analyzer.Analyze(context.Background(), testMessage("Hi", "Hello"))
	if result.Priority != domain.PriorityUrgent {
		t.Errorf("two-tier scheme should coerce high to urgent, got %q", result.Priority)
	}
}

func TestTruncateBodyKeepsValidUTF8(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		maxLen int
		want   string
	}{
		{"short body untouched", "hello", 10, "hello"},
		{"ascii cut", "hello world", 5, "hello..."},
		{"cut lands mid-rune", strings.Repeat("é", 3), 5, "éé..."},
		{"cut on rune boundary", strings.Repeat("é", 3), 4, "éé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateBody(tt.body, tt.maxLen)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncated body is not valid UTF-8: %q", got)
			}
		})
	}
}

func TestFallbackResult(t *testing.T) {
	result := FallbackResult("boom")

	if result.Sentiment != domain.SentimentNeutral || result.SentimentScore != 0.5 {
		t.Errorf("expected neutral/0.5, got %q/%v", result.Sentiment, result.SentimentScore)
	}
	if result.Priority != domain.PriorityNormal {
		t.Errorf("expected normal priority, got %q", result.Priority)
	}
	if result.Category != domain.CategoryGeneral {
		t.Errorf("expected General Support, got %q", result.Category)
	}
	if !strings.Contains(result.SentimentReasoning, "boom") {
		t.Errorf("expected failure reason in reasoning, got %q", result.SentimentReasoning)
	}
}
