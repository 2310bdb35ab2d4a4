package report

import (
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"triage_server/core/domain"
)

func enrichedWith(priority domain.Priority, sentiment domain.Sentiment, score float64, keywords ...string) *domain.EnrichedMessage {
	return &domain.EnrichedMessage{
		Message: domain.Message{Subject: "s", Sender: "u@x.com"},
		Analysis: &domain.AnalysisResult{
			Priority:       priority,
			Sentiment:      sentiment,
			SentimentScore: score,
			Category:       domain.CategoryGeneral,
			Keywords:       keywords,
		},
		Extraction: &domain.ExtractedInfo{},
		Response: &domain.ResponseDraft{
			Method:     domain.MethodTemplate,
			Confidence: 0.7,
		},
	}
}

func TestAggregateEmptyBatch(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())
	rep := svc.Aggregate(nil, 0)

	if rep.TotalProcessed != 0 {
		t.Errorf("expected 0 processed, got %d", rep.TotalProcessed)
	}
	if rep.Statistics.UrgentPercentage != 0 {
		t.Errorf("expected 0%% urgent on empty batch, got %v", rep.Statistics.UrgentPercentage)
	}
	if rep.Statistics.AverageSentimentScore != 0.5 {
		t.Errorf("expected default 0.5 average sentiment, got %v", rep.Statistics.AverageSentimentScore)
	}
	if rep.Statistics.ContactExtractionRate != 0 {
		t.Errorf("expected 0%% extraction rate, got %v", rep.Statistics.ContactExtractionRate)
	}
}

func TestAggregateStatistics(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())

	batch := []*domain.EnrichedMessage{
		enrichedWith(domain.PriorityUrgent, domain.SentimentNegative, 0.2),
		enrichedWith(domain.PriorityNormal, domain.SentimentNeutral, 0.5),
		enrichedWith(domain.PriorityNormal, domain.SentimentPositive, 0.8),
	}
	batch[0].Extraction.Contact.PhoneNumbers = []string{"(555) 123-4567"}
	batch[1].Extraction.Contact.AlternateEmails = []string{"alt@x.com"}

	rep := svc.Aggregate(batch, 3)

	if rep.Statistics.UrgentPercentage != 33.3 {
		t.Errorf("expected 33.3%% urgent, got %v", rep.Statistics.UrgentPercentage)
	}
	if math.Abs(rep.Statistics.AverageSentimentScore-0.5) > 1e-9 {
		t.Errorf("expected 0.5 average sentiment, got %v", rep.Statistics.AverageSentimentScore)
	}
	if rep.Statistics.ContactExtractionRate != 66.7 {
		t.Errorf("expected 66.7%% contact extraction, got %v", rep.Statistics.ContactExtractionRate)
	}
	if rep.TotalStored != 3 {
		t.Errorf("expected 3 stored, got %d", rep.TotalStored)
	}
}

func TestAggregateBreakdownOrder(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())

	batch := []*domain.EnrichedMessage{
		enrichedWith(domain.PriorityNormal, domain.SentimentNeutral, 0.5),
		enrichedWith(domain.PriorityUrgent, domain.SentimentNegative, 0.2),
		enrichedWith(domain.PriorityNormal, domain.SentimentNeutral, 0.5),
	}

	rep := svc.Aggregate(batch, 0)

	if len(rep.PriorityBreakdown) != 2 {
		t.Fatalf("expected 2 priority buckets, got %d", len(rep.PriorityBreakdown))
	}
	// First-seen order: normal came first.
	if rep.PriorityBreakdown[0].Label != "normal" || rep.PriorityBreakdown[0].Count != 2 {
		t.Errorf("expected normal:2 first, got %+v", rep.PriorityBreakdown[0])
	}
	if rep.PriorityBreakdown[1].Label != "urgent" || rep.PriorityBreakdown[1].Count != 1 {
		t.Errorf("expected urgent:1 second, got %+v", rep.PriorityBreakdown[1])
	}
}

func TestRankIssues(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())

	// "crash": 2 mentions, 1 urgent, 1 negative -> 2 + 2 + 1.5 = 5.5
	// "billing": 3 mentions, 0 urgent, 0 negative -> 3.0
	// "slow": 1 mention, 1 urgent, 1 negative -> 1 + 2 + 1.5 = 4.5
	batch := []*domain.EnrichedMessage{
		enrichedWith(domain.PriorityUrgent, domain.SentimentNegative, 0.2, "crash", "slow"),
		enrichedWith(domain.PriorityNormal, domain.SentimentNeutral, 0.5, "crash", "billing"),
		enrichedWith(domain.PriorityNormal, domain.SentimentNeutral, 0.5, "billing"),
		enrichedWith(domain.PriorityNormal, domain.SentimentNeutral, 0.5, "billing"),
	}

	rep := svc.Aggregate(batch, 0)

	if len(rep.TopIssues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(rep.TopIssues))
	}
	wantOrder := []string{"crash", "slow", "billing"}
	for i, want := range wantOrder {
		if rep.TopIssues[i].Keyword != want {
			t.Errorf("position %d: expected %q, got %q (score %v)", i, want, rep.TopIssues[i].Keyword, rep.TopIssues[i].Score)
		}
	}
	if rep.TopIssues[0].Score != 5.5 {
		t.Errorf("expected crash score 5.5, got %v", rep.TopIssues[0].Score)
	}
}

func TestRankIssuesCapAndStability(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())

	// 12 keywords, all with identical scores: the cap keeps the first 10
	// in first-seen order.
	keywords := []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7", "h8", "i9", "j10", "k11", "l12"}
	var batch []*domain.EnrichedMessage
	batch = append(batch, enrichedWith(domain.PriorityNormal, domain.SentimentNeutral, 0.5, keywords...))

	rep := svc.Aggregate(batch, 0)

	if len(rep.TopIssues) != 10 {
		t.Fatalf("expected cap at 10, got %d", len(rep.TopIssues))
	}
	for i := 0; i < 10; i++ {
		if rep.TopIssues[i].Keyword != keywords[i] {
			t.Errorf("position %d: expected %q, got %q", i, keywords[i], rep.TopIssues[i].Keyword)
		}
	}
}

func TestResponseSummary(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())

	oracleDraft := enrichedWith(domain.PriorityNormal, domain.SentimentNeutral, 0.5)
	oracleDraft.Response = &domain.ResponseDraft{Method: domain.MethodOracle, Confidence: 0.9, ContextUsed: true}
	templateDraft := enrichedWith(domain.PriorityNormal, domain.SentimentNeutral, 0.5)
	noDraft := enrichedWith(domain.PriorityNormal, domain.SentimentNeutral, 0.5)
	noDraft.Response = nil

	rep := svc.Aggregate([]*domain.EnrichedMessage{oracleDraft, templateDraft, noDraft}, 0)

	if rep.ResponseSummary.TotalDrafts != 2 {
		t.Errorf("expected 2 drafts, got %d", rep.ResponseSummary.TotalDrafts)
	}
	if rep.ResponseSummary.OracleDrafts != 1 || rep.ResponseSummary.TemplateDrafts != 1 {
		t.Errorf("expected 1 oracle and 1 template, got %+v", rep.ResponseSummary)
	}
	if math.Abs(rep.ResponseSummary.AverageConfidence-0.8) > 1e-9 {
		t.Errorf("expected 0.8 average confidence, got %v", rep.ResponseSummary.AverageConfidence)
	}
	if rep.ResponseSummary.ContextUsageRate != 50.0 {
		t.Errorf("expected 50%% context usage, got %v", rep.ResponseSummary.ContextUsageRate)
	}
}

func TestDetailSortUrgentThenNegative(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())

	batch := []*domain.EnrichedMessage{
		enrichedWith(domain.PriorityNormal, domain.SentimentPositive, 0.8),
		enrichedWith(domain.PriorityNormal, domain.SentimentNegative, 0.2),
		enrichedWith(domain.PriorityUrgent, domain.SentimentPositive, 0.8),
		enrichedWith(domain.PriorityUrgent, domain.SentimentNegative, 0.1),
	}
	batch[0].Message.Subject = "normal-positive"
	batch[1].Message.Subject = "normal-negative"
	batch[2].Message.Subject = "urgent-positive"
	batch[3].Message.Subject = "urgent-negative"

	rep := svc.Aggregate(batch, 0)

	wantOrder := []string{"urgent-negative", "urgent-positive", "normal-negative", "normal-positive"}
	for i, want := range wantOrder {
		if rep.Details[i].Subject != want {
			t.Errorf("position %d: expected %q, got %q", i, want, rep.Details[i].Subject)
		}
	}
}

func TestRenderTextSections(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())

	batch := []*domain.EnrichedMessage{
		enrichedWith(domain.PriorityUrgent, domain.SentimentNegative, 0.2, "outage"),
	}
	rep := svc.Aggregate(batch, 1)
	text := rep.RenderText()

	for _, section := range []string{
		"SUPPORT EMAIL ANALYSIS REPORT",
		"STATISTICS",
		"PRIORITY BREAKDOWN",
		"SENTIMENT BREAKDOWN",
		"CATEGORY BREAKDOWN",
		"TOP ISSUES",
		"RESPONSE SUMMARY",
		"DETAILED RESULTS",
		"outage",
	} {
		if !strings.Contains(text, section) {
			t.Errorf("expected rendered report to contain %q", section)
		}
	}
}
