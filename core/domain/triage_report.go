package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BreakdownEntry is one labeled bucket of a breakdown counter.
type BreakdownEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Breakdown is an ordered counter: labels appear in first-seen order so
// report output is stable across runs over the same input.
type Breakdown []BreakdownEntry

// Inc increments the bucket for label, appending it on first sight.
func (b *Breakdown) Inc(label string) {
	for i := range *b {
		if (*b)[i].Label == label {
			(*b)[i].Count++
			return
		}
	}
	*b = append(*b, BreakdownEntry{Label: label, Count: 1})
}

// Get returns the count for label, zero when absent.
func (b Breakdown) Get(label string) int {
	for _, e := range b {
		if e.Label == label {
			return e.Count
		}
	}
	return 0
}

// IssueCount is one ranked entry of the top-issues table.
type IssueCount struct {
	Keyword       string  `json:"keyword"`
	Count         int     `json:"count"`
	UrgentCount   int     `json:"urgent_count"`
	NegativeCount int     `json:"negative_count"`
	Score         float64 `json:"score"`
}

// ReportStatistics is the headline numbers block of a batch report.
type ReportStatistics struct {
	UrgentPercentage      float64 `json:"urgent_percentage"`
	AverageSentimentScore float64 `json:"average_sentiment_score"`
	ContactExtractionRate float64 `json:"contact_extraction_rate"`
}

// ResponseSummary aggregates the response stage across a batch.
type ResponseSummary struct {
	TotalDrafts       int     `json:"total_drafts"`
	OracleDrafts      int     `json:"oracle_drafts"`
	TemplateDrafts    int     `json:"template_drafts"`
	AverageConfidence float64 `json:"average_confidence"`
	ContextUsageRate  float64 `json:"context_usage_rate"`
}

// MessageDetail is a per-message line item for the report detail section.
type MessageDetail struct {
	Subject        string    `json:"subject"`
	Sender         string    `json:"sender"`
	Priority       Priority  `json:"priority"`
	Sentiment      Sentiment `json:"sentiment"`
	Category       Category  `json:"category"`
	PrimaryRequest string    `json:"primary_request,omitempty"`
	HasResponse    bool      `json:"has_response"`
	HadError       bool      `json:"had_error"`
}

// BatchReport is the aggregate view over one processed batch.
type BatchReport struct {
	ID           uuid.UUID `json:"id"`
	AnalysisDate string    `json:"analysis_date"`
	AnalysisTime string    `json:"analysis_time"`

	TotalProcessed int `json:"total_emails_processed"`
	TotalStored    int `json:"emails_stored"`

	Statistics ReportStatistics `json:"statistics"`

	PriorityBreakdown  Breakdown `json:"priority_breakdown"`
	SentimentBreakdown Breakdown `json:"sentiment_breakdown"`
	CategoryBreakdown  Breakdown `json:"category_breakdown"`

	TopIssues []IssueCount `json:"top_issues"`

	ResponseSummary ResponseSummary `json:"response_summary"`

	Details []MessageDetail `json:"details,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// RenderText produces the human-readable report artifact.
// Detail rows are expected to arrive pre-sorted (urgent first, then
// negative first) by the aggregation engine.
func (r *BatchReport) RenderText() string {
	var sb strings.Builder

	sb.WriteString("SUPPORT EMAIL ANALYSIS REPORT\n")
	sb.WriteString("=============================\n")
	fmt.Fprintf(&sb, "Date: %s  Time: %s\n", r.AnalysisDate, r.AnalysisTime)
	fmt.Fprintf(&sb, "Emails processed: %d  Stored: %d\n\n", r.TotalProcessed, r.TotalStored)

	sb.WriteString("STATISTICS\n")
	fmt.Fprintf(&sb, "  Urgent percentage:       %.1f%%\n", r.Statistics.UrgentPercentage)
	fmt.Fprintf(&sb, "  Average sentiment score: %.2f\n", r.Statistics.AverageSentimentScore)
	fmt.Fprintf(&sb, "  Contact extraction rate: %.1f%%\n\n", r.Statistics.ContactExtractionRate)

	writeBreakdown(&sb, "PRIORITY BREAKDOWN", r.PriorityBreakdown)
	writeBreakdown(&sb, "SENTIMENT BREAKDOWN", r.SentimentBreakdown)
	writeBreakdown(&sb, "CATEGORY BREAKDOWN", r.CategoryBreakdown)

	sb.WriteString("TOP ISSUES\n")
	if len(r.TopIssues) == 0 {
		sb.WriteString("  (none)\n")
	}
	for i, issue := range r.TopIssues {
		fmt.Fprintf(&sb, "  %2d. %s (mentions: %d, urgent: %d, negative: %d, score: %.1f)\n",
			i+1, issue.Keyword, issue.Count, issue.UrgentCount, issue.NegativeCount, issue.Score)
	}
	sb.WriteString("\n")

	sb.WriteString("RESPONSE SUMMARY\n")
	fmt.Fprintf(&sb, "  Drafts: %d (oracle: %d, template: %d)\n",
		r.ResponseSummary.TotalDrafts, r.ResponseSummary.OracleDrafts, r.ResponseSummary.TemplateDrafts)
	fmt.Fprintf(&sb, "  Average confidence: %.2f\n", r.ResponseSummary.AverageConfidence)
	fmt.Fprintf(&sb, "  Context usage rate: %.1f%%\n\n", r.ResponseSummary.ContextUsageRate)

	if len(r.Details) > 0 {
		sb.WriteString("DETAILED RESULTS\n")
		for _, d := range r.Details {
			flag := " "
			if d.Priority.IsUrgent() {
				flag = "!"
			}
			fmt.Fprintf(&sb, "  [%s] %-8s %-8s %-18s %s (from %s)\n",
				flag, d.Priority, d.Sentiment, d.Category, d.Subject, d.Sender)
			if d.PrimaryRequest != "" {
				fmt.Fprintf(&sb, "      request: %s\n", d.PrimaryRequest)
			}
			if d.HadError {
				sb.WriteString("      note: processed with fallback defaults\n")
			}
		}
	}

	return sb.String()
}

func writeBreakdown(sb *strings.Builder, title string, b Breakdown) {
	sb.WriteString(title + "\n")
	if len(b) == 0 {
		sb.WriteString("  (none)\n\n")
		return
	}
	for _, e := range b {
		fmt.Fprintf(sb, "  %-20s %d\n", e.Label, e.Count)
	}
	sb.WriteString("\n")
}
