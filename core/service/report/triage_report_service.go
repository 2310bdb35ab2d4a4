// Package report aggregates enriched messages into batch reports.
package report

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"triage_server/core/domain"
	"triage_server/core/port/out"
)

const maxTopIssues = 10

// Service builds batch reports and persists them through the report
// repository when one is configured.
type Service struct {
	repository out.ReportRepository
	log        zerolog.Logger
}

func NewService(repository out.ReportRepository, log zerolog.Logger) *Service {
	return &Service{
		repository: repository,
		log:        log.With().Str("component", "report").Logger(),
	}
}

// Aggregate folds a batch of enriched messages into a report. All ratios
// are divide-by-zero guarded; an empty batch yields a valid zeroed report.
func (s *Service) Aggregate(enriched []*domain.EnrichedMessage, stored int) *domain.BatchReport {
	now := time.Now().UTC()
	rep := &domain.BatchReport{
		ID:             uuid.New(),
		AnalysisDate:   now.Format("2006-01-02"),
		AnalysisTime:   now.Format("15:04:05"),
		TotalProcessed: len(enriched),
		TotalStored:    stored,
		GeneratedAt:    now,
	}

	urgent := 0
	sentimentSum := 0.0
	withPhone := 0
	withAltEmail := 0

	tallies := make(map[string]*issueTally)
	var issueOrder []string

	for _, em := range enriched {
		a := em.Analysis
		if a == nil {
			continue
		}

		rep.PriorityBreakdown.Inc(string(a.Priority))
		rep.SentimentBreakdown.Inc(string(a.Sentiment))
		rep.CategoryBreakdown.Inc(string(a.Category))

		if a.Priority.IsUrgent() {
			urgent++
		}
		sentimentSum += a.SentimentScore

		if em.Extraction != nil {
			if em.Extraction.HasPhone() {
				withPhone++
			}
			if em.Extraction.HasAlternateEmail() {
				withAltEmail++
			}
		}

		for _, kw := range a.Keywords {
			tally, ok := tallies[kw]
			if !ok {
				tally = &issueTally{}
				tallies[kw] = tally
				issueOrder = append(issueOrder, kw)
			}
			tally.count++
			if a.Priority.IsUrgent() {
				tally.urgent++
			}
			if a.Sentiment == domain.SentimentNegative {
				tally.negative++
			}
		}

		rep.Details = append(rep.Details, detailOf(em))
	}

	total := len(enriched)
	if total > 0 {
		rep.Statistics.UrgentPercentage = round1(float64(urgent) / float64(total) * 100)
		rep.Statistics.AverageSentimentScore = sentimentSum / float64(total)
		rep.Statistics.ContactExtractionRate = round1(float64(withPhone+withAltEmail) / float64(total) * 100)
	} else {
		rep.Statistics.AverageSentimentScore = 0.5
	}

	rep.TopIssues = rankIssues(issueOrder, tallies)
	rep.ResponseSummary = summarizeResponses(enriched)
	sortDetails(rep.Details)

	return rep
}

type issueTally struct {
	count    int
	urgent   int
	negative int
}

// rankIssues scores keywords by count + 2*urgent + 1.5*negative and keeps
// the top 10. The sort is stable so equal scores stay in first-seen order.
func rankIssues(order []string, tallies map[string]*issueTally) []domain.IssueCount {
	issues := make([]domain.IssueCount, 0, len(order))
	for _, kw := range order {
		t := tallies[kw]
		issues = append(issues, domain.IssueCount{
			Keyword:       kw,
			Count:         t.count,
			UrgentCount:   t.urgent,
			NegativeCount: t.negative,
			Score:         float64(t.count) + 2*float64(t.urgent) + 1.5*float64(t.negative),
		})
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Score > issues[j].Score
	})

	if len(issues) > maxTopIssues {
		issues = issues[:maxTopIssues]
	}
	return issues
}

func detailOf(em *domain.EnrichedMessage) domain.MessageDetail {
	d := domain.MessageDetail{
		Subject:     em.Message.Subject,
		Sender:      em.Message.Sender,
		Priority:    em.Analysis.Priority,
		Sentiment:   em.Analysis.Sentiment,
		Category:    em.Analysis.Category,
		HasResponse: em.Response != nil,
		HadError:    em.ProcessingError != "",
	}
	if em.Extraction != nil {
		d.PrimaryRequest = em.Extraction.Requirements.PrimaryRequest
	}
	return d
}

// sortDetails orders the detail list urgent-first, then negative-first,
// stably so ties keep batch order.
func sortDetails(details []domain.MessageDetail) {
	sort.SliceStable(details, func(i, j int) bool {
		iu, ju := details[i].Priority.IsUrgent(), details[j].Priority.IsUrgent()
		if iu != ju {
			return iu
		}
		in := details[i].Sentiment == domain.SentimentNegative
		jn := details[j].Sentiment == domain.SentimentNegative
		return in && !jn
	})
}

func summarizeResponses(enriched []*domain.EnrichedMessage) domain.ResponseSummary {
	var summary domain.ResponseSummary
	confidenceSum := 0.0
	withContext := 0

	for _, em := range enriched {
		if em.Response == nil {
			continue
		}
		summary.TotalDrafts++
		confidenceSum += em.Response.Confidence
		switch em.Response.Method {
		case domain.MethodOracle:
			summary.OracleDrafts++
		case domain.MethodTemplate:
			summary.TemplateDrafts++
		}
		if em.Response.ContextUsed {
			withContext++
		}
	}

	if summary.TotalDrafts > 0 {
		summary.AverageConfidence = confidenceSum / float64(summary.TotalDrafts)
		summary.ContextUsageRate = round1(float64(withContext) / float64(summary.TotalDrafts) * 100)
	}
	return summary
}

// Publish stores the report and updates daily stats. Persistence failures
// are logged, not fatal: the rendered artifact still reaches the caller.
func (s *Service) Publish(ctx context.Context, rep *domain.BatchReport) {
	if s.repository == nil {
		return
	}
	if err := s.repository.SaveReport(ctx, rep); err != nil {
		s.log.Error().Err(err).Msg("failed to save batch report")
	}
	if err := s.repository.UpsertDailyStats(ctx, rep); err != nil {
		s.log.Error().Err(err).Msg("failed to update daily stats")
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
