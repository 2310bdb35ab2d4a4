// Package analysis classifies support messages on three axes: sentiment,
// priority, and category. Each axis asks the oracle first and falls back to
// the deterministic lexical classifier in this file.
package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"triage_server/core/domain"
)

var positiveWords = []string{
	"thank", "thanks", "great", "excellent", "good", "appreciate",
	"happy", "pleased", "love", "wonderful", "satisfied", "perfect",
	"awesome", "fantastic",
}

var negativeWords = []string{
	"angry", "frustrated", "terrible", "awful", "bad", "disappointed",
	"unhappy", "annoyed", "unacceptable", "worst", "hate", "horrible",
	"useless", "ridiculous",
}

var urgentKeywords = []string{
	"urgent", "critical", "emergency", "immediately", "asap",
	"cannot access", "broken", "not working", "down", "crashed",
	"failed", "error", "deadline", "important", "escalate",
	"priority", "escalation", "production", "outage", "security breach",
}

// categoryRule maps trigger terms to a category. Rules are evaluated in
// order and the first hit wins; account terms run before technical ones so
// "can't log in, getting an error" routes to Account Support.
type categoryRule struct {
	category domain.Category
	terms    []string
}

var categoryRules = []categoryRule{
	{domain.CategoryAccount, []string{
		"login", "log in", "password", "account", "locked", "sign in",
		"authentication", "access my", "verify", "2fa",
	}},
	{domain.CategorySales, []string{
		"pricing", "price", "quote", "purchase", "buy", "demo",
		"sales", "plan", "upgrade", "trial",
	}},
	{domain.CategoryTechnical, []string{
		"error", "bug", "crash", "broken", "not working", "issue",
		"problem", "fail", "exception", "slow",
	}},
	{domain.CategoryBilling, []string{
		"billing", "invoice", "charge", "charged", "payment", "refund",
		"receipt", "subscription",
	}},
}

// LexicalSentiment votes positive against negative indicator words.
// A tie or no hits is neutral at 0.5; a winner scores 0.7 and reports its
// matched words as key indicators.
func LexicalSentiment(text string) (domain.Sentiment, float64, string, []string) {
	lower := strings.ToLower(text)

	var positive, negative []string
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive = append(positive, w)
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative = append(negative, w)
		}
	}

	reasoning := fmt.Sprintf("keyword vote: %d positive, %d negative", len(positive), len(negative))
	switch {
	case len(positive) > len(negative):
		return domain.SentimentPositive, 0.7, reasoning, positive
	case len(negative) > len(positive):
		return domain.SentimentNegative, 0.7, reasoning, negative
	default:
		return domain.SentimentNeutral, 0.5, reasoning, nil
	}
}

// LexicalPriority scans for urgent keywords. Any hit is urgent at 0.8;
// otherwise normal at 0.6. The matched terms come back as indicators.
func LexicalPriority(text string) (domain.Priority, float64, []string) {
	lower := strings.ToLower(text)

	var matched []string
	for _, kw := range urgentKeywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}

	if len(matched) > 0 {
		return domain.PriorityUrgent, 0.8, matched
	}
	return domain.PriorityNormal, 0.6, nil
}

// LexicalCategory applies the ordered first-match rule chain, defaulting
// to General Support.
func LexicalCategory(text string) (domain.Category, string) {
	lower := strings.ToLower(text)

	for _, rule := range categoryRules {
		for _, term := range rule.terms {
			if strings.Contains(lower, term) {
				return rule.category, fmt.Sprintf("matched keyword %q", term)
			}
		}
	}
	return domain.CategoryGeneral, "no category keyword matched"
}

var wordPattern = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9_]*\b`)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
		"for", "of", "with", "by", "from", "up", "about", "into",
		"through", "during", "before", "after", "above", "below",
		"between", "out", "off", "over", "under", "again", "further",
		"then", "once", "here", "there", "when", "where", "why", "how",
		"all", "any", "both", "each", "few", "more", "most", "other",
		"some", "such", "no", "nor", "not", "only", "own", "same", "so",
		"than", "too", "very", "can", "will", "just", "should", "now",
		"this", "that", "these", "those", "me", "my", "we", "our",
		"you", "your", "him", "his", "she", "her", "its", "they",
		"them", "their", "what", "which", "who", "whom", "am", "is",
		"are", "was", "were", "been", "being", "have", "has", "had",
		"having", "does", "did", "doing", "would", "could", "may",
		"might", "must", "dear", "hello", "regards", "thanks", "thank",
		"please", "get", "got", "need", "want",
	} {
		stopWords[w] = struct{}{}
	}
}

const maxKeywords = 20

// ExtractKeywords pulls significant tokens from the message text: word
// characters starting with a letter, at least three characters, not a stop
// word. Deduplication is case-insensitive and keeps the first-seen casing
// and position. Capped at 20.
func ExtractKeywords(text string) []string {
	seen := make(map[string]struct{})
	var keywords []string

	for _, token := range wordPattern.FindAllString(text, -1) {
		if len(token) < 3 {
			continue
		}
		lower := strings.ToLower(token)
		if _, stop := stopWords[lower]; stop {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		keywords = append(keywords, token)
		if len(keywords) == maxKeywords {
			break
		}
	}

	return keywords
}
