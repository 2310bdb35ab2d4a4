// Package response drafts replies for support messages, either through the
// oracle or from tone templates backed by a static knowledge base.
package response

import (
	"triage_server/core/domain"
)

// KnowledgeEntry pairs common issues of a category with solution snippets.
type KnowledgeEntry struct {
	CommonIssues []string
	Solutions    []string
}

var knowledgeBase = map[domain.Category]KnowledgeEntry{
	domain.CategoryTechnical: {
		CommonIssues: []string{"application errors", "crashes", "performance problems", "integration failures"},
		Solutions: []string{
			"Clearing the browser cache and reloading resolves most display issues.",
			"Our status page lists any ongoing incidents affecting the platform.",
			"Attaching the exact error message helps us reproduce the problem quickly.",
		},
	},
	domain.CategoryAccount: {
		CommonIssues: []string{"login failures", "password resets", "locked accounts", "verification problems"},
		Solutions: []string{
			"The 'Forgot password' link sends a reset email within a few minutes.",
			"Accounts lock after repeated failed logins and unlock automatically after 30 minutes.",
			"Verification emails occasionally land in spam folders.",
		},
	},
	domain.CategoryBilling: {
		CommonIssues: []string{"unexpected charges", "invoice questions", "refund requests", "payment failures"},
		Solutions: []string{
			"Invoices and payment history are available under Settings > Billing.",
			"Refunds for duplicate charges are processed within 5-7 business days.",
			"Declined payments usually clear after updating the card on file.",
		},
	},
	domain.CategorySales: {
		CommonIssues: []string{"pricing questions", "plan comparisons", "demo requests", "upgrade paths"},
		Solutions: []string{
			"Our pricing page compares all plans side by side.",
			"A sales engineer can walk you through a live demo this week.",
			"Upgrades take effect immediately and are prorated.",
		},
	},
	domain.CategoryComplaint: {
		CommonIssues: []string{"service dissatisfaction", "unmet expectations", "repeated problems"},
		Solutions: []string{
			"A senior support specialist will review your case history personally.",
			"We track every complaint to resolution and follow up when it is closed.",
		},
	},
	domain.CategoryFeature: {
		CommonIssues: []string{"missing functionality", "workflow suggestions", "integration requests"},
		Solutions: []string{
			"Feature requests are logged for the product team and weighed by demand.",
			"Our public roadmap shows what is planned for upcoming releases.",
		},
	},
	domain.CategoryGeneral: {
		CommonIssues: []string{"general questions", "documentation requests", "contact routing"},
		Solutions: []string{
			"Our help center covers the most frequent questions.",
			"We can route your request to the right team if you share more detail.",
		},
	},
}

// LookupSnippet returns the category's first solution as the context line,
// or empty when the knowledge base has nothing useful. One snippet keeps the
// grounding context short enough to quote verbatim in template replies.
func LookupSnippet(category domain.Category) string {
	entry, ok := knowledgeBase[category]
	if !ok || len(entry.Solutions) == 0 {
		return ""
	}
	return entry.Solutions[0]
}

// toneTemplate holds the per-priority building blocks of a template reply.
type toneTemplate struct {
	greeting       string
	acknowledgment string
	action         string
	contact        string
}

var toneTemplates = map[domain.Priority]toneTemplate{
	domain.PriorityUrgent: {
		greeting:       "Thank you for contacting our support team.",
		acknowledgment: "We understand this is urgent and are treating it as our top priority.",
		action:         "Our team is investigating immediately and you will hear from us within the hour.",
		contact:        "For anything time-critical in the meantime, call our emergency line.",
	},
	domain.PriorityHigh: {
		greeting:       "Thank you for reaching out to us.",
		acknowledgment: "We recognize the importance of your request and have prioritized it.",
		action:         "A specialist is on your case and will respond within 4 business hours.",
		contact:        "Reply to this email if anything changes on your side.",
	},
	domain.PriorityNormal: {
		greeting:       "Thank you for contacting our support team.",
		acknowledgment: "We have received your message and reviewed the details you provided.",
		action:         "We will look into this and get back to you within one business day.",
		contact:        "Feel free to reply with any additional information.",
	},
	domain.PriorityLow: {
		greeting:       "Thank you for getting in touch.",
		acknowledgment: "We appreciate you taking the time to share this with us.",
		action:         "We have logged your request and will follow up as soon as we can.",
		contact:        "Reply to this email if you would like to add anything.",
	},
}

var sentimentOpeners = map[domain.Sentiment]string{
	domain.SentimentNegative: "We sincerely apologize for the trouble you have experienced.",
	domain.SentimentPositive: "We are glad to hear from you and appreciate your kind words.",
	domain.SentimentNeutral:  "",
}

const signOff = "Best regards,\nCustomer Support Team"
