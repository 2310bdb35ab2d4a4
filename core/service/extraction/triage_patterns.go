// Package extraction pulls structured facts out of support messages: a
// deterministic regex pass for contacts, technical and business details,
// plus an oracle-assisted requirements pass.
package extraction

import (
	"regexp"
	"strings"

	"triage_server/core/domain"
)

var (
	phoneUSPattern   = regexp.MustCompile(`(\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)
	phoneIntlPattern = regexp.MustCompile(`\+[1-9][0-9]{7,14}`)
	emailPattern     = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlPattern       = regexp.MustCompile(`https?://[^\s<>"]+`)
	handlePattern    = regexp.MustCompile(`(?:^|\s)@([a-zA-Z0-9_]{2,30})\b`)
	profilePattern   = regexp.MustCompile(`(?i)(?:linkedin\.com/in/|github\.com/|facebook\.com/)[a-zA-Z0-9_.-]+`)

	// Keyword prefixes are case-insensitive but the captured identifiers
	// themselves must be uppercase, so the flag is scoped to the prefix.
	errorCodePattern = regexp.MustCompile(`(?i:error|code)[\s#:]*([A-Z0-9][A-Z0-9-]{2,14})`)
	versionPattern   = regexp.MustCompile(`(?i:version|v\.?)\s*([0-9]+(?:\.[0-9]+)*)`)
	ticketPattern    = regexp.MustCompile(`(?i:ticket|case|ref|reference)[\s#:]*([A-Z0-9][A-Z0-9-]{4,19})`)
	browserPattern   = regexp.MustCompile(`(?i)\b(Chrome|Firefox|Safari|Edge|Opera)(?:\s+[0-9.]+)?\b`)
	osPattern        = regexp.MustCompile(`(?i)\b(Windows(?:\s+[0-9.]+)?|macOS|Mac OS X?|Linux|Ubuntu|Android(?:\s+[0-9.]+)?|iOS(?:\s+[0-9.]+)?)\b`)
	filePattern      = regexp.MustCompile(`\b[\w][\w.-]*\.(?:pdf|docx?|xlsx?|csv|txt|png|jpe?g|gif|zip|log|json|xml)\b`)

	companyPattern    = regexp.MustCompile(`\b([A-Z][A-Za-z0-9&]+(?:\s+[A-Z][A-Za-z0-9&]+)*)\s+(?:Inc|LLC|Corp|Ltd|Company|Co)\.?\b`)
	datePattern       = regexp.MustCompile(`\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}|(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:,\s*\d{4})?)\b`)
	moneyPattern      = regexp.MustCompile(`(?:\$\s?\d[\d,]*(?:\.\d{2})?|\b\d[\d,]*(?:\.\d{2})?\s?(?:dollars|USD)\b)`)
	departmentPattern = regexp.MustCompile(`(?i)\b(engineering|finance|marketing|sales|legal|hr|human resources|it|operations|accounting|procurement)\s+(?:department|team|dept)\b`)
	rolePattern       = regexp.MustCompile(`(?i)\b(ceo|cto|cfo|coo|vp|vice president|director|manager|engineer|developer|administrator|analyst|accountant)\b`)
)

// PatternExtractor runs the deterministic regex pass. It is stateless and
// idempotent: the same message always yields the same facts.
type PatternExtractor struct{}

func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract scans subject and body for contact, technical, and business
// facts. Patterns are deliberately permissive; a token may land in more
// than one bucket.
func (e *PatternExtractor) Extract(msg *domain.Message) *domain.ExtractedInfo {
	text := msg.FullText()

	return &domain.ExtractedInfo{
		Contact: domain.ContactDetails{
			PhoneNumbers:    extractPhones(text),
			AlternateEmails: extractAlternateEmails(text, msg.Sender),
			SocialHandles:   extractSocialHandles(text),
		},
		Technical: domain.TechnicalDetails{
			ErrorCodes:       captureGroup(errorCodePattern, text),
			Versions:         captureGroup(versionPattern, text),
			Browsers:         dedupe(browserPattern.FindAllString(text, -1)),
			OperatingSystems: dedupe(osPattern.FindAllString(text, -1)),
			FileReferences:   dedupe(filePattern.FindAllString(text, -1)),
			URLs:             dedupe(urlPattern.FindAllString(text, -1)),
		},
		Business: domain.BusinessContext{
			Companies:   dedupe(companyPattern.FindAllString(text, -1)),
			Dates:       dedupe(datePattern.FindAllString(text, -1)),
			Amounts:     dedupe(moneyPattern.FindAllString(text, -1)),
			Departments: dedupe(departmentPattern.FindAllString(text, -1)),
			Roles:       dedupe(rolePattern.FindAllString(text, -1)),
		},
		Requirements: domain.Requirements{
			TicketReferences: captureGroup(ticketPattern, text),
		},
	}
}

// extractPhones finds North American and international numbers and
// normalizes NANP matches to "(NNN) NNN-NNNN" form.
func extractPhones(text string) []string {
	var phones []string

	for _, idx := range phoneUSPattern.FindAllStringIndex(text, -1) {
		start, end := idx[0], idx[1]
		// Reject matches embedded in a longer digit run, e.g. the first
		// ten digits of an international number.
		if start > 0 && (text[start-1] == '+' || isDigit(text[start-1])) {
			continue
		}
		if end < len(text) && isDigit(text[end]) {
			continue
		}
		if normalized := normalizeNANP(digitsOnly(text[start:end])); normalized != "" {
			phones = append(phones, normalized)
		}
	}

	for _, m := range phoneIntlPattern.FindAllString(text, -1) {
		// Skip numbers already captured by the NANP pass.
		if normalizeNANP(digitsOnly(m)) == "" {
			phones = append(phones, m)
		}
	}

	return dedupe(phones)
}

func normalizeNANP(digits string) string {
	switch {
	case len(digits) == 10:
		return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:10]
	case len(digits) == 11 && digits[0] == '1':
		return "+1 (" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:11]
	default:
		return ""
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// extractAlternateEmails returns addresses other than the sender's,
// compared case-insensitively, deduplicated on first-seen form.
func extractAlternateEmails(text, sender string) []string {
	senderLower := strings.ToLower(strings.TrimSpace(sender))

	var emails []string
	seen := make(map[string]struct{})
	for _, m := range emailPattern.FindAllString(text, -1) {
		lower := strings.ToLower(m)
		if lower == senderLower {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		emails = append(emails, m)
	}
	return emails
}

func extractSocialHandles(text string) []string {
	var handles []string
	for _, m := range handlePattern.FindAllStringSubmatch(text, -1) {
		handles = append(handles, "@"+m[1])
	}
	handles = append(handles, profilePattern.FindAllString(text, -1)...)
	return dedupe(handles)
}

// captureGroup collects the first capture group of every match.
func captureGroup(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) > 1 && m[1] != "" {
			out = append(out, m[1])
		}
	}
	return dedupe(out)
}

// dedupe removes case-insensitive duplicates preserving first-seen order.
func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		key := strings.ToLower(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
