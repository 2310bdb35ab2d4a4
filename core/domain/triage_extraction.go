package domain

import "time"

// ContactDetails are reachable identities found in the message text.
type ContactDetails struct {
	PhoneNumbers    []string `json:"phone_numbers,omitempty"`
	AlternateEmails []string `json:"alternate_emails,omitempty"`
	SocialHandles   []string `json:"social_handles,omitempty"`
}

// TechnicalDetails are product and environment facts found in the text.
type TechnicalDetails struct {
	ErrorCodes       []string `json:"error_codes,omitempty"`
	Versions         []string `json:"versions,omitempty"`
	Browsers         []string `json:"browsers,omitempty"`
	OperatingSystems []string `json:"operating_systems,omitempty"`
	FileReferences   []string `json:"file_references,omitempty"`
	URLs             []string `json:"urls,omitempty"`
}

// BusinessContext is organizational context found in the text.
type BusinessContext struct {
	Companies   []string `json:"companies,omitempty"`
	Dates       []string `json:"dates,omitempty"`
	Amounts     []string `json:"amounts,omitempty"`
	Departments []string `json:"departments,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// Requirements capture what the sender is actually asking for.
type Requirements struct {
	PrimaryRequest   string   `json:"primary_request,omitempty"`
	RequestedActions []string `json:"requested_actions,omitempty"`
	UrgencySignals   []string `json:"urgency_signals,omitempty"`
	TicketReferences []string `json:"ticket_references,omitempty"`
}

// ExtractedInfo is the structured-fact output of the extraction stage.
type ExtractedInfo struct {
	Contact      ContactDetails   `json:"contact"`
	Technical    TechnicalDetails `json:"technical"`
	Business     BusinessContext  `json:"business"`
	Requirements Requirements     `json:"requirements"`

	// ConfidenceScore is additive over the fact groups present, capped at 1.0.
	ConfidenceScore float64 `json:"confidence_score"`

	ExtractedAt time.Time `json:"extracted_at"`
}

// HasPhone reports whether any phone number was extracted.
func (e *ExtractedInfo) HasPhone() bool {
	return len(e.Contact.PhoneNumbers) > 0
}

// HasAlternateEmail reports whether any non-sender email was extracted.
func (e *ExtractedInfo) HasAlternateEmail() bool {
	return len(e.Contact.AlternateEmails) > 0
}
