package domain

import (
	"testing"
)

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		input    string
		expected Sentiment
	}{
		{"positive", SentimentPositive},
		{"NEGATIVE", SentimentNegative},
		{"  neutral  ", SentimentNeutral},
		{"ecstatic", SentimentNeutral},
		{"", SentimentNeutral},
	}

	for _, tt := range tests {
		if got := ParseSentiment(tt.input); got != tt.expected {
			t.Errorf("ParseSentiment(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input    string
		expected Priority
	}{
		{"urgent", PriorityUrgent},
		{"High", PriorityHigh},
		{"LOW", PriorityLow},
		{"medium", PriorityNormal},
		{"", PriorityNormal},
	}

	for _, tt := range tests {
		if got := ParsePriority(tt.input); got != tt.expected {
			t.Errorf("ParsePriority(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestPriorityNormalize(t *testing.T) {
	tests := []struct {
		priority Priority
		scheme   PriorityScheme
		expected Priority
	}{
		{PriorityHigh, SchemeFourTier, PriorityHigh},
		{PriorityLow, SchemeFourTier, PriorityLow},
		{PriorityUrgent, SchemeTwoTier, PriorityUrgent},
		{PriorityHigh, SchemeTwoTier, PriorityUrgent},
		{PriorityNormal, SchemeTwoTier, PriorityNormal},
		{PriorityLow, SchemeTwoTier, PriorityNormal},
	}

	for _, tt := range tests {
		if got := tt.priority.Normalize(tt.scheme); got != tt.expected {
			t.Errorf("%q.Normalize(%q): expected %q, got %q", tt.priority, tt.scheme, tt.expected, got)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
	}{
		{"Technical Support", CategoryTechnical},
		{"billing support", CategoryBilling},
		{"SALES INQUIRY", CategorySales},
		{"Random Topic", CategoryGeneral},
		{"", CategoryGeneral},
	}

	for _, tt := range tests {
		if got := ParseCategory(tt.input); got != tt.expected {
			t.Errorf("ParseCategory(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestIsSupportRelated(t *testing.T) {
	related := Message{Subject: "Login problem", Body: "I cannot sign in"}
	if !related.IsSupportRelated() {
		t.Error("expected support vocabulary match on subject")
	}

	offTopic := Message{Subject: "Lunch?", Body: "Want to grab food tomorrow?"}
	if offTopic.IsSupportRelated() {
		t.Error("expected off-topic mail to be excluded")
	}
}

func TestSenderDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		expected string
	}{
		{"explicit name wins", Message{SenderName: "Jane Roe", Sender: "jane@x.com"}, "Jane Roe"},
		{"local part capitalized", Message{Sender: "jane.roe@x.com"}, "Jane.roe"},
		{"no address", Message{}, "Customer"},
		{"bare local part", Message{Sender: "ops"}, "Ops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.SenderDisplayName(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBreakdownOrder(t *testing.T) {
	var b Breakdown
	b.Inc("normal")
	b.Inc("urgent")
	b.Inc("normal")
	b.Inc("low")
	b.Inc("urgent")
	b.Inc("normal")

	if len(b) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(b))
	}
	if b[0].Label != "normal" || b[1].Label != "urgent" || b[2].Label != "low" {
		t.Errorf("expected first-seen order, got %v", b)
	}
	if b.Get("normal") != 3 || b.Get("urgent") != 2 || b.Get("low") != 1 {
		t.Errorf("unexpected counts: %v", b)
	}
	if b.Get("missing") != 0 {
		t.Error("expected zero for absent key")
	}
}
