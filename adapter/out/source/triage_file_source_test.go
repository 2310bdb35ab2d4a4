package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestFetchBatch(t *testing.T) {
	path := writeFixture(t, `[
		{"subject": "Cannot login", "body": "I need help with my password", "sender": "a@x.com", "received_at": "2026-08-29T10:00:00Z"},
		{"subject": "Lunch?", "body": "Want to grab lunch tomorrow?", "sender": "b@x.com"}
	]`)

	t.Run("unfiltered keeps everything", func(t *testing.T) {
		src := NewFileSource(path, false, zerolog.Nop())
		messages, err := src.FetchBatch(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(messages))
		}
		if messages[0].ID == messages[1].ID {
			t.Error("expected distinct message IDs")
		}
		if messages[0].ReceivedAt.Year() != 2026 {
			t.Errorf("expected parsed timestamp, got %v", messages[0].ReceivedAt)
		}
	})

	t.Run("support filter drops off-topic mail", func(t *testing.T) {
		src := NewFileSource(path, true, zerolog.Nop())
		messages, err := src.FetchBatch(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(messages) != 1 {
			t.Fatalf("expected 1 support message, got %d", len(messages))
		}
		if messages[0].Subject != "Cannot login" {
			t.Errorf("expected support message kept, got %q", messages[0].Subject)
		}
	})
}

func TestFetchBatchMissingFile(t *testing.T) {
	src := NewFileSource("/nonexistent/messages.json", false, zerolog.Nop())
	if _, err := src.FetchBatch(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFetchBatchMalformedFile(t *testing.T) {
	path := writeFixture(t, `{not json]`)
	src := NewFileSource(path, false, zerolog.Nop())
	if _, err := src.FetchBatch(context.Background()); err == nil {
		t.Error("expected error for malformed file")
	}
}
