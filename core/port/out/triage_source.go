package out

import (
	"context"

	"triage_server/core/domain"
)

// MessageSource supplies the batch of messages to enrich. Live mailbox
// ingestion sits behind this boundary and is out of scope here.
type MessageSource interface {
	FetchBatch(ctx context.Context) ([]domain.Message, error)
}
