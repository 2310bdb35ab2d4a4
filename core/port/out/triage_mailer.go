package out

import "context"

// Mailer delivers response drafts. Used only by the optional auto-respond
// workflow; the pipeline itself never sends.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
