package out

import "context"

// Oracle is the language-model completion boundary. Implementations must
// return an error on transport failure or unusable output rather than a
// fabricated completion; callers decide the fallback.
type Oracle interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
