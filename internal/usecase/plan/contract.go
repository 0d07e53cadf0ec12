package plan

import (
	"context"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Completer generates plan text from a prompt.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}
