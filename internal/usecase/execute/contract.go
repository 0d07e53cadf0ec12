package execute

import (
	"context"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Completer generates text for the summarize/checklist/analyze/report handlers.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}
