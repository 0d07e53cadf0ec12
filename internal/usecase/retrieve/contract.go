package retrieve

import (
	"context"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Searcher is the document store surface the retriever consumes.
type Searcher interface {
	Search(ctx context.Context, query string, k int, threshold float64) ([]domain.ScoredChunk, error)
}

// Completer synthesizes a short summary of retrieved text.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}
