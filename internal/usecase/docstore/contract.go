package docstore

import (
	"context"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Index is the backend strategy contract consumed by the store service.
type Index interface {
	Lookup(ctx context.Context, source string, offset int) (domain.Chunk, bool, error)
	Upsert(ctx context.Context, chunks []domain.Chunk) error
	Search(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error)
	Prune(ctx context.Context, source string, fromOffset int) error
	Documents(ctx context.Context) ([]domain.DocumentInfo, error)
	Stats(ctx context.Context) (domain.StoreStats, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
