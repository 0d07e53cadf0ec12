// Package index provides the searchable vector index behind the document
// store. Two interchangeable backends exist: an in-memory index rebuilt on
// every start, and a Redis-persisted index that survives restarts. Both
// satisfy identical search semantics and score ranges.
package index

import (
	"context"
	"math"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Index is the backend strategy contract. Implementations are safe for
// concurrent use: searches never block each other, and writers are
// serialized against readers.
type Index interface {
	// Lookup returns the stored chunk for (source, offset), if any.
	Lookup(ctx context.Context, source string, offset int) (domain.Chunk, bool, error)

	// Upsert stores chunks keyed by (source, offset), replacing existing
	// entries with the same key. Every chunk must carry its vector.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Search returns up to k chunks ranked by descending cosine similarity
	// to the query vector. Ties keep insertion order. An empty index yields
	// an empty result, not an error.
	Search(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error)

	// Prune removes every chunk of source at offset >= fromOffset. It is
	// called after Upsert when a re-ingested document shrank, so stale tail
	// chunks never outlive the document they came from.
	Prune(ctx context.Context, source string, fromOffset int) error

	// Documents lists the indexed source documents with their chunk counts,
	// in insertion order.
	Documents(ctx context.Context) ([]domain.DocumentInfo, error)

	// Stats reports chunk count, distinct source count, and readiness.
	Stats(ctx context.Context) (domain.StoreStats, error)
}

// cosineSimilarity computes the cosine similarity of two vectors.
// Mismatched dimensions or zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
