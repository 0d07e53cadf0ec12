// Package docstore implements the document store: chunking, vectorization,
// idempotent ingest and similarity search over an interchangeable index
// backend.
package docstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Service is the document store facade. Safe for concurrent use: searches
// from concurrent sessions interleave freely; ingests are serialized.
type Service struct {
	idx       Index
	embed     Embedder
	splitter  Splitter
	topK      int
	threshold float64

	// Serializes ingests against each other. Readers are isolated by the
	// backend's own snapshot discipline.
	ingestMu sync.Mutex
}

// New creates a document store over the given index backend. topK and
// threshold are the search defaults applied when a caller passes none.
func New(idx Index, embed Embedder, splitter Splitter, topK int, threshold float64) *Service {
	return &Service{
		idx:       idx,
		embed:     embed,
		splitter:  splitter,
		topK:      topK,
		threshold: threshold,
	}
}

// Ingest splits document text into overlapping chunks, embeds each new
// chunk and stores (chunk, vector, source). Re-ingesting identical content
// is a no-op per chunk: entries are keyed by (source, offset) and chunks
// whose text is unchanged are neither re-embedded nor re-stored. Chunks past
// the new document length are pruned. Returns the document's chunk count.
func (s *Service) Ingest(ctx context.Context, name, text string) (int, error) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	pieces := s.splitter.Split(text)
	if len(pieces) == 0 {
		return 0, fmt.Errorf("ingest %q: %w", name, domain.ErrEmptyDocument)
	}

	now := time.Now()
	var fresh []domain.Chunk
	for i, piece := range pieces {
		existing, ok, err := s.idx.Lookup(ctx, name, i)
		if err != nil {
			return 0, fmt.Errorf("lookup chunk %s#%d: %w", name, i, err)
		}
		if ok && existing.Text == piece {
			continue
		}
		fresh = append(fresh, domain.Chunk{
			Source:     name,
			Offset:     i,
			Text:       piece,
			IngestedAt: now,
		})
	}

	for i := range fresh {
		res, err := s.embed.Embed(ctx, fresh[i].Text)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %s: %w", fresh[i].Key(), err)
		}
		fresh[i].Vector = res.Vector
	}

	if len(fresh) > 0 {
		if err := s.idx.Upsert(ctx, fresh); err != nil {
			return 0, fmt.Errorf("store chunks for %q: %w", name, err)
		}
	}

	// A shrinking document leaves stale tail chunks behind the new length.
	if err := s.idx.Prune(ctx, name, len(pieces)); err != nil {
		return 0, fmt.Errorf("prune stale chunks for %q: %w", name, err)
	}

	return len(pieces), nil
}

// Search embeds the query and returns up to k chunks with similarity score
// at or above threshold, ranked by descending score. Pass k < 0 for the
// configured default; threshold < 0 likewise. An empty store or a threshold
// nothing clears yields an empty result, not an error.
func (s *Service) Search(ctx context.Context, query string, k int, threshold float64) ([]domain.ScoredChunk, error) {
	if k < 0 {
		k = s.topK
	}
	if threshold < 0 {
		threshold = s.threshold
	}
	if k == 0 {
		return nil, nil
	}

	res, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	ranked, err := s.idx.Search(ctx, res.Vector, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	filtered := ranked[:0]
	for _, sc := range ranked {
		if sc.Score >= threshold {
			filtered = append(filtered, sc)
		}
	}
	return filtered, nil
}

// Documents lists the indexed source documents with per-document chunk
// counts, in ingestion order.
func (s *Service) Documents(ctx context.Context) ([]domain.DocumentInfo, error) {
	docs, err := s.idx.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Stats reports chunk count, source document count and backend readiness.
func (s *Service) Stats(ctx context.Context) (domain.StoreStats, error) {
	stats, err := s.idx.Stats(ctx)
	if err != nil {
		return domain.StoreStats{}, fmt.Errorf("index stats: %w", err)
	}
	return stats, nil
}
