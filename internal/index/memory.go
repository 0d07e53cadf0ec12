package index

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/helmsley-ai/docent/internal/domain"
)

var _ Index = (*Memory)(nil)

// Memory is the in-memory index backend: chunks and vectors in insertion
// order, guarded by an RWMutex so searches interleave freely while upserts
// take the write lock.
type Memory struct {
	mu      sync.RWMutex
	entries []domain.Chunk
	byKey   map[string]int // chunk key -> position in entries
}

// NewMemory creates an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{byKey: map[string]int{}}
}

// Lookup returns the stored chunk for (source, offset), if any.
func (m *Memory) Lookup(_ context.Context, source string, offset int) (domain.Chunk, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pos, ok := m.byKey[domain.Chunk{Source: source, Offset: offset}.Key()]
	if !ok {
		return domain.Chunk{}, false, nil
	}
	return m.entries[pos], true, nil
}

// Upsert stores chunks, replacing entries with the same (source, offset) key
// in place so insertion order stays stable.
func (m *Memory) Upsert(_ context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range chunks {
		if len(c.Vector) == 0 {
			return fmt.Errorf("chunk %s: %w", c.Key(), domain.ErrIndexInconsistent)
		}
		if pos, ok := m.byKey[c.Key()]; ok {
			m.entries[pos] = c
			continue
		}
		m.byKey[c.Key()] = len(m.entries)
		m.entries = append(m.entries, c)
	}
	return nil
}

// Prune drops chunks of source at offset >= fromOffset and reindexes the
// survivors, preserving their insertion order.
func (m *Memory) Prune(_ context.Context, source string, fromOffset int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.entries[:0]
	for _, c := range m.entries {
		if c.Source == source && c.Offset >= fromOffset {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == len(m.entries) {
		return nil
	}

	m.entries = kept
	m.byKey = make(map[string]int, len(kept))
	for i, c := range kept {
		m.byKey[c.Key()] = i
	}
	return nil
}

// Search ranks all stored chunks by cosine similarity to the query vector.
func (m *Memory) Search(_ context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	scored := make([]domain.ScoredChunk, 0, len(m.entries))
	for _, c := range m.entries {
		if len(c.Vector) == 0 {
			return nil, fmt.Errorf("chunk %s: %w", c.Key(), domain.ErrIndexInconsistent)
		}
		scored = append(scored, domain.ScoredChunk{Chunk: c, Score: cosineSimilarity(vector, c.Vector)})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Documents aggregates stored chunks per source, in insertion order.
func (m *Memory) Documents(_ context.Context) ([]domain.DocumentInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []domain.DocumentInfo
	pos := map[string]int{}
	for _, c := range m.entries {
		i, ok := pos[c.Source]
		if !ok {
			i = len(docs)
			pos[c.Source] = i
			docs = append(docs, domain.DocumentInfo{Name: c.Source})
		}
		docs[i].Chunks++
		if c.IngestedAt.After(docs[i].IngestedAt) {
			docs[i].IngestedAt = c.IngestedAt
		}
	}
	return docs, nil
}

// Stats reports the current index state. A memory index is always ready.
func (m *Memory) Stats(_ context.Context) (domain.StoreStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sources := map[string]struct{}{}
	for _, c := range m.entries {
		sources[c.Source] = struct{}{}
	}
	return domain.StoreStats{
		Backend: "memory",
		Chunks:  len(m.entries),
		Sources: len(sources),
		Ready:   true,
	}, nil
}
