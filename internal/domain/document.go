package domain

import (
	"fmt"
	"time"
)

// Document is an uploaded source document. Immutable once stored.
type Document struct {
	Source     string // filename or other caller-supplied identifier
	Text       string
	IngestedAt time.Time
}

// Chunk is a bounded substring of a Document used as the retrieval unit.
// Offset is the chunk's ordinal position within its source document.
type Chunk struct {
	Source     string
	Offset     int
	Text       string
	Vector     []float32
	IngestedAt time.Time
}

// Key returns the identity of a chunk within the index: source plus offset.
func (c Chunk) Key() string {
	return fmt.Sprintf("%s#%d", c.Source, c.Offset)
}

// ScoredChunk is a chunk with its query similarity score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// DocumentInfo summarizes one indexed source document.
type DocumentInfo struct {
	Name       string
	Chunks     int
	IngestedAt time.Time // most recent chunk ingest time
}

// StoreStats describes the current state of the document store.
type StoreStats struct {
	Backend string
	Chunks  int
	Sources int
	Ready   bool
}
