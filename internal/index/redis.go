package index

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/helmsley-ai/docent/internal/db"
	"github.com/helmsley-ai/docent/internal/domain"
)

var _ Index = (*Redis)(nil)

// Redis is the persistent index backend. Chunk records live as Redis hashes
// keyed by (source, offset); the searchable index is an in-memory snapshot
// fully reconstructed from those records on Load. Readers observe either the
// pre- or post-upsert snapshot, never a partially written one.
type Redis struct {
	store  db.Store
	prefix string
	mem    *Memory
}

// NewRedis creates a Redis-backed index. Call Load before searching to
// rebuild the snapshot from persisted chunk records.
func NewRedis(store db.Store, keyPrefix string) *Redis {
	return &Redis{store: store, prefix: keyPrefix, mem: NewMemory()}
}

func (r *Redis) chunkKey(source string, offset int) string {
	return r.prefix + "chunk:" + source + "#" + strconv.Itoa(offset)
}

// Load rebuilds the in-memory snapshot from all persisted chunk records.
// Records are ordered by (source, offset) so ranking ties stay deterministic
// across restarts.
func (r *Redis) Load(ctx context.Context) error {
	keys, err := r.store.Scan(ctx, r.prefix+"chunk:*")
	if err != nil {
		return fmt.Errorf("scan chunk records: %w: %v", domain.ErrIndexUnavailable, err)
	}

	chunks := make([]domain.Chunk, 0, len(keys))
	for _, key := range keys {
		fields, err := r.store.HGetAll(ctx, key)
		if err != nil {
			return fmt.Errorf("read chunk %s: %w: %v", key, domain.ErrIndexUnavailable, err)
		}
		if len(fields) == 0 {
			continue // expired or deleted between scan and read
		}
		c, err := chunkFromFields(fields)
		if err != nil {
			return fmt.Errorf("chunk %s: %w", key, err)
		}
		chunks = append(chunks, c)
	}

	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].Source != chunks[j].Source {
			return chunks[i].Source < chunks[j].Source
		}
		return chunks[i].Offset < chunks[j].Offset
	})

	return r.mem.Upsert(ctx, chunks)
}

// Lookup consults the snapshot; persisted records and snapshot agree after Load.
func (r *Redis) Lookup(ctx context.Context, source string, offset int) (domain.Chunk, bool, error) {
	return r.mem.Lookup(ctx, source, offset)
}

// Upsert persists chunk records, then publishes them to the snapshot.
func (r *Redis) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	for _, c := range chunks {
		if len(c.Vector) == 0 {
			return fmt.Errorf("chunk %s: %w", c.Key(), domain.ErrIndexInconsistent)
		}
		fields, err := chunkToFields(c)
		if err != nil {
			return fmt.Errorf("encode chunk %s: %w", c.Key(), err)
		}
		if err := r.store.HSet(ctx, r.chunkKey(c.Source, c.Offset), fields); err != nil {
			return fmt.Errorf("persist chunk %s: %w: %v", c.Key(), domain.ErrIndexUnavailable, err)
		}
	}
	return r.mem.Upsert(ctx, chunks)
}

// Prune deletes persisted chunk records of source at offset >= fromOffset,
// then prunes the snapshot. Offsets are contiguous per source, so deletion
// walks upward until the first missing record.
func (r *Redis) Prune(ctx context.Context, source string, fromOffset int) error {
	for offset := fromOffset; ; offset++ {
		key := r.chunkKey(source, offset)
		found, err := r.store.Exists(ctx, key)
		if err != nil {
			return fmt.Errorf("check chunk %s#%d: %w: %v", source, offset, domain.ErrIndexUnavailable, err)
		}
		if !found {
			break
		}
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("delete chunk %s#%d: %w: %v", source, offset, domain.ErrIndexUnavailable, err)
		}
	}
	return r.mem.Prune(ctx, source, fromOffset)
}

// Search ranks the snapshot. Semantics match the memory backend exactly.
func (r *Redis) Search(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	return r.mem.Search(ctx, vector, k)
}

// Documents lists the snapshot's sources; persisted records and snapshot
// agree after Load.
func (r *Redis) Documents(ctx context.Context) ([]domain.DocumentInfo, error) {
	return r.mem.Documents(ctx)
}

// Stats reports snapshot counts; readiness reflects database connectivity.
func (r *Redis) Stats(ctx context.Context) (domain.StoreStats, error) {
	stats, err := r.mem.Stats(ctx)
	if err != nil {
		return domain.StoreStats{}, err
	}
	stats.Backend = "redis"
	stats.Ready = r.store.Ping(ctx) == nil
	return stats, nil
}

func chunkToFields(c domain.Chunk) (map[string]string, error) {
	vec, err := json.Marshal(c.Vector)
	if err != nil {
		return nil, fmt.Errorf("marshal vector: %w", err)
	}
	return map[string]string{
		"source":      c.Source,
		"offset":      strconv.Itoa(c.Offset),
		"text":        c.Text,
		"vector":      string(vec),
		"ingested_at": c.IngestedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func chunkFromFields(fields map[string]string) (domain.Chunk, error) {
	offset, err := strconv.Atoi(fields["offset"])
	if err != nil {
		return domain.Chunk{}, fmt.Errorf("bad offset %q: %w", fields["offset"], err)
	}

	raw, ok := fields["vector"]
	if !ok || raw == "" {
		return domain.Chunk{}, domain.ErrIndexInconsistent
	}
	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return domain.Chunk{}, fmt.Errorf("unmarshal vector: %w: %v", domain.ErrIndexInconsistent, err)
	}
	if len(vec) == 0 {
		return domain.Chunk{}, domain.ErrIndexInconsistent
	}

	ingested, _ := time.Parse(time.RFC3339Nano, fields["ingested_at"])

	return domain.Chunk{
		Source:     fields["source"],
		Offset:     offset,
		Text:       fields["text"],
		Vector:     vec,
		IngestedAt: ingested,
	}, nil
}
