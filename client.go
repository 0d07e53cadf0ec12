// Package docent embeds the document assistant pipeline in a Go program,
// without running the HTTP server.
package docent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/helmsley-ai/docent/internal/db"
	dbRedis "github.com/helmsley-ai/docent/internal/db/redis"
	"github.com/helmsley-ai/docent/internal/domain"
	"github.com/helmsley-ai/docent/internal/extract"
	"github.com/helmsley-ai/docent/internal/index"
	openaiTransport "github.com/helmsley-ai/docent/internal/transport/openai"
	"github.com/helmsley-ai/docent/internal/usecase/docstore"
	"github.com/helmsley-ai/docent/internal/usecase/execute"
	"github.com/helmsley-ai/docent/internal/usecase/pipeline"
	planuc "github.com/helmsley-ai/docent/internal/usecase/plan"
	"github.com/helmsley-ai/docent/internal/usecase/retrieve"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the embedded SDK entry point.
type Client struct {
	store     db.Store
	docs      *docstore.Service
	extractor *extract.Text
	registry  *execute.Registry
	pipeline  *pipeline.Service
}

// New creates an embedded client. Model providers come from WithOpenAI or
// from custom WithEmbedder/WithCompleter implementations; the index lives
// in memory unless WithRedis is given.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:       "memory",
		keyPrefix:    "docent:",
		chunkSize:    1000,
		chunkOverlap: 200,
		topK:         4,
		threshold:    -1,
	}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.chunkSize < 1 {
		return nil, fmt.Errorf("docent: chunk size must be positive, got %d", cfg.chunkSize)
	}
	if cfg.chunkOverlap < 0 || cfg.chunkOverlap >= cfg.chunkSize {
		return nil, fmt.Errorf("docent: chunk overlap (%d) must be non-negative and smaller than size (%d)",
			cfg.chunkOverlap, cfg.chunkSize)
	}

	embed, complete, err := buildProviders(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{}

	var idx docstore.Index
	switch cfg.driver {
	case "memory":
		idx = index.NewMemory()
		if cfg.threshold < 0 {
			cfg.threshold = 0.30
		}
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("docent: create redis store: %w", err)
		}
		ctx := context.Background()
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("docent: redis not ready: %w", err)
		}
		redisIdx := index.NewRedis(store, cfg.keyPrefix)
		if err := redisIdx.Load(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("docent: load persisted index: %w", err)
		}
		c.store = store
		idx = redisIdx
		if cfg.threshold < 0 {
			cfg.threshold = 0.25
		}
	default:
		return nil, fmt.Errorf("docent: unknown driver %q", cfg.driver)
	}

	log := zap.NewNop()

	c.docs = docstore.New(idx, embed,
		docstore.NewSplitter(cfg.chunkSize, cfg.chunkOverlap),
		cfg.topK, cfg.threshold)
	c.extractor = extract.NewText()
	c.registry = execute.NewRegistry()
	c.pipeline = pipeline.New(
		planuc.New(complete, log),
		retrieve.New(c.docs, complete),
		execute.New(complete, c.registry),
		log,
	)

	return c, nil
}

// buildProviders resolves the embedding and completion providers from the
// options: custom implementations win, then WithOpenAI.
func buildProviders(cfg *clientConfig) (domain.Embedder, domain.Completer, error) {
	var embed domain.Embedder
	var complete domain.Completer

	if cfg.embedder != nil {
		embed = &embedderAdapter{inner: cfg.embedder}
	}
	if cfg.completer != nil {
		complete = &completerAdapter{inner: cfg.completer}
	}

	if cfg.openaiKey != "" {
		completionModel := cfg.completionModel
		if completionModel == "" {
			completionModel = "gpt-4o-mini"
		}
		embeddingModel := cfg.embeddingModel
		if embeddingModel == "" {
			embeddingModel = "text-embedding-3-small"
		}
		if embed == nil {
			embed = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
				APIKey:  cfg.openaiKey,
				BaseURL: cfg.openaiBaseURL,
				Model:   embeddingModel,
				Timeout: 30 * time.Second,
				Logger:  zap.NewNop(),
			})
		}
		if complete == nil {
			complete = openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
				APIKey:  cfg.openaiKey,
				BaseURL: cfg.openaiBaseURL,
				Model:   completionModel,
				Timeout: 60 * time.Second,
				Logger:  zap.NewNop(),
			})
		}
	}

	if embed == nil {
		return nil, nil, errors.New("docent: embedder required (use WithEmbedder or WithOpenAI)")
	}
	if complete == nil {
		return nil, nil, errors.New("docent: completer required (use WithCompleter or WithOpenAI)")
	}
	return embed, complete, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks storage connectivity. Always nil for the in-memory driver.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Ingest indexes a document and returns the number of chunks it produced.
// Re-ingesting identical content is a no-op.
func (c *Client) Ingest(ctx context.Context, name, text string) (int, error) {
	clean, err := c.extractor.ExtractText(name, []byte(text))
	if err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}
	n, err := c.docs.Ingest(ctx, name, clean)
	if err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}
	return n, nil
}

// Ask runs one query through the full pipeline.
func (c *Client) Ask(ctx context.Context, query string) Response {
	return fromResponse(c.pipeline.Process(ctx, query))
}

// Search retrieves the passages most similar to the query. topK <= 0 uses
// the configured default.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]ScoredChunk, error) {
	if topK <= 0 {
		topK = -1
	}
	chunks, err := c.docs.Search(ctx, query, topK, -1)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromScoredChunks(chunks), nil
}

// Stats reports the document store state.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	st, err := c.docs.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return Stats{
		Backend: st.Backend,
		Chunks:  st.Chunks,
		Sources: st.Sources,
		Ready:   st.Ready,
	}, nil
}

// Documents lists the indexed source documents with their chunk counts.
func (c *Client) Documents(ctx context.Context) ([]Document, error) {
	docs, err := c.docs.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, Document{Name: d.Name, Chunks: d.Chunks, IngestedAt: d.IngestedAt})
	}
	return out, nil
}

// Tasks lists tasks created by executed queries.
func (c *Client) Tasks() []Task {
	tasks := c.registry.Tasks()
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, Task{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    string(t.Priority),
			Status:      t.Status,
			CreatedAt:   t.CreatedAt,
		})
	}
	return out
}

// Reports lists reports generated by executed queries.
func (c *Client) Reports() []Report {
	reports := c.registry.Reports()
	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		out = append(out, Report{
			ID:        r.ID,
			Title:     r.Title,
			Markdown:  r.Markdown,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

// embedderAdapter wraps the public Embedder to satisfy domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Vector:       r.Vector,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// completerAdapter wraps the public Completer to satisfy domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	out, err := a.inner.Complete(ctx, CompletionRequest{
		System:      req.System,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return out, nil
}
