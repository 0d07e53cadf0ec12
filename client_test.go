package docent

import (
	"context"
	"strings"
	"testing"
)

// wordEmbedder hashes words into vector buckets, deterministically.
type wordEmbedder struct{}

func (wordEmbedder) Embed(_ context.Context, text string) (Embedding, error) {
	vec := make([]float32, 8)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		var h uint32
		for _, r := range w {
			h = h*31 + uint32(r)
		}
		vec[h%8]++
	}
	return Embedding{Vector: vec}, nil
}

// planCompleter answers planner prompts with a fixed plan and everything
// else with canned text.
type planCompleter struct{}

func (planCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	if strings.Contains(req.System, "planning agent") {
		return `{
			"analysis": "retrieve and summarize",
			"steps": [
				{"step_number": 1, "agent": "Retriever", "action": "search", "description": "find passages", "parameters": {"query": "deployment"}},
				{"step_number": 2, "agent": "Executor", "action": "summarize", "description": "summarize findings", "parameters": {}}
			],
			"expected_outcome": "a summary"
		}`, nil
	}
	return "canned output", nil
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithEmbedder(wordEmbedder{}),
		WithCompleter(planCompleter{}),
		WithRetrieval(4, 0),
	}, opts...)
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNewRequiresProviders(t *testing.T) {
	if _, err := New(); err == nil {
		t.Error("expected error without providers")
	}
	if _, err := New(WithEmbedder(wordEmbedder{})); err == nil {
		t.Error("expected error without completer")
	}
}

func TestNewRejectsDegenerateChunking(t *testing.T) {
	base := []Option{WithEmbedder(wordEmbedder{}), WithCompleter(planCompleter{})}
	for _, tc := range []struct {
		name          string
		size, overlap int
	}{
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
		{"negative overlap", 100, -1},
		{"zero size", 0, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(append(base, WithChunking(tc.size, tc.overlap))...); err == nil {
				t.Errorf("New accepted size=%d overlap=%d", tc.size, tc.overlap)
			}
		})
	}
}

func TestIngestAndSearch(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	n, err := c.Ingest(ctx, "deploy.md", "Deployment runs through the staging environment first.")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if n < 1 {
		t.Fatalf("got %d chunks, want at least 1", n)
	}

	chunks, err := c.Search(ctx, "deployment staging", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected at least one result")
	}
	if chunks[0].Source != "deploy.md" {
		t.Errorf("source = %q, want deploy.md", chunks[0].Source)
	}
}

func TestIngestRejectsEmpty(t *testing.T) {
	c := newTestClient(t)

	if _, err := c.Ingest(context.Background(), "empty.txt", "   "); err == nil {
		t.Error("expected error for empty document")
	}
}

func TestAsk(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if _, err := c.Ingest(ctx, "deploy.md", "Deployment runs through staging."); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	resp := c.Ask(ctx, "how do we deploy?")
	if !resp.Success {
		t.Fatalf("Ask failed: %s", resp.Error)
	}
	if len(resp.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(resp.Steps))
	}
	if resp.Fallback {
		t.Error("expected the scripted plan, not a fallback")
	}
	if resp.Summary.SuccessfulSteps != 2 {
		t.Errorf("successful steps = %d, want 2", resp.Summary.SuccessfulSteps)
	}
}

func TestStats(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	st, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if st.Backend != "memory" || st.Chunks != 0 || !st.Ready {
		t.Errorf("unexpected stats: %+v", st)
	}
}

func TestDocuments(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if _, err := c.Ingest(ctx, "deploy.md", "Deployments run through the release pipeline after review."); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	docs, err := c.Documents(ctx)
	if err != nil {
		t.Fatalf("Documents failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "deploy.md" || docs[0].Chunks < 1 {
		t.Errorf("unexpected documents: %+v", docs)
	}
}

func TestPingMemoryDriver(t *testing.T) {
	c := newTestClient(t)

	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
