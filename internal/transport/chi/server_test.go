package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/helmsley-ai/docent/internal/domain"
	"github.com/helmsley-ai/docent/internal/extract"
	"github.com/helmsley-ai/docent/internal/index"
	"github.com/helmsley-ai/docent/internal/usecase/docstore"
	"github.com/helmsley-ai/docent/internal/usecase/execute"
	healthuc "github.com/helmsley-ai/docent/internal/usecase/health"
	"github.com/helmsley-ai/docent/internal/usecase/pipeline"
	planuc "github.com/helmsley-ai/docent/internal/usecase/plan"
	"github.com/helmsley-ai/docent/internal/usecase/retrieve"
)

// hashEmbedder maps each word to a vector component, deterministically.
type hashEmbedder struct{}

func (hashEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec := make([]float32, 8)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		var h uint32
		for _, r := range w {
			h = h*31 + uint32(r)
		}
		vec[h%8]++
	}
	return domain.EmbeddingResult{Vector: vec}, nil
}

// scriptedCompleter answers planner calls with a fixed plan and everything
// else with plain text.
type scriptedCompleter struct {
	plan string
}

func (c scriptedCompleter) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	if strings.Contains(req.System, "planning agent") {
		return c.plan, nil
	}
	return "stub summary", nil
}

const serverTestPlan = `{
	"analysis": "find and summarize",
	"steps": [
		{"step_number": 1, "agent": "Retriever", "action": "search", "description": "find passages", "parameters": {"query": "release"}},
		{"step_number": 2, "agent": "Executor", "action": "summarize", "description": "summarize findings", "parameters": {}}
	],
	"expected_outcome": "a summary"
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	log := zap.NewNop()
	embed := hashEmbedder{}
	complete := scriptedCompleter{plan: serverTestPlan}

	store := docstore.New(index.NewMemory(), embed, docstore.NewSplitter(200, 40), 4, 0)
	registry := execute.NewRegistry()
	pipe := pipeline.New(
		planuc.New(complete, log),
		retrieve.New(store, complete),
		execute.New(complete, registry),
		log,
	)

	return NewServer(pipe, store, extract.NewText(), registry, healthuc.New(nil, nil), log)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestUploadAndStats(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	rr := do(t, router, "POST", "/documents", uploadRequest{
		Name: "guide.md",
		Text: "To release, tag the commit and push the tag. CI builds the artifacts.",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload: got %d, body %s", rr.Code, rr.Body.String())
	}

	var up uploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&up); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if up.Name != "guide.md" || up.Chunks < 1 {
		t.Errorf("unexpected upload response: %+v", up)
	}

	rr = do(t, router, "GET", "/stats", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("stats: got %d", rr.Code)
	}
	var stats statsResponse
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Backend != "memory" || stats.Sources != 1 || !stats.Ready {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestListDocuments(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	rr := do(t, router, "GET", "/documents", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("empty list: got %d", rr.Code)
	}
	var docs []documentDTO
	if err := json.NewDecoder(rr.Body).Decode(&docs); err != nil {
		t.Fatalf("decode documents: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("want no documents before upload, got %d", len(docs))
	}

	for _, name := range []string{"guide.md", "faq.md"} {
		rr = do(t, router, "POST", "/documents", uploadRequest{
			Name: name,
			Text: "To release, tag the commit and push the tag. CI builds the artifacts.",
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("upload %s: got %d", name, rr.Code)
		}
	}

	rr = do(t, router, "GET", "/documents", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: got %d", rr.Code)
	}
	if err := json.NewDecoder(rr.Body).Decode(&docs); err != nil {
		t.Fatalf("decode documents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("want 2 documents, got %d", len(docs))
	}
	if docs[0].Name != "guide.md" || docs[1].Name != "faq.md" {
		t.Errorf("unexpected names: %q, %q", docs[0].Name, docs[1].Name)
	}
	for _, d := range docs {
		if d.Chunks < 1 {
			t.Errorf("document %s has no chunks", d.Name)
		}
		if d.IngestedAt.IsZero() {
			t.Errorf("document %s missing ingest time", d.Name)
		}
	}
}

func TestUploadValidation(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	rr := do(t, router, "POST", "/documents", uploadRequest{Name: "", Text: "x"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing name: got %d", rr.Code)
	}

	rr = do(t, router, "POST", "/documents", uploadRequest{Name: "empty.txt", Text: "   "})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty text: got %d", rr.Code)
	}

	rr = do(t, router, "POST", "/documents", uploadRequest{Name: "blob.bin", Text: "ab\x00cd"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("binary text: got %d", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != codeDocumentUnreadable {
		t.Errorf("error code = %q, want %q", errResp.Code, codeDocumentUnreadable)
	}
}

func TestQueryEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	rr := do(t, router, "POST", "/documents", uploadRequest{
		Name: "guide.md",
		Text: "To release, tag the commit and push the tag.",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload: got %d", rr.Code)
	}

	rr = do(t, router, "POST", "/query", queryRequest{Query: "how do we release?"})
	if rr.Code != http.StatusOK {
		t.Fatalf("query: got %d, body %s", rr.Code, rr.Body.String())
	}

	var resp queryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode query response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("query failed: %s", resp.Error)
	}
	if len(resp.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(resp.Steps))
	}
	if resp.Plan == nil || resp.Plan.Fallback {
		t.Error("expected the scripted plan, not a fallback")
	}
	if resp.Summary == nil || resp.Summary.SuccessfulSteps != 2 {
		t.Errorf("unexpected summary: %+v", resp.Summary)
	}
}

func TestQueryValidation(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	rr := do(t, router, "POST", "/query", queryRequest{Query: ""})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty query: got %d", rr.Code)
	}
}

func TestTasksAndReports(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	rr := do(t, router, "GET", "/tasks", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("tasks: got %d", rr.Code)
	}
	var tasks []taskDTO
	if err := json.NewDecoder(rr.Body).Decode(&tasks); err != nil {
		t.Fatalf("decode tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(tasks))
	}

	rr = do(t, router, "GET", "/reports", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("reports: got %d", rr.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	rr := do(t, router, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("health: got %d", rr.Code)
	}
	var h healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&h); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if h.Status != "ok" {
		t.Errorf("status = %q, want ok", h.Status)
	}
}
