// Package retrieve executes Retriever-tagged plan steps against the
// document store.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Service executes retrieval steps.
type Service struct {
	store    Searcher
	complete Completer
}

// New creates a retriever.
func New(store Searcher, complete Completer) *Service {
	return &Service{store: store, complete: complete}
}

// Run executes one retrieval step. Zero chunks clearing the threshold is a
// valid success with an empty summary. The returned error is non-nil only
// for fatal conditions (retrieval backend unavailable), which abort the
// whole plan.
func (s *Service) Run(ctx context.Context, step domain.Step) (domain.StepResult, error) {
	result := domain.StepResult{
		Step:        step.Number,
		Agent:       domain.AgentRetriever,
		Action:      step.Action,
		Description: step.Description,
	}

	query := step.Param("query", step.Description)

	k := -1 // store default
	if raw := step.Params["k"]; raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			k = n
		}
	}

	chunks, err := s.store.Search(ctx, query, k, -1)
	if err != nil {
		result.Error = fmt.Sprintf("search %q: %v", query, err)
		if errors.Is(err, domain.ErrIndexUnavailable) {
			return result, fmt.Errorf("step %d: %w", step.Number, err)
		}
		return result, nil
	}

	retrieval := &domain.RetrievalResult{
		Query:              query,
		Chunks:             chunks,
		RetrievedDocuments: distinctSources(chunks),
	}
	result.Retrieval = retrieval
	result.Success = true

	if len(chunks) == 0 {
		return result, nil
	}

	summary, err := s.summarize(ctx, query, chunks)
	if err != nil {
		// Recoverable: the step degrades, the plan continues.
		result.Success = false
		result.Error = fmt.Sprintf("summarize retrieved content: %v", err)
		return result, nil
	}
	retrieval.Summary = summary

	return result, nil
}

func (s *Service) summarize(ctx context.Context, query string, chunks []domain.ScoredChunk) (string, error) {
	var b strings.Builder
	for _, sc := range chunks {
		fmt.Fprintf(&b, "From %s: %s\n\n", sc.Chunk.Source, sc.Chunk.Text)
	}

	out, err := s.complete.Complete(ctx, domain.CompletionRequest{
		System: "You summarize search results briefly and factually.",
		Prompt: fmt.Sprintf(
			"Query: %q\n\nPassages:\n%s\nSummarize in two or three sentences what these passages say about the query.",
			query, b.String(),
		),
		MaxTokens:   300,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func distinctSources(chunks []domain.ScoredChunk) int {
	seen := map[string]struct{}{}
	for _, sc := range chunks {
		seen[sc.Chunk.Source] = struct{}{}
	}
	return len(seen)
}
