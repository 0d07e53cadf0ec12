package domain

import "context"

// Completer is the language-model completion contract used by the planner
// and by summarization handlers. Implementations are opaque and
// non-deterministic; callers must treat failures as recoverable.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is one prompt sent to the completion service.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// TextExtractor converts raw uploaded bytes into plain text before ingest.
// Extraction failures surface as ingest failures, not internal errors.
type TextExtractor interface {
	ExtractText(name string, data []byte) (string, error)
}
