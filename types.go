package docent

import (
	"context"
	"time"
)

// Embedder vectorizes text. Implement it to plug a custom embedding
// provider into an embedded client.
type Embedder interface {
	Embed(ctx context.Context, text string) (Embedding, error)
}

// Embedding is the result of one embedding call.
type Embedding struct {
	Vector       []float32
	PromptTokens int
	TotalTokens  int
}

// Completer generates text. Implement it to plug a custom language model
// into an embedded client.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is one prompt sent to a Completer.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// ScoredChunk is one retrieved passage with its similarity score.
type ScoredChunk struct {
	Source string
	Offset int
	Text   string
	Score  float64
}

// Document summarizes one indexed source document.
type Document struct {
	Name       string
	Chunks     int
	IngestedAt time.Time
}

// Stats describes the current state of the document store.
type Stats struct {
	Backend string
	Chunks  int
	Sources int
	Ready   bool
}

// Task is a task artifact created during query processing.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    string
	Status      string
	CreatedAt   time.Time
}

// Report is a report artifact created during query processing.
type Report struct {
	ID        string
	Title     string
	Markdown  string
	CreatedAt time.Time
}

// StepResult is the outcome of one executed plan step.
type StepResult struct {
	Step        int
	Agent       string
	Action      string
	Description string
	Success     bool
	Error       string
	Retrieved   []ScoredChunk
	Message     string
}

// Summary aggregates a finished query run.
type Summary struct {
	TotalSteps         int
	SuccessfulSteps    int
	FailedSteps        int
	RetrievedDocuments int
	KeyAchievements    []string
}

// Response is the terminal output of one query.
type Response struct {
	SessionID string
	Query     string
	Success   bool
	Error     string
	Fallback  bool
	Steps     []StepResult
	Summary   Summary
}
