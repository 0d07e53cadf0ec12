package domain

import "errors"

var (
	// ErrPlanInvalid signals planner output that failed schema validation.
	// Recovered via the fallback plan, never fatal on its own.
	ErrPlanInvalid = errors.New("plan invalid")
	// ErrIndexUnavailable signals that the retrieval backend cannot be
	// reached. Fatal: aborts the running plan.
	ErrIndexUnavailable = errors.New("retrieval index unavailable")
	// ErrUnknownAction signals an action identifier the executor has no
	// handler for. Fails that step only.
	ErrUnknownAction = errors.New("unknown action")
	// ErrEmptyDocument signals an ingest attempt with no extractable text.
	ErrEmptyDocument = errors.New("document has no extractable text")
	// ErrUnreadableDocument signals a corrupt or binary upload.
	ErrUnreadableDocument = errors.New("document unreadable")
	// ErrIndexInconsistent signals a stored chunk without a matching
	// embedding vector. Must never occur; treated as an invariant violation.
	ErrIndexInconsistent = errors.New("chunk stored without embedding vector")
	// ErrEmbeddingProvider signals an embedding provider failure or timeout.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrCompletionProvider signals a completion service failure or timeout.
	ErrCompletionProvider = errors.New("completion service error")
)
