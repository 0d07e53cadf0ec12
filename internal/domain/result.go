package domain

// RetrievalResult is the payload of a successful Retriever step.
// Zero retrieved chunks is a valid outcome, not an error.
type RetrievalResult struct {
	Query              string
	Chunks             []ScoredChunk
	Summary            string
	RetrievedDocuments int // distinct source documents among Chunks
}

// ExecutionResult is the payload of an Executor step. Exactly one of the
// artifact fields is set, matching the action that produced it.
type ExecutionResult struct {
	Action    Action
	Message   string
	Task      *Task
	Summary   *Summary
	Checklist *Checklist
	Analysis  *Analysis
	Report    *Report
}

// StepResult records the outcome of one executed plan step.
type StepResult struct {
	Step        int
	Agent       Agent
	Action      Action
	Description string
	Success     bool
	Error       string
	Retrieval   *RetrievalResult
	Execution   *ExecutionResult
}

// FinalSummary aggregates a finished (or aborted) pipeline run.
type FinalSummary struct {
	TotalSteps         int
	SuccessfulSteps    int
	FailedSteps        int
	RetrievedDocuments int
	KeyAchievements    []string
}

// Response is the terminal output of processing one query. Success indicates
// that no fatal error occurred; individual steps may still have failed.
type Response struct {
	SessionID string
	Query     string
	Success   bool
	Error     string
	Plan      *Plan
	Steps     []StepResult
	Summary   *FinalSummary
}
