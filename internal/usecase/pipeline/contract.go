package pipeline

import (
	"context"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Planner produces an execution plan for a query. Implementations must
// always return a valid plan, substituting a fallback when necessary.
type Planner interface {
	Plan(ctx context.Context, query string) domain.Plan
}

// Retriever executes Retriever-tagged steps. A non-nil error is fatal and
// aborts the remaining steps; recoverable failures come back as a failed
// step result with a nil error.
type Retriever interface {
	Run(ctx context.Context, step domain.Step) (domain.StepResult, error)
}

// Executor executes Executor-tagged steps against the content accumulated
// from earlier retrieval steps. Executor failures never abort the plan.
type Executor interface {
	Run(ctx context.Context, step domain.Step, content string) domain.StepResult
}
