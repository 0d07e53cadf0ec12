package execute

import (
	"context"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Input is the uniform handler input: the step's parameters plus the
// accumulated content from prior steps (typically retriever output).
// Content may be empty; handlers must degrade gracefully rather than fail.
type Input struct {
	Params  map[string]string
	Content string
}

// Param returns the named parameter, or fallback when absent or empty.
func (in Input) Param(name, fallback string) string {
	if v := in.Params[name]; v != "" {
		return v
	}
	return fallback
}

// handler is one action variant. Adding an action means adding a variant,
// not extending a dispatch chain.
type handler interface {
	Name() domain.Action
	Execute(ctx context.Context, in Input) (domain.ExecutionResult, error)
}
