package execute

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/helmsley-ai/docent/internal/domain"
	"github.com/helmsley-ai/docent/internal/logger"
)

// Service executes a single plan step by dispatching to the matching action
// handler. Handler failures are reported as failed steps, never as errors:
// the pipeline decides whether to continue, not the executor.
type Service struct {
	handlers map[domain.Action]handler
}

// New wires the action handlers over the given completion service and
// artifact registry.
func New(complete Completer, registry *Registry) *Service {
	s := &Service{handlers: make(map[domain.Action]handler)}
	for _, h := range []handler{
		createTask{registry: registry},
		summarize{complete: complete},
		createChecklist{complete: complete},
		analyzeContent{complete: complete},
		generateReport{complete: complete, registry: registry},
	} {
		s.handlers[h.Name()] = h
	}
	return s
}

// Run performs the step's action against the accumulated content and reports
// the outcome as a step result.
func (s *Service) Run(ctx context.Context, step domain.Step, content string) domain.StepResult {
	res := domain.StepResult{
		Step:        step.Number,
		Agent:       step.Agent,
		Action:      step.Action,
		Description: step.Description,
	}

	h, ok := s.handlers[step.Action]
	if !ok {
		err := fmt.Errorf("%w: %q", domain.ErrUnknownAction, step.Action)
		logger.FromContext(ctx).Warn("executor step failed",
			zap.Int("step", step.Number), zap.Error(err))
		res.Error = err.Error()
		return res
	}

	out, err := h.Execute(ctx, Input{Params: step.Params, Content: content})
	if err != nil {
		logger.FromContext(ctx).Warn("executor step failed",
			zap.Int("step", step.Number),
			zap.String("action", string(step.Action)),
			zap.Error(err))
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.Execution = &out
	return res
}
