// Package pipeline orchestrates one query through planning, step execution
// and aggregation as an explicit state machine.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helmsley-ai/docent/internal/domain"
	"github.com/helmsley-ai/docent/internal/domain/session"
	"github.com/helmsley-ai/docent/internal/logger"
	"github.com/helmsley-ai/docent/internal/metrics"
)

// State is a pipeline phase. Transitions are strictly forward:
// Planning -> Executing -> Aggregating -> Done, with Failed reachable
// from Executing on a fatal step error.
type State int

// Pipeline states.
const (
	StatePlanning State = iota
	StateExecuting
	StateAggregating
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePlanning:
		return "planning"
	case StateExecuting:
		return "executing"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Service runs queries end to end.
type Service struct {
	planner   Planner
	retriever Retriever
	executor  Executor
	logger    *zap.Logger
}

// New creates the orchestrator.
func New(planner Planner, retriever Retriever, executor Executor, log *zap.Logger) *Service {
	return &Service{planner: planner, retriever: retriever, executor: executor, logger: log}
}

// Process runs one query through the full pipeline and returns its terminal
// response. The response always carries the plan that was executed and one
// step result per plan step; on a fatal error the results of the steps that
// never ran report the abort.
func (s *Service) Process(ctx context.Context, query string) domain.Response {
	sess := session.New("session_"+uuid.NewString()[:8], query)
	log := s.logger.With(zap.String("session_id", sess.ID()))
	ctx = logger.ContextWithLogger(ctx, log)

	resp := domain.Response{SessionID: sess.ID(), Query: query}

	state := StatePlanning
	log.Info("pipeline started", zap.String("query", query))

	plan := s.planner.Plan(ctx, query)
	resp.Plan = &plan
	log.Info("plan ready",
		zap.Int("steps", len(plan.Steps)),
		zap.Bool("fallback", plan.Fallback))

	state = StateExecuting
	var content strings.Builder
	var fatal error

	for _, step := range plan.Steps {
		if fatal != nil {
			// Remaining steps never run once a fatal error occurred.
			aborted := domain.StepResult{
				Step:        step.Number,
				Agent:       step.Agent,
				Action:      step.Action,
				Description: step.Description,
				Error:       "aborted: " + fatal.Error(),
			}
			sess.Record(step, "skipped after fatal error", aborted)
			resp.Steps = append(resp.Steps, aborted)
			metrics.StepsTotal.WithLabelValues(string(step.Agent), "aborted").Inc()
			continue
		}

		result, decision := s.runStep(ctx, step, content.String(), &fatal)
		sess.Record(step, decision, result)
		resp.Steps = append(resp.Steps, result)

		status := "failed"
		if result.Success {
			status = "ok"
		}
		metrics.StepsTotal.WithLabelValues(string(step.Agent), status).Inc()

		if r := result.Retrieval; r != nil {
			for _, sc := range r.Chunks {
				fmt.Fprintf(&content, "From %s: %s\n\n", sc.Chunk.Source, sc.Chunk.Text)
			}
		}
	}

	state = StateAggregating
	summary := sess.Summary()
	resp.Summary = &summary

	if fatal != nil {
		state = StateFailed
		resp.Error = fatal.Error()
		metrics.QueriesTotal.WithLabelValues(state.String()).Inc()
		log.Warn("pipeline failed", zap.Error(fatal))
		return resp
	}

	state = StateDone
	resp.Success = true
	metrics.QueriesTotal.WithLabelValues(state.String()).Inc()
	stats := sess.Stats()
	log.Info("pipeline done",
		zap.Int("successful_steps", summary.SuccessfulSteps),
		zap.Int("failed_steps", summary.FailedSteps),
		zap.Strings("agents", stats.Agents),
		zap.Duration("elapsed", stats.UpdatedAt.Sub(stats.StartedAt)))
	return resp
}

func (s *Service) runStep(ctx context.Context, step domain.Step, content string, fatal *error) (domain.StepResult, string) {
	switch step.Agent {
	case domain.AgentRetriever:
		result, err := s.retriever.Run(ctx, step)
		if err != nil {
			*fatal = err
			return result, "fatal retrieval error"
		}
		return result, "retrieval step"
	case domain.AgentExecutor:
		return s.executor.Run(ctx, step, content), "execution step"
	default:
		// Plan validation rules this out; keep the step accounted for anyway.
		return domain.StepResult{
			Step:        step.Number,
			Agent:       step.Agent,
			Action:      step.Action,
			Description: step.Description,
			Error:       fmt.Sprintf("no agent %q", step.Agent),
		}, "unroutable step"
	}
}
