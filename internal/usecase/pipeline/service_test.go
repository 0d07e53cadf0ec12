package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/helmsley-ai/docent/internal/domain"
)

type stubPlanner struct {
	plan domain.Plan
}

func (s stubPlanner) Plan(context.Context, string) domain.Plan { return s.plan }

type stubRetriever struct {
	chunks []domain.ScoredChunk
	err    error
	calls  int
}

func (s *stubRetriever) Run(_ context.Context, step domain.Step) (domain.StepResult, error) {
	s.calls++
	result := domain.StepResult{
		Step:        step.Number,
		Agent:       step.Agent,
		Action:      step.Action,
		Description: step.Description,
	}
	if s.err != nil {
		result.Error = s.err.Error()
		return result, s.err
	}
	result.Success = true
	result.Retrieval = &domain.RetrievalResult{
		Query:              step.Param("query", step.Description),
		Chunks:             s.chunks,
		RetrievedDocuments: len(s.chunks),
	}
	return result, nil
}

type stubExecutor struct {
	calls    int
	contents []string
	fail     bool
}

func (s *stubExecutor) Run(_ context.Context, step domain.Step, content string) domain.StepResult {
	s.calls++
	s.contents = append(s.contents, content)
	result := domain.StepResult{
		Step:        step.Number,
		Agent:       step.Agent,
		Action:      step.Action,
		Description: step.Description,
	}
	if s.fail {
		result.Error = "executor failure"
		return result
	}
	result.Success = true
	result.Execution = &domain.ExecutionResult{Action: step.Action, Message: "done"}
	return result
}

func twoStepPlan() domain.Plan {
	return domain.Plan{
		Analysis:        "retrieve then summarize",
		ExpectedOutcome: "a summary",
		Steps: []domain.Step{
			{
				Number:      1,
				Agent:       domain.AgentRetriever,
				Action:      domain.ActionSearch,
				Description: "find passages",
				Params:      map[string]string{"query": "release process"},
			},
			{
				Number:      2,
				Agent:       domain.AgentExecutor,
				Action:      domain.ActionSummarize,
				Description: "summarize findings",
			},
		},
	}
}

func newService(p Planner, r Retriever, e Executor) *Service {
	return New(p, r, e, zap.NewNop())
}

func TestProcessHappyPath(t *testing.T) {
	retr := &stubRetriever{chunks: []domain.ScoredChunk{
		{Chunk: domain.Chunk{Source: "guide.md", Text: "tag the release"}, Score: 0.9},
	}}
	exec := &stubExecutor{}
	svc := newService(stubPlanner{plan: twoStepPlan()}, retr, exec)

	resp := svc.Process(context.Background(), "how do we release?")

	if !resp.Success {
		t.Fatalf("pipeline failed: %s", resp.Error)
	}
	if !strings.HasPrefix(resp.SessionID, "session_") {
		t.Errorf("session id %q lacks prefix", resp.SessionID)
	}
	if len(resp.Steps) != 2 {
		t.Fatalf("got %d step results, want 2", len(resp.Steps))
	}
	if resp.Summary == nil || resp.Summary.SuccessfulSteps != 2 {
		t.Errorf("unexpected summary: %+v", resp.Summary)
	}
	if retr.calls != 1 || exec.calls != 1 {
		t.Errorf("calls: retriever %d, executor %d", retr.calls, exec.calls)
	}
}

func TestProcessPassesRetrievedContentToExecutor(t *testing.T) {
	retr := &stubRetriever{chunks: []domain.ScoredChunk{
		{Chunk: domain.Chunk{Source: "a.md", Text: "alpha"}, Score: 0.9},
		{Chunk: domain.Chunk{Source: "b.md", Text: "beta"}, Score: 0.8},
	}}
	exec := &stubExecutor{}
	svc := newService(stubPlanner{plan: twoStepPlan()}, retr, exec)

	svc.Process(context.Background(), "q")

	if len(exec.contents) != 1 {
		t.Fatalf("executor ran %d times, want 1", len(exec.contents))
	}
	content := exec.contents[0]
	if !strings.Contains(content, "From a.md: alpha") || !strings.Contains(content, "From b.md: beta") {
		t.Errorf("executor content missing passages: %q", content)
	}
}

func TestProcessEmptyStore(t *testing.T) {
	// No indexed documents: retrieval succeeds with zero chunks and the
	// executor still runs, with empty content.
	retr := &stubRetriever{}
	exec := &stubExecutor{}
	svc := newService(stubPlanner{plan: twoStepPlan()}, retr, exec)

	resp := svc.Process(context.Background(), "q")

	if !resp.Success {
		t.Fatalf("pipeline failed: %s", resp.Error)
	}
	if resp.Summary.SuccessfulSteps != 2 {
		t.Errorf("successful steps = %d, want 2", resp.Summary.SuccessfulSteps)
	}
	if resp.Summary.RetrievedDocuments != 0 {
		t.Errorf("retrieved documents = %d, want 0", resp.Summary.RetrievedDocuments)
	}
	if exec.contents[0] != "" {
		t.Errorf("executor content = %q, want empty", exec.contents[0])
	}
}

func TestProcessFatalRetrievalAbortsRemainingSteps(t *testing.T) {
	retr := &stubRetriever{err: fmt.Errorf("step 1: %w", domain.ErrIndexUnavailable)}
	exec := &stubExecutor{}
	svc := newService(stubPlanner{plan: twoStepPlan()}, retr, exec)

	resp := svc.Process(context.Background(), "q")

	if resp.Success {
		t.Fatal("expected failed pipeline")
	}
	if resp.Error == "" {
		t.Error("expected response error")
	}
	if exec.calls != 0 {
		t.Errorf("executor ran %d times after fatal error", exec.calls)
	}
	// Still one result per plan step.
	if len(resp.Steps) != 2 {
		t.Fatalf("got %d step results, want 2", len(resp.Steps))
	}
	if !strings.HasPrefix(resp.Steps[1].Error, "aborted:") {
		t.Errorf("step 2 error = %q, want aborted", resp.Steps[1].Error)
	}
}

func TestProcessExecutorFailureDoesNotAbort(t *testing.T) {
	plan := twoStepPlan()
	plan.Steps = append(plan.Steps, domain.Step{
		Number:      3,
		Agent:       domain.AgentExecutor,
		Action:      domain.ActionCreateTask,
		Description: "follow-up task",
	})
	retr := &stubRetriever{}
	exec := &stubExecutor{fail: true}
	svc := newService(stubPlanner{plan: plan}, retr, exec)

	resp := svc.Process(context.Background(), "q")

	if !resp.Success {
		t.Fatalf("executor failures must not fail the pipeline: %s", resp.Error)
	}
	if exec.calls != 2 {
		t.Errorf("executor ran %d times, want 2", exec.calls)
	}
	if resp.Summary.FailedSteps != 2 {
		t.Errorf("failed steps = %d, want 2", resp.Summary.FailedSteps)
	}
}

func TestProcessFallbackPlanStillCompletes(t *testing.T) {
	plan := twoStepPlan()
	plan.Fallback = true
	retr := &stubRetriever{}
	exec := &stubExecutor{}
	svc := newService(stubPlanner{plan: plan}, retr, exec)

	resp := svc.Process(context.Background(), "q")

	if !resp.Success {
		t.Fatalf("pipeline failed: %s", resp.Error)
	}
	if resp.Plan == nil || !resp.Plan.Fallback {
		t.Error("response does not carry the fallback plan")
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		StatePlanning:    "planning",
		StateExecuting:   "executing",
		StateAggregating: "aggregating",
		StateDone:        "done",
		StateFailed:      "failed",
	} {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
