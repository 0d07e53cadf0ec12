package domain

import "fmt"

// Agent identifies which agent is responsible for a plan step.
type Agent string

// Known agent tags.
const (
	AgentRetriever Agent = "Retriever"
	AgentExecutor  Agent = "Executor"
)

// Valid reports whether the agent tag is one the pipeline can dispatch to.
func (a Agent) Valid() bool {
	return a == AgentRetriever || a == AgentExecutor
}

// Action identifies the operation a plan step performs.
type Action string

// Retriever action.
const (
	ActionSearch Action = "search"
)

// Executor actions.
const (
	ActionCreateTask      Action = "create_task"
	ActionSummarize       Action = "summarize"
	ActionCreateChecklist Action = "create_checklist"
	ActionAnalyzeContent  Action = "analyze_content"
	ActionGenerateReport  Action = "generate_report"
)

// ExecutorActions lists the executor's action vocabulary, used when
// prompting the planner.
func ExecutorActions() []Action {
	return []Action{
		ActionCreateTask,
		ActionSummarize,
		ActionCreateChecklist,
		ActionAnalyzeContent,
		ActionGenerateReport,
	}
}

// Step is a single entry of a plan. Steps are numbered 1-based without gaps.
type Step struct {
	Number      int
	Agent       Agent
	Action      Action
	Description string
	Params      map[string]string
}

// Param returns the named step parameter, or fallback when absent or empty.
func (s Step) Param(name, fallback string) string {
	if v := s.Params[name]; v != "" {
		return v
	}
	return fallback
}

// Plan is the ordered decomposition of a query into agent-assigned steps.
// Created once per query and immutable thereafter.
type Plan struct {
	Analysis        string
	ExpectedOutcome string
	Steps           []Step

	// Fallback is set when the plan is the guaranteed-valid minimal plan
	// substituted for unusable planner output.
	Fallback bool
}

// Validate checks the plan against the step schema: at least one step,
// sequential 1-based numbering, known agent tags, non-empty actions and
// descriptions.
func (p Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrPlanInvalid)
	}
	for i, s := range p.Steps {
		if s.Number != i+1 {
			return fmt.Errorf("%w: step %d numbered %d", ErrPlanInvalid, i+1, s.Number)
		}
		if !s.Agent.Valid() {
			return fmt.Errorf("%w: step %d has unknown agent %q", ErrPlanInvalid, s.Number, s.Agent)
		}
		if s.Action == "" {
			return fmt.Errorf("%w: step %d has no action", ErrPlanInvalid, s.Number)
		}
		if s.Description == "" {
			return fmt.Errorf("%w: step %d has no description", ErrPlanInvalid, s.Number)
		}
	}
	return nil
}
