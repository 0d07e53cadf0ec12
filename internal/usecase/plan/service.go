// Package plan turns a free-text query into a validated execution plan via
// the completion service, falling back to a guaranteed-valid minimal plan
// when the model output cannot be used.
package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/helmsley-ai/docent/internal/domain"
	"github.com/helmsley-ai/docent/internal/metrics"
)

const systemPrompt = `You are the planning agent of a document assistant. Break the user's request into ordered steps for two agents:

1. Retriever: searches the indexed documents. Action: "search".
2. Executor: acts on retrieved content. Actions: %s.

Respond with a single JSON object:
{
  "analysis": "brief analysis of the request",
  "steps": [
    {
      "step_number": 1,
      "agent": "Retriever|Executor",
      "action": "search|create_task|summarize|create_checklist|analyze_content|generate_report",
      "description": "what this step does",
      "parameters": {"query": "...", "title": "...", "content": "..."}
    }
  ],
  "expected_outcome": "what the user gets"
}

Rules: number steps from 1 without gaps; use specific search keywords, not the whole question; use create_checklist for checklists and create_task only for single tasks; always give create_task and create_checklist a title; retrieval steps come before the executor steps that use their content.`

// Service is the planner.
type Service struct {
	complete Completer
	logger   *zap.Logger
}

// New creates a planner over the given completion service.
func New(complete Completer, logger *zap.Logger) *Service {
	return &Service{complete: complete, logger: logger}
}

// Plan generates a plan for the query. The result is always valid: malformed
// or unparsable model output is replaced by the fallback plan, so callers
// never see a planning error.
func (s *Service) Plan(ctx context.Context, query string) domain.Plan {
	actions := make([]string, 0, len(domain.ExecutorActions()))
	for _, a := range domain.ExecutorActions() {
		actions = append(actions, string(a))
	}

	raw, err := s.complete.Complete(ctx, domain.CompletionRequest{
		System:      fmt.Sprintf(systemPrompt, strings.Join(actions, ", ")),
		Prompt:      fmt.Sprintf("User query: %q\n\nCreate a step-by-step plan to fulfill this request.", query),
		MaxTokens:   1500,
		Temperature: 0.3,
	})
	if err != nil {
		s.logger.Warn("planner completion failed, using fallback plan",
			zap.String("query", query), zap.Error(err))
		metrics.PlanFallbacksTotal.Inc()
		return Fallback(query)
	}

	p, err := parsePlan(raw)
	if err != nil {
		s.logger.Warn("planner output rejected, using fallback plan",
			zap.String("query", query), zap.Error(err))
		metrics.PlanFallbacksTotal.Inc()
		return Fallback(query)
	}

	return p
}

// Fallback builds the guaranteed-valid minimal plan: retrieve with the whole
// query, then summarize whatever was found.
func Fallback(query string) domain.Plan {
	return domain.Plan{
		Analysis: "Fallback plan: retrieve relevant content and summarize it.",
		Steps: []domain.Step{
			{
				Number:      1,
				Agent:       domain.AgentRetriever,
				Action:      domain.ActionSearch,
				Description: "Search the document store for content relevant to the query",
				Params:      map[string]string{"query": query},
			},
			{
				Number:      2,
				Agent:       domain.AgentExecutor,
				Action:      domain.ActionSummarize,
				Description: "Summarize the retrieved content",
				Params:      map[string]string{},
			},
		},
		ExpectedOutcome: "A summary of the most relevant indexed content.",
		Fallback:        true,
	}
}

// rawPlan mirrors the JSON contract given to the model.
type rawPlan struct {
	Analysis        string    `json:"analysis"`
	Steps           []rawStep `json:"steps"`
	ExpectedOutcome string    `json:"expected_outcome"`
}

type rawStep struct {
	StepNumber  int            `json:"step_number"`
	Agent       string         `json:"agent"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// parsePlan decodes and validates model output. Models occasionally wrap the
// JSON in prose or fences; a brace-extraction pass salvages those replies.
func parsePlan(raw string) (domain.Plan, error) {
	var rp rawPlan
	if err := json.Unmarshal([]byte(raw), &rp); err != nil {
		extracted, ok := extractJSON(raw)
		if !ok {
			return domain.Plan{}, fmt.Errorf("%w: no JSON object in output", domain.ErrPlanInvalid)
		}
		if err := json.Unmarshal([]byte(extracted), &rp); err != nil {
			return domain.Plan{}, fmt.Errorf("%w: %v", domain.ErrPlanInvalid, err)
		}
	}

	p := domain.Plan{
		Analysis:        rp.Analysis,
		ExpectedOutcome: rp.ExpectedOutcome,
		Steps:           make([]domain.Step, 0, len(rp.Steps)),
	}
	for _, rs := range rp.Steps {
		p.Steps = append(p.Steps, domain.Step{
			Number:      rs.StepNumber,
			Agent:       domain.Agent(rs.Agent),
			Action:      domain.Action(rs.Action),
			Description: rs.Description,
			Params:      stringParams(rs.Parameters),
		})
	}

	if err := p.Validate(); err != nil {
		return domain.Plan{}, err
	}
	return p, nil
}

// extractJSON returns the substring between the first '{' and the last '}'.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// stringParams flattens model-supplied parameters to strings.
func stringParams(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch t := v.(type) {
		case string:
			out[k] = t
		case nil:
			// skip
		default:
			b, err := json.Marshal(v)
			if err == nil {
				out[k] = string(b)
			}
		}
	}
	return out
}
