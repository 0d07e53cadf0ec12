package execute

import (
	"context"
	"fmt"
	"strings"

	"github.com/helmsley-ai/docent/internal/domain"
)

// analyzeContent runs a typed analysis pass over the accumulated content.
type analyzeContent struct {
	complete Completer
}

func (analyzeContent) Name() domain.Action { return domain.ActionAnalyzeContent }

func (h analyzeContent) Execute(ctx context.Context, in Input) (domain.ExecutionResult, error) {
	kind := in.Param("analysis_type", "general")
	content := in.Param("content", in.Content)

	if strings.TrimSpace(content) == "" {
		return domain.ExecutionResult{
			Action:   domain.ActionAnalyzeContent,
			Message:  "No content available to analyze",
			Analysis: &domain.Analysis{Kind: kind},
		}, nil
	}

	out, err := h.complete.Complete(ctx, domain.CompletionRequest{
		System: "You are an analyst. Be specific and cite the material you were given.",
		Prompt: fmt.Sprintf(
			"Perform a %s analysis of the following content:\n\n%s\n\nHighlight key findings and notable patterns.",
			kind, content,
		),
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		return domain.ExecutionResult{}, fmt.Errorf("analyze content: %w", err)
	}

	return domain.ExecutionResult{
		Action:   domain.ActionAnalyzeContent,
		Message:  fmt.Sprintf("Completed %s analysis", kind),
		Analysis: &domain.Analysis{Kind: kind, Text: strings.TrimSpace(out)},
	}, nil
}
