package execute

import (
	"context"
	"fmt"
	"strings"

	"github.com/helmsley-ai/docent/internal/domain"
)

// summarize condenses the accumulated content via the completion service.
type summarize struct {
	complete Completer
}

func (summarize) Name() domain.Action { return domain.ActionSummarize }

func (h summarize) Execute(ctx context.Context, in Input) (domain.ExecutionResult, error) {
	content := in.Param("content", in.Content)
	if strings.TrimSpace(content) == "" {
		// Valid outcome: nothing retrieved upstream to summarize.
		return domain.ExecutionResult{
			Action:  domain.ActionSummarize,
			Message: "No content available to summarize",
			Summary: &domain.Summary{},
		}, nil
	}

	out, err := h.complete.Complete(ctx, domain.CompletionRequest{
		System: "You create clear, concise summaries.",
		Prompt: fmt.Sprintf(
			"Summarize the following content in bullet points:\n\n%s\n\nReturn a concise bullet-point summary.",
			content,
		),
		MaxTokens:   400,
		Temperature: 0.3,
	})
	if err != nil {
		return domain.ExecutionResult{}, fmt.Errorf("summarize: %w", err)
	}

	text := strings.TrimSpace(out)
	return domain.ExecutionResult{
		Action:  domain.ActionSummarize,
		Message: "Content summarized",
		Summary: &domain.Summary{
			Text:          text,
			SourceLength:  len(content),
			SummaryLength: len(text),
		},
	}, nil
}
