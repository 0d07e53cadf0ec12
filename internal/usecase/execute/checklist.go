package execute

import (
	"context"
	"fmt"
	"strings"

	"github.com/helmsley-ai/docent/internal/domain"
)

// createChecklist turns content into an actionable checklist.
type createChecklist struct {
	complete Completer
}

func (createChecklist) Name() domain.Action { return domain.ActionCreateChecklist }

func (h createChecklist) Execute(ctx context.Context, in Input) (domain.ExecutionResult, error) {
	title := in.Param("title", "Generated Checklist")
	content := in.Param("content", in.Content)

	checklist := &domain.Checklist{Title: title, CreatedAt: now()}
	if strings.TrimSpace(content) == "" {
		return domain.ExecutionResult{
			Action:    domain.ActionCreateChecklist,
			Message:   fmt.Sprintf("Checklist %q created with 0 items", title),
			Checklist: checklist,
		}, nil
	}

	out, err := h.complete.Complete(ctx, domain.CompletionRequest{
		System: "You turn instructions into actionable checklists.",
		Prompt: fmt.Sprintf(
			"Create a checklist of concrete action items from this content:\n\n%s\n\nReturn one item per line, numbered.",
			content,
		),
		MaxTokens:   400,
		Temperature: 0.3,
	})
	if err != nil {
		return domain.ExecutionResult{}, fmt.Errorf("create checklist: %w", err)
	}

	for _, item := range parseChecklistItems(out) {
		checklist.Items = append(checklist.Items, domain.ChecklistItem{Text: item})
	}
	return domain.ExecutionResult{
		Action:    domain.ActionCreateChecklist,
		Message:   fmt.Sprintf("Checklist %q created with %d items", title, len(checklist.Items)),
		Checklist: checklist,
	}, nil
}

// parseChecklistItems extracts item texts from model output. Lines may be
// numbered ("1.", "2)") or bulleted ("-", "*", "•"); bare lines count too.
func parseChecklistItems(out string) []string {
	var items []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "•")
		line = strings.TrimPrefix(line, "-")
		line = strings.TrimPrefix(line, "*")
		if cut := strings.IndexAny(line, ".)"); cut > 0 && cut <= 3 && isDigits(line[:cut]) {
			line = line[cut+1:]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
