package execute

import (
	"context"
	"fmt"
	"strings"

	"github.com/helmsley-ai/docent/internal/domain"
)

// generateReport produces a structured markdown report and stores it in the
// registry so it can be listed later.
type generateReport struct {
	complete Completer
	registry *Registry
}

func (generateReport) Name() domain.Action { return domain.ActionGenerateReport }

func (h generateReport) Execute(ctx context.Context, in Input) (domain.ExecutionResult, error) {
	title := in.Param("title", "Generated Report")
	content := in.Param("content", in.Content)

	report := domain.Report{Title: title}
	if strings.TrimSpace(content) == "" {
		report.Sections = []domain.ReportSection{
			{Title: "Summary", Content: "No source material was available for this report."},
		}
	} else {
		body, err := h.complete.Complete(ctx, domain.CompletionRequest{
			System: "You write structured reports with clear sections.",
			Prompt: fmt.Sprintf(
				"Write a report titled %q based on the following material:\n\n%s\n\nUse these sections: Overview, Findings, Recommendations. Separate each section with a line containing only '---'.",
				title, content,
			),
			MaxTokens:   800,
			Temperature: 0.3,
		})
		if err != nil {
			return domain.ExecutionResult{}, fmt.Errorf("generate report: %w", err)
		}
		report.Sections = splitSections(body)
	}

	report.Markdown = renderMarkdown(report)
	report.CreatedAt = now()
	stored := h.registry.AddReport(report)

	return domain.ExecutionResult{
		Action:  domain.ActionGenerateReport,
		Message: fmt.Sprintf("Report %q generated", title),
		Report:  &stored,
	}, nil
}

var sectionHeadings = []string{"Overview", "Findings", "Recommendations"}

// splitSections pairs '---'-delimited blocks with the requested headings in
// order, skipping empty blocks so stray delimiter lines cost no heading.
// Surplus blocks fold into the last section; missing blocks are dropped.
func splitSections(body string) []domain.ReportSection {
	var sections []domain.ReportSection
	for _, block := range strings.Split(body, "---") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if len(sections) < len(sectionHeadings) {
			sections = append(sections, domain.ReportSection{Title: sectionHeadings[len(sections)], Content: block})
			continue
		}
		sections[len(sections)-1].Content += "\n\n" + block
	}
	if len(sections) == 0 {
		sections = []domain.ReportSection{{Title: "Summary", Content: strings.TrimSpace(body)}}
	}
	return sections
}

func renderMarkdown(r domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", r.Title)
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", s.Title, s.Content)
	}
	return b.String()
}
