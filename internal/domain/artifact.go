package domain

import "time"

// Priority is a task priority level.
type Priority string

// Task priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps free-form planner output to a priority, defaulting to medium.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityLow, PriorityHigh:
		return Priority(s)
	default:
		return PriorityMedium
	}
}

// Task is a structured artifact created by the create_task action.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Status      string
	CreatedAt   time.Time
}

// Summary is the artifact of the summarize action.
type Summary struct {
	Text          string
	SourceLength  int
	SummaryLength int
}

// ChecklistItem is a single ordered checklist entry.
type ChecklistItem struct {
	Text string
	Done bool
}

// Checklist is the artifact of the create_checklist action.
type Checklist struct {
	Title     string
	Items     []ChecklistItem
	CreatedAt time.Time
}

// Analysis is the artifact of the analyze_content action.
type Analysis struct {
	Kind string
	Text string
}

// ReportSection is one named section of a report.
type ReportSection struct {
	Title   string
	Content string
}

// Report is a structured artifact created by the generate_report action.
// Markdown holds the rendered document.
type Report struct {
	ID        string
	Title     string
	Sections  []ReportSection
	Markdown  string
	CreatedAt time.Time
}
