// Package session holds the append-only context log that records every step
// of one query's processing. A Context lives for the duration of a single
// pipeline run; concurrent sessions never share one.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Entry is one logged (step, decision, result) triple.
type Entry struct {
	Timestamp time.Time
	Step      domain.Step
	Decision  string
	Result    domain.StepResult
}

// Context is the append-only log for one session. Entries are never mutated
// or removed once recorded.
type Context struct {
	id      string
	query   string
	started time.Time

	mu      sync.Mutex
	entries []Entry
}

// New creates a context log for one query.
func New(id, query string) *Context {
	return &Context{id: id, query: query, started: time.Now()}
}

// ID returns the session identifier.
func (c *Context) ID() string { return c.id }

// Query returns the user query this session is processing.
func (c *Context) Query() string { return c.query }

// Record appends one entry to the log.
func (c *Context) Record(step domain.Step, decision string, result domain.StepResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{
		Timestamp: time.Now(),
		Step:      step,
		Decision:  decision,
		Result:    result,
	})
}

// Entries returns a copy of the logged entries in record order.
func (c *Context) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Summary derives the session aggregates from the logged entries on demand.
// Nothing here is cached: repeated calls over the same entries are identical.
func (c *Context) Summary() domain.FinalSummary {
	entries := c.Entries()

	sum := domain.FinalSummary{TotalSteps: len(entries)}
	sources := map[string]struct{}{}

	for _, e := range entries {
		if !e.Result.Success {
			sum.FailedSteps++
			continue
		}
		sum.SuccessfulSteps++

		if r := e.Result.Retrieval; r != nil {
			for _, sc := range r.Chunks {
				sources[sc.Chunk.Source] = struct{}{}
			}
		}
		if a := achievement(e.Result); a != "" {
			sum.KeyAchievements = append(sum.KeyAchievements, a)
		}
	}

	sum.RetrievedDocuments = len(sources)
	return sum
}

// Stats describes the log itself rather than the outcome.
type Stats struct {
	ID        string
	Query     string
	Entries   int
	Agents    []string
	StartedAt time.Time
	UpdatedAt time.Time
}

// Stats derives log metadata: distinct agents in first-seen order and the
// last record time (start time when nothing was recorded yet).
func (c *Context) Stats() Stats {
	entries := c.Entries()

	st := Stats{
		ID:        c.id,
		Query:     c.query,
		Entries:   len(entries),
		StartedAt: c.started,
		UpdatedAt: c.started,
	}
	seen := map[domain.Agent]struct{}{}
	for _, e := range entries {
		if _, ok := seen[e.Step.Agent]; !ok {
			seen[e.Step.Agent] = struct{}{}
			st.Agents = append(st.Agents, string(e.Step.Agent))
		}
		st.UpdatedAt = e.Timestamp
	}
	return st
}

// achievement renders the human-readable accomplishment line for one
// successful step, or "" when the step produced nothing noteworthy.
func achievement(r domain.StepResult) string {
	switch {
	case r.Retrieval != nil:
		return fmt.Sprintf("Retrieved %d relevant passages for %q", len(r.Retrieval.Chunks), r.Description)
	case r.Execution == nil:
		return ""
	case r.Execution.Task != nil:
		return "Created task: " + r.Execution.Task.Title
	case r.Execution.Report != nil:
		return "Generated report: " + r.Execution.Report.Title
	case r.Execution.Checklist != nil:
		return fmt.Sprintf("Created checklist with %d items", len(r.Execution.Checklist.Items))
	case r.Execution.Summary != nil:
		return "Generated content summary"
	case r.Execution.Analysis != nil:
		return "Completed content analysis"
	default:
		return ""
	}
}
