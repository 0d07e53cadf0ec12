package session

import (
	"testing"

	"github.com/helmsley-ai/docent/internal/domain"
)

func retrievalStep(n int, sources ...string) domain.StepResult {
	chunks := make([]domain.ScoredChunk, len(sources))
	for i, s := range sources {
		chunks[i] = domain.ScoredChunk{Chunk: domain.Chunk{Source: s, Offset: i}, Score: 0.9}
	}
	return domain.StepResult{
		Step: n, Agent: domain.AgentRetriever, Action: domain.ActionSearch,
		Description: "find onboarding docs", Success: true,
		Retrieval: &domain.RetrievalResult{Chunks: chunks, RetrievedDocuments: len(sources)},
	}
}

func TestRecordAppendsInOrder(t *testing.T) {
	c := New("session_1", "q")
	for i := 1; i <= 3; i++ {
		c.Record(domain.Step{Number: i}, "dispatch", domain.StepResult{Step: i, Success: true})
	}

	entries := c.Entries()
	if len(entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Result.Step != i+1 {
			t.Errorf("entry %d has step %d", i, e.Result.Step)
		}
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	c := New("session_1", "q")
	c.Record(domain.Step{Number: 1}, "d", domain.StepResult{Step: 1})

	got := c.Entries()
	got[0].Decision = "mutated"

	if c.Entries()[0].Decision != "d" {
		t.Error("mutating the returned slice changed the log")
	}
}

func TestSummaryAggregates(t *testing.T) {
	c := New("session_1", "q")
	c.Record(domain.Step{Number: 1}, "dispatch retriever", retrievalStep(1, "handbook.txt", "values.txt"))
	c.Record(domain.Step{Number: 2}, "dispatch executor", domain.StepResult{
		Step: 2, Agent: domain.AgentExecutor, Action: domain.ActionCreateChecklist, Success: true,
		Execution: &domain.ExecutionResult{
			Action:    domain.ActionCreateChecklist,
			Checklist: &domain.Checklist{Title: "Day 1", Items: []domain.ChecklistItem{{Text: "badge"}, {Text: "laptop"}}},
		},
	})
	c.Record(domain.Step{Number: 3}, "dispatch executor", domain.StepResult{
		Step: 3, Agent: domain.AgentExecutor, Action: "bogus", Success: false, Error: "unknown action",
	})

	sum := c.Summary()
	if sum.TotalSteps != 3 || sum.SuccessfulSteps != 2 || sum.FailedSteps != 1 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if sum.RetrievedDocuments != 2 {
		t.Errorf("want 2 retrieved documents, got %d", sum.RetrievedDocuments)
	}
	if len(sum.KeyAchievements) != 2 {
		t.Fatalf("want 2 achievements, got %v", sum.KeyAchievements)
	}
	if sum.KeyAchievements[1] != "Created checklist with 2 items" {
		t.Errorf("unexpected achievement: %q", sum.KeyAchievements[1])
	}
}

func TestSummaryCountsDistinctSourcesAcrossSteps(t *testing.T) {
	c := New("session_1", "q")
	c.Record(domain.Step{Number: 1}, "d", retrievalStep(1, "a.txt", "b.txt"))
	c.Record(domain.Step{Number: 2}, "d", retrievalStep(2, "b.txt", "c.txt"))

	if got := c.Summary().RetrievedDocuments; got != 3 {
		t.Errorf("want 3 distinct sources, got %d", got)
	}
}

func TestStats(t *testing.T) {
	c := New("session_abc", "find things")
	c.Record(domain.Step{Number: 1, Agent: domain.AgentRetriever}, "d", retrievalStep(1, "a.txt"))
	c.Record(domain.Step{Number: 2, Agent: domain.AgentExecutor}, "d", domain.StepResult{Step: 2, Success: true})
	c.Record(domain.Step{Number: 3, Agent: domain.AgentExecutor}, "d", domain.StepResult{Step: 3, Success: true})

	st := c.Stats()
	if st.ID != "session_abc" || st.Query != "find things" {
		t.Errorf("unexpected identity: %+v", st)
	}
	if st.Entries != 3 {
		t.Errorf("entries = %d, want 3", st.Entries)
	}
	if len(st.Agents) != 2 || st.Agents[0] != "Retriever" || st.Agents[1] != "Executor" {
		t.Errorf("agents = %v, want [Retriever Executor]", st.Agents)
	}
	if st.UpdatedAt.Before(st.StartedAt) {
		t.Errorf("updated %v before started %v", st.UpdatedAt, st.StartedAt)
	}
}

func TestStatsEmptyLog(t *testing.T) {
	c := New("session_abc", "q")

	st := c.Stats()
	if st.Entries != 0 || len(st.Agents) != 0 {
		t.Errorf("unexpected stats for empty log: %+v", st)
	}
	if !st.UpdatedAt.Equal(st.StartedAt) {
		t.Errorf("empty log should report start time as last update")
	}
}
