package execute

import (
	"fmt"
	"sync"
	"time"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Registry is the in-memory store for tasks and reports produced by the
// executor. It is injected rather than global so concurrent sessions and
// tests can own isolated instances.
type Registry struct {
	mu      sync.Mutex
	tasks   []domain.Task
	reports []domain.Report
}

// NewRegistry creates an empty artifact registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddTask assigns the task an identifier and appends it.
func (r *Registry) AddTask(t domain.Task) domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = fmt.Sprintf("task_%d_%s", len(r.tasks)+1, t.CreatedAt.Format("20060102_150405"))
	r.tasks = append(r.tasks, t)
	return t
}

// AddReport assigns the report an identifier and appends it.
func (r *Registry) AddReport(rep domain.Report) domain.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep.ID = fmt.Sprintf("report_%d_%s", len(r.reports)+1, rep.CreatedAt.Format("20060102_150405"))
	r.reports = append(r.reports, rep)
	return rep
}

// Tasks returns all created tasks in creation order.
func (r *Registry) Tasks() []domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Reports returns all generated reports in creation order.
func (r *Registry) Reports() []domain.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// now is overridable in tests for stable artifact timestamps.
var now = time.Now
