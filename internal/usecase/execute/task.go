package execute

import (
	"context"

	"github.com/helmsley-ai/docent/internal/domain"
)

// createTask appends a task artifact to the registry. No model call involved.
type createTask struct {
	registry *Registry
}

func (createTask) Name() domain.Action { return domain.ActionCreateTask }

func (h createTask) Execute(_ context.Context, in Input) (domain.ExecutionResult, error) {
	title := in.Param("title", in.Param("task_type", "Generated Task"))

	task := h.registry.AddTask(domain.Task{
		Title:       title,
		Description: in.Param("description", in.Param("content", "")),
		Priority:    domain.ParsePriority(in.Params["priority"]),
		Status:      "pending",
		CreatedAt:   now(),
	})

	return domain.ExecutionResult{
		Action:  domain.ActionCreateTask,
		Message: "Task " + task.Title + " created",
		Task:    &task,
	}, nil
}
