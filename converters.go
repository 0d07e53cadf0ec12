package docent

import "github.com/helmsley-ai/docent/internal/domain"

func fromResponse(r domain.Response) Response {
	out := Response{
		SessionID: r.SessionID,
		Query:     r.Query,
		Success:   r.Success,
		Error:     r.Error,
		Steps:     make([]StepResult, 0, len(r.Steps)),
	}
	if r.Plan != nil {
		out.Fallback = r.Plan.Fallback
	}
	for _, s := range r.Steps {
		out.Steps = append(out.Steps, fromStepResult(s))
	}
	if r.Summary != nil {
		out.Summary = Summary{
			TotalSteps:         r.Summary.TotalSteps,
			SuccessfulSteps:    r.Summary.SuccessfulSteps,
			FailedSteps:        r.Summary.FailedSteps,
			RetrievedDocuments: r.Summary.RetrievedDocuments,
			KeyAchievements:    r.Summary.KeyAchievements,
		}
	}
	return out
}

func fromStepResult(s domain.StepResult) StepResult {
	out := StepResult{
		Step:        s.Step,
		Agent:       string(s.Agent),
		Action:      string(s.Action),
		Description: s.Description,
		Success:     s.Success,
		Error:       s.Error,
	}
	if s.Retrieval != nil {
		out.Retrieved = fromScoredChunks(s.Retrieval.Chunks)
	}
	if s.Execution != nil {
		out.Message = s.Execution.Message
	}
	return out
}

func fromScoredChunks(chunks []domain.ScoredChunk) []ScoredChunk {
	out := make([]ScoredChunk, 0, len(chunks))
	for _, sc := range chunks {
		out = append(out, ScoredChunk{
			Source: sc.Chunk.Source,
			Offset: sc.Chunk.Offset,
			Text:   sc.Chunk.Text,
			Score:  sc.Score,
		})
	}
	return out
}
