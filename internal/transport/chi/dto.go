package chi

import (
	"time"

	"github.com/helmsley-ai/docent/internal/domain"
	"github.com/helmsley-ai/docent/internal/usecase/health"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeDocumentUnreadable  = "document_unreadable"
	codeIndexUnavailable    = "index_unavailable"
	codeProviderUnavailable = "provider_unavailable"
	codeInternal            = "internal_error"
)

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	SessionID string          `json:"session_id"`
	Query     string          `json:"query"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	Plan      *planDTO        `json:"plan,omitempty"`
	Steps     []stepResultDTO `json:"steps"`
	Summary   *summaryDTO     `json:"summary,omitempty"`
}

type planDTO struct {
	Analysis        string    `json:"analysis"`
	ExpectedOutcome string    `json:"expected_outcome"`
	Fallback        bool      `json:"fallback"`
	Steps           []stepDTO `json:"steps"`
}

type stepDTO struct {
	StepNumber  int               `json:"step_number"`
	Agent       string            `json:"agent"`
	Action      string            `json:"action"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters,omitempty"`
}

type stepResultDTO struct {
	Step        int           `json:"step"`
	Agent       string        `json:"agent"`
	Action      string        `json:"action"`
	Description string        `json:"description"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	Retrieval   *retrievalDTO `json:"retrieval,omitempty"`
	Execution   *executionDTO `json:"execution,omitempty"`
}

type retrievalDTO struct {
	Query              string           `json:"query"`
	Summary            string           `json:"summary,omitempty"`
	RetrievedDocuments int              `json:"retrieved_documents"`
	Chunks             []scoredChunkDTO `json:"chunks"`
}

type scoredChunkDTO struct {
	Source string  `json:"source"`
	Offset int     `json:"offset"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

type executionDTO struct {
	Action    string            `json:"action"`
	Message   string            `json:"message"`
	Task      *taskDTO          `json:"task,omitempty"`
	Summary   *textSummaryDTO   `json:"summary,omitempty"`
	Checklist *checklistDTO     `json:"checklist,omitempty"`
	Analysis  *analysisDTO      `json:"analysis,omitempty"`
	Report    *reportDTO        `json:"report,omitempty"`
}

type taskDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type textSummaryDTO struct {
	Text          string `json:"text"`
	SourceLength  int    `json:"source_length"`
	SummaryLength int    `json:"summary_length"`
}

type checklistDTO struct {
	Title string             `json:"title"`
	Items []checklistItemDTO `json:"items"`
}

type checklistItemDTO struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type analysisDTO struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type reportDTO struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Sections  []reportSection  `json:"sections"`
	Markdown  string           `json:"markdown"`
	CreatedAt time.Time        `json:"created_at"`
}

type reportSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type summaryDTO struct {
	TotalSteps         int      `json:"total_steps"`
	SuccessfulSteps    int      `json:"successful_steps"`
	FailedSteps        int      `json:"failed_steps"`
	RetrievedDocuments int      `json:"retrieved_documents"`
	KeyAchievements    []string `json:"key_achievements"`
}

type uploadRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type uploadResponse struct {
	Name   string `json:"name"`
	Chunks int    `json:"chunks"`
}

type documentDTO struct {
	Name       string    `json:"name"`
	Chunks     int       `json:"chunks"`
	IngestedAt time.Time `json:"ingested_at"`
}

type statsResponse struct {
	Backend string `json:"backend"`
	Chunks  int    `json:"chunks"`
	Sources int    `json:"sources"`
	Ready   bool   `json:"ready"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func responseToDTO(r domain.Response) queryResponse {
	out := queryResponse{
		SessionID: r.SessionID,
		Query:     r.Query,
		Success:   r.Success,
		Error:     r.Error,
		Steps:     make([]stepResultDTO, 0, len(r.Steps)),
	}
	if r.Plan != nil {
		out.Plan = planToDTO(*r.Plan)
	}
	for _, s := range r.Steps {
		out.Steps = append(out.Steps, stepResultToDTO(s))
	}
	if r.Summary != nil {
		out.Summary = &summaryDTO{
			TotalSteps:         r.Summary.TotalSteps,
			SuccessfulSteps:    r.Summary.SuccessfulSteps,
			FailedSteps:        r.Summary.FailedSteps,
			RetrievedDocuments: r.Summary.RetrievedDocuments,
			KeyAchievements:    r.Summary.KeyAchievements,
		}
	}
	return out
}

func planToDTO(p domain.Plan) *planDTO {
	out := &planDTO{
		Analysis:        p.Analysis,
		ExpectedOutcome: p.ExpectedOutcome,
		Fallback:        p.Fallback,
		Steps:           make([]stepDTO, 0, len(p.Steps)),
	}
	for _, s := range p.Steps {
		out.Steps = append(out.Steps, stepDTO{
			StepNumber:  s.Number,
			Agent:       string(s.Agent),
			Action:      string(s.Action),
			Description: s.Description,
			Parameters:  s.Params,
		})
	}
	return out
}

func stepResultToDTO(s domain.StepResult) stepResultDTO {
	out := stepResultDTO{
		Step:        s.Step,
		Agent:       string(s.Agent),
		Action:      string(s.Action),
		Description: s.Description,
		Success:     s.Success,
		Error:       s.Error,
	}
	if r := s.Retrieval; r != nil {
		ret := &retrievalDTO{
			Query:              r.Query,
			Summary:            r.Summary,
			RetrievedDocuments: r.RetrievedDocuments,
			Chunks:             make([]scoredChunkDTO, 0, len(r.Chunks)),
		}
		for _, sc := range r.Chunks {
			ret.Chunks = append(ret.Chunks, scoredChunkDTO{
				Source: sc.Chunk.Source,
				Offset: sc.Chunk.Offset,
				Text:   sc.Chunk.Text,
				Score:  sc.Score,
			})
		}
		out.Retrieval = ret
	}
	if e := s.Execution; e != nil {
		out.Execution = executionToDTO(*e)
	}
	return out
}

func executionToDTO(e domain.ExecutionResult) *executionDTO {
	out := &executionDTO{
		Action:  string(e.Action),
		Message: e.Message,
	}
	if e.Task != nil {
		t := taskToDTO(*e.Task)
		out.Task = &t
	}
	if e.Summary != nil {
		out.Summary = &textSummaryDTO{
			Text:          e.Summary.Text,
			SourceLength:  e.Summary.SourceLength,
			SummaryLength: e.Summary.SummaryLength,
		}
	}
	if e.Checklist != nil {
		cl := &checklistDTO{Title: e.Checklist.Title, Items: make([]checklistItemDTO, 0, len(e.Checklist.Items))}
		for _, it := range e.Checklist.Items {
			cl.Items = append(cl.Items, checklistItemDTO{Text: it.Text, Done: it.Done})
		}
		out.Checklist = cl
	}
	if e.Analysis != nil {
		out.Analysis = &analysisDTO{Kind: e.Analysis.Kind, Text: e.Analysis.Text}
	}
	if e.Report != nil {
		r := reportToDTO(*e.Report)
		out.Report = &r
	}
	return out
}

func taskToDTO(t domain.Task) taskDTO {
	return taskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
}

func reportToDTO(r domain.Report) reportDTO {
	out := reportDTO{
		ID:        r.ID,
		Title:     r.Title,
		Markdown:  r.Markdown,
		CreatedAt: r.CreatedAt,
		Sections:  make([]reportSection, 0, len(r.Sections)),
	}
	for _, s := range r.Sections {
		out.Sections = append(out.Sections, reportSection{Title: s.Title, Content: s.Content})
	}
	return out
}

func healthToDTO(r health.Report) healthResponse {
	out := healthResponse{Status: string(r.Status)}
	if len(r.Checks) > 0 {
		out.Checks = make(map[string]string, len(r.Checks))
		for k, v := range r.Checks {
			out.Checks[k] = string(v)
		}
	}
	return out
}
