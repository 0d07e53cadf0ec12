// Package chi exposes the pipeline and document store over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/helmsley-ai/docent/internal/domain"
	"github.com/helmsley-ai/docent/internal/metrics"
	"github.com/helmsley-ai/docent/internal/usecase/docstore"
	"github.com/helmsley-ai/docent/internal/usecase/execute"
	healthuc "github.com/helmsley-ai/docent/internal/usecase/health"
	"github.com/helmsley-ai/docent/internal/usecase/pipeline"
)

// sentinelStatus maps a domain sentinel to an HTTP response.
type sentinelStatus struct {
	sentinel error
	status   int
	code     string
}

// Server is the HTTP API server.
type Server struct {
	pipeline  *pipeline.Service
	store     *docstore.Service
	extractor domain.TextExtractor
	registry  *execute.Registry
	health    *healthuc.Service
	logger    *zap.Logger
	apiKeys   []string
	sentinels []sentinelStatus
}

// WithAPIKeys enables bearer-token authentication for all non-exempt routes.
func (s *Server) WithAPIKeys(keys []string) *Server {
	s.apiKeys = keys
	return s
}

// NewServer creates an HTTP API server.
func NewServer(
	pipe *pipeline.Service,
	store *docstore.Service,
	extractor domain.TextExtractor,
	registry *execute.Registry,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		pipeline:  pipe,
		store:     store,
		extractor: extractor,
		registry:  registry,
		health:    health,
		logger:    logger,
		sentinels: []sentinelStatus{
			{domain.ErrEmptyDocument, http.StatusBadRequest, codeValidationFailed},
			{domain.ErrUnreadableDocument, http.StatusBadRequest, codeDocumentUnreadable},
			{domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable},
			{domain.ErrEmbeddingProvider, http.StatusBadGateway, codeProviderUnavailable},
			{domain.ErrCompletionProvider, http.StatusBadGateway, codeProviderUnavailable},
		},
	}
}

// Router assembles the chi router with middleware and all routes.
func (s *Server) Router() http.Handler {
	r := chirouter.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(BearerAuthMiddleware(s.apiKeys))
	r.Use(metrics.Middleware())

	r.Post("/query", s.handleQuery)
	r.Post("/documents", s.handleUpload)
	r.Get("/documents", s.handleDocuments)
	r.Get("/stats", s.handleStats)
	r.Get("/tasks", s.handleTasks)
	r.Get("/reports", s.handleReports)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Query is required")
		return
	}

	resp := s.pipeline.Process(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, responseToDTO(resp))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Document name is required")
		return
	}

	text, err := s.extractor.ExtractText(req.Name, []byte(req.Text))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	chunks, err := s.store.Ingest(r.Context(), req.Name, text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Name: req.Name, Chunks: chunks})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.Documents(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := make([]documentDTO, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentDTO{Name: d.Name, Chunks: d.Chunks, IngestedAt: d.IngestedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Backend: stats.Backend,
		Chunks:  stats.Chunks,
		Sources: stats.Sources,
		Ready:   stats.Ready,
	})
}

func (s *Server) handleTasks(w http.ResponseWriter, _ *http.Request) {
	tasks := s.registry.Tasks()
	out := make([]taskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReports(w http.ResponseWriter, _ *http.Request) {
	reports := s.registry.Reports()
	out := make([]reportDTO, 0, len(reports))
	for _, r := range reports {
		out = append(out, reportToDTO(r))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthToDTO(report))
}

// handleDomainError maps domain sentinels to HTTP statuses, defaulting to 500.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, m := range s.sentinels {
		if errors.Is(err, m.sentinel) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}

	s.logger.Error("Unhandled domain error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "Internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
