package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/kavya1280/JK-Insights/internal/errors"
	"github.com/kavya1280/JK-Insights/internal/operations"
	"github.com/kavya1280/JK-Insights/internal/services"
	"github.com/kavya1280/JK-Insights/internal/validation"
)

var jobStatuses = []string{
	string(operations.JobStatusPending),
	string(operations.JobStatusRunning),
	string(operations.JobStatusCompleted),
	string(operations.JobStatusFailed),
	string(operations.JobStatusCancelled),
}

// GenerateRequest is the body of POST /api/generate
type GenerateRequest struct {
	Insights []string `json:"insights" validate:"required,min=1,dive,insight"`
	// Wait defaults to true
	Wait *bool `json:"wait,omitempty"`
}

// GenerateHandler starts generation jobs and reports on them
type GenerateHandler struct {
	service      GenerationService
	validator    *validation.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewGenerateHandler creates the handler
func NewGenerateHandler(service GenerationService, v *validation.Validator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		service:      service,
		validator:    v,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "generate")),
	}
}

// Generate handles POST /api/generate. A waiting request answers 200 with
// the finished job; otherwise 202 with the queued job.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := h.validator.Decode(r, &req, false); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	wait := req.Wait == nil || *req.Wait

	job, err := h.service.Generate(r.Context(), req.Insights, wait)
	if err != nil {
		if job != nil && errors.Is(err, context.DeadlineExceeded) {
			// the job keeps running; hand back its id so the client can poll
			render.Status(r, http.StatusAccepted)
			render.JSON(w, r, job)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if !wait {
		w.Header().Set("Location", "/api/jobs/"+job.ID)
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, job)
		return
	}

	h.logger.InfoContext(r.Context(), "generation finished",
		slog.String("job_id", job.ID),
		slog.String("status", string(job.Status)))
	render.JSON(w, r, job)
}

// JobRoutes returns the /api/jobs routes
func (h *GenerateHandler) JobRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListJobs)
	r.Get("/{id}", h.GetJob)
	r.Delete("/{id}", h.CancelJob)
	return r
}

// ListJobs handles GET /api/jobs
func (h *GenerateHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	status, err := validation.QueryEnum(r, "status", jobStatuses, "")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	limit, err := validation.QueryInt(r, "limit", 1, 500, services.DefaultJobListLimit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	jobs, err := h.service.Jobs(r.Context(), operations.JobStatus(status), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// GetJob handles GET /api/jobs/{id}
func (h *GenerateHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Job(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, job)
}

// CancelJob handles DELETE /api/jobs/{id}
func (h *GenerateHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
