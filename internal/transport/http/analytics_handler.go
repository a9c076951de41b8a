package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/kavya1280/JK-Insights/internal/analytics"
	apierrors "github.com/kavya1280/JK-Insights/internal/errors"
	"github.com/kavya1280/JK-Insights/internal/validation"
)

// LoadRequest is the body of POST /api/analytics/load
type LoadRequest struct {
	Filename string `json:"filename" validate:"required,filename"`
}

// DashboardRequest is the body of POST /api/analytics/dashboard
type DashboardRequest struct {
	Filters *analytics.Filters `json:"filters,omitempty"`
}

// AnalyticsHandler serves the dashboard over uploaded result workbooks
type AnalyticsHandler struct {
	service      AnalyticsService
	maxBytes     int64
	validator    *validation.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewAnalyticsHandler creates the handler
func NewAnalyticsHandler(service AnalyticsService, maxMB int64, v *validation.Validator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *AnalyticsHandler {
	if maxMB <= 0 {
		maxMB = 256
	}
	return &AnalyticsHandler{
		service:      service,
		maxBytes:     maxMB << 20,
		validator:    v,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "analytics")),
	}
}

// Routes returns the /api/analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/upload", h.Upload)
	r.Get("/files", h.Files)
	r.Post("/load", h.Load)
	r.Post("/dashboard", h.Dashboard)
	r.Post("/table", h.Table)
	r.Get("/filter-options", h.FilterOptions)
	return r
}

// Upload handles POST /api/analytics/upload with the workbook in "file"
func (h *AnalyticsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusBadRequest, "NO_FILE", "no file part named file"))
			return
		}
		h.errorHandler.HandleError(w, r, parseFormError(err))
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	summary, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "analytics file loaded",
		slog.String("filename", summary.Filename),
		slog.String("type", string(summary.FileType)),
		slog.Int("rows", summary.Rows))
	render.JSON(w, r, map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("%s loaded with %d rows", summary.Filename, summary.Rows),
		"summary": summary,
	})
}

// Files handles GET /api/analytics/files
func (h *AnalyticsHandler) Files(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Files(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"files": list})
}

// Load handles POST /api/analytics/load
func (h *AnalyticsHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := h.validator.Decode(r, &req, false); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.Load(r.Context(), req.Filename)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"status":  "success",
		"summary": summary,
	})
}

// Dashboard handles POST /api/analytics/dashboard. The body is optional.
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var req DashboardRequest
	if err := h.validator.Decode(r, &req, true); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dash, err := h.service.Dashboard(r.Context(), req.Filters)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dash)
}

// Table handles POST /api/analytics/table
func (h *AnalyticsHandler) Table(w http.ResponseWriter, r *http.Request) {
	req := analytics.NewTableRequest()
	if err := h.validator.Decode(r, &req, true); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	page, err := h.service.Table(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

// FilterOptions handles GET /api/analytics/filter-options
func (h *AnalyticsHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.FilterOptions(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}
