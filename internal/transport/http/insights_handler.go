package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/kavya1280/JK-Insights/internal/errors"
	"github.com/kavya1280/JK-Insights/internal/services"
	"github.com/kavya1280/JK-Insights/internal/validation"
)

const (
	defaultInsightPageSize = 50
	maxInsightPageSize     = 500

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// InsightsHandler serves the catalog and generated workbooks
type InsightsHandler struct {
	service      InsightService
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewInsightsHandler creates the handler
func NewInsightsHandler(service InsightService, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *InsightsHandler {
	return &InsightsHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "insights")),
	}
}

// Catalog handles GET /api/insights
func (h *InsightsHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Catalog(r.Context()))
}

// Data handles GET /api/insight/{id}/data. Without page or page_size every
// row is returned; with either one the other takes its default.
func (h *InsightsHandler) Data(w http.ResponseWriter, r *http.Request) {
	page, err := validation.QueryInt(r, "page", 1, 1<<30, 0)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	pageSize, err := validation.QueryInt(r, "page_size", 1, maxInsightPageSize, 0)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	switch {
	case page > 0 && pageSize == 0:
		pageSize = defaultInsightPageSize
	case pageSize > 0 && page == 0:
		page = 1
	}

	data, err := h.service.Data(r.Context(), chi.URLParam(r, "id"), page, pageSize)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, struct {
		Status string `json:"status"`
		*services.InsightData
	}{Status: "success", InsightData: data})
}

// Download handles GET /api/insight/{id}/download. The workbook is sent as
// is; format=csv streams its main sheet instead.
func (h *InsightsHandler) Download(w http.ResponseWriter, r *http.Request) {
	format, err := validation.QueryEnum(r, "format", []string{"xlsx", "csv"}, "xlsx")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	def, path, err := h.service.Path(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if format == "xlsx" {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", attachment(filepath.Base(path)))
		http.ServeFile(w, r, path)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(services.CSVName(def)))
	if err := h.service.WriteCSV(r.Context(), def.ID, w); err != nil {
		// the status line may already be sent
		h.logger.ErrorContext(r.Context(), "csv download failed",
			slog.String("insight", def.ID),
			slog.String("error", err.Error()))
	}
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}
