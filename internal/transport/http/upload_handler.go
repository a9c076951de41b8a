package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "github.com/kavya1280/JK-Insights/internal/errors"
)

// UploadHandler accepts master data files
type UploadHandler struct {
	service      UploadService
	maxBytes     int64
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewUploadHandler creates the handler. maxMB bounds the multipart body.
func NewUploadHandler(service UploadService, maxMB int64, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *UploadHandler {
	if maxMB <= 0 {
		maxMB = 256
	}
	return &UploadHandler{
		service:      service,
		maxBytes:     maxMB << 20,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "upload")),
	}
}

// Upload handles POST /api/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	// parts above 32MB spill to temp files
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.errorHandler.HandleError(w, r, parseFormError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	stored, err := h.service.Upload(r.Context(), r.MultipartForm.File)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("%d file(s) uploaded successfully", len(stored)),
		"files":   stored,
	})
}

// List handles GET /api/uploads
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"files": h.service.Uploads(r.Context()),
	})
}

// parseFormError turns a multipart parse failure into a client error
func parseFormError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierrors.New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
	}
	return apierrors.NewWithDetails(http.StatusBadRequest, "INVALID_UPLOAD",
		"request must be multipart/form-data", err.Error())
}
