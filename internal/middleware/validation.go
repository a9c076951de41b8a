package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	apierrors "github.com/kavya1280/JK-Insights/internal/errors"
)

// JSONBody guards JSON endpoints: bodies over maxBodySize are rejected
// with 413 and malformed JSON with 400 before the handler runs.
type JSONBody struct {
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxBodySize  int64
}

// NewJSONBody creates the guard. maxBodySize <= 0 means 1MB.
func NewJSONBody(logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxBodySize int64) *JSONBody {
	if maxBodySize <= 0 {
		maxBodySize = 1 << 20
	}
	return &JSONBody{
		logger:       logger.With(slog.String("component", "json_body")),
		errorHandler: errorHandler,
		maxBodySize:  maxBodySize,
	}
}

// Handler validates the request body and restores it for the next handler
func (m *JSONBody) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		if r.ContentLength > m.maxBodySize {
			m.tooLarge(w, r, r.ContentLength)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, m.maxBodySize+1))
		if err != nil {
			m.logger.ErrorContext(r.Context(), "failed to read request body",
				slog.String("error", err.Error()),
				slog.String("request_id", GetRequestID(r.Context())),
			)
			m.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		if int64(len(body)) > m.maxBodySize {
			m.tooLarge(w, r, int64(len(body)))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if len(bytes.TrimSpace(body)) > 0 && !json.Valid(body) {
			m.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusBadRequest,
				"INVALID_JSON",
				"Request body contains invalid JSON",
			))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *JSONBody) tooLarge(w http.ResponseWriter, r *http.Request, size int64) {
	m.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
		http.StatusRequestEntityTooLarge,
		"PAYLOAD_TOO_LARGE",
		"Request body exceeds maximum allowed size",
		map[string]interface{}{
			"max_size": m.maxBodySize,
			"size":     size,
		},
	))
}

// ContentTypeValidator rejects bodies whose media type is not one of
// contentTypes. GET, HEAD, DELETE and empty bodies pass through.
func ContentTypeValidator(errorHandler *apierrors.ErrorHandler, contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodDelete || r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				errorHandler.HandleError(w, r, apierrors.New(
					http.StatusBadRequest,
					"MISSING_CONTENT_TYPE",
					"Content-Type header is required",
				))
				return
			}

			mediaType, _, err := mime.ParseMediaType(contentType)
			if err == nil {
				for _, ct := range contentTypes {
					if strings.EqualFold(mediaType, ct) {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusUnsupportedMediaType,
				"UNSUPPORTED_MEDIA_TYPE",
				"Unsupported Content-Type",
				map[string]interface{}{
					"content_type": contentType,
					"supported":    contentTypes,
				},
			))
		})
	}
}
