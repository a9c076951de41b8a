package http

import (
	"log/slog"
	"net/http"

	"github.com/kavya1280/JK-Insights/internal/analytics"
	"github.com/kavya1280/JK-Insights/internal/auth"
	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
	apierrors "github.com/kavya1280/JK-Insights/internal/errors"
	"github.com/kavya1280/JK-Insights/internal/files"
	"github.com/kavya1280/JK-Insights/internal/insights"
	"github.com/kavya1280/JK-Insights/internal/operations"
	"github.com/kavya1280/JK-Insights/internal/services"
)

// NewErrorHandler returns an ErrorHandler that knows every domain sentinel
func NewErrorHandler(logger *slog.Logger, includeStack bool) *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(logger, includeStack).
		// insights and generation
		Map(services.ErrInsightNotFound, http.StatusNotFound, apierrors.TypeInsightNotFound, "Insight Not Found").
		Map(services.ErrNotGenerated, http.StatusNotFound, apierrors.TypeNotGenerated, "Insight Not Generated").
		Map(services.ErrInvalidFormat, http.StatusBadRequest, apierrors.TypeValidation, "Invalid Format").
		Map(insights.ErrNoSelection, http.StatusBadRequest, apierrors.TypeValidation, "No Insights Selected").
		Map(insights.ErrUnknownInsight, http.StatusBadRequest, apierrors.TypeValidation, "Unknown Insight").
		Map(insights.ErrMissingInput, http.StatusBadRequest, apierrors.TypeMissingInput, "Missing Input").
		Map(operations.ErrJobNotFound, http.StatusNotFound, apierrors.TypeJobNotFound, "Job Not Found").
		Map(operations.ErrNotCancellable, http.StatusConflict, apierrors.TypeConflict, "Job Not Cancellable").
		Map(operations.ErrQueueFull, http.StatusServiceUnavailable, apierrors.TypeServiceDown, "Job Queue Full").
		Map(operations.ErrQueueStopped, http.StatusServiceUnavailable, apierrors.TypeServiceDown, "Job Queue Stopped").
		// uploads
		Map(services.ErrNoFilesProvided, http.StatusBadRequest, apierrors.TypeInvalidUpload, "No Files Provided").
		Map(dataprocessing.ErrNoUsableEntries, http.StatusBadRequest, apierrors.TypeInvalidUpload, "No Usable Zip Entries").
		Map(dataprocessing.ErrUnsupportedFormat, http.StatusBadRequest, apierrors.TypeInvalidUpload, "Unsupported File Format").
		Map(dataprocessing.ErrEmptyFile, http.StatusBadRequest, apierrors.TypeInvalidUpload, "Empty File").
		Map(files.ErrUnreadable, http.StatusBadRequest, apierrors.TypeInvalidUpload, "Unreadable Upload").
		// analytics
		Map(analytics.ErrNoDataset, http.StatusBadRequest, apierrors.TypeNoDataset, "No Dataset Loaded").
		Map(analytics.ErrFileNotFound, http.StatusNotFound, apierrors.TypeNotFound, "File Not Found").
		Map(analytics.ErrUnsupportedFile, http.StatusBadRequest, apierrors.TypeInvalidUpload, "Unsupported File Format").
		Map(analytics.ErrUnreadable, http.StatusBadRequest, apierrors.TypeInvalidUpload, "Unreadable Upload").
		// users
		Map(auth.ErrInvalidCredentials, http.StatusUnauthorized, apierrors.TypeInvalidLogin, "Invalid Credentials").
		Map(auth.ErrAccountInactive, http.StatusForbidden, apierrors.TypeAccountInactive, "Account Inactive").
		Map(auth.ErrUserExists, http.StatusConflict, apierrors.TypeConflict, "User Exists").
		Map(auth.ErrUserNotFound, http.StatusNotFound, apierrors.TypeNotFound, "User Not Found").
		Map(auth.ErrInvalidRole, http.StatusBadRequest, apierrors.TypeValidation, "Invalid Role").
		Map(auth.ErrInvalidStatus, http.StatusBadRequest, apierrors.TypeValidation, "Invalid Status")
}
