package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/kavya1280/JK-Insights/internal/files"
	"github.com/kavya1280/JK-Insights/internal/insights"
)

// MasterStore is the part of files.Manager the upload service uses
type MasterStore interface {
	Store(ctx context.Context, src insights.SourceInfo, filename string, r io.Reader) (files.Stored, error)
	List(ctx context.Context) []files.MasterFile
}

// UploadService stores master data uploads
type UploadService struct {
	store  MasterStore
	logger *slog.Logger
}

// NewUploadService creates the service
func NewUploadService(store MasterStore, logger *slog.Logger) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{
		store:  store,
		logger: logger.With(slog.String("service", "upload")),
	}
}

// Upload stores the first file of every known form field, in source order.
// Unknown fields are ignored. The first failure stops the upload; files
// stored before it stay in place.
func (s *UploadService) Upload(ctx context.Context, form map[string][]*multipart.FileHeader) ([]files.Stored, error) {
	var stored []files.Stored
	for _, src := range insights.Sources {
		headers := form[src.FormField]
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		res, err := s.storeOne(ctx, src, fh)
		if err != nil {
			s.logger.WarnContext(ctx, "master upload rejected",
				slog.String("field", src.FormField),
				slog.String("filename", fh.Filename),
				slog.String("error", err.Error()))
			return stored, fmt.Errorf("%s: %w", src.FormField, err)
		}
		stored = append(stored, res)
	}
	if len(stored) == 0 {
		return nil, ErrNoFilesProvided
	}
	return stored, nil
}

func (s *UploadService) storeOne(ctx context.Context, src insights.SourceInfo, fh *multipart.FileHeader) (files.Stored, error) {
	f, err := fh.Open()
	if err != nil {
		return files.Stored{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return s.store.Store(ctx, src, fh.Filename, f)
}

// Uploads lists the master files currently in the data directory
func (s *UploadService) Uploads(ctx context.Context) []files.MasterFile {
	return s.store.List(ctx)
}
