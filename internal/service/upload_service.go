package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/share2teach-api/internal/dto"
	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/repository"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
	"github.com/noah-isme/share2teach-api/pkg/objectstore"
	"github.com/noah-isme/share2teach-api/pkg/watermark"
)

type documentCreator interface {
	Create(ctx context.Context, in models.NewDocument) (*models.Document, error)
}

type watermarker interface {
	Supports(mime string) bool
	Apply(mime string, data []byte) ([]byte, error)
}

type orphanRemover interface {
	Remove(ctx context.Context, url string)
}

// UploadInput is a fully buffered upload.
type UploadInput struct {
	Filename     string
	DeclaredMIME string
	Data         []byte
	Meta         dto.UploadDocumentRequest
}

// UploadConfig bounds accepted uploads.
type UploadConfig struct {
	MaxFileSizeBytes int64
}

// UploadService validates, watermarks and stores documents, then persists their metadata.
// The object is written first; if the metadata transaction fails the object is removed again.
type UploadService struct {
	docs      documentCreator
	store     objectstore.Store
	marks     watermarker
	orphans   orphanRemover
	activity  activityRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    UploadConfig
}

// NewUploadService constructs an UploadService.
func NewUploadService(docs documentCreator, store objectstore.Store, marks watermarker, orphans orphanRemover, activity activityRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg UploadConfig) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 20 * 1024 * 1024
	}
	return &UploadService{
		docs:      docs,
		store:     store,
		marks:     marks,
		orphans:   orphans,
		activity:  activity,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    cfg,
	}
}

// Upload runs the pipeline for one document on behalf of caller.
func (s *UploadService) Upload(ctx context.Context, caller *Caller, in UploadInput) (*models.Document, error) {
	doc, err := s.upload(ctx, caller, in)
	switch {
	case err == nil:
		s.metrics.RecordUpload("stored")
	case appErrors.FromError(err).Status < 500:
		s.metrics.RecordUpload("rejected")
	default:
		s.metrics.RecordUpload("failed")
	}
	return doc, err
}

func (s *UploadService) upload(ctx context.Context, caller *Caller, in UploadInput) (*models.Document, error) {
	if caller == nil {
		return nil, appErrors.ErrMissingToken
	}
	if err := s.validator.Struct(in.Meta); err != nil {
		return nil, validationError(err, "invalid document metadata")
	}
	if len(in.Data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "No file selected!")
	}
	if int64(len(in.Data)) > s.config.MaxFileSizeBytes {
		return nil, appErrors.ErrFileTooLarge
	}

	mime, err := watermark.Resolve(in.Filename, in.DeclaredMIME, in.Data)
	if err != nil || !s.marks.Supports(mime) {
		return nil, appErrors.ErrUnsupportedFormat
	}

	start := time.Now()
	marked, err := s.marks.Apply(mime, in.Data)
	s.metrics.ObserveWatermark(mime, time.Since(start))
	if err != nil {
		if errors.Is(err, watermark.ErrUnsupported) {
			return nil, appErrors.ErrUnsupportedFormat
		}
		if errors.Is(err, watermark.ErrTooLarge) {
			return nil, appErrors.ErrFileTooLarge
		}
		return nil, validationError(err, "Uploaded file could not be watermarked")
	}

	original := SanitizeFilename(filepath.Base(in.Filename))
	objectName := uuid.NewString() + "_" + original

	start = time.Now()
	url, err := s.store.Put(ctx, objectName, mime, marked)
	s.metrics.ObserveStorage("put", err, time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to store file")
	}

	displayName := original
	if name := strings.TrimSpace(in.Meta.FileName); name != "" {
		displayName = SanitizeFilename(name)
	}

	doc, err := s.docs.Create(ctx, models.NewDocument{
		FileName:     displayName,
		OriginalName: original,
		MimeType:     mime,
		SubjectID:    in.Meta.Subject,
		GradeID:      in.Meta.Grade,
		StoragePath:  url,
		UploadedBy:   caller.UserID,
		Keywords:     repository.SplitKeywords(in.Meta.Keywords),
	})
	if err != nil {
		s.orphans.Remove(ctx, url)
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, validationError(err, "Unknown subject or grade")
		}
		return nil, internalError(err, "failed to save document")
	}

	s.activity.Record(ctx, caller.ID(), models.ActivityUpload, fmt.Sprintf("Uploaded document %d (%s)", doc.ID, doc.FileName))
	s.logger.Info("document uploaded", zap.Int64("file_id", doc.ID), zap.String("mime", mime), zap.Int("bytes", len(marked)))
	return doc, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_\-.]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9_.-] with an underscore.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if name == "" || strings.Trim(name, ".") == "" {
		return "file"
	}
	return name
}
