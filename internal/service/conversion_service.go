package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/share2teach-api/internal/models"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
	"github.com/noah-isme/share2teach-api/pkg/export"
	"github.com/noah-isme/share2teach-api/pkg/objectstore"
	"github.com/noah-isme/share2teach-api/pkg/watermark"
)

type conversionRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Document, error)
	UpdateStorage(ctx context.Context, id int64, storagePath, mimeType, fileName string) (*models.Document, error)
}

type pdfConverter interface {
	ToPDF(mime, title string, data []byte) ([]byte, error)
}

// ConversionService renders stored documents to PDF and repoints them at the result.
type ConversionService struct {
	repo      conversionRepository
	store     objectstore.Store
	converter pdfConverter
	orphans   orphanRemover
	activity  activityRecorder
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewConversionService constructs a ConversionService.
func NewConversionService(repo conversionRepository, store objectstore.Store, converter pdfConverter, orphans orphanRemover, activity activityRecorder, metrics *MetricsService, logger *zap.Logger) *ConversionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversionService{repo: repo, store: store, converter: converter, orphans: orphans, activity: activity, metrics: metrics, logger: logger}
}

// Convert replaces a visible document's stored object with a PDF rendering.
func (s *ConversionService) Convert(ctx context.Context, caller *Caller, id int64) (*models.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "File not found")
		}
		return nil, internalError(err, "failed to load document")
	}
	if doc.Status != models.DocumentApproved && !caller.Privileged() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "File not found")
	}
	if doc.MimeType == watermark.MIMEPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "File is already in PDF format")
	}

	start := time.Now()
	data, err := s.store.Get(ctx, doc.StoragePath)
	s.metrics.ObserveStorage("get", err, time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Error converting file")
	}

	pdf, err := s.converter.ToPDF(doc.MimeType, doc.FileName, data)
	if err != nil {
		switch {
		case errors.Is(err, export.ErrAlreadyPDF):
			return nil, appErrors.Clone(appErrors.ErrValidation, "File is already in PDF format")
		case errors.Is(err, export.ErrNotConvertible):
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "File type cannot be converted to PDF")
		}
		return nil, internalError(err, "Error converting file")
	}

	pdfName := pdfFilename(doc.FileName)
	start = time.Now()
	url, err := s.store.Put(ctx, uuid.NewString()+"_"+pdfName, watermark.MIMEPDF, pdf)
	s.metrics.ObserveStorage("put", err, time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to store file")
	}

	updated, err := s.repo.UpdateStorage(ctx, id, url, watermark.MIMEPDF, pdfName)
	if err != nil {
		s.orphans.Remove(ctx, url)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "File not found")
		}
		return nil, internalError(err, "failed to update document")
	}

	start = time.Now()
	derr := s.store.Delete(ctx, doc.StoragePath)
	s.metrics.ObserveStorage("delete", derr, time.Since(start))
	if derr != nil && !errors.Is(derr, objectstore.ErrNotFound) {
		s.logger.Warn("failed to delete replaced object", zap.Int64("file_id", id), zap.String("url", doc.StoragePath), zap.Error(derr))
	}

	s.activity.Record(ctx, caller.ID(), models.ActivityConvert, fmt.Sprintf("Converted document %d to PDF", id))
	return updated, nil
}

func pdfFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "document"
	}
	return base + ".pdf"
}
