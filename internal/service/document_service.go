package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/share2teach-api/internal/dto"
	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/repository"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
	"github.com/noah-isme/share2teach-api/pkg/objectstore"
)

type documentRepository interface {
	List(ctx context.Context, approvedOnly bool) ([]models.Document, error)
	Search(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error)
	FindByID(ctx context.Context, id int64) (*models.Document, error)
	Keywords(ctx context.Context, id int64) ([]string, error)
	Update(ctx context.Context, id int64, upd models.DocumentUpdate) (*models.Document, error)
	Delete(ctx context.Context, id int64) (*models.Document, error)
}

// DocumentService lists, searches and edits document metadata.
type DocumentService struct {
	repo      documentRepository
	store     objectstore.Store
	activity  activityRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(repo documentRepository, store objectstore.Store, activity activityRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DocumentService{repo: repo, store: store, activity: activity, metrics: metrics, validator: validate, logger: logger}
}

// List returns the documents visible to caller, newest first.
func (s *DocumentService) List(ctx context.Context, caller *Caller) ([]models.Document, error) {
	docs, err := s.repo.List(ctx, !caller.Privileged())
	if err != nil {
		return nil, internalError(err, "failed to list documents")
	}
	return docs, nil
}

// Search filters the documents visible to caller. Callers who cannot see unapproved documents
// get an empty result when they ask for another status.
func (s *DocumentService) Search(ctx context.Context, caller *Caller, q dto.SearchDocumentsQuery) ([]models.Document, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, validationError(err, "invalid search parameters")
	}

	filter := models.DocumentFilter{
		FileName:   strings.TrimSpace(q.FileName),
		Subject:    strings.TrimSpace(q.Subject),
		Grade:      strings.TrimSpace(q.Grade),
		MinRating:  q.Rating,
		UploadedBy: q.UploadedBy,
		Status:     models.DocumentStatus(q.Status),
		Keywords:   repository.SplitKeywords(q.Keywords),
	}
	if !caller.Privileged() {
		if filter.Status != "" && filter.Status != models.DocumentApproved {
			return []models.Document{}, nil
		}
		filter.Status = models.DocumentApproved
	}

	docs, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to search documents")
	}
	return docs, nil
}

// Get returns a document if caller may see it.
func (s *DocumentService) Get(ctx context.Context, caller *Caller, id int64) (*models.Document, error) {
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
	keywords, err := s.repo.Keywords(ctx, id)
	if err != nil {
		return nil, internalError(err, "failed to load document keywords")
	}
	doc.Keywords = keywords
	return doc, nil
}

// Update edits document metadata.
func (s *DocumentService) Update(ctx context.Context, caller *Caller, id int64, req dto.UpdateDocumentRequest) (*models.Document, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid document update")
	}
	upd := models.DocumentUpdate{SubjectID: req.Subject, GradeID: req.Grade}
	if req.FileName != nil {
		name := SanitizeFilename(strings.TrimSpace(*req.FileName))
		upd.FileName = &name
	}

	doc, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Document not found")
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, validationError(err, "Unknown subject or grade")
		}
		return nil, internalError(err, "failed to update document")
	}
	s.activity.Record(ctx, caller.ID(), models.ActivityUpdateDocument, fmt.Sprintf("Updated document %d", id))
	return doc, nil
}

// Delete removes a document and then, best-effort, its stored object.
func (s *DocumentService) Delete(ctx context.Context, caller *Caller, id int64) (*models.Document, error) {
	doc, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Document not found")
		}
		return nil, internalError(err, "failed to delete document")
	}

	start := time.Now()
	serr := s.store.Delete(ctx, doc.StoragePath)
	s.metrics.ObserveStorage("delete", serr, time.Since(start))
	if serr != nil && !errors.Is(serr, objectstore.ErrNotFound) {
		s.logger.Warn("failed to delete stored object", zap.Int64("file_id", id), zap.String("url", doc.StoragePath), zap.Error(serr))
	}

	s.activity.Record(ctx, caller.ID(), models.ActivityDeleteDocument, fmt.Sprintf("Deleted document %d (%s)", id, doc.FileName))
	return doc, nil
}
