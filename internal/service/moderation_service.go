package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/share2teach-api/internal/dto"
	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/repository"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
)

type moderationRepository interface {
	Moderate(ctx context.Context, rec models.ModerationRecord) (*models.Document, error)
	History(ctx context.Context, fileID int64) ([]models.ModerationRecord, error)
}

// ModerationService approves or rejects documents and keeps the moderation trail.
type ModerationService struct {
	repo      moderationRepository
	activity  activityRecorder
	validator *validator.Validate
}

// NewModerationService constructs a ModerationService.
func NewModerationService(repo moderationRepository, activity activityRecorder, validate *validator.Validate) *ModerationService {
	if validate == nil {
		validate = validator.New()
	}
	return &ModerationService{repo: repo, activity: activity, validator: validate}
}

// Moderate sets a document's status to approved or rejected.
func (s *ModerationService) Moderate(ctx context.Context, caller *Caller, req dto.ModerateDocumentRequest) (*models.Document, error) {
	if caller == nil {
		return nil, appErrors.ErrMissingToken
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Please provide file_id and action")
	}
	action := models.DocumentStatus(req.Action)
	if action != models.DocumentApproved && action != models.DocumentRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid action")
	}

	doc, err := s.repo.Moderate(ctx, models.ModerationRecord{
		FileID:      req.FileID,
		ModeratorID: caller.UserID,
		Action:      action,
		Comments:    req.Comments,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "File not found or could not update status")
		}
		return nil, internalError(err, "failed to moderate document")
	}

	s.activity.Record(ctx, caller.ID(), models.ActivityModerate, fmt.Sprintf("Document %d %s", req.FileID, action))
	return doc, nil
}

// History returns the moderation decisions recorded for a document, newest first.
func (s *ModerationService) History(ctx context.Context, fileID int64) ([]models.ModerationRecord, error) {
	records, err := s.repo.History(ctx, fileID)
	if err != nil {
		return nil, internalError(err, "failed to load moderation history")
	}
	if records == nil {
		records = []models.ModerationRecord{}
	}
	return records, nil
}
