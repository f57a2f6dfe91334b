package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/share2teach-api/internal/dto"
	"github.com/noah-isme/share2teach-api/internal/models"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
)

type faqRepository interface {
	Create(ctx context.Context, question string, createdBy int64) (*models.FAQ, error)
	Answer(ctx context.Context, id int64, answer string) (*models.FAQ, error)
	List(ctx context.Context) ([]models.FAQ, error)
}

// FAQService manages the questions staff raise and answer.
type FAQService struct {
	repo      faqRepository
	activity  activityRecorder
	validator *validator.Validate
}

func NewFAQService(repo faqRepository, activity activityRecorder, validate *validator.Validate) *FAQService {
	if validate == nil {
		validate = validator.New()
	}
	return &FAQService{repo: repo, activity: activity, validator: validate}
}

func (s *FAQService) Create(ctx context.Context, caller *Caller, req dto.CreateFAQRequest) (*models.FAQ, error) {
	if caller == nil {
		return nil, appErrors.ErrMissingToken
	}
	req.Question = strings.TrimSpace(req.Question)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Please provide a question")
	}
	faq, err := s.repo.Create(ctx, req.Question, caller.UserID)
	if err != nil {
		return nil, internalError(err, "failed to create faq")
	}
	s.activity.Record(ctx, caller.ID(), models.ActivityFAQ, fmt.Sprintf("Created FAQ %d", faq.ID))
	return faq, nil
}

func (s *FAQService) Answer(ctx context.Context, caller *Caller, req dto.AnswerFAQRequest) (*models.FAQ, error) {
	req.Answer = strings.TrimSpace(req.Answer)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Please provide both FAQ ID and answer")
	}
	faq, err := s.repo.Answer(ctx, req.FAQID, req.Answer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "FAQ not found")
		}
		return nil, internalError(err, "failed to answer faq")
	}
	s.activity.Record(ctx, caller.ID(), models.ActivityFAQ, fmt.Sprintf("Answered FAQ %d", faq.ID))
	return faq, nil
}

func (s *FAQService) List(ctx context.Context) ([]models.FAQ, error) {
	faqs, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load faqs")
	}
	return faqs, nil
}
