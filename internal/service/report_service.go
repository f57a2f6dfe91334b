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

type reportRepository interface {
	Create(ctx context.Context, fileID int64, reporterID *int64, reason string) (*models.Report, error)
	ListPending(ctx context.Context) ([]models.ReportView, error)
	Moderate(ctx context.Context, id int64, status models.ReportStatus) (*models.Report, error)
}

// ReportService handles flags raised against documents.
type ReportService struct {
	repo      reportRepository
	activity  activityRecorder
	validator *validator.Validate
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportRepository, activity activityRecorder, validate *validator.Validate) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	return &ReportService{repo: repo, activity: activity, validator: validate}
}

// Submit files a pending report. Anonymous callers are recorded without a reporter.
func (s *ReportService) Submit(ctx context.Context, caller *Caller, req dto.ReportDocumentRequest) (*models.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Please provide a file_id and reason")
	}

	report, err := s.repo.Create(ctx, req.FileID, caller.ID(), req.Reason)
	if err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "File not found")
		}
		return nil, internalError(err, "failed to submit report")
	}
	s.activity.Record(ctx, caller.ID(), models.ActivityReport, fmt.Sprintf("Reported file %d", req.FileID))
	return report, nil
}

// ListPending returns the review queue.
func (s *ReportService) ListPending(ctx context.Context, caller *Caller) ([]models.ReportView, error) {
	reports, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load reports")
	}
	s.activity.Record(ctx, caller.ID(), models.ActivityViewReports, "Viewed pending reports")
	return reports, nil
}

// Moderate settles a report as resolved or rejected.
func (s *ReportService) Moderate(ctx context.Context, caller *Caller, req dto.ModerateReportRequest) (*models.Report, error) {
	status := models.ReportStatus(req.Action)
	if status != models.ReportResolved && status != models.ReportRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid action. Use 'resolved' or 'rejected'.")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Please provide a report_id")
	}

	report, err := s.repo.Moderate(ctx, req.ReportID, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Report not found.")
		}
		return nil, internalError(err, "failed to moderate report")
	}
	s.activity.Record(ctx, caller.ID(), models.ActivityModerateReport, fmt.Sprintf("Report %d %s", req.ReportID, status))
	return report, nil
}
