package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/pkg/export"
)

type activityRepository interface {
	LogActivity(ctx context.Context, userID *int64, activityType, description string) error
	LogVisit(ctx context.Context, userID *int64, page string) error
	ListActivity(ctx context.Context) ([]models.ActivityLog, error)
	ListVisits(ctx context.Context) ([]models.PageVisit, error)
}

// ActivityService records who did what and who viewed what. Writes never fail the caller.
type ActivityService struct {
	repo   activityRepository
	logger *zap.Logger
}

// NewActivityService constructs an ActivityService.
func NewActivityService(repo activityRepository, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, logger: logger}
}

// Record appends an activity log entry.
func (s *ActivityService) Record(ctx context.Context, userID *int64, activityType, description string) {
	if err := s.repo.LogActivity(ctx, userID, activityType, description); err != nil {
		s.logger.Warn("failed to record activity", zap.String("type", activityType), zap.Error(err))
	}
}

// Visit appends a page visit.
func (s *ActivityService) Visit(ctx context.Context, userID *int64, page string) {
	if err := s.repo.LogVisit(ctx, userID, page); err != nil {
		s.logger.Warn("failed to record page visit", zap.String("page", page), zap.Error(err))
	}
}

// ListActivity returns activity logs, newest first.
func (s *ActivityService) ListActivity(ctx context.Context) ([]models.ActivityLog, error) {
	logs, err := s.repo.ListActivity(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load activity logs")
	}
	return logs, nil
}

// ListVisits returns page visits, newest first.
func (s *ActivityService) ListVisits(ctx context.Context) ([]models.PageVisit, error) {
	visits, err := s.repo.ListVisits(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load analytics")
	}
	return visits, nil
}

// ActivityDataset renders activity logs for CSV export.
func (s *ActivityService) ActivityDataset(ctx context.Context) (*export.Dataset, error) {
	logs, err := s.ListActivity(ctx)
	if err != nil {
		return nil, err
	}
	data := &export.Dataset{
		Title:   "Activity Logs",
		Headers: []string{"log_id", "user_id", "activity_type", "description", "created_at"},
		Rows:    make([][]string, 0, len(logs)),
	}
	for _, l := range logs {
		data.Rows = append(data.Rows, []string{
			strconv.FormatInt(l.ID, 10), optionalID(l.UserID), l.ActivityType, l.Description, l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return data, nil
}

// VisitDataset renders page visits for CSV export.
func (s *ActivityService) VisitDataset(ctx context.Context) (*export.Dataset, error) {
	visits, err := s.ListVisits(ctx)
	if err != nil {
		return nil, err
	}
	data := &export.Dataset{
		Title:   "Analytics",
		Headers: []string{"analytics_id", "user_id", "page_visited", "visit_time"},
		Rows:    make([][]string, 0, len(visits)),
	}
	for _, v := range visits {
		data.Rows = append(data.Rows, []string{
			strconv.FormatInt(v.ID, 10), optionalID(v.UserID), v.PageVisited, v.VisitTime.UTC().Format(time.RFC3339),
		})
	}
	return data, nil
}

func optionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
