package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/share2teach-api/internal/models"
)

// ActivityRepository persists activity logs and page visits.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) LogActivity(ctx context.Context, userID *int64, activityType, description string) error {
	const query = `INSERT INTO activity_logs (user_id, activity_type, description) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, userID, activityType, description); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (r *ActivityRepository) LogVisit(ctx context.Context, userID *int64, page string) error {
	const query = `INSERT INTO analytics (user_id, page_visited) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, userID, page); err != nil {
		return fmt.Errorf("insert page visit: %w", err)
	}
	return nil
}

// ListActivity returns activity logs, newest first.
func (r *ActivityRepository) ListActivity(ctx context.Context) ([]models.ActivityLog, error) {
	const query = `SELECT log_id, user_id, activity_type, description, created_at FROM activity_logs ORDER BY created_at DESC, log_id DESC`
	logs := make([]models.ActivityLog, 0)
	if err := r.db.SelectContext(ctx, &logs, query); err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return logs, nil
}

// ListVisits returns page visits, newest first.
func (r *ActivityRepository) ListVisits(ctx context.Context) ([]models.PageVisit, error) {
	const query = `SELECT analytics_id, user_id, page_visited, visit_time FROM analytics ORDER BY visit_time DESC, analytics_id DESC`
	visits := make([]models.PageVisit, 0)
	if err := r.db.SelectContext(ctx, &visits, query); err != nil {
		return nil, fmt.Errorf("list page visits: %w", err)
	}
	return visits, nil
}
