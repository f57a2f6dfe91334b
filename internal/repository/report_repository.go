package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/share2teach-api/internal/models"
)

const reportColumns = `report_id, file_id, reporter_id, reason, status, created_at, resolved_at`

// ReportRepository provides database access for document reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create files a pending report; reporterID is nil for anonymous reporters.
// An unknown file yields ErrForeignKeyViolation.
func (r *ReportRepository) Create(ctx context.Context, fileID int64, reporterID *int64, reason string) (*models.Report, error) {
	query := `INSERT INTO reports (file_id, reporter_id, reason, status) VALUES ($1, $2, $3, 'pending') RETURNING ` + reportColumns
	var report models.Report
	if err := r.db.GetContext(ctx, &report, query, fileID, reporterID, reason); err != nil {
		return nil, fmt.Errorf("create report: %w", translate(err))
	}
	return &report, nil
}

// ListPending returns unresolved reports with reporter names, newest first.
func (r *ReportRepository) ListPending(ctx context.Context) ([]models.ReportView, error) {
	const query = `SELECT r.report_id, r.file_id, r.reporter_id, r.reason, r.status, r.created_at, r.resolved_at,
f.file_name, u.fname AS reporter_fname, u.lname AS reporter_lname
FROM reports r
LEFT JOIN files f ON f.file_id = r.file_id
LEFT JOIN users u ON u.user_id = r.reporter_id
WHERE r.status = 'pending'
ORDER BY r.created_at DESC, r.report_id DESC`
	reports := make([]models.ReportView, 0)
	if err := r.db.SelectContext(ctx, &reports, query); err != nil {
		return nil, fmt.Errorf("list pending reports: %w", err)
	}
	return reports, nil
}

// Moderate sets the report status and stamps the resolution time.
func (r *ReportRepository) Moderate(ctx context.Context, id int64, status models.ReportStatus) (*models.Report, error) {
	query := `UPDATE reports SET status = $2, resolved_at = NOW() WHERE report_id = $1 RETURNING ` + reportColumns
	var report models.Report
	if err := r.db.GetContext(ctx, &report, query, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("moderate report: %w", err)
	}
	return &report, nil
}
