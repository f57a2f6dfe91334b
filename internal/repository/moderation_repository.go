package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/share2teach-api/internal/models"
)

// ModerationRepository records moderation decisions.
type ModerationRepository struct {
	db *sqlx.DB
}

// NewModerationRepository creates a new instance of ModerationRepository.
func NewModerationRepository(db *sqlx.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

// Moderate appends a history row and sets the document status in one transaction.
// A missing document surfaces as sql.ErrNoRows or ErrForeignKeyViolation.
func (r *ModerationRepository) Moderate(ctx context.Context, rec models.ModerationRecord) (doc *models.Document, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin moderation: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertHistory = `INSERT INTO moderation_history (file_id, moderator_id, action, comments) VALUES ($1, $2, $3, $4)`
	if _, err = tx.ExecContext(ctx, insertHistory, rec.FileID, rec.ModeratorID, rec.Action, rec.Comments); err != nil {
		return nil, fmt.Errorf("insert moderation history: %w", translate(err))
	}

	const updateStatus = `UPDATE files SET status = $2, updated_at = NOW() WHERE file_id = $1 RETURNING ` + fileColumns
	updated := &models.Document{}
	if err = tx.GetContext(ctx, updated, updateStatus, rec.FileID, rec.Action); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update document status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit moderation: %w", err)
	}
	return updated, nil
}

// History returns the moderation trail of a document, newest first.
func (r *ModerationRepository) History(ctx context.Context, fileID int64) ([]models.ModerationRecord, error) {
	const query = `SELECT moderation_id, file_id, COALESCE(moderator_id, 0) AS moderator_id, action, comments, created_at
FROM moderation_history WHERE file_id = $1 ORDER BY created_at DESC, moderation_id DESC`
	records := make([]models.ModerationRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, fileID); err != nil {
		return nil, fmt.Errorf("list moderation history: %w", err)
	}
	return records, nil
}
