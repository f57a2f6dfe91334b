package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/share2teach-api/internal/models"
)

// RatingRepository stores ratings and keeps the cached file average in step.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository creates a new instance of RatingRepository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Rate records (or replaces) the rater's score for a file and returns the new mean.
// The file row is locked so concurrent raters recompute the average serially.
func (r *RatingRepository) Rate(ctx context.Context, fileID int64, rater models.RaterIdentity, score int) (avg float64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rating: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked int64
	if err = tx.GetContext(ctx, &locked, `SELECT file_id FROM files WHERE file_id = $1 FOR UPDATE`, fileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("lock file: %w", err)
	}

	if rater.Anonymous() {
		const upsert = `INSERT INTO ratings (file_id, session_id, rating) VALUES ($1, $2, $3)
ON CONFLICT (file_id, session_id) WHERE user_id IS NULL
DO UPDATE SET rating = EXCLUDED.rating, updated_at = NOW()`
		_, err = tx.ExecContext(ctx, upsert, fileID, rater.SessionID, score)
	} else {
		const upsert = `INSERT INTO ratings (file_id, user_id, rating) VALUES ($1, $2, $3)
ON CONFLICT (file_id, user_id) WHERE user_id IS NOT NULL
DO UPDATE SET rating = EXCLUDED.rating, updated_at = NOW()`
		_, err = tx.ExecContext(ctx, upsert, fileID, *rater.UserID, score)
	}
	if err != nil {
		return 0, fmt.Errorf("upsert rating: %w", translate(err))
	}

	if err = tx.GetContext(ctx, &avg, `SELECT COALESCE(AVG(rating), 0)::float8 FROM ratings WHERE file_id = $1`, fileID); err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE files SET rating = $2 WHERE file_id = $1`, fileID, avg); err != nil {
		return 0, fmt.Errorf("store average rating: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rating: %w", err)
	}
	return avg, nil
}
