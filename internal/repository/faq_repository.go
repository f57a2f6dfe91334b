package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/share2teach-api/internal/models"
)

const faqColumns = `faq_id, question, answer, created_by, created_at, updated_at`

// FAQRepository provides database access for FAQs.
type FAQRepository struct {
	db *sqlx.DB
}

// NewFAQRepository creates a new instance of FAQRepository.
func NewFAQRepository(db *sqlx.DB) *FAQRepository {
	return &FAQRepository{db: db}
}

func (r *FAQRepository) Create(ctx context.Context, question string, createdBy int64) (*models.FAQ, error) {
	query := `INSERT INTO faqs (question, created_by) VALUES ($1, $2) RETURNING ` + faqColumns
	var faq models.FAQ
	if err := r.db.GetContext(ctx, &faq, query, question, createdBy); err != nil {
		return nil, fmt.Errorf("create faq: %w", err)
	}
	return &faq, nil
}

// Answer sets (or replaces) the answer of a FAQ.
func (r *FAQRepository) Answer(ctx context.Context, id int64, answer string) (*models.FAQ, error) {
	query := `UPDATE faqs SET answer = $2, updated_at = NOW() WHERE faq_id = $1 RETURNING ` + faqColumns
	var faq models.FAQ
	if err := r.db.GetContext(ctx, &faq, query, id, answer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("answer faq: %w", err)
	}
	return &faq, nil
}

// List returns every FAQ in creation order.
func (r *FAQRepository) List(ctx context.Context) ([]models.FAQ, error) {
	query := `SELECT ` + faqColumns + ` FROM faqs ORDER BY created_at ASC, faq_id ASC`
	faqs := make([]models.FAQ, 0)
	if err := r.db.SelectContext(ctx, &faqs, query); err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	return faqs, nil
}
