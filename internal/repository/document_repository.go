package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/share2teach-api/internal/models"
)

const (
	fileColumns = `file_id, file_name, original_name, mime_type, subject_id, grade_id, rating, storage_path, uploaded_by, status, created_at, updated_at`

	documentSelect = `SELECT f.file_id, f.file_name, f.original_name, f.mime_type, f.subject_id, s.subject_name, f.grade_id, g.grade_name,
f.rating, f.storage_path, f.uploaded_by, f.status, f.created_at, f.updated_at
FROM files f
LEFT JOIN subjects s ON s.subject_id = f.subject_id
LEFT JOIN grades g ON g.grade_id = f.grade_id`

	documentOrder = ` ORDER BY f.created_at DESC, f.file_id DESC`
)

// DocumentRepository provides database access for document metadata and keywords.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new instance of DocumentRepository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// List returns every document, or only approved ones when approvedOnly is set.
func (r *DocumentRepository) List(ctx context.Context, approvedOnly bool) ([]models.Document, error) {
	filter := models.DocumentFilter{}
	if approvedOnly {
		filter.Status = models.DocumentApproved
	}
	docs, err := r.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Search returns documents matching every set field of filter.
func (r *DocumentRepository) Search(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	where, args := buildDocumentWhere(filter)
	docs := make([]models.Document, 0)
	if err := r.db.SelectContext(ctx, &docs, documentSelect+where+documentOrder, args...); err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return docs, nil
}

// FindByID returns a document by identifier.
func (r *DocumentRepository) FindByID(ctx context.Context, id int64) (*models.Document, error) {
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, documentSelect+` WHERE f.file_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return &doc, nil
}

// Create inserts the document, upserts its keywords and links them in one transaction.
func (r *DocumentRepository) Create(ctx context.Context, in models.NewDocument) (doc *models.Document, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create document: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertFile = `INSERT INTO files (file_name, original_name, mime_type, subject_id, grade_id, rating, storage_path, uploaded_by, status)
VALUES ($1, $2, $3, $4, $5, 0, $6, $7, 'pending')
RETURNING ` + fileColumns
	created := &models.Document{}
	if err = tx.GetContext(ctx, created, insertFile, in.FileName, in.OriginalName, in.MimeType, in.SubjectID, in.GradeID, in.StoragePath, in.UploadedBy); err != nil {
		return nil, fmt.Errorf("insert document: %w", translate(err))
	}

	for _, keyword := range in.Keywords {
		var keywordID int64
		const upsertKeyword = `INSERT INTO keywords (keyword) VALUES ($1)
ON CONFLICT (keyword) DO UPDATE SET keyword = EXCLUDED.keyword
RETURNING keyword_id`
		if err = tx.GetContext(ctx, &keywordID, upsertKeyword, keyword); err != nil {
			return nil, fmt.Errorf("upsert keyword %q: %w", keyword, err)
		}
		const link = `INSERT INTO file_keywords (file_id, keyword_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err = tx.ExecContext(ctx, link, created.ID, keywordID); err != nil {
			return nil, fmt.Errorf("link keyword %q: %w", keyword, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create document: %w", err)
	}
	created.Keywords = in.Keywords
	return created, nil
}

// Update applies the non-nil fields of upd and returns the updated row.
func (r *DocumentRepository) Update(ctx context.Context, id int64, upd models.DocumentUpdate) (*models.Document, error) {
	const query = `UPDATE files
SET file_name = COALESCE($2, file_name), subject_id = COALESCE($3, subject_id), grade_id = COALESCE($4, grade_id), updated_at = NOW()
WHERE file_id = $1
RETURNING ` + fileColumns
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, id, upd.FileName, upd.SubjectID, upd.GradeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update document: %w", translate(err))
	}
	return &doc, nil
}

// UpdateStorage points the document at a new stored object.
func (r *DocumentRepository) UpdateStorage(ctx context.Context, id int64, storagePath, mimeType, fileName string) (*models.Document, error) {
	const query = `UPDATE files SET storage_path = $2, mime_type = $3, file_name = $4, updated_at = NOW()
WHERE file_id = $1
RETURNING ` + fileColumns
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, id, storagePath, mimeType, fileName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update document storage: %w", err)
	}
	return &doc, nil
}

// Delete removes the document; keyword links, ratings, reports and history cascade.
func (r *DocumentRepository) Delete(ctx context.Context, id int64) (*models.Document, error) {
	query := `DELETE FROM files WHERE file_id = $1 RETURNING ` + fileColumns
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("delete document: %w", err)
	}
	return &doc, nil
}

// Keywords returns the keywords linked to a document, alphabetically.
func (r *DocumentRepository) Keywords(ctx context.Context, id int64) ([]string, error) {
	const query = `SELECT k.keyword FROM keywords k JOIN file_keywords fk ON fk.keyword_id = k.keyword_id WHERE fk.file_id = $1 ORDER BY k.keyword`
	var keywords []string
	if err := r.db.SelectContext(ctx, &keywords, query, id); err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	return keywords, nil
}

// SplitKeywords parses a comma separated keyword list: trimmed, lower-cased, de-duplicated, empties dropped.
func SplitKeywords(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		k := strings.ToLower(strings.TrimSpace(part))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
