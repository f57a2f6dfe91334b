package models

import "time"

// DocumentStatus is the moderation state of a document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s DocumentStatus) Valid() bool {
	return s == DocumentPending || s == DocumentApproved || s == DocumentRejected
}

// Document is a row of the files table joined with its subject and grade names.
type Document struct {
	ID           int64          `db:"file_id" json:"file_id"`
	FileName     string         `db:"file_name" json:"file_name"`
	OriginalName string         `db:"original_name" json:"original_name"`
	MimeType     string         `db:"mime_type" json:"mime_type"`
	SubjectID    *int64         `db:"subject_id" json:"subject_id"`
	SubjectName  *string        `db:"subject_name" json:"subject_name,omitempty"`
	GradeID      *int64         `db:"grade_id" json:"grade_id"`
	GradeName    *string        `db:"grade_name" json:"grade_name,omitempty"`
	Rating       float64        `db:"rating" json:"rating"`
	StoragePath  string         `db:"storage_path" json:"storage_path"`
	UploadedBy   *int64         `db:"uploaded_by" json:"uploaded_by"`
	Status       DocumentStatus `db:"status" json:"status"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
	Keywords     []string       `db:"-" json:"keywords,omitempty"`
}

// NewDocument is the metadata persisted after the watermarked bytes are stored.
type NewDocument struct {
	FileName     string
	OriginalName string
	MimeType     string
	SubjectID    *int64
	GradeID      *int64
	StoragePath  string
	UploadedBy   int64
	Keywords     []string
}

// DocumentUpdate carries the mutable metadata fields; nil leaves a column untouched.
type DocumentUpdate struct {
	FileName  *string
	SubjectID *int64
	GradeID   *int64
}

// DocumentFilter describes a search. Zero values are ignored.
type DocumentFilter struct {
	FileName   string
	Subject    string
	Grade      string
	MinRating  *float64
	UploadedBy *int64
	Status     DocumentStatus
	Keywords   []string
}
