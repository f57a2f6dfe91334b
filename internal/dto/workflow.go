package dto

import "github.com/noah-isme/share2teach-api/internal/models"

// RateFileRequest rates a document on a 1..5 scale. Pointers distinguish missing from zero.
type RateFileRequest struct {
	FileID *int64 `json:"file_id"`
	Rating *int   `json:"rating"`
}

// RateFileResponse reports the document's new mean rating.
type RateFileResponse struct {
	Msg           string  `json:"msg"`
	AverageRating float64 `json:"averageRating"`
}

// ModerateDocumentRequest approves or rejects a document.
type ModerateDocumentRequest struct {
	FileID   int64  `json:"file_id" validate:"required,gt=0"`
	Action   string `json:"action" validate:"required"`
	Comments string `json:"comments" validate:"max=2000"`
}

// ModerateDocumentResponse returns the document after the status change.
type ModerateDocumentResponse struct {
	Msg         string           `json:"msg"`
	UpdatedFile *models.Document `json:"updatedFile"`
}

// ReportDocumentRequest flags a document for review.
type ReportDocumentRequest struct {
	FileID int64  `json:"file_id" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required,max=2000"`
}

// ModerateReportRequest settles a report.
type ModerateReportRequest struct {
	ReportID int64  `json:"report_id" validate:"required,gt=0"`
	Action   string `json:"action" validate:"required"`
}

// ModerateReportResponse returns the settled report.
type ModerateReportResponse struct {
	Msg    string         `json:"msg"`
	Report *models.Report `json:"report"`
}

// CreateFAQRequest raises a new question.
type CreateFAQRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
}

// AnswerFAQRequest answers an existing question.
type AnswerFAQRequest struct {
	FAQID  int64  `json:"faq_id" validate:"required,gt=0"`
	Answer string `json:"answer" validate:"required,max=5000"`
}
