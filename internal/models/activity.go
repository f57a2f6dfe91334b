package models

import "time"

// Activity types recorded for mutating actions.
const (
	ActivityRegister       = "register"
	ActivityLogin          = "login"
	ActivityLogout         = "logout"
	ActivityPasswordReset  = "password_reset"
	ActivityAssignRole     = "assign_role"
	ActivityUpload         = "upload_document"
	ActivityUpdateDocument = "update_document"
	ActivityDeleteDocument = "delete_document"
	ActivityModerate       = "moderate_document"
	ActivityRate           = "rate_file"
	ActivityReport         = "report_document"
	ActivityViewReports    = "view_reports"
	ActivityModerateReport = "moderate_report"
	ActivityConvert        = "convert_to_pdf"
	ActivityFAQ            = "faq"
)

// Pages recorded in analytics.
const (
	PageDocumentsList  = "Documents List"
	PageDocumentSearch = "Document Search"
	PageRateFile       = "Rate File"
	PageFAQs           = "FAQs Page"
)

// ActivityLog records who did what.
type ActivityLog struct {
	ID           int64     `db:"log_id" json:"log_id"`
	UserID       *int64    `db:"user_id" json:"user_id"`
	ActivityType string    `db:"activity_type" json:"activity_type"`
	Description  string    `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PageVisit records who viewed what.
type PageVisit struct {
	ID          int64     `db:"analytics_id" json:"analytics_id"`
	UserID      *int64    `db:"user_id" json:"user_id"`
	PageVisited string    `db:"page_visited" json:"page_visited"`
	VisitTime   time.Time `db:"visit_time" json:"visit_time"`
}
