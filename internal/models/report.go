package models

import "time"

// ReportStatus tracks a flag raised against a document.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
	ReportRejected ReportStatus = "rejected"
)

// Report is a row of the reports table.
type Report struct {
	ID         int64        `db:"report_id" json:"report_id"`
	FileID     int64        `db:"file_id" json:"file_id"`
	ReporterID *int64       `db:"reporter_id" json:"reporter_id"`
	Reason     string       `db:"reason" json:"reason"`
	Status     ReportStatus `db:"status" json:"status"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	ResolvedAt *time.Time   `db:"resolved_at" json:"resolved_at,omitempty"`
}

// ReportView is a pending report with the reporter's name for the review queue.
type ReportView struct {
	Report
	FileName      *string `db:"file_name" json:"file_name,omitempty"`
	ReporterFname *string `db:"reporter_fname" json:"reporter_fname"`
	ReporterLname *string `db:"reporter_lname" json:"reporter_lname"`
}
