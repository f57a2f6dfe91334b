package models

import "time"

// FAQ is a question raised by staff and optionally answered later.
type FAQ struct {
	ID        int64     `db:"faq_id" json:"faq_id"`
	Question  string    `db:"question" json:"question"`
	Answer    *string   `db:"answer" json:"answer"`
	CreatedBy *int64    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
