package models

import "time"

// ModerationRecord is an append-only audit entry for a moderation decision.
type ModerationRecord struct {
	ID          int64          `db:"moderation_id" json:"moderation_id"`
	FileID      int64          `db:"file_id" json:"file_id"`
	ModeratorID int64          `db:"moderator_id" json:"moderator_id"`
	Action      DocumentStatus `db:"action" json:"action"`
	Comments    string         `db:"comments" json:"comments"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}
