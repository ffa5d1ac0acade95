package models

import "time"

type AppUser struct {
	ID        string    `json:"id" db:"id"`
	Username  *string   `json:"username" db:"username"`
	Platform  string    `json:"platform" db:"platform"` // **NOTE:MODIFY FOR FUTURE PLATFORMS**
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SyncEvent is one row of the sync audit trail kept in Postgres.
type SyncEvent struct {
	ID         int       `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Query      string    `json:"query" db:"query"`
	Title      string    `json:"title" db:"title"`
	ExternalID int64     `json:"external_id" db:"external_id"`
	Outcome    string    `json:"outcome" db:"outcome"`
	SyncedAt   time.Time `json:"synced_at" db:"synced_at"`
}
