package models

import (
	"time"

	"github.com/google/uuid"
)

// Job is a tracked job application. CompanyID and CompanyLogoCache mirror
// the linked Company and are written together whenever resolution succeeds.
type Job struct {
	ID               uuid.UUID  `db:"id"                 json:"id"`
	UserID           uuid.UUID  `db:"user_id"            json:"user_id"`
	CompanyName      string     `db:"company_name"       json:"company_name"`
	CompanyID        *uuid.UUID `db:"company_id"         json:"company_id,omitempty"`
	CompanyLogoCache *string    `db:"company_logo_cache" json:"company_logo_cache,omitempty"`
	Title            string     `db:"title"              json:"title"`
	JobURL           *string    `db:"job_url"            json:"job_url,omitempty"`
	Description      *string    `db:"description"        json:"description,omitempty"`
	Notes            *string    `db:"notes"              json:"notes,omitempty"`
	Status           string     `db:"status"             json:"status"`
	MatchScore       *int       `db:"match_score"        json:"match_score,omitempty"`
	CreatedAt        time.Time  `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"         json:"updated_at"`
}

// TimelineEvent records something that happened to a job application.
type TimelineEvent struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	JobID      uuid.UUID `db:"job_id"      json:"job_id"`
	UserID     uuid.UUID `db:"user_id"     json:"user_id"`
	Kind       string    `db:"kind"        json:"kind"`
	FromStatus *string   `db:"from_status" json:"from_status,omitempty"`
	ToStatus   *string   `db:"to_status"   json:"to_status,omitempty"`
	Note       *string   `db:"note"        json:"note,omitempty"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}

const (
	TimelineCreated       = "created"
	TimelineStatusChanged = "status_changed"
)
