package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Resume is the plain-text content of a user's resume.
type Resume struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	UserID    uuid.UUID `db:"user_id"    json:"user_id"`
	Title     string    `db:"title"      json:"title"`
	Content   string    `db:"content"    json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AnalysisRun tracks an async resume analysis. The API returns the run on
// POST /api/resumes/{id}/analyze; the client polls GET /api/analyses/{id}
// until status is completed or failed. Result is only set once completed.
type AnalysisRun struct {
	ID           uuid.UUID       `db:"id"            json:"id"`
	UserID       uuid.UUID       `db:"user_id"       json:"user_id"`
	ResumeID     uuid.UUID       `db:"resume_id"     json:"resume_id"`
	JobID        *uuid.UUID      `db:"job_id"        json:"job_id,omitempty"`
	Status       string          `db:"status"        json:"status"`
	Result       *AnalysisResult `db:"result"        json:"result,omitempty"`
	Provider     string          `db:"provider"      json:"provider"`
	Model        string          `db:"model"         json:"model"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	CompletedAt  *time.Time      `db:"completed_at"  json:"completed_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"    json:"updated_at"`
}

const (
	DocumentCoverLetter   = "cover_letter"
	DocumentInterviewPrep = "interview_prep"
)

// Document is generated text attached to a job application.
type Document struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	UserID    uuid.UUID `db:"user_id"    json:"user_id"`
	JobID     uuid.UUID `db:"job_id"     json:"job_id"`
	Kind      string    `db:"kind"       json:"kind"`
	Content   string    `db:"content"    json:"content"`
	Provider  string    `db:"provider"   json:"provider"`
	Model     string    `db:"model"      json:"model"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
