package models

import (
	"time"

	"github.com/google/uuid"
)

// User owns jobs, resumes and access tokens.
type User struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Email     string    `db:"email"      json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
