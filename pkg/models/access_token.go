package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessToken authenticates a user against the API.
// Raw tokens are shown once at creation; only the bcrypt hash is stored.
type AccessToken struct {
	ID          uuid.UUID  `db:"id"           json:"id"`
	UserID      uuid.UUID  `db:"user_id"      json:"user_id"`
	Name        string     `db:"name"         json:"name"`
	TokenHash   string     `db:"token_hash"   json:"-"`
	TokenPrefix string     `db:"token_prefix" json:"token_prefix"`
	Scopes      []string   `db:"scopes"       json:"scopes"`
	LastUsedAt  *time.Time `db:"last_used_at" json:"last_used_at,omitempty"`
	DeletedAt   *time.Time `db:"deleted_at"   json:"-"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"   json:"updated_at"`
}
