package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Company is the canonical record for an employer. Names are unique
// case-insensitively; rows are created lazily by company resolution.
type Company struct {
	ID             uuid.UUID       `db:"id"              json:"id"`
	Name           string          `db:"name"            json:"name"`
	Domain         *string         `db:"domain"          json:"domain"`
	LogoURL        *string         `db:"logo_url"        json:"logo_url"`
	BrandfetchData json.RawMessage `db:"brandfetch_data" json:"brandfetch_data,omitempty"`
	LastFetchedAt  *time.Time      `db:"last_fetched_at" json:"last_fetched_at"`
	CreatedAt      time.Time       `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"      json:"updated_at"`
}
