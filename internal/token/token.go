// Package token issues API access tokens. The raw token is returned once;
// only its bcrypt hash and lookup prefix are persisted.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/careerai/careerai/internal/api/middleware"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Prefix marks CareerAI tokens so they are recognizable in logs and configs.
const Prefix = "cai_"

// DefaultScopes are granted when the caller asks for none.
var DefaultScopes = []string{"read", "write"}

var validScopes = map[string]bool{"read": true, "write": true, "admin": true}

// Issue generates a new token for userID. The returned AccessToken is ready
// to be stored; the raw string must be shown to the caller and then dropped.
func Issue(userID uuid.UUID, name string, scopes []string) (string, *models.AccessToken, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("token name is required")
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	for _, s := range scopes {
		if !validScopes[s] {
			return "", nil, fmt.Errorf("unknown scope %q: must be one of read, write, admin", s)
		}
	}

	secret := make([]byte, 24)
	if _, err := rand.Read(secret); err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	raw := Prefix + hex.EncodeToString(secret)

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash token: %w", err)
	}

	now := time.Now().UTC()
	return raw, &models.AccessToken{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		TokenHash:   string(hash),
		TokenPrefix: raw[:middleware.TokenPrefixLen],
		Scopes:      append([]string(nil), scopes...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
