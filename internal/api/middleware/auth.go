package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/careerai/careerai/internal/api/response"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenPrefixLen is the number of leading characters of a raw token stored
// in clear for lookup.
const TokenPrefixLen = 8

// TokenStore is the subset of store.Store the auth middleware needs.
type TokenStore interface {
	GetAccessTokensByPrefix(ctx context.Context, prefix string) ([]*models.AccessToken, error)
	UpdateAccessTokenLastUsed(ctx context.Context, id uuid.UUID) error
}

// Auth provides authentication and scope-checking middleware.
type Auth struct {
	store TokenStore
}

// NewAuth creates a new Auth middleware.
func NewAuth(s TokenStore) *Auth {
	return &Auth{store: s}
}

// Authenticate validates the Bearer token, looks up the access token, and sets
// user_id, token_prefix, and scopes in the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawToken := extractBearerToken(r)
		if rawToken == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		if len(rawToken) < TokenPrefixLen {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid access token format", nil)
			return
		}

		prefix := rawToken[:TokenPrefixLen]

		tokens, err := a.store.GetAccessTokensByPrefix(r.Context(), prefix)
		if err != nil {
			slog.Error("access token lookup failed", "error", err)
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to validate access token", nil)
			return
		}

		// Find matching token by bcrypt comparison
		var matched bool
		for _, tok := range tokens {
			if tok.DeletedAt != nil {
				continue
			}
			if bcrypt.CompareHashAndPassword([]byte(tok.TokenHash), []byte(rawToken)) == nil {
				ctx := r.Context()
				ctx = SetUserID(ctx, tok.UserID)
				ctx = SetTokenPrefix(ctx, prefix)
				ctx = SetScopes(ctx, tok.Scopes)
				r = r.WithContext(ctx)
				matched = true

				// Update last_used_at async
				go func(id uuid.UUID) {
					if err := a.store.UpdateAccessTokenLastUsed(context.Background(), id); err != nil {
						slog.Warn("updating token last_used_at", "error", err, "token_id", id)
					}
				}(tok.ID)
				break
			}
		}

		if !matched {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid access token", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireScope returns middleware that checks whether the authenticated
// token has the specified scope.
func (a *Auth) RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(getScopes(r), scope) {
				next.ServeHTTP(w, r)
				return
			}
			response.Error(w, http.StatusForbidden,
				"FORBIDDEN", "Insufficient permissions", nil)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
