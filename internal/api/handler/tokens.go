package handler

import (
	"context"
	"errors"
	"net/http"

	mw "github.com/careerai/careerai/internal/api/middleware"
	"github.com/careerai/careerai/internal/api/response"
	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/internal/token"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
)

// TokenAdmin manages access tokens.
type TokenAdmin interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateAccessToken(ctx context.Context, t *models.AccessToken) error
	ListAccessTokens(ctx context.Context, userID uuid.UUID) ([]*models.AccessToken, error)
	RevokeAccessToken(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type createdToken struct {
	Token       string              `json:"token"`
	AccessToken *models.AccessToken `json:"access_token"`
}

// NewCreateTokenHandler returns an http.HandlerFunc for POST /api/admin/tokens.
// Tokens are issued to the caller unless user_id names another user.
func NewCreateTokenHandler(st TokenAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}

		var req struct {
			Name   string   `json:"name"`
			Scopes []string `json:"scopes"`
			UserID string   `json:"user_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		userID := callerID
		if req.UserID != "" {
			id, err := uuid.Parse(req.UserID)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "user_id must be a valid UUID", nil)
				return
			}
			if _, err := st.GetUser(r.Context(), id); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					notFound(w, "User")
					return
				}
				response.InternalError(w, r, err)
				return
			}
			userID = id
		}

		raw, tok, err := token.Issue(userID, req.Name, req.Scopes)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}
		if err := st.CreateAccessToken(r.Context(), tok); err != nil {
			response.InternalError(w, r, err)
			return
		}
		response.Created(w, createdToken{Token: raw, AccessToken: tok})
	}
}

// NewListTokensHandler returns an http.HandlerFunc for GET /api/admin/tokens.
func NewListTokensHandler(st TokenAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}

		tokens, err := st.ListAccessTokens(r.Context(), userID)
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		if tokens == nil {
			tokens = []*models.AccessToken{}
		}
		response.JSON(w, tokens)
	}
}

// NewRevokeTokenHandler returns an http.HandlerFunc for DELETE /api/admin/tokens/{tokenID}.
func NewRevokeTokenHandler(st TokenAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}
		tokenID, ok := uuidParam(w, r, "tokenID")
		if !ok {
			return
		}

		err := st.RevokeAccessToken(r.Context(), tokenID, userID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, "Token")
			return
		}
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		response.NoContent(w)
	}
}
