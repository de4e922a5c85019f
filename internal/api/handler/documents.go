package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/careerai/careerai/internal/ai"
	mw "github.com/careerai/careerai/internal/api/middleware"
	"github.com/careerai/careerai/internal/api/response"
	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
)

// DocumentGenerator writes documents for a job with the AI provider.
type DocumentGenerator interface {
	GenerateCoverLetter(ctx context.Context, params ai.DocumentParams) (*models.Document, error)
	GenerateInterviewPrep(ctx context.Context, params ai.DocumentParams) (*models.Document, error)
	ListDocuments(ctx context.Context, jobID, userID uuid.UUID) ([]*models.Document, error)
}

type generateFunc func(ctx context.Context, params ai.DocumentParams) (*models.Document, error)

// NewCoverLetterHandler returns an http.HandlerFunc for POST /api/jobs/{jobID}/cover-letter.
func NewCoverLetterHandler(gen DocumentGenerator) http.HandlerFunc {
	return newGenerateHandler(gen.GenerateCoverLetter)
}

// NewInterviewPrepHandler returns an http.HandlerFunc for POST /api/jobs/{jobID}/interview-prep.
func NewInterviewPrepHandler(gen DocumentGenerator) http.HandlerFunc {
	return newGenerateHandler(gen.GenerateInterviewPrep)
}

func newGenerateHandler(generate generateFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}
		jobID, ok := uuidParam(w, r, "jobID")
		if !ok {
			return
		}

		var req struct {
			ResumeID string `json:"resume_id"`
		}
		if !decodeOptionalBody(w, r, &req) {
			return
		}

		params := ai.DocumentParams{UserID: userID, JobID: jobID}
		if req.ResumeID != "" {
			resumeID, err := uuid.Parse(req.ResumeID)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "resume_id must be a valid UUID", nil)
				return
			}
			params.ResumeID = &resumeID
		}

		doc, err := generate(r.Context(), params)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				notFound(w, "Job or resume")
			case errors.Is(err, ai.ErrInferenceTimeout):
				response.Error(w, http.StatusGatewayTimeout, "AI_TIMEOUT",
					"The AI provider timed out", nil)
			case errors.Is(err, ai.ErrProviderUnavailable):
				response.Error(w, http.StatusBadGateway, "AI_PROVIDER_UNAVAILABLE",
					"The AI provider is not available", nil)
			case errors.Is(err, ai.ErrInvalidResponse):
				response.Error(w, http.StatusBadGateway, "AI_INVALID_RESPONSE",
					"The AI provider returned an empty reply", nil)
			default:
				response.InternalError(w, r, err)
			}
			return
		}
		response.Created(w, doc)
	}
}

// NewListDocumentsHandler returns an http.HandlerFunc for GET /api/jobs/{jobID}/documents.
func NewListDocumentsHandler(gen DocumentGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}
		jobID, ok := uuidParam(w, r, "jobID")
		if !ok {
			return
		}

		docs, err := gen.ListDocuments(r.Context(), jobID, userID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, "Job")
			return
		}
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		response.JSON(w, docs)
	}
}
