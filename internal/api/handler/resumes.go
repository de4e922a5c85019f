package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/careerai/careerai/internal/ai"
	mw "github.com/careerai/careerai/internal/api/middleware"
	"github.com/careerai/careerai/internal/api/response"
	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
)

const maxResumeChars = 100_000

// ResumeStore persists plain-text resumes.
type ResumeStore interface {
	CreateResume(ctx context.Context, resume *models.Resume) error
	GetResume(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Resume, error)
}

// Analyzer starts resume analyses and reports on them.
type Analyzer interface {
	TriggerAnalysis(ctx context.Context, params ai.AnalyzeParams) (*models.AnalysisRun, error)
	GetRun(ctx context.Context, runID, userID uuid.UUID) (*models.AnalysisRun, error)
	RunStatus(ctx context.Context, runID, userID uuid.UUID) (string, error)
}

// NewCreateResumeHandler returns an http.HandlerFunc for POST /api/resumes.
func NewCreateResumeHandler(st ResumeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}

		var req struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		content := strings.TrimSpace(req.Content)
		if content == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "content is required", nil)
			return
		}
		if len(content) > maxResumeChars {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "content is too long", nil)
			return
		}
		title := strings.TrimSpace(req.Title)
		if title == "" {
			title = "Resume"
		}

		now := time.Now().UTC()
		resume := &models.Resume{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     title,
			Content:   content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := st.CreateResume(r.Context(), resume); err != nil {
			response.InternalError(w, r, err)
			return
		}
		response.Created(w, resume)
	}
}

// NewGetResumeHandler returns an http.HandlerFunc for GET /api/resumes/{resumeID}.
func NewGetResumeHandler(st ResumeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}
		resumeID, ok := uuidParam(w, r, "resumeID")
		if !ok {
			return
		}

		resume, err := st.GetResume(r.Context(), resumeID, userID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, "Resume")
			return
		}
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		response.JSON(w, resume)
	}
}

// NewAnalyzeResumeHandler returns an http.HandlerFunc for
// POST /api/resumes/{resumeID}/analyze. It answers 202 with the pending run.
func NewAnalyzeResumeHandler(svc Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}
		resumeID, ok := uuidParam(w, r, "resumeID")
		if !ok {
			return
		}

		// The body is optional; an empty one analyzes the resume on its own.
		var req struct {
			JobID string `json:"job_id"`
		}
		if !decodeOptionalBody(w, r, &req) {
			return
		}

		params := ai.AnalyzeParams{UserID: userID, ResumeID: resumeID}
		if req.JobID != "" {
			jobID, err := uuid.Parse(req.JobID)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "job_id must be a valid UUID", nil)
				return
			}
			params.JobID = &jobID
		}

		run, err := svc.TriggerAnalysis(r.Context(), params)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, "Resume or job")
			return
		}
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		response.Accepted(w, run)
	}
}

// NewGetAnalysisHandler returns an http.HandlerFunc for GET /api/analyses/{runID}.
func NewGetAnalysisHandler(svc Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}
		runID, ok := uuidParam(w, r, "runID")
		if !ok {
			return
		}

		run, err := svc.GetRun(r.Context(), runID, userID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, "Analysis")
			return
		}
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		response.JSON(w, run)
	}
}

// NewAnalysisStatusHandler returns an http.HandlerFunc for
// GET /api/analyses/{runID}/status, a cheap poll answered from the cache.
func NewAnalysisStatusHandler(svc Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}
		runID, ok := uuidParam(w, r, "runID")
		if !ok {
			return
		}

		status, err := svc.RunStatus(r.Context(), runID, userID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, "Analysis")
			return
		}
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		response.JSON(w, map[string]any{"id": runID, "status": status})
	}
}
