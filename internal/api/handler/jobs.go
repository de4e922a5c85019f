package handler

import (
	"context"
	"errors"
	"net/http"

	mw "github.com/careerai/careerai/internal/api/middleware"
	"github.com/careerai/careerai/internal/api/response"
	"github.com/careerai/careerai/internal/jobs"
	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// JobTracker is the job application service the job handlers depend on.
type JobTracker interface {
	Create(ctx context.Context, p jobs.CreateParams) (*models.Job, error)
	Get(ctx context.Context, userID, jobID uuid.UUID) (*models.Job, error)
	List(ctx context.Context, p jobs.ListParams) ([]*models.Job, int, error)
	MoveStatus(ctx context.Context, userID, jobID uuid.UUID, status string, note *string) (*models.Job, error)
	Timeline(ctx context.Context, userID, jobID uuid.UUID) ([]*models.TimelineEvent, error)
}

// NewCreateJobHandler returns an http.HandlerFunc for POST /api/jobs.
func NewCreateJobHandler(svc JobTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}

		var req struct {
			CompanyName string  `json:"company_name"`
			Title       string  `json:"title"`
			JobURL      *string `json:"job_url"`
			Description *string `json:"description"`
			Notes       *string `json:"notes"`
			Status      string  `json:"status"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		job, err := svc.Create(r.Context(), jobs.CreateParams{
			UserID:      userID,
			CompanyName: req.CompanyName,
			Title:       req.Title,
			JobURL:      req.JobURL,
			Description: req.Description,
			Notes:       req.Notes,
			Status:      req.Status,
		})
		if err != nil {
			writeJobError(w, r, err)
			return
		}
		response.Created(w, job)
	}
}

// NewListJobsHandler returns an http.HandlerFunc for GET /api/jobs.
// Query parameters: status, page (default 1), limit (default 20, max 100).
func NewListJobsHandler(svc JobTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}

		page := queryInt(r, "page", 1)
		if page < 1 {
			page = 1
		}
		limit := queryInt(r, "limit", defaultPageLimit)
		if limit < 1 {
			limit = defaultPageLimit
		}
		if limit > maxPageLimit {
			limit = maxPageLimit
		}

		list, total, err := svc.List(r.Context(), jobs.ListParams{
			UserID: userID,
			Status: r.URL.Query().Get("status"),
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			writeJobError(w, r, err)
			return
		}
		response.Collection(w, list, response.NewPaginationMeta(page, limit, total))
	}
}

// NewGetJobHandler returns an http.HandlerFunc for GET /api/jobs/{jobID}.
func NewGetJobHandler(svc JobTracker) http.HandlerFunc {
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

		job, err := svc.Get(r.Context(), userID, jobID)
		if err != nil {
			writeJobError(w, r, err)
			return
		}
		response.JSON(w, job)
	}
}

// NewMoveJobStatusHandler returns an http.HandlerFunc for PATCH /api/jobs/{jobID}/status.
func NewMoveJobStatusHandler(svc JobTracker) http.HandlerFunc {
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
			Status string  `json:"status"`
			Note   *string `json:"note"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Status == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "status is required", nil)
			return
		}

		job, err := svc.MoveStatus(r.Context(), userID, jobID, req.Status, req.Note)
		if err != nil {
			writeJobError(w, r, err)
			return
		}
		response.JSON(w, job)
	}
}

// NewJobTimelineHandler returns an http.HandlerFunc for GET /api/jobs/{jobID}/timeline.
func NewJobTimelineHandler(svc JobTracker) http.HandlerFunc {
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

		events, err := svc.Timeline(r.Context(), userID, jobID)
		if err != nil {
			writeJobError(w, r, err)
			return
		}
		response.JSON(w, events)
	}
}

func writeJobError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *jobs.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", verr.Msg, nil)
	case errors.Is(err, store.ErrNotFound):
		notFound(w, "Job")
	case errors.Is(err, jobs.ErrInvalidTransition):
		response.Error(w, http.StatusUnprocessableEntity, "INVALID_TRANSITION", err.Error(), nil)
	case errors.Is(err, jobs.ErrStatusConflict):
		response.Error(w, http.StatusConflict, "STATUS_CONFLICT",
			"Job status was changed by another request", nil)
	default:
		response.InternalError(w, r, err)
	}
}
