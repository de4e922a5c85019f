package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	mw "github.com/careerai/careerai/internal/api/middleware"
	"github.com/careerai/careerai/internal/api/response"
	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
)

// JobGetter loads a job owned by a user.
type JobGetter interface {
	GetJob(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Job, error)
}

// CompanyResolver finds or creates a company and links it to a job.
type CompanyResolver interface {
	ResolveAndLink(ctx context.Context, jobID *uuid.UUID, companyName, jobURL string) (*models.Company, error)
}

type resolveResponse struct {
	Company *models.Company `json:"company"`
	LogoURL *string         `json:"logo_url"`
}

// NewResolveCompanyHandler returns an http.HandlerFunc for POST /api/companies/resolve.
func NewResolveCompanyHandler(jobs JobGetter, resolver CompanyResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			unauthorized(w)
			return
		}

		var req struct {
			JobID       string `json:"jobId"`
			CompanyName string `json:"companyName"`
			JobURL      string `json:"jobUrl"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		name := strings.TrimSpace(req.CompanyName)
		jobURL := strings.TrimSpace(req.JobURL)
		if req.JobID == "" && name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobId or companyName is required", nil)
			return
		}

		var jobID *uuid.UUID
		if req.JobID != "" {
			id, err := uuid.Parse(req.JobID)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobId must be a valid UUID", nil)
				return
			}
			job, err := jobs.GetJob(r.Context(), id, userID)
			if errors.Is(err, store.ErrNotFound) {
				notFound(w, "Job")
				return
			}
			if err != nil {
				response.InternalError(w, r, err)
				return
			}
			jobID = &job.ID
			if name == "" {
				name = strings.TrimSpace(job.CompanyName)
			}
			if jobURL == "" && job.JobURL != nil {
				jobURL = *job.JobURL
			}
		}

		if name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Job has no company name", nil)
			return
		}

		company, err := resolver.ResolveAndLink(r.Context(), jobID, name, jobURL)
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		if company == nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "companyName is required", nil)
			return
		}

		response.Raw(w, http.StatusOK, resolveResponse{Company: company, LogoURL: company.LogoURL})
	}
}
