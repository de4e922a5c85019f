package api

import (
	"net/http"

	mw "github.com/careerai/careerai/internal/api/middleware"
	"github.com/careerai/careerai/internal/api/response"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	ResolveCompany http.HandlerFunc

	CreateJob     http.HandlerFunc
	ListJobs      http.HandlerFunc
	GetJob        http.HandlerFunc
	MoveJobStatus http.HandlerFunc
	JobTimeline   http.HandlerFunc

	CoverLetter   http.HandlerFunc
	InterviewPrep http.HandlerFunc
	ListDocuments http.HandlerFunc

	CreateResume   http.HandlerFunc
	GetResume      http.HandlerFunc
	AnalyzeResume  http.HandlerFunc
	GetAnalysis    http.HandlerFunc
	AnalysisStatus http.HandlerFunc

	CreateToken http.HandlerFunc
	ListTokens  http.HandlerFunc
	RevokeToken http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Public health check
	r.Get("/api/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/companies/resolve", orNotImplemented(deps.ResolveCompany))

		r.Route("/api/jobs", func(r chi.Router) {
			r.Post("/", orNotImplemented(deps.CreateJob))
			r.Get("/", orNotImplemented(deps.ListJobs))
			r.Get("/{jobID}", orNotImplemented(deps.GetJob))
			r.Patch("/{jobID}/status", orNotImplemented(deps.MoveJobStatus))
			r.Get("/{jobID}/timeline", orNotImplemented(deps.JobTimeline))
			r.Post("/{jobID}/cover-letter", orNotImplemented(deps.CoverLetter))
			r.Post("/{jobID}/interview-prep", orNotImplemented(deps.InterviewPrep))
			r.Get("/{jobID}/documents", orNotImplemented(deps.ListDocuments))
		})

		r.Post("/api/resumes", orNotImplemented(deps.CreateResume))
		r.Get("/api/resumes/{resumeID}", orNotImplemented(deps.GetResume))
		r.Post("/api/resumes/{resumeID}/analyze", orNotImplemented(deps.AnalyzeResume))

		r.Get("/api/analyses/{runID}", orNotImplemented(deps.GetAnalysis))
		r.Get("/api/analyses/{runID}/status", orNotImplemented(deps.AnalysisStatus))

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope("admin"))

			r.Post("/api/admin/tokens", orNotImplemented(deps.CreateToken))
			r.Get("/api/admin/tokens", orNotImplemented(deps.ListTokens))
			r.Delete("/api/admin/tokens/{tokenID}", orNotImplemented(deps.RevokeToken))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
