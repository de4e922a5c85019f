package store

import (
	"context"
	"errors"

	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
// Consumers depend on the narrower interfaces they declare themselves.
type Store interface {
	Ping(ctx context.Context) error

	UpsertUser(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	GetAccessTokensByPrefix(ctx context.Context, prefix string) ([]*models.AccessToken, error)
	UpdateAccessTokenLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAccessToken(ctx context.Context, token *models.AccessToken) error
	ListAccessTokens(ctx context.Context, userID uuid.UUID) ([]*models.AccessToken, error)
	RevokeAccessToken(ctx context.Context, id uuid.UUID, userID uuid.UUID) error

	FindCompanyByName(ctx context.Context, name string) (*models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*models.Job, int, error)
	ListUnlinkedJobs(ctx context.Context, limit int) ([]*models.Job, error)
	UpdateJobCompany(ctx context.Context, jobID uuid.UUID, companyID uuid.UUID, logoURL *string) error
	UpdateJobStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, from, to string) error

	CreateTimelineEvent(ctx context.Context, event *models.TimelineEvent) error
	ListTimelineEvents(ctx context.Context, jobID uuid.UUID, userID uuid.UUID) ([]*models.TimelineEvent, error)

	CreateResume(ctx context.Context, resume *models.Resume) error
	GetResume(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Resume, error)

	CreateAnalysisRun(ctx context.Context, run *models.AnalysisRun) error
	GetAnalysisRun(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.AnalysisRun, error)
	UpdateAnalysisRunStatus(ctx context.Context, id uuid.UUID, status string, opts ...RunUpdateOption) error

	CreateDocument(ctx context.Context, doc *models.Document) error
	ListDocuments(ctx context.Context, jobID uuid.UUID, userID uuid.UUID) ([]*models.Document, error)
}

type JobFilter struct {
	UserID uuid.UUID
	Status string
	Page   int
	Limit  int
}

// RunUpdateParams carries the optional fields of an analysis run update.
type RunUpdateParams struct {
	ErrorMessage *string
	Result       *models.AnalysisResult
}

type RunUpdateOption func(*RunUpdateParams)

// ApplyRunUpdateOptions folds opts into a RunUpdateParams.
func ApplyRunUpdateOptions(opts ...RunUpdateOption) RunUpdateParams {
	var p RunUpdateParams
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func WithErrorMessage(msg string) RunUpdateOption {
	return func(p *RunUpdateParams) {
		p.ErrorMessage = &msg
	}
}

func WithResult(result models.AnalysisResult) RunUpdateOption {
	return func(p *RunUpdateParams) {
		p.Result = &result
	}
}
