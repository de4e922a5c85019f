package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/careerai/careerai/internal/cache"
	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
)

var (
	// ErrInvalidTransition is returned when the state machine rejects a move.
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrStatusConflict is returned when the job changed status between read and write.
	ErrStatusConflict = errors.New("job status changed concurrently")
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Store is the subset of store.Store the job tracker needs.
type Store interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Job, error)
	ListJobs(ctx context.Context, filter store.JobFilter) ([]*models.Job, int, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, from, to string) error
	CreateTimelineEvent(ctx context.Context, event *models.TimelineEvent) error
	ListTimelineEvents(ctx context.Context, jobID uuid.UUID, userID uuid.UUID) ([]*models.TimelineEvent, error)
}

// CompanyResolver links a job to its canonical company.
type CompanyResolver interface {
	ResolveAndLink(ctx context.Context, jobID *uuid.UUID, companyName, jobURL string) (*models.Company, error)
}

// Publisher fans job events out to subscribers.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Event is the JSON payload published on cache.EventsChannel.
type Event struct {
	Type   string    `json:"type"`
	JobID  uuid.UUID `json:"job_id"`
	UserID uuid.UUID `json:"user_id"`
	From   string    `json:"from,omitempty"`
	To     string    `json:"to,omitempty"`
	At     time.Time `json:"at"`
}

const (
	EventJobCreated   = "job.created"
	EventStatusChange = "job.status_changed"
)

// Service implements the job application tracker.
type Service struct {
	store    Store
	resolver CompanyResolver
	events   Publisher
}

func NewService(st Store, resolver CompanyResolver, events Publisher) *Service {
	return &Service{store: st, resolver: resolver, events: events}
}

// CreateParams is the input to Create.
type CreateParams struct {
	UserID      uuid.UUID
	CompanyName string
	Title       string
	JobURL      *string
	Description *string
	Notes       *string
	Status      string
}

// Create stores a new job application, then resolves its company on a best
// effort basis. A resolution failure is logged and leaves the job unlinked.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.Job, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, &ValidationError{Msg: "title is required"}
	}
	status := StatusSaved
	if p.Status != "" {
		st, err := ParseStatus(p.Status)
		if err != nil {
			return nil, &ValidationError{Msg: err.Error()}
		}
		status = st
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:          uuid.New(),
		UserID:      p.UserID,
		CompanyName: strings.TrimSpace(p.CompanyName),
		Title:       title,
		JobURL:      p.JobURL,
		Description: p.Description,
		Notes:       p.Notes,
		Status:      string(status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	to := job.Status
	s.recordTimeline(ctx, &models.TimelineEvent{
		ID: uuid.New(), JobID: job.ID, UserID: job.UserID,
		Kind: models.TimelineCreated, ToStatus: &to, CreatedAt: now,
	})

	if job.CompanyName != "" && s.resolver != nil {
		jobURL := ""
		if job.JobURL != nil {
			jobURL = *job.JobURL
		}
		company, err := s.resolver.ResolveAndLink(ctx, &job.ID, job.CompanyName, jobURL)
		if err != nil {
			slog.Warn("company resolution failed, job left unlinked", "error", err, "job_id", job.ID)
		} else if company != nil {
			job.CompanyID = &company.ID
			job.CompanyLogoCache = company.LogoURL
		}
	}

	s.publish(ctx, Event{Type: EventJobCreated, JobID: job.ID, UserID: job.UserID, To: job.Status, At: now})
	return job, nil
}

// Get returns a job owned by userID.
func (s *Service) Get(ctx context.Context, userID, jobID uuid.UUID) (*models.Job, error) {
	return s.store.GetJob(ctx, jobID, userID)
}

// ListParams filters and pages List.
type ListParams struct {
	UserID uuid.UUID
	Status string
	Page   int
	Limit  int
}

// List returns one page of the user's jobs, newest first, and the total count.
func (s *Service) List(ctx context.Context, p ListParams) ([]*models.Job, int, error) {
	if p.Status != "" {
		if _, err := ParseStatus(p.Status); err != nil {
			return nil, 0, &ValidationError{Msg: err.Error()}
		}
	}
	jobs, total, err := s.store.ListJobs(ctx, store.JobFilter{
		UserID: p.UserID, Status: p.Status, Page: p.Page, Limit: p.Limit,
	})
	if err != nil {
		return nil, 0, err
	}
	if jobs == nil {
		jobs = []*models.Job{}
	}
	return jobs, total, nil
}

// MoveStatus transitions a job to a new kanban status.
// Returns store.ErrNotFound if the job does not exist or belong to userID,
// ErrInvalidTransition if the state machine rejects the move and
// ErrStatusConflict if another request moved the job first.
func (s *Service) MoveStatus(ctx context.Context, userID, jobID uuid.UUID, newStatusStr string, note *string) (*models.Job, error) {
	newStatus, err := ParseStatus(newStatusStr)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	job, err := s.store.GetJob(ctx, jobID, userID)
	if err != nil {
		return nil, err
	}

	current := Status(job.Status)
	if !IsTransitionAllowed(current, newStatus) {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, current, newStatus)
	}

	if err := s.store.UpdateJobStatus(ctx, jobID, userID, string(current), string(newStatus)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrStatusConflict
		}
		return nil, fmt.Errorf("updating job status: %w", err)
	}

	now := time.Now().UTC()
	from, to := string(current), string(newStatus)
	s.recordTimeline(ctx, &models.TimelineEvent{
		ID: uuid.New(), JobID: jobID, UserID: userID,
		Kind: models.TimelineStatusChanged, FromStatus: &from, ToStatus: &to, Note: note, CreatedAt: now,
	})
	s.publish(ctx, Event{Type: EventStatusChange, JobID: jobID, UserID: userID, From: from, To: to, At: now})

	job.Status = to
	job.UpdatedAt = now
	return job, nil
}

// Timeline returns the job's history, oldest first.
func (s *Service) Timeline(ctx context.Context, userID, jobID uuid.UUID) ([]*models.TimelineEvent, error) {
	if _, err := s.store.GetJob(ctx, jobID, userID); err != nil {
		return nil, err
	}
	events, err := s.store.ListTimelineEvents(ctx, jobID, userID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.TimelineEvent{}
	}
	return events, nil
}

func (s *Service) recordTimeline(ctx context.Context, e *models.TimelineEvent) {
	if err := s.store.CreateTimelineEvent(ctx, e); err != nil {
		slog.Warn("recording timeline event failed", "error", err, "job_id", e.JobID, "kind", e.Kind)
	}
}

// publish sends e on the events channel (non-fatal).
func (s *Service) publish(ctx context.Context, e Event) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := s.events.Publish(ctx, cache.EventsChannel, payload); err != nil {
		slog.Warn("publish job event failed", "type", e.Type, "job_id", e.JobID, "error", err)
	}
}
