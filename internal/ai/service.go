package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/careerai/careerai/internal/analysis"
	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
)

const (
	runStatusTTL    = 30 * time.Minute
	maxErrorMessage = 2000
)

// Store is the subset of store.Store the AI service needs.
type Store interface {
	GetResume(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Resume, error)
	GetJob(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Job, error)
	CreateAnalysisRun(ctx context.Context, run *models.AnalysisRun) error
	GetAnalysisRun(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.AnalysisRun, error)
	UpdateAnalysisRunStatus(ctx context.Context, id uuid.UUID, status string, opts ...store.RunUpdateOption) error
	CreateDocument(ctx context.Context, doc *models.Document) error
	ListDocuments(ctx context.Context, jobID uuid.UUID, userID uuid.UUID) ([]*models.Document, error)
}

// StatusCache mirrors run status so pollers can avoid the database.
type StatusCache interface {
	SetRunStatus(ctx context.Context, userID, runID uuid.UUID, status string, ttl time.Duration) error
	GetRunStatus(ctx context.Context, userID, runID uuid.UUID) (string, bool, error)
}

// Service orchestrates resume analysis and document generation.
type Service struct {
	provider models.AIProvider
	store    Store
	cache    StatusCache
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewService creates a new Service.
func NewService(provider models.AIProvider, st Store, ca StatusCache, timeout time.Duration) *Service {
	return &Service{
		provider: provider,
		store:    st,
		cache:    ca,
		timeout:  timeout,
	}
}

// AnalyzeParams identifies the resume to score and, optionally, the job it is
// scored against.
type AnalyzeParams struct {
	UserID   uuid.UUID
	ResumeID uuid.UUID
	JobID    *uuid.UUID
}

// TriggerAnalysis creates a pending run and dispatches analysis in a background goroutine.
// Returns the run immediately without waiting for analysis to complete.
func (s *Service) TriggerAnalysis(ctx context.Context, params AnalyzeParams) (*models.AnalysisRun, error) {
	resume, err := s.store.GetResume(ctx, params.ResumeID, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading resume: %w", err)
	}

	var job *models.Job
	if params.JobID != nil {
		if job, err = s.store.GetJob(ctx, *params.JobID, params.UserID); err != nil {
			return nil, fmt.Errorf("loading job: %w", err)
		}
	}

	now := time.Now().UTC()
	run := &models.AnalysisRun{
		ID:        uuid.New(),
		UserID:    params.UserID,
		ResumeID:  resume.ID,
		JobID:     params.JobID,
		Status:    models.RunStatusPending,
		Provider:  s.provider.Name(),
		Model:     s.provider.Model(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateAnalysisRun(ctx, run); err != nil {
		return nil, fmt.Errorf("creating analysis run: %w", err)
	}

	s.setStatus(ctx, run.UserID, run.ID, models.RunStatusPending)

	s.wg.Add(1)
	go s.runAnalysis(run.ID, resume, job)

	return run, nil
}

// runAnalysis performs the AI call in a goroutine.
// It recovers from panics and always marks the run as completed or failed.
func (s *Service) runAnalysis(runID uuid.UUID, resume *models.Resume, job *models.Job) {
	defer s.wg.Done()
	ctx := context.Background()
	userID := resume.UserID

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in runAnalysis", "error", r, "run_id", runID)
			s.fail(ctx, userID, runID, fmt.Sprintf("panic: %v", r))
		}
	}()

	if err := s.store.UpdateAnalysisRunStatus(ctx, runID, models.RunStatusRunning); err != nil {
		slog.Error("marking analysis run running", "error", err, "run_id", runID)
		s.fail(ctx, userID, runID, err.Error())
		return
	}
	s.setStatus(ctx, userID, runID, models.RunStatusRunning)

	analysisCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.provider.Complete(analysisCtx, models.CompletionRequest{
		Prompt:      buildAnalysisPrompt(resume, job),
		JSON:        true,
		MaxTokens:   4096,
		Temperature: 0.2,
	})
	if err != nil {
		err = classify(err)
		slog.Warn("resume analysis failed", "error", err, "run_id", runID, "provider", s.provider.Name())
		s.fail(ctx, userID, runID, err.Error())
		return
	}

	body := extractJSONObject(StripFences(reply))
	if body == "" {
		s.fail(ctx, userID, runID, ErrInvalidResponse.Error())
		return
	}
	result := analysis.NormalizeJSON([]byte(body))

	if err := s.store.UpdateAnalysisRunStatus(ctx, runID, models.RunStatusCompleted, store.WithResult(result)); err != nil {
		slog.Error("storing analysis result", "error", err, "run_id", runID)
		s.fail(ctx, userID, runID, fmt.Sprintf("storing result: %v", err))
		return
	}
	s.setStatus(ctx, userID, runID, models.RunStatusCompleted)
}

func (s *Service) fail(ctx context.Context, userID, runID uuid.UUID, msg string) {
	if err := s.store.UpdateAnalysisRunStatus(ctx, runID, models.RunStatusFailed,
		store.WithErrorMessage(truncateString(msg, maxErrorMessage))); err != nil {
		slog.Error("marking analysis run failed", "error", err, "run_id", runID)
	}
	s.setStatus(ctx, userID, runID, models.RunStatusFailed)
}

func (s *Service) setStatus(ctx context.Context, userID, runID uuid.UUID, status string) {
	if err := s.cache.SetRunStatus(ctx, userID, runID, status, runStatusTTL); err != nil {
		slog.Warn("caching analysis run status", "error", err, "run_id", runID, "status", status)
	}
}

// GetRun returns the run owned by userID.
func (s *Service) GetRun(ctx context.Context, runID, userID uuid.UUID) (*models.AnalysisRun, error) {
	return s.store.GetAnalysisRun(ctx, runID, userID)
}

// RunStatus answers a status poll from the cache, falling back to the store.
func (s *Service) RunStatus(ctx context.Context, runID, userID uuid.UUID) (string, error) {
	if status, ok, err := s.cache.GetRunStatus(ctx, userID, runID); err == nil && ok {
		return status, nil
	}
	run, err := s.store.GetAnalysisRun(ctx, runID, userID)
	if err != nil {
		return "", err
	}
	return run.Status, nil
}

// Wait blocks until every in-flight analysis has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// DocumentParams identifies the job a document is written for and,
// optionally, the resume to tailor it to.
type DocumentParams struct {
	UserID   uuid.UUID
	JobID    uuid.UUID
	ResumeID *uuid.UUID
}

// GenerateCoverLetter writes and stores a cover letter for a job.
func (s *Service) GenerateCoverLetter(ctx context.Context, params DocumentParams) (*models.Document, error) {
	return s.generateDocument(ctx, models.DocumentCoverLetter, params)
}

// GenerateInterviewPrep writes and stores interview preparation notes for a job.
func (s *Service) GenerateInterviewPrep(ctx context.Context, params DocumentParams) (*models.Document, error) {
	return s.generateDocument(ctx, models.DocumentInterviewPrep, params)
}

func (s *Service) generateDocument(ctx context.Context, kind string, params DocumentParams) (*models.Document, error) {
	job, err := s.store.GetJob(ctx, params.JobID, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading job: %w", err)
	}

	var resume *models.Resume
	if params.ResumeID != nil {
		if resume, err = s.store.GetResume(ctx, *params.ResumeID, params.UserID); err != nil {
			return nil, fmt.Errorf("loading resume: %w", err)
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.provider.Complete(genCtx, models.CompletionRequest{
		Prompt:      buildDocumentPrompt(kind, job, resume),
		MaxTokens:   2048,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, classify(err)
	}
	content = strings.TrimSpace(StripFences(content))
	if content == "" {
		return nil, ErrInvalidResponse
	}

	doc := &models.Document{
		ID:        uuid.New(),
		UserID:    params.UserID,
		JobID:     job.ID,
		Kind:      kind,
		Content:   content,
		Provider:  s.provider.Name(),
		Model:     s.provider.Model(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("storing document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns the generated documents for a job, newest first.
func (s *Service) ListDocuments(ctx context.Context, jobID, userID uuid.UUID) ([]*models.Document, error) {
	if _, err := s.store.GetJob(ctx, jobID, userID); err != nil {
		return nil, err
	}
	docs, err := s.store.ListDocuments(ctx, jobID, userID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	return docs, nil
}
