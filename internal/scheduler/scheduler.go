// Package scheduler runs the periodic company backfill: jobs saved with a
// company name but no company link are resolved in batches.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// JobSource lists jobs still waiting for a company link.
type JobSource interface {
	ListUnlinkedJobs(ctx context.Context, limit int) ([]*models.Job, error)
}

// Resolver links a job to its canonical company.
type Resolver interface {
	ResolveAndLink(ctx context.Context, jobID *uuid.UUID, companyName, jobURL string) (*models.Company, error)
}

// Scheduler wraps robfig/cron and manages the backfill loop.
type Scheduler struct {
	cron      *cron.Cron
	jobs      JobSource
	resolver  Resolver
	spec      string // cron spec, e.g. "@every 1h"
	batchSize int

	running sync.Mutex
	wg      sync.WaitGroup
}

// New creates a Scheduler that fires on spec.
func New(jobs JobSource, resolver Resolver, spec string, batchSize int) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		jobs:      jobs,
		resolver:  resolver,
		spec:      spec,
		batchSize: batchSize,
	}
}

// Start registers the job and starts the scheduler. Also runs one backfill
// immediately so existing jobs are linked without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	slog.Info("backfill scheduler started", "spec", s.spec, "batch_size", s.batchSize)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunOnce(ctx)
	}()

	return nil
}

// Stop shuts the scheduler down and waits for a running backfill to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	slog.Info("backfill scheduler stopped")
}

// RunOnce resolves one batch of unlinked jobs and returns how many were
// linked. Overlapping calls are skipped.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	if !s.running.TryLock() {
		slog.Debug("backfill already running, skipping tick")
		return 0
	}
	defer s.running.Unlock()

	pending, err := s.jobs.ListUnlinkedJobs(ctx, s.batchSize)
	if err != nil {
		slog.Error("listing unlinked jobs failed", "error", err)
		return 0
	}
	if len(pending) == 0 {
		slog.Debug("no unlinked jobs, nothing to backfill")
		return 0
	}

	linked := 0
	for _, job := range pending {
		if ctx.Err() != nil {
			break
		}
		jobURL := ""
		if job.JobURL != nil {
			jobURL = *job.JobURL
		}
		company, err := s.resolver.ResolveAndLink(ctx, &job.ID, job.CompanyName, jobURL)
		if err != nil {
			slog.Warn("backfill resolution failed", "job_id", job.ID, "company_name", job.CompanyName, "error", err)
			continue
		}
		if company != nil {
			linked++
		}
	}

	slog.Info("backfill cycle complete", "candidates", len(pending), "linked", linked)
	return linked
}
