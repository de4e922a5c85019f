// Package main is the entrypoint for the CareerAI API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/careerai/careerai/internal/ai"
	"github.com/careerai/careerai/internal/api"
	"github.com/careerai/careerai/internal/api/handler"
	mw "github.com/careerai/careerai/internal/api/middleware"
	"github.com/careerai/careerai/internal/brand"
	"github.com/careerai/careerai/internal/cache"
	"github.com/careerai/careerai/internal/company"
	"github.com/careerai/careerai/internal/config"
	"github.com/careerai/careerai/internal/jobs"
	"github.com/careerai/careerai/internal/scheduler"
	"github.com/careerai/careerai/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config; fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Server.LogLevel,
	}))
	slog.SetDefault(logger)
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create AI provider
	aiProvider, err := ai.NewProvider(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	slog.Info("AI provider initialized", "provider", aiProvider.Name(), "model", aiProvider.Model())

	// 6. Build services
	pgStore := store.NewPostgresStore(pool)

	brandClient := brand.NewCachedClient(
		brand.NewHTTPClient(cfg.Brand.BaseURL, cfg.Brand.APIKey, cfg.Brand.Timeout, cfg.Brand.RatePerSec),
		redisCache, cfg.Brand.CacheTTL)
	resolver := company.NewResolver(pgStore, brandClient)
	jobSvc := jobs.NewService(pgStore, resolver, redisCache)
	aiSvc := ai.NewService(aiProvider, pgStore, redisCache, cfg.AI.InferenceTimeout)

	// 7. Start the company backfill
	var backfill *scheduler.Scheduler
	if cfg.Scheduler.Schedule != "" {
		backfill = scheduler.New(pgStore, resolver, cfg.Scheduler.Schedule, cfg.Scheduler.BatchSize)
		if err := backfill.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	} else {
		slog.Info("backfill scheduler disabled")
	}

	// 8. Build router with dependencies
	deps := api.Dependencies{
		Auth:      mw.NewAuth(pgStore),
		RateLimit: mw.NewRateLimit(redisCache, cfg.Server.RateLimitPerMinute),

		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": pgStore,
			"cache":    redisCache,
		}),

		ResolveCompany: handler.NewResolveCompanyHandler(pgStore, resolver),

		CreateJob:     handler.NewCreateJobHandler(jobSvc),
		ListJobs:      handler.NewListJobsHandler(jobSvc),
		GetJob:        handler.NewGetJobHandler(jobSvc),
		MoveJobStatus: handler.NewMoveJobStatusHandler(jobSvc),
		JobTimeline:   handler.NewJobTimelineHandler(jobSvc),

		CoverLetter:   handler.NewCoverLetterHandler(aiSvc),
		InterviewPrep: handler.NewInterviewPrepHandler(aiSvc),
		ListDocuments: handler.NewListDocumentsHandler(aiSvc),

		CreateResume:   handler.NewCreateResumeHandler(pgStore),
		GetResume:      handler.NewGetResumeHandler(pgStore),
		AnalyzeResume:  handler.NewAnalyzeResumeHandler(aiSvc),
		GetAnalysis:    handler.NewGetAnalysisHandler(aiSvc),
		AnalysisStatus: handler.NewAnalysisStatusHandler(aiSvc),

		CreateToken: handler.NewCreateTokenHandler(pgStore),
		ListTokens:  handler.NewListTokensHandler(pgStore),
		RevokeToken: handler.NewRevokeTokenHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 9. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.InferenceTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if backfill != nil {
		backfill.Stop()
	}
	aiSvc.Wait()

	slog.Info("server stopped gracefully")
	return nil
}
