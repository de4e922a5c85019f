package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// migrationsDir returns the absolute path to the migrations directory.
func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// setupTestDB spins up a Postgres container, runs migrations, and returns a pool.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("careerai_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	err = store.RunMigrations(connStr, migrationsDir())
	require.NoError(t, err)

	// Re-running is a no-op.
	require.NoError(t, store.RunMigrations(connStr, migrationsDir()))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return pool
}

func seedUser(t *testing.T, s store.Store, email string) *models.User {
	t.Helper()
	u, err := s.UpsertUser(context.Background(), email)
	require.NoError(t, err)
	return u
}

func seedJob(t *testing.T, s store.Store, userID uuid.UUID, companyName string) *models.Job {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	job := &models.Job{
		ID:          uuid.New(),
		UserID:      userID,
		CompanyName: companyName,
		Title:       "Backend Engineer",
		Status:      "saved",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.CreateJob(context.Background(), job))
	return job
}

func ptr[T any](v T) *T { return &v }

// --- Users ---

func TestUpsertUser_IsCaseInsensitive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	first, err := s.UpsertUser(ctx, "Ada@Example.com")
	require.NoError(t, err)
	second, err := s.UpsertUser(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := s.GetUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada@Example.com", got.Email)
}

// --- Access Tokens ---

func TestAccessToken_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	user := seedUser(t, s, "tokens@example.com")

	now := time.Now().UTC().Truncate(time.Microsecond)
	token := &models.AccessToken{
		ID:          uuid.New(),
		UserID:      user.ID,
		Name:        "laptop",
		TokenHash:   "bcrypt-hash-here",
		TokenPrefix: "cai_abcd",
		Scopes:      []string{"read", "write"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.CreateAccessToken(ctx, token))

	tokens, err := s.GetAccessTokensByPrefix(ctx, "cai_abcd")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, token.ID, tokens[0].ID)
	assert.Equal(t, []string{"read", "write"}, tokens[0].Scopes)

	require.NoError(t, s.UpdateAccessTokenLastUsed(ctx, token.ID))

	listed, err := s.ListAccessTokens(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.NotNil(t, listed[0].LastUsedAt)

	require.NoError(t, s.RevokeAccessToken(ctx, token.ID, user.ID))
	tokens, err = s.GetAccessTokensByPrefix(ctx, "cai_abcd")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	err = s.RevokeAccessToken(ctx, token.ID, user.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// --- Companies ---

func TestCompany_CreateAndFindIgnoresCase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	c := &models.Company{
		ID:             uuid.New(),
		Name:           "Stripe",
		Domain:         ptr("stripe.com"),
		LogoURL:        ptr("https://cdn.example/stripe.svg"),
		BrandfetchData: json.RawMessage(`{"name":"Stripe"}`),
		LastFetchedAt:  &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, s.CreateCompany(ctx, c))

	got, err := s.FindCompanyByName(ctx, "sTRIPE")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "stripe.com", *got.Domain)
	assert.JSONEq(t, `{"name":"Stripe"}`, string(got.BrandfetchData))

	byID, err := s.GetCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stripe", byID.Name)

	_, err = s.FindCompanyByName(ctx, "Acme")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCompany_DuplicateNameDifferentCase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, s.CreateCompany(ctx, &models.Company{ID: uuid.New(), Name: "Acme", CreatedAt: now, UpdatedAt: now}))

	err := s.CreateCompany(ctx, &models.Company{ID: uuid.New(), Name: "ACME", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestCompany_ConcurrentCreateLeavesOneRow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			now := time.Now().UTC()
			err := s.CreateCompany(ctx, &models.Company{ID: uuid.New(), Name: "Globex", CreatedAt: now, UpdatedAt: now})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			if !errors.Is(err, store.ErrDuplicateKey) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies WHERE lower(name) = 'globex'`).Scan(&count))
	assert.Equal(t, 1, count)
}

// --- Jobs ---

func TestJob_LinkCompany(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	user := seedUser(t, s, "jobs@example.com")
	job := seedJob(t, s, user.ID, "Stripe")

	unlinked, err := s.ListUnlinkedJobs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unlinked, 1)
	assert.Equal(t, job.ID, unlinked[0].ID)

	now := time.Now().UTC()
	company := &models.Company{ID: uuid.New(), Name: "Stripe", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateCompany(ctx, company))

	require.NoError(t, s.UpdateJobCompany(ctx, job.ID, company.ID, ptr("https://cdn.example/s.svg")))

	got, err := s.GetJob(ctx, job.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CompanyID)
	assert.Equal(t, company.ID, *got.CompanyID)
	assert.Equal(t, "https://cdn.example/s.svg", *got.CompanyLogoCache)

	unlinked, err = s.ListUnlinkedJobs(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, unlinked)

	err = s.UpdateJobCompany(ctx, uuid.New(), company.ID, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJob_ScopedToUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	owner := seedUser(t, s, "owner@example.com")
	other := seedUser(t, s, "other@example.com")
	job := seedJob(t, s, owner.ID, "Acme")

	_, err := s.GetJob(ctx, job.ID, other.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJob_ListWithStatusFilterAndPagination(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	user := seedUser(t, s, "list@example.com")

	for i := 0; i < 3; i++ {
		seedJob(t, s, user.ID, "Acme")
	}
	applied := seedJob(t, s, user.ID, "Globex")
	require.NoError(t, s.UpdateJobStatus(ctx, applied.ID, user.ID, "saved", "applied"))

	jobs, total, err := s.ListJobs(ctx, store.JobFilter{UserID: user.ID, Limit: 2, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, jobs, 2)

	jobs, total, err = s.ListJobs(ctx, store.JobFilter{UserID: user.ID, Status: "applied"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, jobs, 1)
	assert.Equal(t, applied.ID, jobs[0].ID)
}

func TestJob_UpdateStatusRequiresExpectedFrom(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	user := seedUser(t, s, "status@example.com")
	job := seedJob(t, s, user.ID, "Acme")

	err := s.UpdateJobStatus(ctx, job.ID, user.ID, "applied", "interviewing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.UpdateJobStatus(ctx, job.ID, user.ID, "saved", "applied"))
	got, err := s.GetJob(ctx, job.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "applied", got.Status)
}

func TestTimeline_CreateAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	user := seedUser(t, s, "timeline@example.com")
	job := seedJob(t, s, user.ID, "Acme")

	now := time.Now().UTC()
	require.NoError(t, s.CreateTimelineEvent(ctx, &models.TimelineEvent{
		ID: uuid.New(), JobID: job.ID, UserID: user.ID, Kind: models.TimelineCreated, CreatedAt: now,
	}))
	require.NoError(t, s.CreateTimelineEvent(ctx, &models.TimelineEvent{
		ID: uuid.New(), JobID: job.ID, UserID: user.ID, Kind: models.TimelineStatusChanged,
		FromStatus: ptr("saved"), ToStatus: ptr("applied"), CreatedAt: now.Add(time.Second),
	}))

	events, err := s.ListTimelineEvents(ctx, job.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.TimelineCreated, events[0].Kind)
	assert.Equal(t, "applied", *events[1].ToStatus)
}

// --- Resumes & Analysis Runs ---

func TestAnalysisRun_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	user := seedUser(t, s, "resume@example.com")

	now := time.Now().UTC()
	resume := &models.Resume{ID: uuid.New(), UserID: user.ID, Title: "CV", Content: "Go engineer", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateResume(ctx, resume))

	gotResume, err := s.GetResume(ctx, resume.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go engineer", gotResume.Content)

	run := &models.AnalysisRun{
		ID: uuid.New(), UserID: user.ID, ResumeID: resume.ID, Status: models.RunStatusPending,
		Provider: "mock", Model: "mock-v1", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateAnalysisRun(ctx, run))

	// pending -> completed skips running
	err = s.UpdateAnalysisRunStatus(ctx, run.ID, models.RunStatusCompleted)
	require.Error(t, err)

	require.NoError(t, s.UpdateAnalysisRunStatus(ctx, run.ID, models.RunStatusRunning))

	result := models.EmptyAnalysisResult()
	result.Total = 72
	result.Breakdown.ATS = 80
	require.NoError(t, s.UpdateAnalysisRunStatus(ctx, run.ID, models.RunStatusCompleted, store.WithResult(result)))

	got, err := s.GetAnalysisRun(ctx, run.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 72.0, got.Result.Total)
	assert.Equal(t, 80.0, got.Result.Breakdown.ATS)
	assert.NotNil(t, got.CompletedAt)
}

func TestAnalysisRun_FailedCarriesMessage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	user := seedUser(t, s, "fail@example.com")

	now := time.Now().UTC()
	resume := &models.Resume{ID: uuid.New(), UserID: user.ID, Title: "CV", Content: "x", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateResume(ctx, resume))
	run := &models.AnalysisRun{ID: uuid.New(), UserID: user.ID, ResumeID: resume.ID, Status: models.RunStatusPending, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateAnalysisRun(ctx, run))

	require.NoError(t, s.UpdateAnalysisRunStatus(ctx, run.ID, models.RunStatusFailed, store.WithErrorMessage("provider down")))

	got, err := s.GetAnalysisRun(ctx, run.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, got.Status)
	assert.Equal(t, "provider down", *got.ErrorMessage)
	assert.Nil(t, got.Result)
}

func TestDocuments_CreateAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := store.NewPostgresStore(setupTestDB(t))
	ctx := context.Background()
	user := seedUser(t, s, "docs@example.com")
	job := seedJob(t, s, user.ID, "Acme")

	doc := &models.Document{
		ID: uuid.New(), UserID: user.ID, JobID: job.ID, Kind: models.DocumentCoverLetter,
		Content: "Dear Acme", Provider: "mock", Model: "mock-v1", CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateDocument(ctx, doc))

	docs, err := s.ListDocuments(ctx, job.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Dear Acme", docs[0].Content)
}
