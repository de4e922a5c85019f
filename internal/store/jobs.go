package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, user_id, company_name, company_id, company_logo_cache, title, job_url,
	description, notes, status, match_score, created_at, updated_at`

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	err := row.Scan(&j.ID, &j.UserID, &j.CompanyName, &j.CompanyID, &j.CompanyLogoCache, &j.Title,
		&j.JobURL, &j.Description, &j.Notes, &j.Status, &j.MatchScore, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO job_applications (id, user_id, company_name, company_id, company_logo_cache, title, job_url,
		   description, notes, status, match_score, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		job.ID, job.UserID, job.CompanyName, job.CompanyID, job.CompanyLogoCache, job.Title, job.JobURL,
		job.Description, job.Notes, job.Status, job.MatchScore, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Job, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_applications WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context, filter JobFilter) ([]*models.Job, int, error) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.UserID}
	argIdx := 2

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM job_applications WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	_, limit, offset := normalizePage(filter.Page, filter.Limit)

	dataQuery := fmt.Sprintf(
		`SELECT `+jobColumns+` FROM job_applications WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}

// ListUnlinkedJobs returns jobs that carry a company name but no company link,
// oldest first.
func (s *PostgresStore) ListUnlinkedJobs(ctx context.Context, limit int) ([]*models.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM job_applications
		 WHERE company_id IS NULL AND company_name <> ''
		 ORDER BY created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unlinked jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// UpdateJobCompany sets the company link and its denormalized logo together.
func (s *PostgresStore) UpdateJobCompany(ctx context.Context, jobID uuid.UUID, companyID uuid.UUID, logoURL *string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job_applications SET company_id = $2, company_logo_cache = $3, updated_at = $4 WHERE id = $1`,
		jobID, companyID, logoURL, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update job company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateJobStatus moves a job from one status to another. The update only
// applies while the stored status still equals from; otherwise ErrNotFound.
func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, from, to string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job_applications SET status = $4, updated_at = $5
		 WHERE id = $1 AND user_id = $2 AND status = $3`,
		id, userID, from, to, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Timeline ---

func (s *PostgresStore) CreateTimelineEvent(ctx context.Context, e *models.TimelineEvent) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO timeline_events (id, job_id, user_id, kind, from_status, to_status, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.JobID, e.UserID, e.Kind, e.FromStatus, e.ToStatus, e.Note, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("create timeline event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListTimelineEvents(ctx context.Context, jobID uuid.UUID, userID uuid.UUID) ([]*models.TimelineEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, job_id, user_id, kind, from_status, to_status, note, created_at
		 FROM timeline_events WHERE job_id = $1 AND user_id = $2 ORDER BY created_at ASC`, jobID, userID)
	if err != nil {
		return nil, fmt.Errorf("list timeline events: %w", err)
	}
	defer rows.Close()

	var events []*models.TimelineEvent
	for rows.Next() {
		var e models.TimelineEvent
		if err := rows.Scan(&e.ID, &e.JobID, &e.UserID, &e.Kind, &e.FromStatus, &e.ToStatus,
			&e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
