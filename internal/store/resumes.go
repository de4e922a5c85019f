package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Resumes ---

func (s *PostgresStore) CreateResume(ctx context.Context, r *models.Resume) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO resumes (id, user_id, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.UserID, r.Title, r.Content, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create resume: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetResume(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Resume, error) {
	var r models.Resume
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM resumes WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get resume: %w", err)
	}
	return &r, nil
}

// --- Analysis Runs ---

func (s *PostgresStore) CreateAnalysisRun(ctx context.Context, run *models.AnalysisRun) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO analysis_runs (id, user_id, resume_id, job_id, status, provider, model, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.UserID, run.ResumeID, run.JobID, run.Status, run.Provider, run.Model,
		run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create analysis run: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAnalysisRun(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.AnalysisRun, error) {
	var (
		r   models.AnalysisRun
		raw []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, resume_id, job_id, status, result, provider, model, error_message,
		   completed_at, created_at, updated_at
		 FROM analysis_runs WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&r.ID, &r.UserID, &r.ResumeID, &r.JobID, &r.Status, &raw, &r.Provider, &r.Model,
		&r.ErrorMessage, &r.CompletedAt, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis run: %w", err)
	}
	if len(raw) > 0 {
		var result models.AnalysisResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("decode analysis result: %w", err)
		}
		r.Result = &result
	}
	return &r, nil
}

var validRunTransitions = map[string][]string{
	models.RunStatusPending: {models.RunStatusRunning, models.RunStatusFailed},
	models.RunStatusRunning: {models.RunStatusCompleted, models.RunStatusFailed},
}

// UpdateAnalysisRunStatus advances a run through pending → running →
// completed|failed. A result can only be attached when completing.
func (s *PostgresStore) UpdateAnalysisRunStatus(ctx context.Context, id uuid.UUID, status string, opts ...RunUpdateOption) error {
	params := ApplyRunUpdateOptions(opts...)

	var currentStatus string
	err := s.pool.QueryRow(ctx, `SELECT status FROM analysis_runs WHERE id = $1`, id).Scan(&currentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get analysis run status: %w", err)
	}

	valid := false
	for _, a := range validRunTransitions[currentStatus] {
		if a == status {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid analysis run transition: %s -> %s", currentStatus, status)
	}

	now := time.Now().UTC()
	query := `UPDATE analysis_runs SET status = $2, updated_at = $3`
	args := []any{id, status, now}
	argIdx := 4

	if status == models.RunStatusCompleted || status == models.RunStatusFailed {
		query += fmt.Sprintf(", completed_at = $%d", argIdx)
		args = append(args, now)
		argIdx++
	}
	if params.ErrorMessage != nil {
		query += fmt.Sprintf(", error_message = $%d", argIdx)
		args = append(args, *params.ErrorMessage)
		argIdx++
	}
	if params.Result != nil && status == models.RunStatusCompleted {
		b, err := json.Marshal(params.Result)
		if err != nil {
			return fmt.Errorf("encode analysis result: %w", err)
		}
		query += fmt.Sprintf(", result = $%d", argIdx)
		args = append(args, b)
		argIdx++
	}

	query += " WHERE id = $1"

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update analysis run status: %w", err)
	}
	return nil
}

// --- Documents ---

func (s *PostgresStore) CreateDocument(ctx context.Context, d *models.Document) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (id, user_id, job_id, kind, content, provider, model, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.UserID, d.JobID, d.Kind, d.Content, d.Provider, d.Model, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, jobID uuid.UUID, userID uuid.UUID) ([]*models.Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, job_id, kind, content, provider, model, created_at
		 FROM documents WHERE job_id = $1 AND user_id = $2 ORDER BY created_at DESC`, jobID, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.JobID, &d.Kind, &d.Content, &d.Provider,
			&d.Model, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}
