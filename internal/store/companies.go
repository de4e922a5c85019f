package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, name, domain, logo_url, brandfetch_data, last_fetched_at, created_at, updated_at`

func scanCompany(row pgx.Row) (*models.Company, error) {
	var (
		c   models.Company
		raw []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Domain, &c.LogoURL, &raw, &c.LastFetchedAt,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.BrandfetchData = raw
	return &c, nil
}

// FindCompanyByName looks a company up by name, ignoring case.
func (s *PostgresStore) FindCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	c, err := scanCompany(s.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE lower(name) = lower($1)`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company by name: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	c, err := scanCompany(s.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// CreateCompany inserts a company. Returns ErrDuplicateKey when a company with
// the same case-insensitive name already exists.
func (s *PostgresStore) CreateCompany(ctx context.Context, c *models.Company) error {
	var brandData []byte
	if len(c.BrandfetchData) > 0 {
		brandData = c.BrandfetchData
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO companies (id, name, domain, logo_url, brandfetch_data, last_fetched_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Domain, c.LogoURL, brandData, c.LastFetchedAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}
