// Package company maps free-text company names on job applications to a
// single canonical Company row enriched with brand data.
package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/careerai/careerai/internal/brand"
	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
)

// Store is the subset of store.Store the resolver needs.
type Store interface {
	FindCompanyByName(ctx context.Context, name string) (*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	UpdateJobCompany(ctx context.Context, jobID uuid.UUID, companyID uuid.UUID, logoURL *string) error
}

// Resolver finds or creates companies and links them to jobs.
type Resolver struct {
	store Store
	brand brand.Client
	now   func() time.Time
}

func NewResolver(st Store, bc brand.Client) *Resolver {
	return &Resolver{
		store: st,
		brand: bc,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ResolveAndLink returns the canonical company for companyName, creating and
// enriching it on first sight, and links it to jobID when one is given.
// It returns nil, nil for a blank name. Brand API failures and job link
// failures are logged and never fail the resolution.
func (r *Resolver) ResolveAndLink(ctx context.Context, jobID *uuid.UUID, companyName, jobURL string) (*models.Company, error) {
	name := strings.TrimSpace(companyName)
	if name == "" {
		return nil, nil
	}

	company, err := r.store.FindCompanyByName(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		company, err = r.create(ctx, name, jobURL)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("finding company: %w", err)
	}

	if jobID != nil {
		if err := r.store.UpdateJobCompany(ctx, *jobID, company.ID, company.LogoURL); err != nil {
			slog.Warn("linking job to company failed",
				"error", err, "job_id", *jobID, "company_id", company.ID)
		}
	}
	return company, nil
}

func (r *Resolver) create(ctx context.Context, name, jobURL string) (*models.Company, error) {
	domain, ok := ExtractDomain(jobURL)
	if !ok {
		domain = GuessDomain(name)
	}

	now := r.now()
	c := &models.Company{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if domain != "" {
		c.Domain = &domain
	}

	if b := r.fetchBrand(ctx, domain); b != nil {
		if b.Domain != "" {
			canonical := strings.ToLower(b.Domain)
			c.Domain = &canonical
		}
		if logo := brand.BestLogoURL(b); logo != "" {
			c.LogoURL = &logo
		}
		c.BrandfetchData = b.Raw
		c.LastFetchedAt = &now
	}

	err := r.store.CreateCompany(ctx, c)
	if errors.Is(err, store.ErrDuplicateKey) {
		// Another request created the same company first; use its row.
		existing, findErr := r.store.FindCompanyByName(ctx, name)
		if findErr != nil {
			return nil, fmt.Errorf("re-reading company after duplicate insert: %w", findErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}

	slog.Info("company created", "company_id", c.ID, "name", name, "domain", ptrValue(c.Domain),
		"has_logo", c.LogoURL != nil)
	return c, nil
}

// fetchBrand makes a single brand lookup and absorbs every failure.
func (r *Resolver) fetchBrand(ctx context.Context, domain string) *brand.Brand {
	if domain == "" || r.brand == nil {
		return nil
	}
	b, err := r.brand.Lookup(ctx, domain)
	switch {
	case err == nil:
		return b
	case errors.Is(err, brand.ErrBrandNotFound):
		slog.Debug("no brand data for domain", "domain", domain)
	case errors.Is(err, brand.ErrRateLimited):
		slog.Warn("brand api rate limited, continuing without logo", "domain", domain)
	default:
		slog.Warn("brand lookup failed, continuing without logo", "domain", domain, "error", err)
	}
	return nil
}

func ptrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
