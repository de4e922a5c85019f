package company

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/careerai/careerai/internal/brand"
	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore emulates the unique lower(name) index of the companies table.
type memStore struct {
	mu        sync.Mutex
	companies map[string]*models.Company
	links     map[uuid.UUID]uuid.UUID
	logos     map[uuid.UUID]*string
	inserts   int
	linkErr   error
	findErr   error

	// findGate, when set, is called before every lookup.
	findGate func()
}

func newMemStore() *memStore {
	return &memStore{
		companies: make(map[string]*models.Company),
		links:     make(map[uuid.UUID]uuid.UUID),
		logos:     make(map[uuid.UUID]*string),
	}
}

func (s *memStore) FindCompanyByName(_ context.Context, name string) (*models.Company, error) {
	if s.findGate != nil {
		s.findGate()
	}
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[strings.ToLower(name)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (s *memStore) CreateCompany(_ context.Context, c *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(c.Name)
	if _, ok := s.companies[key]; ok {
		return store.ErrDuplicateKey
	}
	s.companies[key] = c
	s.inserts++
	return nil
}

func (s *memStore) UpdateJobCompany(_ context.Context, jobID, companyID uuid.UUID, logoURL *string) error {
	if s.linkErr != nil {
		return s.linkErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[jobID] = companyID
	s.logos[jobID] = logoURL
	return nil
}

type stubBrand struct {
	calls   atomic.Int32
	domains sync.Map
	brand   *brand.Brand
	err     error
}

func (b *stubBrand) Lookup(_ context.Context, domain string) (*brand.Brand, error) {
	b.calls.Add(1)
	b.domains.Store(domain, true)
	if b.err != nil {
		return nil, b.err
	}
	return b.brand, nil
}

func (b *stubBrand) looked(domain string) bool {
	_, ok := b.domains.Load(domain)
	return ok
}

func stripeBrand() *brand.Brand {
	raw := json.RawMessage(`{"name":"Stripe","domain":"stripe.com"}`)
	return &brand.Brand{
		Name:   "Stripe",
		Domain: "stripe.com",
		Logos: []brand.Logo{
			{Type: "logo", Formats: []brand.LogoFormat{{Src: "https://cdn/logo.svg", Format: "svg"}}},
			{Type: "icon", Formats: []brand.LogoFormat{
				{Src: "https://cdn/icon.jpeg", Format: "jpeg"},
				{Src: "https://cdn/icon.png", Format: "png"},
			}},
		},
		Raw: raw,
	}
}

func TestResolveAndLink_BlankName(t *testing.T) {
	st := newMemStore()
	bc := &stubBrand{}
	r := NewResolver(st, bc)

	c, err := r.ResolveAndLink(context.Background(), nil, "   ", "https://stripe.com")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Zero(t, bc.calls.Load())
	assert.Zero(t, st.inserts)
}

func TestResolveAndLink_CreatesEnrichedCompanyAndLinksJob(t *testing.T) {
	st := newMemStore()
	bc := &stubBrand{brand: stripeBrand()}
	r := NewResolver(st, bc)
	jobID := uuid.New()

	c, err := r.ResolveAndLink(context.Background(), &jobID, " Stripe ", "https://www.stripe.com/jobs/123")
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, "Stripe", c.Name)
	require.NotNil(t, c.Domain)
	assert.Equal(t, "stripe.com", *c.Domain)
	require.NotNil(t, c.LogoURL)
	assert.Equal(t, "https://cdn/icon.png", *c.LogoURL)
	assert.JSONEq(t, `{"name":"Stripe","domain":"stripe.com"}`, string(c.BrandfetchData))
	assert.NotNil(t, c.LastFetchedAt)

	assert.True(t, bc.looked("stripe.com"))
	assert.Equal(t, int32(1), bc.calls.Load())
	assert.Equal(t, c.ID, st.links[jobID])
	assert.Equal(t, c.LogoURL, st.logos[jobID])
}

func TestResolveAndLink_ExistingCompanySkipsBrand(t *testing.T) {
	st := newMemStore()
	logo := "https://cdn/existing.svg"
	existing := &models.Company{ID: uuid.New(), Name: "Stripe", LogoURL: &logo}
	st.companies["stripe"] = existing
	bc := &stubBrand{brand: stripeBrand()}
	r := NewResolver(st, bc)
	jobID := uuid.New()

	c, err := r.ResolveAndLink(context.Background(), &jobID, "STRIPE", "")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, c.ID)
	assert.Zero(t, bc.calls.Load())
	assert.Zero(t, st.inserts)
	assert.Equal(t, existing.ID, st.links[jobID])
	assert.Equal(t, &logo, st.logos[jobID])
}

func TestResolveAndLink_FallsBackToGuessedDomain(t *testing.T) {
	st := newMemStore()
	bc := &stubBrand{err: brand.ErrBrandNotFound}
	r := NewResolver(st, bc)

	c, err := r.ResolveAndLink(context.Background(), nil, "Acme Corp", "not a url")
	require.NoError(t, err)
	require.NotNil(t, c.Domain)
	assert.Equal(t, "acmecorp.com", *c.Domain)
	assert.True(t, bc.looked("acmecorp.com"))
}

func TestResolveAndLink_BrandNotFoundStillCreatesCompany(t *testing.T) {
	st := newMemStore()
	bc := &stubBrand{err: brand.ErrBrandNotFound}
	r := NewResolver(st, bc)
	jobID := uuid.New()

	c, err := r.ResolveAndLink(context.Background(), &jobID, "Tiny Startup", "https://tiny.dev/careers")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Nil(t, c.LogoURL)
	assert.Nil(t, c.LastFetchedAt)
	assert.Empty(t, c.BrandfetchData)
	require.NotNil(t, c.Domain)
	assert.Equal(t, "tiny.dev", *c.Domain)
	assert.Equal(t, 1, st.inserts)
	assert.Equal(t, c.ID, st.links[jobID])
	assert.Nil(t, st.logos[jobID])

	b, err := json.Marshal(map[string]any{"company": c, "logo_url": c.LogoURL})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"logo_url":null`)
}

func TestResolveAndLink_BrandFailuresAreAbsorbed(t *testing.T) {
	for name, brandErr := range map[string]error{
		"rate limited": brand.ErrRateLimited,
		"unavailable":  brand.ErrBrandUnavailable,
		"transport":    errors.New("dial tcp: connection refused"),
	} {
		t.Run(name, func(t *testing.T) {
			st := newMemStore()
			bc := &stubBrand{err: brandErr}
			r := NewResolver(st, bc)

			c, err := r.ResolveAndLink(context.Background(), nil, "Globex", "https://globex.com/jobs")
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Nil(t, c.LogoURL)
			assert.Equal(t, int32(1), bc.calls.Load(), "brand API must not be retried")
		})
	}
}

func TestResolveAndLink_NoDomainSkipsBrand(t *testing.T) {
	st := newMemStore()
	bc := &stubBrand{brand: stripeBrand()}
	r := NewResolver(st, bc)

	c, err := r.ResolveAndLink(context.Background(), nil, "???", "")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Nil(t, c.Domain)
	assert.Zero(t, bc.calls.Load())
}

func TestResolveAndLink_BrandWithoutUsableLogo(t *testing.T) {
	st := newMemStore()
	bc := &stubBrand{brand: &brand.Brand{
		Domain: "Initech.com",
		Logos:  []brand.Logo{{Type: "icon", Formats: []brand.LogoFormat{{Src: "", Format: "svg"}}}},
		Raw:    json.RawMessage(`{}`),
	}}
	r := NewResolver(st, bc)

	c, err := r.ResolveAndLink(context.Background(), nil, "Initech", "")
	require.NoError(t, err)
	assert.Nil(t, c.LogoURL)
	assert.Equal(t, "initech.com", *c.Domain)
	assert.NotNil(t, c.LastFetchedAt)
}

func TestResolveAndLink_LinkFailureIsLoggedNotReturned(t *testing.T) {
	st := newMemStore()
	st.linkErr = store.ErrNotFound
	r := NewResolver(st, &stubBrand{err: brand.ErrBrandNotFound})
	jobID := uuid.New()

	c, err := r.ResolveAndLink(context.Background(), &jobID, "Hooli", "")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, 1, st.inserts)
}

func TestResolveAndLink_LookupErrorFails(t *testing.T) {
	st := newMemStore()
	st.findErr = errors.New("connection reset")
	r := NewResolver(st, &stubBrand{})

	_, err := r.ResolveAndLink(context.Background(), nil, "Hooli", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finding company")
}

func TestResolveAndLink_DuplicateInsertRecoversByRereading(t *testing.T) {
	st := newMemStore()
	winner := &models.Company{ID: uuid.New(), Name: "Umbrella"}

	// The lookup misses; the competing insert lands just before ours.
	r := NewResolver(&racingStore{memStore: st, winner: winner}, &stubBrand{err: brand.ErrBrandNotFound})
	jobID := uuid.New()

	c, err := r.ResolveAndLink(context.Background(), &jobID, "umbrella", "")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, c.ID)
	assert.Equal(t, winner.ID, st.links[jobID])
}

// racingStore inserts winner just before the resolver's own insert.
type racingStore struct {
	*memStore
	winner *models.Company
	once   sync.Once
}

func (s *racingStore) CreateCompany(ctx context.Context, c *models.Company) error {
	s.once.Do(func() { _ = s.memStore.CreateCompany(ctx, s.winner) })
	return s.memStore.CreateCompany(ctx, c)
}

func TestResolveAndLink_ConcurrentResolutionCreatesOneRow(t *testing.T) {
	const n = 8
	st := newMemStore()

	// Hold every first lookup until all n callers have missed, so each of
	// them proceeds to insert.
	var arrived sync.WaitGroup
	arrived.Add(n)
	var lookups atomic.Int32
	st.findGate = func() {
		if lookups.Add(1) <= n {
			arrived.Done()
			arrived.Wait()
		}
	}
	bc := &stubBrand{brand: stripeBrand()}
	r := NewResolver(st, bc)

	names := []string{"Stripe", "stripe", "STRIPE", "StRiPe"}
	results := make([]*models.Company, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			jobID := uuid.New()
			c, err := r.ResolveAndLink(context.Background(), &jobID, names[i%len(names)], "https://stripe.com/jobs")
			assert.NoError(t, err)
			results[i] = c
		}(i)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent resolution did not finish")
	}

	assert.Equal(t, 1, st.inserts)
	assert.Len(t, st.companies, 1)
	for _, c := range results {
		require.NotNil(t, c)
		assert.Equal(t, results[0].ID, c.ID)
	}
	assert.Len(t, st.links, n)
}
