// Package brand fetches logo and brand metadata for a domain from the
// Brandfetch API.
package brand

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Sentinel errors for brand lookups. Callers treat all of them as
// "no enrichment available".
var (
	ErrBrandNotFound    = errors.New("brand not found")
	ErrRateLimited      = errors.New("brand api rate limited")
	ErrBrandUnavailable = errors.New("brand api unavailable")
)

const maxBrandBody = 1 << 20

// Client looks up brand data for a domain.
type Client interface {
	Lookup(ctx context.Context, domain string) (*Brand, error)
}

// Brand is the subset of a Brandfetch brand document CareerAI reads.
// Raw holds the full payload as returned by the API.
type Brand struct {
	Name   string          `json:"name"`
	Domain string          `json:"domain"`
	Logos  []Logo          `json:"logos"`
	Colors []Color         `json:"colors"`
	Fonts  []Font          `json:"fonts"`
	Raw    json.RawMessage `json:"-"`
}

type Logo struct {
	Type    string       `json:"type"`
	Theme   string       `json:"theme,omitempty"`
	Formats []LogoFormat `json:"formats"`
}

type LogoFormat struct {
	Src        string `json:"src"`
	Format     string `json:"format"`
	Background string `json:"background,omitempty"`
}

type Color struct {
	Hex  string `json:"hex"`
	Type string `json:"type"`
}

type Font struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// HTTPClient implements Client against the Brandfetch v2 REST API.
// Outbound calls are paced by a token-bucket limiter so bursts of new
// companies do not trip the upstream quota.
type HTTPClient struct {
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	client  *http.Client
}

// NewHTTPClient creates a new Brandfetch client. ratePerSec <= 0 disables pacing.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, ratePerSec float64) *HTTPClient {
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		limiter: rate.NewLimiter(limit, burst),
		client:  &http.Client{Timeout: timeout},
	}
}

// Lookup fetches GET /v2/brands/{domain}. A 404 maps to ErrBrandNotFound,
// a 429 to ErrRateLimited and every other failure to ErrBrandUnavailable.
func (c *HTTPClient) Lookup(ctx context.Context, domain string) (*Brand, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, fmt.Errorf("%w: empty domain", ErrBrandNotFound)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrandUnavailable, err)
	}

	u := fmt.Sprintf("%s/v2/brands/%s", c.baseURL, url.PathEscape(domain))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrBrandNotFound, domain)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, domain)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d", ErrBrandUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBrandBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrBrandUnavailable, err)
	}
	return Decode(body)
}

// Decode parses a brand document and keeps the raw bytes.
func Decode(body []byte) (*Brand, error) {
	var b Brand
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, fmt.Errorf("%w: decoding brand: %v", ErrBrandUnavailable, err)
	}
	b.Raw = append(json.RawMessage(nil), body...)
	return &b, nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: timeout: %v", ErrBrandUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrBrandUnavailable, err)
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
