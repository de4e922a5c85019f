package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/careerai/careerai/internal/ai"
	"github.com/careerai/careerai/pkg/models"
)

// SampleAnalysis is the reply NewMockProvider gives to JSON requests. It is
// already in the normalized shape.
const SampleAnalysis = `{
  "total": 74,
  "breakdown": {"ats": 80, "impact": 65, "keywords": 72, "clarity": 78},
  "explanation": {"ats": ["Standard headings"], "impact": ["Few metrics"], "keywords": [], "clarity": ["Short bullets"]},
  "keywords": {"present": ["Go"], "missing": ["Kubernetes"], "irrelevant": []},
  "suggestions": [{"id": "s1", "type": "impact", "severity": "high", "section_target": "experience",
    "description": "Quantify results", "proposed_fix": "Add numbers to the top three bullets"}]
}`

// MockProvider satisfies models.AIProvider for testing.
type MockProvider struct {
	Name_        string
	Model_       string
	CompleteFunc func(ctx context.Context, req models.CompletionRequest) (string, error)

	mu       sync.Mutex
	requests []models.CompletionRequest
}

func (m *MockProvider) Name() string  { return m.Name_ }
func (m *MockProvider) Model() string { return m.Model_ }

func (m *MockProvider) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "", nil
}

// Requests returns every request received so far.
func (m *MockProvider) Requests() []models.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CompletionRequest(nil), m.requests...)
}

// NewMockProvider returns a MockProvider with sensible default responses:
// SampleAnalysis for JSON requests, a short letter otherwise.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Name_:  "mock",
		Model_: "mock-v1",
		CompleteFunc: func(_ context.Context, req models.CompletionRequest) (string, error) {
			if req.JSON {
				return SampleAnalysis, nil
			}
			if strings.Contains(req.Prompt, "interview") {
				return "## Likely questions\n- Tell me about a system you scaled.", nil
			}
			return "Dear hiring manager,\nI am excited to apply.", nil
		},
	}
}

// NewReplyProvider returns a MockProvider that always replies with reply.
func NewReplyProvider(reply string) *MockProvider {
	return &MockProvider{
		Name_:  "mock",
		Model_: "mock-v1",
		CompleteFunc: func(_ context.Context, _ models.CompletionRequest) (string, error) {
			return reply, nil
		},
	}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_:  "mock-failing",
		Model_: "mock-v1",
		CompleteFunc: func(_ context.Context, _ models.CompletionRequest) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_:  "mock-timeout",
		Model_: "mock-v1",
		CompleteFunc: func(ctx context.Context, _ models.CompletionRequest) (string, error) {
			<-ctx.Done()
			return "", ai.ErrInferenceTimeout
		},
	}
}

// Compile-time check that MockProvider implements AIProvider.
var _ models.AIProvider = (*MockProvider)(nil)
