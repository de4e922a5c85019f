package mock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careerai/careerai/internal/ai"
	"github.com/careerai/careerai/internal/ai/mock"
	"github.com/careerai/careerai/internal/analysis"
	"github.com/careerai/careerai/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockProvider_Identity(t *testing.T) {
	p := mock.NewMockProvider()
	assert.Equal(t, "mock", p.Name())
	assert.Equal(t, "mock-v1", p.Model())
}

func TestNewMockProvider_JSONReplyIsNormalized(t *testing.T) {
	p := mock.NewMockProvider()
	out, err := p.Complete(context.Background(), models.CompletionRequest{Prompt: "score", JSON: true})
	require.NoError(t, err)

	res := analysis.NormalizeJSON([]byte(out))
	assert.Equal(t, 74.0, res.Total)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "experience", res.Suggestions[0].SectionTarget)
}

func TestNewMockProvider_TextReply(t *testing.T) {
	p := mock.NewMockProvider()
	out, err := p.Complete(context.Background(), models.CompletionRequest{Prompt: "write a cover letter"})
	require.NoError(t, err)
	assert.Contains(t, out, "Dear hiring manager")

	out, err = p.Complete(context.Background(), models.CompletionRequest{Prompt: "prepare interview notes"})
	require.NoError(t, err)
	assert.Contains(t, out, "Likely questions")
}

func TestMockProvider_RecordsRequests(t *testing.T) {
	p := mock.NewReplyProvider("ok")
	_, _ = p.Complete(context.Background(), models.CompletionRequest{Prompt: "one"})
	_, _ = p.Complete(context.Background(), models.CompletionRequest{Prompt: "two", JSON: true})

	reqs := p.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "one", reqs[0].Prompt)
	assert.True(t, reqs[1].JSON)
}

func TestMockProvider_NilFuncReturnsEmpty(t *testing.T) {
	p := &mock.MockProvider{Name_: "bare"}
	out, err := p.Complete(context.Background(), models.CompletionRequest{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNewFailingProvider(t *testing.T) {
	boom := errors.New("provider down")
	p := mock.NewFailingProvider(boom)
	assert.Equal(t, "mock-failing", p.Name())

	_, err := p.Complete(context.Background(), models.CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, boom)
}

func TestNewTimeoutProvider(t *testing.T) {
	p := mock.NewTimeoutProvider()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Complete(ctx, models.CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ai.ErrInferenceTimeout)
	assert.Less(t, time.Since(start), time.Second)
}
