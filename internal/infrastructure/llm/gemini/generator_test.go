package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/resilience"
)

type modelFake struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	prompt    string
}

func (m *modelFake) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	i := m.calls
	m.calls++
	if len(parts) > 0 {
		if txt, ok := parts[0].(genai.Text); ok {
			m.prompt = string(txt)
		}
	}
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return m.responses[len(m.responses)-1], nil
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGenerateJoinsTextParts(t *testing.T) {
	model := &modelFake{responses: []*genai.GenerateContentResponse{textResponse(" The Supplier shall ", "deliver promptly. ")}}

	got, err := newWithModel(model, nil).Generate(context.Background(), "rewrite")
	require.NoError(t, err)
	assert.Equal(t, "The Supplier shall deliver promptly.", got)
	assert.Equal(t, "rewrite", model.prompt)
}

func TestGenerateEmptyCandidates(t *testing.T) {
	blocked := &genai.GenerateContentResponse{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}}
	_, err := newWithModel(&modelFake{responses: []*genai.GenerateContentResponse{blocked}}, nil).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")

	_, err = newWithModel(&modelFake{responses: []*genai.GenerateContentResponse{{}}}, nil).Generate(context.Background(), "x")
	require.Error(t, err)
}

func TestGenerateRetriesQuotaErrors(t *testing.T) {
	model := &modelFake{
		errs:      []error{status.Error(codes.ResourceExhausted, "quota exceeded")},
		responses: []*genai.GenerateContentResponse{nil, textResponse("ok")},
	}
	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     1,
	})

	got, err := newWithModel(model, exec).Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, model.calls)
}

func TestGenerateMarksTemporaryErrors(t *testing.T) {
	model := &modelFake{errs: []error{status.Error(codes.Unavailable, "overloaded")}}
	_, err := newWithModel(model, nil).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrTemporary))

	model = &modelFake{errs: []error{status.Error(codes.PermissionDenied, "bad key")}}
	_, err = newWithModel(model, nil).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, domain.IsKind(err, domain.ErrTemporary))
}

func TestClassifyGeminiError(t *testing.T) {
	assert.True(t, classifyGeminiError(&googleapi.Error{Code: http.StatusTooManyRequests}).Retryable)
	assert.False(t, classifyGeminiError(&googleapi.Error{Code: http.StatusBadRequest}).Retryable)
	assert.False(t, classifyGeminiError(context.Canceled).RecordFailure)
	assert.False(t, classifyGeminiError(errors.New("boom")).Retryable)
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), " ", "", nil)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrModelInitialization))
}
