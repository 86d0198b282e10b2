package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/resilience"
)

const DefaultModel = "gemma-3n-e4b-it"

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Generator produces text with a Gemini API model.
type Generator struct {
	client   *genai.Client
	model    contentGenerator
	executor *resilience.Executor
}

// New fails with a model initialization error when the key is missing or the client cannot start.
func New(ctx context.Context, apiKey, model string, executor *resilience.Executor) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.WrapError(domain.ErrModelInitialization, "create gemini client", errors.New("GEMINI_API_KEY not set"))
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelInitialization, "create gemini client", err)
	}
	return &Generator{
		client:   client,
		model:    client.GenerativeModel(model),
		executor: executor,
	}, nil
}

func newWithModel(model contentGenerator, executor *resilience.Executor) *Generator {
	return &Generator{model: model, executor: executor}
}

func (g *Generator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := resilience.Call(ctx, g.executor, "gemini.generate", func(callCtx context.Context) (*genai.GenerateContentResponse, error) {
		return g.model.GenerateContent(callCtx, genai.Text(prompt))
	}, classifyGeminiError)
	if err != nil {
		return "", resilience.WrapTemporary("gemini generate", fmt.Errorf("gemini error: %w", err), classifyGeminiError)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("no response from Gemini")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("no response from Gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(out.String()), nil
}
