package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

// Classifier asks the model to pick one label from a fixed vocabulary.
type Classifier struct {
	client *Client
	labels []string
	byKey  map[string]string
}

func NewClassifier(client *Client, labels []string) (*Classifier, error) {
	if len(labels) == 0 {
		return nil, domain.WrapError(domain.ErrModelInitialization, "load ollama classifier", errors.New("label vocabulary is empty"))
	}
	byKey := make(map[string]string, len(labels))
	normalized := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		key := strings.ToLower(label)
		if label == "" {
			continue
		}
		if _, ok := byKey[key]; ok {
			continue
		}
		byKey[key] = label
		normalized = append(normalized, label)
	}
	return &Classifier{client: client, labels: normalized, byKey: byKey}, nil
}

func (c *Classifier) Labels() []string {
	return append([]string(nil), c.labels...)
}

func (c *Classifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	respText, err := c.client.generateJSON(ctx, buildClassificationPrompt(text, c.labels))
	if err != nil {
		return domain.Classification{}, err
	}

	var result struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &result); err != nil {
		return domain.Classification{}, fmt.Errorf("parse classification json: %w", err)
	}

	label, ok := c.byKey[strings.ToLower(strings.TrimSpace(result.Label))]
	if !ok {
		return domain.Classification{}, fmt.Errorf("ollama classify: label %q not in vocabulary", result.Label)
	}
	return domain.Classification{Label: label, Confidence: clamp01(result.Confidence)}, nil
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.client.generateText(ctx, prompt)
}

func (c *Client) generateJSON(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}
	return c.generate(ctx, reqBody)
}

func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	}
	return c.generate(ctx, reqBody)
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *Client) generate(ctx context.Context, reqBody map[string]any) (string, error) {
	response, err := resilience.Call(ctx, c.executor, "ollama.generate", func(callCtx context.Context) (generateResponse, error) {
		var out generateResponse
		err := c.postJSON(callCtx, "/api/generate", reqBody, &out, "generate")
		return out, err
	}, resilience.ClassifyHTTPError)
	if err != nil {
		return "", resilience.WrapTemporary("ollama generate", err, resilience.ClassifyHTTPError)
	}
	return strings.TrimSpace(response.Response), nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
