package tei

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/resilience"
)

const serviceName = "tei"

// Classifier calls a text-embeddings-inference style server hosting a sequence
// classification model. Labels are read once from /info and never change.
type Classifier struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
	labels     []string
	index      map[string]int
}

type Options struct {
	Timeout  time.Duration
	Executor *resilience.Executor
}

// New fetches the label vocabulary; any failure here is a model initialization error.
func New(ctx context.Context, baseURL, model string, opts Options) (*Classifier, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Classifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		executor:   opts.Executor,
	}

	info, err := c.fetchInfo(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelInitialization, "load classifier", err)
	}
	labels, err := info.labels()
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelInitialization, "load classifier", err)
	}
	if model != "" && info.ModelID != "" && info.ModelID != model {
		slog.Warn("classifier_model_mismatch", "configured", model, "served", info.ModelID)
	}

	c.labels = labels
	c.index = make(map[string]int, len(labels))
	for i, label := range labels {
		c.index[label] = i
	}
	slog.Info("classifier_ready", "backend", serviceName, "model", info.ModelID, "labels", len(labels))
	return c, nil
}

func (c *Classifier) Labels() []string {
	return append([]string(nil), c.labels...)
}

func (c *Classifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Classification{}, domain.WrapError(domain.ErrInvalidInput, "classify clause", errors.New("empty text"))
	}

	scores, err := resilience.Call(ctx, c.executor, "tei.predict", func(callCtx context.Context) ([]labelScore, error) {
		return c.predict(callCtx, text)
	}, resilience.ClassifyHTTPError)
	if err != nil {
		return domain.Classification{}, resilience.WrapTemporary("tei predict", err, resilience.ClassifyHTTPError)
	}

	logits := make([]float64, len(c.labels))
	seen := 0
	for _, score := range scores {
		idx, ok := c.index[score.Label]
		if !ok {
			return domain.Classification{}, fmt.Errorf("tei predict: label %q not in vocabulary", score.Label)
		}
		logits[idx] = score.Score
		seen++
	}
	if seen != len(c.labels) {
		return domain.Classification{}, fmt.Errorf("tei predict: got %d scores for %d labels", seen, len(c.labels))
	}

	best, prob := argmax(Softmax(logits))
	return domain.Classification{Label: c.labels[best], Confidence: prob}, nil
}

type infoResponse struct {
	ModelID   string `json:"model_id"`
	ModelType struct {
		Classifier *struct {
			ID2Label map[string]string `json:"id2label"`
		} `json:"classifier"`
	} `json:"model_type"`
}

// labels orders id2label by numeric id.
func (r infoResponse) labels() ([]string, error) {
	if r.ModelType.Classifier == nil || len(r.ModelType.Classifier.ID2Label) == 0 {
		return nil, errors.New("served model is not a sequence classifier")
	}
	type entry struct {
		id    int
		label string
	}
	entries := make([]entry, 0, len(r.ModelType.Classifier.ID2Label))
	for rawID, label := range r.ModelType.Classifier.ID2Label {
		id, err := strconv.Atoi(rawID)
		if err != nil {
			return nil, fmt.Errorf("invalid label id %q", rawID)
		}
		entries = append(entries, entry{id: id, label: label})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.label)
	}
	return out, nil
}

func (c *Classifier) fetchInfo(ctx context.Context) (infoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/info", nil)
	if err != nil {
		return infoResponse{}, fmt.Errorf("create info request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return infoResponse{}, fmt.Errorf("tei info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return infoResponse{}, resilience.NewStatusError(serviceName, "info", resp)
	}
	var info infoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return infoResponse{}, fmt.Errorf("decode info response: %w", err)
	}
	return info, nil
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type predictRequest struct {
	Inputs    string `json:"inputs"`
	Truncate  bool   `json:"truncate"`
	RawScores bool   `json:"raw_scores"`
}

func (c *Classifier) predict(ctx context.Context, text string) ([]labelScore, error) {
	body, err := json.Marshal(predictRequest{Inputs: text, Truncate: true, RawScores: true})
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tei predict request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, resilience.NewStatusError(serviceName, "predict", resp)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	return decodeScores(raw)
}

// decodeScores accepts both the single-input shape and the batched one.
func decodeScores(raw json.RawMessage) ([]labelScore, error) {
	var single []labelScore
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, nil
	}
	var batch [][]labelScore
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	if len(batch) != 1 {
		return nil, fmt.Errorf("decode predict response: expected 1 result, got %d", len(batch))
	}
	return batch[0], nil
}
