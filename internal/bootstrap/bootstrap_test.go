package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/legal-clause-validator/internal/config"
	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

func newInfoServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model_id":"legalbert","model_type":{"classifier":{"id2label":{"0":"Termination","1":"Governing Law"}}}}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func baseConfig(classifierURL string) config.Config {
	return config.Config{
		SegmentationModel:     "punkt-english",
		MinClauseLength:       20,
		LegalKeywordThreshold: 2,

		ClassificationBackend: "tei",
		ClassifierURL:         classifierURL,
		ClassifierCacheSize:   16,

		GenerationProvider: "ollama",
		GenerationModel:    "llama3.2",
		OllamaURL:          "http://127.0.0.1:1",

		AnalysisWorkers: 1,
	}
}

func TestNewWiresPipeline(t *testing.T) {
	server := newInfoServer(t)

	app, err := New(context.Background(), baseConfig(server.URL), Options{})
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Analyzer)
	assert.NotNil(t, app.Reports)
	assert.NotNil(t, app.Inspector)
	assert.Nil(t, app.Bus)
	assert.Equal(t, []string{"Termination", "Governing Law"}, app.Labels)
}

func TestNewUsesLexiconLabelsForOllamaClassifier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("labels:\n  - Non-Compete\n  - Severability\n"), 0o644))

	cfg := baseConfig("")
	cfg.ClassificationBackend = "ollama"
	cfg.ClassificationModel = "llama3.2"
	cfg.LexiconPath = path

	app, err := New(context.Background(), cfg, Options{})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, []string{"Non-Compete", "Severability"}, app.Labels)
}

func TestNewInitializationFailures(t *testing.T) {
	server := newInfoServer(t)

	cases := map[string]func(*config.Config){
		"unknown segmentation model":  func(c *config.Config) { c.SegmentationModel = "spacy" },
		"unknown classifier backend":  func(c *config.Config) { c.ClassificationBackend = "bert-local" },
		"unknown generation provider": func(c *config.Config) { c.GenerationProvider = "openai" },
		"missing gemini key":          func(c *config.Config) { c.GenerationProvider = "gemini" },
		"classifier unreachable":      func(c *config.Config) { c.ClassifierURL = "http://127.0.0.1:1" },
		"missing lexicon":             func(c *config.Config) { c.LexiconPath = "/nonexistent/lexicon.yaml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := baseConfig(server.URL)
			cfg.ClassifierTimeoutSeconds = 1
			mutate(&cfg)

			_, err := New(context.Background(), cfg, Options{})
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, domain.ErrModelInitialization), err.Error())
		})
	}
}

func TestNewRemoteRequiresNATSURL(t *testing.T) {
	_, err := NewRemote(config.Config{})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrModelInitialization))
}
