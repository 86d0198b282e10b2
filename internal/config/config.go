package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string
	APIKey   string

	MaxUploadBytes         int64
	APIRateLimitRPS        float64
	APIRateLimitBurst      int
	APIMaxInFlight         int
	APIBackpressureWaitMS  int
	AnalysisTimeoutSeconds int

	SegmentationModel     string
	MinClauseLength       int
	LegalKeywordThreshold int
	LexiconPath           string

	ClassificationBackend    string
	ClassificationModel      string
	ClassifierURL            string
	ClassifierTimeoutSeconds int
	ClassifierCacheSize      int

	GenerationProvider         string
	GenerationModel            string
	GeminiAPIKey               string
	OllamaURL                  string
	SuggestionTimeoutSeconds   int
	SuggestionRetryMaxAttempts int
	SuggestionBreakerEnabled   bool

	AnalysisWorkers int
	ReportTitle     string

	NATSURL            string
	NATSEventsSubject  string
	NATSRequestSubject string

	WorkerMetricsPort string
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),
		APIKey:   mustEnv("API_KEY", ""),

		MaxUploadBytes:         int64(mustEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		APIRateLimitRPS:        mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:      mustEnvInt("API_RATE_LIMIT_BURST", 5),
		APIMaxInFlight:         mustEnvInt("API_MAX_IN_FLIGHT", 4),
		APIBackpressureWaitMS:  mustEnvInt("API_BACKPRESSURE_WAIT_MS", 250),
		AnalysisTimeoutSeconds: mustEnvInt("ANALYSIS_TIMEOUT_SECONDS", 600),

		SegmentationModel:     mustEnv("SEGMENTATION_MODEL", "punkt-english"),
		MinClauseLength:       mustEnvInt("MIN_CLAUSE_LENGTH", 20),
		LegalKeywordThreshold: mustEnvInt("LEGAL_KEYWORD_THRESHOLD", 2),
		LexiconPath:           mustEnv("LEXICON_PATH", ""),

		ClassificationBackend:    mustEnv("CLASSIFICATION_BACKEND", "tei"),
		ClassificationModel:      mustEnv("CLASSIFICATION_MODEL", "Anery/legalbert_clause_combined"),
		ClassifierURL:            mustEnv("CLASSIFIER_URL", "http://localhost:8081"),
		ClassifierTimeoutSeconds: mustEnvInt("CLASSIFIER_TIMEOUT_SECONDS", 30),
		ClassifierCacheSize:      mustEnvInt("CLASSIFIER_CACHE_SIZE", 1024),

		GenerationProvider:         mustEnv("GENERATION_PROVIDER", "gemini"),
		GenerationModel:            mustEnv("GENERATION_MODEL", "gemma-3n-e4b-it"),
		GeminiAPIKey:               mustEnv("GEMINI_API_KEY", ""),
		OllamaURL:                  mustEnv("OLLAMA_URL", "http://localhost:11434"),
		SuggestionTimeoutSeconds:   mustEnvInt("SUGGESTION_TIMEOUT_SECONDS", 30),
		SuggestionRetryMaxAttempts: mustEnvInt("SUGGESTION_RETRY_MAX_ATTEMPTS", 1),
		SuggestionBreakerEnabled:   mustEnvBool("SUGGESTION_BREAKER_ENABLED", true),

		AnalysisWorkers: mustEnvInt("ANALYSIS_WORKERS", 1),
		ReportTitle:     mustEnv("REPORT_TITLE", "AI Legal Clause Validator Report"),

		NATSURL:            mustEnv("NATS_URL", ""),
		NATSEventsSubject:  mustEnv("NATS_EVENTS_SUBJECT", "clauses.analysis.completed"),
		NATSRequestSubject: mustEnv("NATS_REQUEST_SUBJECT", "clauses.analyze"),

		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", "9090"),
	}
}

func (c Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.ClassifierTimeoutSeconds) * time.Second
}

func (c Config) SuggestionTimeout() time.Duration {
	return time.Duration(c.SuggestionTimeoutSeconds) * time.Second
}

func (c Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.AnalysisTimeoutSeconds) * time.Second
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
