package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/kirillkom/legal-clause-validator/internal/config"
	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/core/ports"
	"github.com/kirillkom/legal-clause-validator/internal/observability/metrics"
)

const serviceName = "clause-api"

type Router struct {
	analyzer  ports.DocumentAnalyzer
	reports   ports.ReportCompiler
	inspector ports.ClauseInspector
	metrics   *metrics.HTTPServerMetrics
	validator *requestValidator
	traffic   *trafficControl

	apiKey          string
	maxUploadBytes  int64
	analysisTimeout time.Duration
}

func NewRouter(
	cfg config.Config,
	analyzer ports.DocumentAnalyzer,
	reports ports.ReportCompiler,
	inspector ports.ClauseInspector,
	httpMetrics *metrics.HTTPServerMetrics,
) (*Router, error) {
	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	validator, err := newRequestValidator(spec)
	if err != nil {
		return nil, err
	}

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 20 << 20
	}

	return &Router{
		analyzer:        analyzer,
		reports:         reports,
		inspector:       inspector,
		metrics:         httpMetrics,
		validator:       validator,
		traffic:         newTrafficControl(cfg),
		apiKey:          cfg.APIKey,
		maxUploadBytes:  maxUpload,
		analysisTimeout: cfg.AnalysisTimeout(),
	}, nil
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", serveSpec)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}
	mux.Handle("POST /v1/analyses", rt.guard(rt.createAnalysis))
	mux.Handle("POST /v1/reports", rt.guard(rt.createReport))
	mux.Handle("POST /v1/clauses/classify", rt.guard(rt.classifyClause))

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

// guard applies the /v1 chain: rate limit, backpressure, auth, then contract validation.
func (rt *Router) guard(h http.HandlerFunc) http.Handler {
	var handler http.Handler = h
	handler = rt.validator.middleware(handler)
	handler = bearerAuthMiddleware(rt.apiKey, handler)
	return rt.traffic.wrap(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) createAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := rt.analyzeUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) createReport(w http.ResponseWriter, r *http.Request) {
	var rawFormat string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &rawFormat); err != nil {
		writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "bind format", err))
		return
	}
	format, err := domain.ParseReportFormat(rawFormat)
	if err != nil {
		writeError(w, r, err)
		return
	}

	analysis, err := rt.analyzeUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := rt.reports.Compile(r.Context(), analysis, format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(report.Content.Size(), 10))
	w.Header().Set("X-Analysis-Id", analysis.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, report.Content); err != nil {
		slog.Warn("report_write_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
	}
}

func (rt *Router) classifyClause(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "decode request", errors.New("invalid json")))
		return
	}

	cls, err := rt.inspector.Classify(r.Context(), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cls)
}

func (rt *Router) analyzeUpload(w http.ResponseWriter, r *http.Request) (*domain.Analysis, error) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", errors.New("multipart field 'file' is required"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
	}

	doc := domain.NewDocument(header.Filename, content)
	if rt.metrics != nil {
		rt.metrics.RecordUpload(serviceName, string(doc.Kind), len(content))
	}

	ctx := r.Context()
	if rt.analysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.analysisTimeout)
		defer cancel()
	}

	start := time.Now()
	analysis, err := rt.analyzer.Analyze(ctx, doc)
	if rt.metrics != nil {
		rt.metrics.Pipeline().RecordAnalysis(analysis, time.Since(start), err)
	}
	return analysis, err
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
