package httpadapter

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kirillkom/legal-clause-validator/internal/config"
	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

type analyzerFake struct {
	analysis *domain.Analysis
	err      error
	gotDoc   domain.Document
}

func (f *analyzerFake) Analyze(_ context.Context, doc domain.Document) (*domain.Analysis, error) {
	f.gotDoc = doc
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

type compilerFake struct {
	err       error
	gotFormat domain.ReportFormat
}

func (f *compilerFake) Compile(_ context.Context, _ *domain.Analysis, format domain.ReportFormat) (*domain.Report, error) {
	f.gotFormat = format
	if f.err != nil {
		return nil, f.err
	}
	return domain.NewReport(format, []byte("report-bytes")), nil
}

type inspectorFake struct {
	cls domain.Classification
	err error
}

func (f inspectorFake) Classify(context.Context, string) (domain.Classification, error) {
	return f.cls, f.err
}

func sampleAnalysis() *domain.Analysis {
	return &domain.Analysis{
		ID:           "analysis-1",
		Filename:     "contract.docx",
		Kind:         domain.KindDOCX,
		DocumentType: "Confidentiality",
		TotalClauses: 1,
		Results: []domain.ClauseResult{{
			Clause:     domain.Clause{Index: 1, Text: "The parties shall keep all information confidential."},
			Label:      "Confidentiality",
			Confidence: 0.91,
			Suggestion: domain.Suggestion{Text: "Each party shall keep the information confidential."},
		}},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func newTestRouter(t *testing.T, cfg config.Config, analyzer *analyzerFake, compiler *compilerFake, inspector inspectorFake) http.Handler {
	t.Helper()
	if analyzer == nil {
		analyzer = &analyzerFake{analysis: sampleAnalysis()}
	}
	if compiler == nil {
		compiler = &compilerFake{}
	}
	router, err := NewRouter(cfg, analyzer, compiler, inspector, nil)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return router.Handler()
}

func newTestHandler(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	return newTestRouter(t, cfg, nil, nil, inspectorFake{cls: domain.Classification{Label: "Termination", Confidence: 0.8}})
}

func multipartUpload(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
