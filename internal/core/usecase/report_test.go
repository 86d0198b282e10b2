package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

func sampleAnalysis() *domain.Analysis {
	return &domain.Analysis{
		ID:           "an-1",
		DocumentType: "NDA",
		TotalClauses: 1,
		Results: []domain.ClauseResult{{
			Clause:     domain.Clause{Index: 1, Text: "The Recipient shall keep it secret."},
			Label:      "NDA",
			Confidence: 0.9,
			Suggestion: domain.Suggestion{Text: "Better."},
		}},
	}
}

func TestReportCompileDispatchesByFormat(t *testing.T) {
	docx := &reportWriterFake{format: domain.ReportFormatDOCX, data: []byte("docx")}
	xlsx := &reportWriterFake{format: domain.ReportFormatXLSX, data: []byte("xlsx")}
	uc := NewReportUseCase("", docx, xlsx)

	report, err := uc.Compile(context.Background(), sampleAnalysis(), domain.ReportFormatXLSX)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if report.Filename != "AI_Clause_Report.xlsx" || report.Format != domain.ReportFormatXLSX {
		t.Fatalf("unexpected report %+v", report)
	}
	if xlsx.title != domain.DefaultReportTitle {
		t.Fatalf("expected default title, got %q", xlsx.title)
	}
	if docx.title != "" {
		t.Fatalf("docx writer must not run")
	}
}

func TestReportCompileErrors(t *testing.T) {
	uc := NewReportUseCase("Title", &reportWriterFake{format: domain.ReportFormatDOCX, err: errors.New("zip")})

	if _, err := uc.Compile(context.Background(), &domain.Analysis{}, domain.ReportFormatDOCX); !domain.IsKind(err, domain.ErrNoClausesFound) {
		t.Fatalf("expected no-clauses error, got %v", err)
	}
	if _, err := uc.Compile(context.Background(), sampleAnalysis(), domain.ReportFormatXLSX); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing writer, got %v", err)
	}
	_, err := uc.Compile(context.Background(), sampleAnalysis(), domain.ReportFormatDOCX)
	if domain.StageOf(err) != domain.StageReport {
		t.Fatalf("expected report stage, got %q (%v)", domain.StageOf(err), err)
	}
}
