package ports

import (
	"context"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

// DocumentAnalyzer is the inbound contract for the clause pipeline.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, doc domain.Document) (*domain.Analysis, error)
}

// ReportCompiler turns a finished analysis into a downloadable artifact.
type ReportCompiler interface {
	Compile(ctx context.Context, analysis *domain.Analysis, format domain.ReportFormat) (*domain.Report, error)
}

// ClauseInspector classifies a single clause outside a document run.
type ClauseInspector interface {
	Classify(ctx context.Context, text string) (domain.Classification, error)
}
