package ports

import (
	"context"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

// TextExtractor converts a document container into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.Document) (string, error)
}

// SentenceSegmenter splits text into ordered sentence spans.
type SentenceSegmenter interface {
	Segment(text string) []domain.Span
}

// ClauseClassifier assigns a label from a fixed vocabulary to a clause.
type ClauseClassifier interface {
	Classify(ctx context.Context, text string) (domain.Classification, error)
	Labels() []string
}

// TextGenerator is a remote generative text service.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ReportWriter renders clause results into one report format.
type ReportWriter interface {
	Format() domain.ReportFormat
	Write(ctx context.Context, title string, analysis *domain.Analysis) ([]byte, error)
}

// AnalysisEventPublisher announces finished analyses.
type AnalysisEventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, event domain.AnalysisCompleted) error
}
