package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/core/ports"
)

type AnalyzeOptions struct {
	MinClauseLength int
	// Workers bounds concurrent classify+suggest calls; 1 keeps the run sequential.
	Workers int
}

type AnalyzeDocumentUseCase struct {
	extractor  ports.TextExtractor
	filter     *LegalFilter
	segmenter  ports.SentenceSegmenter
	classifier ports.ClauseClassifier
	suggester  *SuggestionGenerator
	publisher  ports.AnalysisEventPublisher
	opts       AnalyzeOptions
	now        func() time.Time
}

func NewAnalyzeDocumentUseCase(
	extractor ports.TextExtractor,
	filter *LegalFilter,
	segmenter ports.SentenceSegmenter,
	classifier ports.ClauseClassifier,
	suggester *SuggestionGenerator,
	publisher ports.AnalysisEventPublisher,
	opts AnalyzeOptions,
) *AnalyzeDocumentUseCase {
	if filter == nil {
		filter = NewLegalFilter(nil, DefaultLegalKeywordThreshold)
	}
	if opts.MinClauseLength < 0 {
		opts.MinClauseLength = DefaultMinClauseLength
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &AnalyzeDocumentUseCase{
		extractor:  extractor,
		filter:     filter,
		segmenter:  segmenter,
		classifier: classifier,
		suggester:  suggester,
		publisher:  publisher,
		opts:       opts,
		now:        time.Now,
	}
}

func (uc *AnalyzeDocumentUseCase) Analyze(ctx context.Context, doc domain.Document) (*domain.Analysis, error) {
	start := uc.now()

	text, err := uc.extractText(ctx, doc)
	if err != nil {
		return nil, err
	}

	indicators, err := uc.admit(text)
	if err != nil {
		return nil, err
	}

	clauses, err := uc.segment(text)
	if err != nil {
		return nil, err
	}

	results, err := uc.processClauses(ctx, clauses)
	if err != nil {
		return nil, err
	}

	analysis := &domain.Analysis{
		ID:           uuid.NewString(),
		Filename:     doc.Filename,
		Kind:         doc.Kind,
		DocumentType: DetectDocumentType(classificationsOf(results)),
		TotalClauses: len(results),
		Indicators:   indicators,
		Results:      results,
		CreatedAt:    uc.now().UTC(),
	}

	slog.Info("analysis_completed",
		"analysis_id", analysis.ID,
		"filename", analysis.Filename,
		"document_type", analysis.DocumentType,
		"clauses", analysis.TotalClauses,
		"failed_suggestions", analysis.FailedSuggestions(),
		"duration_ms", float64(uc.now().Sub(start).Microseconds())/1000.0,
	)
	uc.publish(ctx, analysis)

	return analysis, nil
}

func (uc *AnalyzeDocumentUseCase) extractText(ctx context.Context, doc domain.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		if domain.IsKind(err, domain.ErrMalformedDocument) {
			return "", err
		}
		return "", domain.InStage(domain.StageExtraction, fmt.Errorf("extract text: %w", err))
	}
	return text, nil
}

func (uc *AnalyzeDocumentUseCase) admit(text string) ([]string, error) {
	indicators := uc.filter.Matches(text)
	if len(indicators) < uc.filter.Threshold() {
		return nil, domain.WrapError(
			domain.ErrNotLegalDocument,
			"legal filter",
			fmt.Errorf("found %d of %d required legal indicators", len(indicators), uc.filter.Threshold()),
		)
	}
	return indicators, nil
}

func (uc *AnalyzeDocumentUseCase) segment(text string) ([]domain.Clause, error) {
	clauses := SegmentClauses(uc.segmenter, text, uc.opts.MinClauseLength)
	if len(clauses) == 0 {
		return nil, domain.WrapError(
			domain.ErrNoClausesFound,
			"segment clauses",
			fmt.Errorf("no sentence longer than %d characters", uc.opts.MinClauseLength),
		)
	}
	return clauses, nil
}

// processClauses fans out per clause and writes each result into its own slot,
// so the output keeps clause order whatever the completion order.
func (uc *AnalyzeDocumentUseCase) processClauses(ctx context.Context, clauses []domain.Clause) ([]domain.ClauseResult, error) {
	results := make([]domain.ClauseResult, len(clauses))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uc.opts.Workers)
	for i, clause := range clauses {
		group.Go(func() error {
			result, err := uc.processClause(groupCtx, clause)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (uc *AnalyzeDocumentUseCase) processClause(ctx context.Context, clause domain.Clause) (domain.ClauseResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ClauseResult{}, err
	}

	cls, err := uc.classifier.Classify(ctx, clause.Text)
	if err != nil {
		return domain.ClauseResult{}, domain.InStage(
			domain.StageClassification,
			fmt.Errorf("classify clause %d: %w", clause.Index, err),
		)
	}

	return domain.ClauseResult{
		Clause:     clause,
		Label:      cls.Label,
		Confidence: cls.Confidence,
		Suggestion: uc.suggester.Suggest(ctx, clause.Text, cls.Label),
	}, nil
}

func (uc *AnalyzeDocumentUseCase) publish(ctx context.Context, analysis *domain.Analysis) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishAnalysisCompleted(ctx, analysis.CompletedEvent(uc.now())); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("analysis_event_publish_failed", "analysis_id", analysis.ID, "error", err)
	}
}

func classificationsOf(results []domain.ClauseResult) []domain.Classification {
	out := make([]domain.Classification, 0, len(results))
	for _, result := range results {
		out = append(out, domain.Classification{Label: result.Label, Confidence: result.Confidence})
	}
	return out
}
