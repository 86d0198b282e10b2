package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/core/ports"
)

type ReportUseCase struct {
	title   string
	writers map[domain.ReportFormat]ports.ReportWriter
}

func NewReportUseCase(title string, writers ...ports.ReportWriter) *ReportUseCase {
	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultReportTitle
	}
	byFormat := make(map[domain.ReportFormat]ports.ReportWriter, len(writers))
	for _, writer := range writers {
		if writer == nil {
			continue
		}
		byFormat[writer.Format()] = writer
	}
	return &ReportUseCase{
		title:   title,
		writers: byFormat,
	}
}

func (uc *ReportUseCase) Compile(ctx context.Context, analysis *domain.Analysis, format domain.ReportFormat) (*domain.Report, error) {
	if analysis == nil || len(analysis.Results) == 0 {
		return nil, domain.WrapError(domain.ErrNoClausesFound, "compile report", errors.New("analysis has no clauses"))
	}

	writer, ok := uc.writers[format]
	if !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "compile report", fmt.Errorf("no writer for format %q", format))
	}

	data, err := writer.Write(ctx, uc.title, analysis)
	if err != nil {
		return nil, domain.InStage(domain.StageReport, fmt.Errorf("write %s report: %w", format, err))
	}
	if len(data) == 0 {
		return nil, domain.InStage(domain.StageReport, fmt.Errorf("write %s report: empty output", format))
	}
	return domain.NewReport(format, data), nil
}
