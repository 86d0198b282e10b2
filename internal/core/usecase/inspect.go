package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/core/ports"
)

const maxInspectRunes = 8000

// ClassifyClauseUseCase labels one clause without running the document pipeline.
type ClassifyClauseUseCase struct {
	classifier ports.ClauseClassifier
}

func NewClassifyClauseUseCase(classifier ports.ClauseClassifier) *ClassifyClauseUseCase {
	return &ClassifyClauseUseCase{classifier: classifier}
}

func (uc *ClassifyClauseUseCase) Classify(ctx context.Context, text string) (domain.Classification, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Classification{}, domain.WrapError(domain.ErrInvalidInput, "classify clause", errors.New("text is required"))
	}
	if len([]rune(text)) > maxInspectRunes {
		return domain.Classification{}, domain.WrapError(domain.ErrInvalidInput, "classify clause", fmt.Errorf("text longer than %d characters", maxInspectRunes))
	}

	cls, err := uc.classifier.Classify(ctx, text)
	if err != nil {
		return domain.Classification{}, domain.InStage(domain.StageClassification, fmt.Errorf("classify clause: %w", err))
	}
	return cls, nil
}

func (uc *ClassifyClauseUseCase) Labels() []string {
	return uc.classifier.Labels()
}
