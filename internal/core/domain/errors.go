package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTemporary         = errors.New("temporary failure")
	ErrMalformedDocument = errors.New("malformed document")
	ErrNotLegalDocument  = errors.New("not a legal document")
	ErrNoClausesFound    = errors.New("no clauses found")
	ErrSuggestionService = errors.New("suggestion service error")

	// ErrModelInitialization is fatal: a process holding it must not serve requests.
	ErrModelInitialization = errors.New("model initialization failed")
)

// Pipeline stages reported back to callers when a request is rejected.
const (
	StageExtraction     = "extraction"
	StageAdmissibility  = "admissibility"
	StageSegmentation   = "segmentation"
	StageClassification = "classification"
	StageReport         = "report"
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// StageOf names the pipeline stage an error belongs to, or "" when unknown.
func StageOf(err error) string {
	switch {
	case err == nil:
		return ""
	case IsKind(err, ErrMalformedDocument):
		return StageExtraction
	case IsKind(err, ErrNotLegalDocument):
		return StageAdmissibility
	case IsKind(err, ErrNoClausesFound):
		return StageSegmentation
	}

	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}

// StageError tags an otherwise untyped failure with the stage it happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func InStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
