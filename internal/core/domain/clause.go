package domain

import (
	"fmt"
	"time"
)

// UnknownDocumentType is the verdict for an analysis without clauses.
const UnknownDocumentType = "Unknown"

// SuggestionErrorMarker prefixes the fallback text of a failed suggestion.
const SuggestionErrorMarker = "⚠️ Suggestion Error: "

// Span is a byte range [Start, End) inside extracted text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type Clause struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Suggestion carries either rewritten text or the reason the service could not provide one.
type Suggestion struct {
	Text          string `json:"text,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

func SuggestionFailure(err error) Suggestion {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return Suggestion{FailureReason: reason}
}

func (s Suggestion) Failed() bool {
	return s.FailureReason != ""
}

// Display is what gets rendered to users and reports.
func (s Suggestion) Display() string {
	if s.Failed() {
		return SuggestionErrorMarker + s.FailureReason
	}
	return s.Text
}

type ClauseResult struct {
	Clause     Clause     `json:"clause"`
	Label      string     `json:"label"`
	Confidence float64    `json:"confidence"`
	Suggestion Suggestion `json:"suggestion"`
}

// Heading is the per-clause title used by every report format.
func (r ClauseResult) Heading() string {
	return fmt.Sprintf("Clause %d - %s (Confidence: %.2f)", r.Clause.Index, r.Label, r.Confidence)
}

type Analysis struct {
	ID           string         `json:"id"`
	Filename     string         `json:"filename"`
	Kind         DocumentKind   `json:"kind"`
	DocumentType string         `json:"document_type"`
	TotalClauses int            `json:"total_clauses"`
	Indicators   []string       `json:"indicators"`
	Results      []ClauseResult `json:"clauses"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (a *Analysis) FailedSuggestions() int {
	if a == nil {
		return 0
	}
	failed := 0
	for _, result := range a.Results {
		if result.Suggestion.Failed() {
			failed++
		}
	}
	return failed
}

// AnalysisCompleted is the event emitted after a successful analysis.
type AnalysisCompleted struct {
	AnalysisID        string    `json:"analysis_id"`
	Filename          string    `json:"filename"`
	DocumentType      string    `json:"document_type"`
	TotalClauses      int       `json:"total_clauses"`
	FailedSuggestions int       `json:"failed_suggestions"`
	CompletedAt       time.Time `json:"completed_at"`
}

func (a *Analysis) CompletedEvent(now time.Time) AnalysisCompleted {
	return AnalysisCompleted{
		AnalysisID:        a.ID,
		Filename:          a.Filename,
		DocumentType:      a.DocumentType,
		TotalClauses:      a.TotalClauses,
		FailedSuggestions: a.FailedSuggestions(),
		CompletedAt:       now.UTC(),
	}
}
