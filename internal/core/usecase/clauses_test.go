package usecase

import (
	"strings"
	"testing"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

func TestSegmentClausesFiltersShortSentencesAndNumbersRetained(t *testing.T) {
	text := "Short one. The Supplier shall deliver the goods on time. Ok. The Buyer shall pay within thirty days."

	clauses := SegmentClauses(periodSegmenter{}, text, DefaultMinClauseLength)
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d: %+v", len(clauses), clauses)
	}
	if clauses[0].Index != 1 || clauses[1].Index != 2 {
		t.Fatalf("expected contiguous 1-based indices, got %d and %d", clauses[0].Index, clauses[1].Index)
	}
	if clauses[0].Text != "The Supplier shall deliver the goods on time." {
		t.Fatalf("unexpected first clause %q", clauses[0].Text)
	}
	for _, clause := range clauses {
		if text[clause.Start:clause.End] != clause.Text {
			t.Fatalf("offsets do not address clause text: %+v", clause)
		}
		if clause.Text != strings.TrimSpace(clause.Text) {
			t.Fatalf("clause text is not trimmed: %q", clause.Text)
		}
	}
	if clauses[0].End > clauses[1].Start {
		t.Fatalf("clauses out of document order")
	}
}

func TestSegmentClausesLengthBoundary(t *testing.T) {
	exact := strings.Repeat("a", 20)
	longer := strings.Repeat("b", 21)
	text := exact + "\n" + longer

	clauses := SegmentClauses(spanSegmenter{spans: []domain.Span{
		{Start: 0, End: 20},
		{Start: 20, End: len(text)},
	}}, text, 20)
	if len(clauses) != 1 {
		t.Fatalf("expected only the 21-character clause, got %+v", clauses)
	}
	if clauses[0].Text != longer || clauses[0].Start != 21 {
		t.Fatalf("unexpected clause %+v", clauses[0])
	}
}

func TestSegmentClausesCountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("é", 20)
	clauses := SegmentClauses(spanSegmenter{spans: []domain.Span{{Start: 0, End: len(text)}}}, text, 20)
	if len(clauses) != 0 {
		t.Fatalf("20 runes must not pass a minimum of 20, got %+v", clauses)
	}
}

func TestSegmentClausesSkipsInvalidSpans(t *testing.T) {
	text := "The Licensee shall not sublicense the software."
	clauses := SegmentClauses(spanSegmenter{spans: []domain.Span{
		{Start: -1, End: 5},
		{Start: 10, End: 5},
		{Start: 0, End: len(text) + 10},
		{Start: 0, End: len(text)},
		{Start: 4, End: len(text)},
	}}, text, 20)
	if len(clauses) != 1 {
		t.Fatalf("expected one valid clause, got %+v", clauses)
	}
}

func TestSegmentClausesEmptyText(t *testing.T) {
	if clauses := SegmentClauses(periodSegmenter{}, "", 20); len(clauses) != 0 {
		t.Fatalf("expected no clauses, got %+v", clauses)
	}
}
