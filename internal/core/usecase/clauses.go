package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/core/ports"
)

const DefaultMinClauseLength = 20

// SegmentClauses keeps trimmed sentence spans longer than minLength runes.
// Indices are 1-based and only count retained clauses.
func SegmentClauses(segmenter ports.SentenceSegmenter, text string, minLength int) []domain.Clause {
	if minLength < 0 {
		minLength = DefaultMinClauseLength
	}

	spans := segmenter.Segment(text)
	clauses := make([]domain.Clause, 0, len(spans))
	lastEnd := 0
	for _, span := range spans {
		if span.Start < 0 || span.End > len(text) || span.Start >= span.End {
			continue
		}
		if span.Start < lastEnd {
			// Overlapping or out-of-order spans would break document order.
			continue
		}

		start, end := trimSpan(text, span.Start, span.End)
		if start >= end {
			continue
		}
		clauseText := text[start:end]
		if utf8.RuneCountInString(clauseText) <= minLength {
			continue
		}

		clauses = append(clauses, domain.Clause{
			Index: len(clauses) + 1,
			Text:  clauseText,
			Start: start,
			End:   end,
		})
		lastEnd = end
	}
	return clauses
}

func trimSpan(text string, start, end int) (int, int) {
	segment := text[start:end]
	left := len(segment) - len(strings.TrimLeftFunc(segment, unicode.IsSpace))
	right := len(strings.TrimRightFunc(segment, unicode.IsSpace))
	if left >= right {
		return start, start
	}
	return start + left, start + right
}
