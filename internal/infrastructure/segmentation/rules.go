package segmentation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

// Rules splits after '.', '!' or '?' followed by whitespace, and at line breaks.
// It has no abbreviation handling.
type Rules struct {
	// SplitOnNewline also ends a sentence at a single line break.
	SplitOnNewline bool
}

func NewRules() *Rules {
	return &Rules{SplitOnNewline: true}
}

func (r *Rules) Segment(text string) []domain.Span {
	if text == "" {
		return nil
	}

	var spans []domain.Span
	start := 0
	emit := func(end int) {
		if strings.TrimSpace(text[start:end]) != "" {
			spans = append(spans, domain.Span{Start: start, End: end})
		}
		start = end
	}

	for i := 0; i < len(text); {
		ch, size := utf8.DecodeRuneInString(text[i:])
		next := i + size
		switch {
		case ch == '\n' && r.SplitOnNewline:
			emit(next)
		case ch == '.' || ch == '!' || ch == '?':
			for next < len(text) && (text[next] == '"' || text[next] == '\'' || text[next] == ')') {
				next++
			}
			if next == len(text) {
				emit(next)
			} else if following, _ := utf8.DecodeRuneInString(text[next:]); unicode.IsSpace(following) {
				emit(next)
			}
		}
		i = next
	}
	emit(len(text))
	return spans
}
