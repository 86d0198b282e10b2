package segmentation

import (
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

// Punkt wraps the pre-trained English Punkt model. The tokenizer holds no
// per-call state, so one instance serves all requests.
type Punkt struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewPunkt() (*Punkt, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &Punkt{tokenizer: tokenizer}, nil
}

// Segment locates every tokenized sentence in text, so spans stay valid byte
// offsets even when the tokenizer normalizes whitespace.
func (p *Punkt) Segment(text string) []domain.Span {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	tokens := p.tokenizer.Tokenize(text)
	spans := make([]domain.Span, 0, len(tokens))
	cursor := 0
	for _, token := range tokens {
		sentence := strings.TrimSpace(token.Text)
		if sentence == "" {
			continue
		}
		offset := strings.Index(text[cursor:], sentence)
		if offset < 0 {
			continue
		}
		start := cursor + offset
		end := start + len(sentence)
		spans = append(spans, domain.Span{Start: start, End: end})
		cursor = end
	}
	return spans
}
