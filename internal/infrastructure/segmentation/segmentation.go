package segmentation

import (
	"fmt"
	"strings"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/core/ports"
)

const (
	ModelPunktEnglish = "punkt-english"
	ModelRules        = "rules"
)

// New loads the named sentence model. Load failures are model initialization errors.
// Phrases in keepTogether that contain an abbreviation ("U.S. Citizenship ...")
// are never split across two sentences.
func New(model string, keepTogether ...string) (ports.SentenceSegmenter, error) {
	var seg ports.SentenceSegmenter
	switch strings.ToLower(strings.TrimSpace(model)) {
	case "", ModelPunktEnglish:
		punkt, err := NewPunkt()
		if err != nil {
			return nil, domain.WrapError(domain.ErrModelInitialization, "load punkt model", err)
		}
		seg = punkt
	case ModelRules:
		seg = NewRules()
	default:
		return nil, domain.WrapError(domain.ErrModelInitialization, "load segmentation model", fmt.Errorf("unknown model %q", model))
	}

	phrases := abbreviatedPhrases(keepTogether)
	if len(phrases) == 0 {
		return seg, nil
	}
	return &phraseKeeper{next: seg, phrases: phrases}, nil
}

type phraseKeeper struct {
	next    ports.SentenceSegmenter
	phrases []string
}

func (k *phraseKeeper) Segment(text string) []domain.Span {
	return joinSplitPhrases(text, k.next.Segment(text), k.phrases)
}

func abbreviatedPhrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		phrase = strings.TrimSpace(phrase)
		if strings.Contains(phrase, ". ") {
			out = append(out, phrase)
		}
	}
	return out
}

// joinSplitPhrases merges neighbouring spans when one of phrases starts in the
// first and ends in the second. Matching ignores case.
func joinSplitPhrases(text string, spans []domain.Span, phrases []string) []domain.Span {
	out := make([]domain.Span, 0, len(spans))
	for _, span := range spans {
		if n := len(out); n > 0 && crossesBoundary(text, out[n-1], span, phrases) {
			out[n-1].End = span.End
			continue
		}
		out = append(out, span)
	}
	return out
}

func crossesBoundary(text string, prev, next domain.Span, phrases []string) bool {
	for _, phrase := range phrases {
		for i := prev.Start; i < prev.End; i++ {
			end := i + len(phrase)
			if end <= next.Start || end > len(text) {
				continue
			}
			if strings.EqualFold(text[i:end], phrase) {
				return true
			}
		}
	}
	return false
}
