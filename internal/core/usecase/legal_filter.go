package usecase

import "strings"

const DefaultLegalKeywordThreshold = 2

// DefaultLegalIndicators is the built-in vocabulary of phrases that mark legal text.
var DefaultLegalIndicators = []string{
	"Agreement",
	"Contract",
	"This Agreement",
	"Terms and Conditions",
	"Governing Law",
	"License",
	"Confidential",
	"Arbitration",
	"Obligations",
	"Responsibilities",
	"Verification",
	"Authorization",
	"Form I-9",
	"U.S. Citizenship and Immigration Services",
}

// LegalFilter admits text that contains enough distinct legal indicator phrases.
// A threshold of 0 admits every document.
type LegalFilter struct {
	indicators []string
	threshold  int
}

func NewLegalFilter(indicators []string, threshold int) *LegalFilter {
	if len(indicators) == 0 {
		indicators = DefaultLegalIndicators
	}
	if threshold < 0 {
		threshold = DefaultLegalKeywordThreshold
	}

	seen := make(map[string]struct{}, len(indicators))
	normalized := make([]string, 0, len(indicators))
	for _, indicator := range indicators {
		indicator = strings.TrimSpace(indicator)
		key := strings.ToLower(indicator)
		if indicator == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, indicator)
	}

	return &LegalFilter{
		indicators: normalized,
		threshold:  threshold,
	}
}

func (f *LegalFilter) Threshold() int { return f.threshold }

func (f *LegalFilter) Indicators() []string {
	return append([]string(nil), f.indicators...)
}

// Matches returns the distinct indicators present in text, in vocabulary order.
// Overlapping phrases count separately: "This Agreement" also matches "Agreement".
func (f *LegalFilter) Matches(text string) []string {
	lowered := strings.ToLower(text)
	out := make([]string, 0, len(f.indicators))
	for _, indicator := range f.indicators {
		if strings.Contains(lowered, strings.ToLower(indicator)) {
			out = append(out, indicator)
		}
	}
	return out
}

func (f *LegalFilter) Admit(text string) bool {
	return len(f.Matches(text)) >= f.threshold
}
