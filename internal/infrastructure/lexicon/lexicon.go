package lexicon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

// Lexicon overrides the built-in legal indicators and, for prompt-based
// classifiers, supplies the label vocabulary.
type Lexicon struct {
	LegalIndicators []string `yaml:"legal_indicators"`
	Labels          []string `yaml:"labels"`
}

// DefaultLabels is used by prompt-based classifiers when no lexicon names labels.
var DefaultLabels = []string{
	"Confidentiality",
	"Governing Law",
	"Dispute Resolution",
	"Termination",
	"Indemnification",
	"Limitation of Liability",
	"Payment Terms",
	"Intellectual Property",
	"Warranties",
	"Employment Eligibility",
}

// Load reads path; an empty path yields an empty lexicon so callers fall back to defaults.
func Load(path string) (Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return Lexicon{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, domain.WrapError(domain.ErrModelInitialization, "load lexicon", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (Lexicon, error) {
	var lex Lexicon
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&lex); err != nil {
		if errors.Is(err, io.EOF) {
			return Lexicon{}, nil
		}
		return Lexicon{}, domain.WrapError(domain.ErrModelInitialization, "parse lexicon", err)
	}
	for i, indicator := range lex.LegalIndicators {
		if strings.TrimSpace(indicator) == "" {
			return Lexicon{}, domain.WrapError(domain.ErrModelInitialization, "parse lexicon", fmt.Errorf("legal_indicators[%d] is empty", i))
		}
	}
	return lex, nil
}

func (l Lexicon) LabelsOrDefault() []string {
	if len(l.Labels) == 0 {
		return DefaultLabels
	}
	return l.Labels
}
