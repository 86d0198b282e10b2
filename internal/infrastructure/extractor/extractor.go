package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/core/ports"
)

// Dispatcher picks the extractor registered for the document kind.
type Dispatcher struct {
	byKind map[domain.DocumentKind]ports.TextExtractor
}

func NewDispatcher(pdf, docx ports.TextExtractor) *Dispatcher {
	byKind := make(map[domain.DocumentKind]ports.TextExtractor, 2)
	if pdf != nil {
		byKind[domain.KindPDF] = pdf
	}
	if docx != nil {
		byKind[domain.KindDOCX] = docx
	}
	return &Dispatcher{byKind: byKind}
}

// Extract returns "" for kinds without an extractor; the legal filter rejects it downstream.
func (d *Dispatcher) Extract(ctx context.Context, doc domain.Document) (string, error) {
	extractor, ok := d.byKind[doc.Kind]
	if !ok {
		slog.Warn("unsupported_document_kind", "filename", doc.Filename, "kind", string(doc.Kind))
		return "", nil
	}
	text, err := extractor.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", doc.Kind, err)
	}
	return text, nil
}
