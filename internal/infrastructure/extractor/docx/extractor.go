package docx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"code.sajari.com/docconv/v2"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

const mimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns paragraph texts in document order, one per line.
func (e *Extractor) Extract(ctx context.Context, doc domain.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(doc.Content) == 0 {
		return "", domain.WrapError(domain.ErrMalformedDocument, "read docx", errors.New("empty file"))
	}

	result, err := docconv.Convert(bytes.NewReader(doc.Content), mimeType, false)
	if err != nil {
		return "", domain.WrapError(domain.ErrMalformedDocument, "read docx", err)
	}

	text := normalizeParagraphs(result.Body)
	slog.Debug("docx_extracted", "filename", doc.Filename, "text_length", len(text))
	return text, nil
}

func normalizeParagraphs(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRightFunc(line, func(r rune) bool { return r == ' ' || r == '\t' })
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
