package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract joins every page's plain text with "\n" in page order. Null pages
// contribute an empty line.
func (e *Extractor) Extract(ctx context.Context, doc domain.Document) (text string, err error) {
	// The decoder panics on some corrupt streams.
	defer func() {
		if recovered := recover(); recovered != nil {
			text = ""
			err = domain.WrapError(domain.ErrMalformedDocument, "read pdf", fmt.Errorf("decoder panic: %v", recovered))
		}
	}()

	if len(doc.Content) == 0 {
		return "", domain.WrapError(domain.ErrMalformedDocument, "read pdf", errors.New("empty file"))
	}

	reader, err := pdf.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return "", domain.WrapError(domain.ErrMalformedDocument, "open pdf", err)
	}

	totalPages := reader.NumPage()
	pages := make([]string, 0, totalPages)
	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", domain.WrapError(domain.ErrMalformedDocument, "read pdf", fmt.Errorf("page %d: %w", pageIndex, err))
		}
		pages = append(pages, pageText)
	}

	text = strings.Join(pages, "\n")
	slog.Debug("pdf_extracted", "filename", doc.Filename, "pages", totalPages, "text_length", len(text))
	return text, nil
}
