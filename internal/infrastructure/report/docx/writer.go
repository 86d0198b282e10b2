package docx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

const (
	separator = "--------------------------------------------------"

	labelStyle = "IntenseQuote"
)

// Writer renders an analysis as a Word document built on the godocx default
// template, which carries the Title, Heading 2 and Intense Quote styles.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Format() domain.ReportFormat { return domain.ReportFormatDOCX }

func (w *Writer) Write(ctx context.Context, title string, analysis *domain.Analysis) ([]byte, error) {
	document, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("new docx document: %w", err)
	}

	if _, err := document.AddHeading(title, 0); err != nil {
		return nil, fmt.Errorf("add title: %w", err)
	}
	for _, result := range analysis.Results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := document.AddHeading(result.Heading(), 2); err != nil {
			return nil, fmt.Errorf("add heading for clause %d: %w", result.Clause.Index, err)
		}
		document.AddParagraph("Original Clause:").Style(labelStyle)
		addText(document, result.Clause.Text)
		document.AddParagraph("Suggested Rewrite:").Style(labelStyle)
		addText(document, result.Suggestion.Display())
		document.AddParagraph("")
		document.AddParagraph(separator)
	}

	var buf bytes.Buffer
	if err := document.Write(&buf); err != nil {
		return nil, fmt.Errorf("save docx document: %w", err)
	}
	return buf.Bytes(), nil
}

// addText writes one paragraph per line; a w:t run does not keep newlines.
func addText(document *docx.RootDoc, text string) {
	for _, line := range strings.Split(text, "\n") {
		document.AddParagraph(line)
	}
}
