package xlsx

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

const (
	clausesSheet = "Clauses"
	summarySheet = "Summary"

	truncatedMarker = " [truncated]"
)

var clauseHeaders = []string{
	"Clause",
	"Label",
	"Confidence",
	"Original Clause",
	"Suggested Rewrite",
	"Suggestion Status",
}

type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Format() domain.ReportFormat { return domain.ReportFormatXLSX }

func (w *Writer) Write(ctx context.Context, title string, analysis *domain.Analysis) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), clausesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	activeIndex, _ := f.GetSheetIndex(clausesSheet)
	f.SetActiveSheet(activeIndex)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	confidenceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("confidence style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, fmt.Errorf("wrap style: %w", err)
	}

	for i, h := range clauseHeaders {
		if err := setCell(f, clausesSheet, i+1, 1, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(clausesSheet, "A1", "F1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}

	row := 2
	for _, result := range analysis.Results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		clauseText, clauseCut := fitCell(result.Clause.Text)
		suggestion, suggestionCut := fitCell(result.Suggestion.Display())
		status := "ok"
		if result.Suggestion.Failed() {
			status = "failed"
		}
		if clauseCut || suggestionCut {
			status += " (truncated)"
		}

		values := []any{result.Clause.Index, result.Label, result.Confidence, clauseText, suggestion, status}
		for col, v := range values {
			if err := setCell(f, clausesSheet, col+1, row, v); err != nil {
				return nil, err
			}
		}
		row++
	}
	if last := row - 1; last >= 2 {
		if err := f.SetCellStyle(clausesSheet, "C2", fmt.Sprintf("C%d", last), confidenceStyle); err != nil {
			return nil, fmt.Errorf("style confidence column: %w", err)
		}
		if err := f.SetCellStyle(clausesSheet, "D2", fmt.Sprintf("E%d", last), wrapStyle); err != nil {
			return nil, fmt.Errorf("style text columns: %w", err)
		}
	}

	for _, width := range []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 8},
		{"B", "B", 28},
		{"C", "C", 12},
		{"D", "E", 70},
		{"F", "F", 18},
	} {
		if err := f.SetColWidth(clausesSheet, width.from, width.to, width.width); err != nil {
			return nil, fmt.Errorf("set column width %s: %w", width.from, err)
		}
	}

	summary := [][2]any{
		{"Report", title},
		{"Document", analysis.Filename},
		{"Document Type", analysis.DocumentType},
		{"Total Clauses", analysis.TotalClauses},
		{"Failed Suggestions", analysis.FailedSuggestions()},
	}
	for i, pair := range summary {
		value := pair[1]
		if text, ok := value.(string); ok {
			value, _ = fitCell(text)
		}
		if err := setCell(f, summarySheet, 1, i+1, pair[0]); err != nil {
			return nil, err
		}
		if err := setCell(f, summarySheet, 2, i+1, value); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), headerStyle); err != nil {
		return nil, fmt.Errorf("style summary labels: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return nil, fmt.Errorf("set summary width: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 48); err != nil {
		return nil, fmt.Errorf("set summary width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// fitCell cuts text to the spreadsheet cell limit, ending it with truncatedMarker.
func fitCell(text string) (string, bool) {
	if utf8.RuneCountInString(text) <= excelize.TotalCellChars {
		return text, false
	}
	keep := excelize.TotalCellChars - utf8.RuneCountInString(truncatedMarker)
	return string([]rune(text)[:keep]) + truncatedMarker, true
}
