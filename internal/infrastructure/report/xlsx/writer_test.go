package xlsx

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

func TestWriteClausesAndSummary(t *testing.T) {
	analysis := &domain.Analysis{
		Filename:     "lease.pdf",
		DocumentType: "Lease",
		TotalClauses: 2,
		Results: []domain.ClauseResult{
			{
				Clause:     domain.Clause{Index: 1, Text: "The Tenant shall pay rent monthly."},
				Label:      "Lease",
				Confidence: 0.876,
				Suggestion: domain.Suggestion{Text: "Rent is payable monthly in advance."},
			},
			{
				Clause:     domain.Clause{Index: 2, Text: "The Landlord shall repair the roof."},
				Label:      "Maintenance",
				Confidence: 0.4,
				Suggestion: domain.Suggestion{FailureReason: "quota exceeded"},
			},
		},
	}

	data, err := NewWriter().Write(context.Background(), "My Report", analysis)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{clausesSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(clausesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, clauseHeaders, rows[0])
	assert.Equal(t, []string{"1", "Lease", "0.88", "The Tenant shall pay rent monthly.", "Rent is payable monthly in advance.", "ok"}, rows[1])
	assert.Equal(t, domain.SuggestionErrorMarker+"quota exceeded", rows[2][4])
	assert.Equal(t, "failed", rows[2][5])

	docType, err := f.GetCellValue(summarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Lease", docType)
	title, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "My Report", title)
}

func TestWriteMarksOversizedClause(t *testing.T) {
	long := strings.Repeat("x", 40000)
	analysis := &domain.Analysis{
		Filename:     "scan.pdf",
		DocumentType: "Termination",
		TotalClauses: 1,
		Results: []domain.ClauseResult{
			{
				Clause:     domain.Clause{Index: 1, Text: long},
				Label:      "Termination",
				Confidence: 0.7,
				Suggestion: domain.Suggestion{Text: "Shorter."},
			},
		},
	}

	data, err := NewWriter().Write(context.Background(), "Report", analysis)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	clause, err := f.GetCellValue(clausesSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, excelize.TotalCellChars, utf8.RuneCountInString(clause))
	assert.True(t, strings.HasSuffix(clause, truncatedMarker))

	status, err := f.GetCellValue(clausesSheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "ok (truncated)", status)
}

func TestFitCellKeepsShortText(t *testing.T) {
	text, cut := fitCell("The Tenant shall pay rent monthly.")
	assert.False(t, cut)
	assert.Equal(t, "The Tenant shall pay rent monthly.", text)
}
