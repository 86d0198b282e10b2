package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	docxextractor "github.com/kirillkom/legal-clause-validator/internal/infrastructure/extractor/docx"
)

func sampleAnalysis() *domain.Analysis {
	return &domain.Analysis{
		Filename:     "nda.docx",
		DocumentType: "Confidentiality",
		TotalClauses: 2,
		Results: []domain.ClauseResult{
			{
				Clause:     domain.Clause{Index: 1, Text: "The Recipient shall protect Confidential Information & trade secrets."},
				Label:      "Confidentiality",
				Confidence: 0.9149,
				Suggestion: domain.Suggestion{Text: "The Recipient must protect all Confidential Information."},
			},
			{
				Clause:     domain.Clause{Index: 2, Text: "This Agreement is governed by the laws of <Delaware>."},
				Label:      "Governing Law",
				Confidence: 0.5,
				Suggestion: domain.SuggestionFailure(assert.AnError),
			},
		},
	}
}

func TestWriteProducesReadableDocument(t *testing.T) {
	data, err := NewWriter().Write(context.Background(), domain.DefaultReportTitle, sampleAnalysis())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	text, err := docxextractor.NewExtractor().Extract(context.Background(), domain.NewDocument("report.docx", data))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, domain.DefaultReportTitle))
	assert.Contains(t, text, "Clause 1 - Confidentiality (Confidence: 0.91)")
	assert.Contains(t, text, "Clause 2 - Governing Law (Confidence: 0.50)")
	assert.Contains(t, text, "Confidential Information & trade secrets.")
	assert.Contains(t, text, "laws of <Delaware>.")
	assert.Contains(t, text, domain.SuggestionErrorMarker)
	assert.Equal(t, 2, strings.Count(text, "Original Clause:"))
	assert.Equal(t, 2, strings.Count(text, "Suggested Rewrite:"))
	assert.Equal(t, 2, strings.Count(text, separator))
}

func TestWriteUsesStyles(t *testing.T) {
	data, err := NewWriter().Write(context.Background(), "Report", sampleAnalysis())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := map[string]*zip.File{}
	for _, f := range zr.File {
		names[f.Name] = f
	}
	for _, part := range []string{"[Content_Types].xml", "word/document.xml", "word/styles.xml"} {
		require.Contains(t, names, part)
	}

	rc, err := names["word/document.xml"].Open()
	require.NoError(t, err)
	defer rc.Close()
	var doc bytes.Buffer
	_, err = doc.ReadFrom(rc)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(doc.String(), `w:val="Heading2"`))
	assert.Equal(t, 4, strings.Count(doc.String(), `w:val="IntenseQuote"`))
	assert.Equal(t, 1, strings.Count(doc.String(), `w:val="Title"`))
}

func TestWriteHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewWriter().Write(ctx, "Report", sampleAnalysis())
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteKeepsEveryLineOfMultilineClause(t *testing.T) {
	analysis := sampleAnalysis()
	analysis.Results[0].Clause.Text = "Page one ends with the Recipient.\nPage two continues the obligation."

	data, err := NewWriter().Write(context.Background(), "Report", analysis)
	require.NoError(t, err)

	text, err := docxextractor.NewExtractor().Extract(context.Background(), domain.NewDocument("report.docx", data))
	require.NoError(t, err)
	assert.Contains(t, text, "Page one ends with the Recipient.")
	assert.Contains(t, text, "Page two continues the obligation.")
}
