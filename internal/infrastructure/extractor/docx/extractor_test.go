package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, p)
	}
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": contentTypes,
		"word/document.xml":   document,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractParagraphsInOrder(t *testing.T) {
	doc := domain.NewDocument("nda.docx", buildDOCX(t,
		"This Agreement is made between the parties.",
		"",
		"Confidential information stays confidential.",
	))

	text, err := NewExtractor().Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "This Agreement is made between the parties.\nConfidential information stays confidential.", text)
}

func TestExtractRejectsMalformedInput(t *testing.T) {
	for name, content := range map[string][]byte{
		"empty":   nil,
		"not zip": []byte("%PDF-1.4 not a docx"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewExtractor().Extract(context.Background(), domain.NewDocument("bad.docx", content))
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, domain.ErrMalformedDocument), "got %v", err)
		})
	}
}

func TestNormalizeParagraphs(t *testing.T) {
	assert.Equal(t, "a\nb", normalizeParagraphs("a  \r\n\r\nb\t\n"))
}
