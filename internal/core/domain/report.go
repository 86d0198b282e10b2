package domain

import (
	"bytes"
	"fmt"
	"strings"
)

type ReportFormat string

const (
	ReportFormatDOCX ReportFormat = "docx"
	ReportFormatXLSX ReportFormat = "xlsx"
)

const DefaultReportTitle = "AI Legal Clause Validator Report"

func ParseReportFormat(raw string) (ReportFormat, error) {
	switch ReportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ReportFormatDOCX:
		return ReportFormatDOCX, nil
	case ReportFormatXLSX:
		return ReportFormatXLSX, nil
	default:
		return "", WrapError(ErrInvalidInput, "parse report format", fmt.Errorf("unsupported format %q", raw))
	}
}

func (f ReportFormat) Filename() string {
	return "AI_Clause_Report." + string(f)
}

func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
}

// Report is a compiled artifact; Content starts at offset 0.
type Report struct {
	Format      ReportFormat
	Filename    string
	ContentType string
	Content     *bytes.Reader
}

func NewReport(format ReportFormat, data []byte) *Report {
	return &Report{
		Format:      format,
		Filename:    format.Filename(),
		ContentType: format.ContentType(),
		Content:     bytes.NewReader(data),
	}
}
