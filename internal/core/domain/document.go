package domain

import (
	"path/filepath"
	"strings"
)

type DocumentKind string

const (
	KindUnknown DocumentKind = ""
	KindPDF     DocumentKind = "pdf"
	KindDOCX    DocumentKind = "docx"
)

// KindFromFilename maps the filename extension to a supported container kind.
func KindFromFilename(filename string) DocumentKind {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDOCX
	default:
		return KindUnknown
	}
}

// Document is an uploaded container. It lives for one pipeline run only.
type Document struct {
	Filename string       `json:"filename"`
	Kind     DocumentKind `json:"kind"`
	Content  []byte       `json:"-"`
}

func NewDocument(filename string, content []byte) Document {
	return Document{
		Filename: filename,
		Kind:     KindFromFilename(filename),
		Content:  content,
	}
}
