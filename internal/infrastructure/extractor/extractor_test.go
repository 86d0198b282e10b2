package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

type staticExtractor struct {
	text string
	err  error
}

func (s staticExtractor) Extract(context.Context, domain.Document) (string, error) {
	return s.text, s.err
}

func TestDispatcherRoutesByKind(t *testing.T) {
	d := NewDispatcher(staticExtractor{text: "from pdf"}, staticExtractor{text: "from docx"})

	got, err := d.Extract(context.Background(), domain.NewDocument("Lease.PDF", nil))
	if err != nil || got != "from pdf" {
		t.Fatalf("pdf route: got %q, %v", got, err)
	}
	got, err = d.Extract(context.Background(), domain.NewDocument("nda.docx", nil))
	if err != nil || got != "from docx" {
		t.Fatalf("docx route: got %q, %v", got, err)
	}
}

func TestDispatcherUnknownKindIsEmpty(t *testing.T) {
	d := NewDispatcher(staticExtractor{text: "x"}, staticExtractor{text: "y"})

	got, err := d.Extract(context.Background(), domain.NewDocument("notes.txt", []byte("Agreement")))
	if err != nil || got != "" {
		t.Fatalf("expected empty text without error, got %q, %v", got, err)
	}
}

func TestDispatcherKeepsErrorKind(t *testing.T) {
	malformed := domain.WrapError(domain.ErrMalformedDocument, "read pdf", errors.New("bad header"))
	d := NewDispatcher(staticExtractor{err: malformed}, nil)

	_, err := d.Extract(context.Background(), domain.NewDocument("a.pdf", nil))
	if !domain.IsKind(err, domain.ErrMalformedDocument) {
		t.Fatalf("expected malformed kind, got %v", err)
	}
	if !strings.Contains(err.Error(), "extract pdf") {
		t.Fatalf("expected kind in message, got %v", err)
	}
}
