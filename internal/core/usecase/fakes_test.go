package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, domain.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// periodSegmenter ends a sentence after every '.' it sees.
type periodSegmenter struct{}

func (periodSegmenter) Segment(text string) []domain.Span {
	var spans []domain.Span
	start := 0
	for i, r := range text {
		if r == '.' {
			spans = append(spans, domain.Span{Start: start, End: i + 1})
			start = i + 1
		}
	}
	if start < len(text) {
		spans = append(spans, domain.Span{Start: start, End: len(text)})
	}
	return spans
}

type spanSegmenter struct {
	spans []domain.Span
}

func (f spanSegmenter) Segment(string) []domain.Span { return f.spans }

type classifierFake struct {
	mu     sync.Mutex
	labels map[string]domain.Classification
	delays map[string]time.Duration
	err    error
	calls  []string
}

func (f *classifierFake) Classify(ctx context.Context, text string) (domain.Classification, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if delay := f.delays[text]; delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.Classification{}, ctx.Err()
		}
	}
	if f.err != nil {
		return domain.Classification{}, f.err
	}
	if cls, ok := f.labels[text]; ok {
		return cls, nil
	}
	return domain.Classification{Label: "General", Confidence: 0.5}, nil
}

func (f *classifierFake) Labels() []string { return []string{"General"} }

type generatorFake struct {
	mu      sync.Mutex
	text    string
	err     error
	panic   any
	block   bool
	prompts []string
}

func (f *generatorFake) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.panic != nil {
		panic(f.panic)
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type publisherFake struct {
	events []domain.AnalysisCompleted
	err    error
}

func (f *publisherFake) PublishAnalysisCompleted(_ context.Context, event domain.AnalysisCompleted) error {
	f.events = append(f.events, event)
	return f.err
}

type reportWriterFake struct {
	format domain.ReportFormat
	data   []byte
	err    error
	title  string
}

func (f *reportWriterFake) Format() domain.ReportFormat { return f.format }

func (f *reportWriterFake) Write(_ context.Context, title string, _ *domain.Analysis) ([]byte, error) {
	f.title = title
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func legalText(sentences ...string) string {
	return strings.Join(sentences, " ")
}
