package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/core/ports"
)

const DefaultSuggestionTimeout = 30 * time.Second

// SuggestionGenerator asks a generative service for a clause rewrite. It never
// returns an error: failures are folded into the returned Suggestion.
type SuggestionGenerator struct {
	generator ports.TextGenerator
	timeout   time.Duration
}

func NewSuggestionGenerator(generator ports.TextGenerator, timeout time.Duration) *SuggestionGenerator {
	if timeout <= 0 {
		timeout = DefaultSuggestionTimeout
	}
	return &SuggestionGenerator{
		generator: generator,
		timeout:   timeout,
	}
}

func BuildSuggestionPrompt(category, clause string) string {
	return fmt.Sprintf(
		"The following clause is related to '%s'. Suggest a professional rewrite or improvement:\n\n%s",
		category,
		clause,
	)
}

func (g *SuggestionGenerator) Suggest(ctx context.Context, clause, category string) (suggestion domain.Suggestion) {
	defer func() {
		if recovered := recover(); recovered != nil {
			suggestion = g.failure(category, fmt.Errorf("generator panic: %v", recovered))
		}
	}()

	if g.generator == nil {
		return g.failure(category, errors.New("no text generator configured"))
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.generator.Generate(callCtx, BuildSuggestionPrompt(category, clause))
	if err != nil {
		// Only the per-call deadline is reported as a suggestion timeout.
		if ctx.Err() == nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded)) {
			err = fmt.Errorf("timed out after %s: %w", g.timeout, err)
		}
		return g.failure(category, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return g.failure(category, errors.New("empty response from text generator"))
	}
	return domain.Suggestion{Text: text}
}

func (g *SuggestionGenerator) failure(category string, err error) domain.Suggestion {
	wrapped := domain.WrapError(domain.ErrSuggestionService, "generate suggestion", err)
	slog.Warn("suggestion_failed", "category", category, "error", wrapped)
	return domain.SuggestionFailure(err)
}
