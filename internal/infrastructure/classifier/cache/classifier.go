package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/core/ports"
)

// Classifier memoizes a deterministic classifier by clause text.
type Classifier struct {
	next  ports.ClauseClassifier
	cache *lru.Cache[string, domain.Classification]
}

// Wrap returns next unchanged when size is not positive.
func Wrap(next ports.ClauseClassifier, size int) (ports.ClauseClassifier, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[string, domain.Classification](size)
	if err != nil {
		return nil, fmt.Errorf("create classification cache: %w", err)
	}
	return &Classifier{next: next, cache: cache}, nil
}

func (c *Classifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	if cls, ok := c.cache.Get(text); ok {
		return cls, nil
	}
	cls, err := c.next.Classify(ctx, text)
	if err != nil {
		return domain.Classification{}, err
	}
	c.cache.Add(text, cls)
	return cls, nil
}

func (c *Classifier) Labels() []string { return c.next.Labels() }

func (c *Classifier) Len() int { return c.cache.Len() }
