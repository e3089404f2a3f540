package genai

import (
	"context"
	"errors"
	"log"
)

// TextGenerator is the capability the plan gateway is polymorphic over.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ErrAllVariantsFailed is returned by a chain when every variant errored.
var ErrAllVariantsFailed = errors.New("all text generation variants failed")

// Chain tries an ordered list of generators and returns the first success.
// Per-variant failures are logged and absorbed; only total exhaustion
// surfaces as an error.
type Chain struct {
	variants []TextGenerator
}

// NewChain builds a fallback chain over the given variants, tried in order.
func NewChain(variants ...TextGenerator) *Chain {
	return &Chain{variants: variants}
}

// GenerateText runs the chain. First non-empty success wins.
func (c *Chain) GenerateText(ctx context.Context, prompt string) (string, error) {
	var lastErr error = ErrAllVariantsFailed
	for _, v := range c.variants {
		text, err := v.GenerateText(ctx, prompt)
		if err == nil && text != "" {
			return text, nil
		}
		if err == nil {
			err = errors.New("generator returned empty text")
		}
		log.Printf("WARN: text generation variant failed, falling through: %v", err)
		lastErr = err
	}
	return "", lastErr
}
