// Package summarize turns scraped page text into a structured company summary.
package summarize

import (
	"context"

	"go.uber.org/zap"
)

// Summary is the structured output of summarization.
type Summary struct {
	Summary  string   `json:"summary"`
	Bullets  []string `json:"bullets"`
	Keywords []string `json:"keywords"`
	Signals  []string `json:"signals"`
}

// Strategy produces a Summary from page text, or fails.
type Strategy interface {
	Summarize(ctx context.Context, text string) (*Summary, error)
	Name() string
}

// Chain tries strategies in order until one succeeds. The final strategy
// is expected to be the heuristic extractor, which cannot fail, so
// Summarize as a whole never fails.
type Chain struct {
	strategies []Strategy
}

// NewChain creates a Chain over the given strategies.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Summarize returns the first strategy's successful result. When every
// strategy fails it falls back to the heuristic extractor directly.
func (c *Chain) Summarize(ctx context.Context, text string) *Summary {
	for _, s := range c.strategies {
		sum, err := s.Summarize(ctx, text)
		if err != nil {
			zap.L().Debug("summarize: strategy failed, trying next",
				zap.String("strategy", s.Name()),
				zap.Error(err),
			)
			continue
		}
		return sum
	}
	return extractHeuristic(text)
}
