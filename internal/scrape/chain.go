package scrape

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Chain tries scrapers in priority order, returning the first non-empty
// text. There are no retries within a tier; a failed scraper simply hands
// off to the next one.
type Chain struct {
	scrapers []Scraper
	maxChars int
}

// NewChain creates a Chain over the given scrapers. Text is truncated to
// maxChars before being returned.
func NewChain(maxChars int, scrapers ...Scraper) *Chain {
	return &Chain{scrapers: scrapers, maxChars: maxChars}
}

// Fetch tries each scraper in order and returns the first non-empty text,
// truncated to the chain's limit. Returns ErrContentUnavailable when all
// scrapers fail or produce empty text.
func (c *Chain) Fetch(ctx context.Context, targetURL string) (string, error) {
	for _, s := range c.scrapers {
		text, err := s.Fetch(ctx, targetURL)
		if err != nil {
			zap.L().Debug("scrape: scraper failed, trying next",
				zap.String("scraper", s.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			continue
		}
		if text == "" {
			continue
		}
		return truncate(text, c.maxChars), nil
	}
	return "", ErrContentUnavailable
}

// truncate cuts s to at most n bytes without splitting a multibyte rune.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
