package summarize

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"
)

// signalProbe maps literal substrings to the signal they indicate.
// Probes are tested in this fixed order.
type signalProbe struct {
	needles []string
	signal  string
}

var signalProbes = []signalProbe{
	{[]string{"blog"}, "Blog exists"},
	{[]string{"career", "hiring", "jobs"}, "Hiring page"},
	{[]string{"docs", "documentation"}, "Documentation"},
	{[]string{"api"}, "Has API"},
	{[]string{"pricing", "price"}, "Pricing page"},
	{[]string{"contact", "about"}, "Contact page"},
	{[]string{"demo"}, "Demo available"},
}

// fallbackKeywords is used when the text yields no extractable terms.
var fallbackKeywords = []string{"technology", "software", "platform"}

// Heuristic is the deterministic extractor used when no LLM credential is
// configured or the LLM call fails. It never returns an error.
type Heuristic struct{}

// Name implements Strategy.
func (Heuristic) Name() string { return "heuristic" }

// Summarize implements Strategy.
func (Heuristic) Summarize(_ context.Context, text string) (*Summary, error) {
	return extractHeuristic(text), nil
}

func extractHeuristic(text string) *Summary {
	return &Summary{
		Summary:  headSummary(text),
		Bullets:  headBullets(text),
		Keywords: extractKeywords(text),
		Signals:  extractSignals(text),
	}
}

// extractSignals scans for known substrings; each matching probe
// contributes its signal once, in probe order.
func extractSignals(text string) []string {
	lower := strings.ToLower(text)

	var signals []string
	for _, p := range signalProbes {
		for _, needle := range p.needles {
			if strings.Contains(lower, needle) {
				signals = append(signals, p.signal)
				break
			}
		}
	}
	if len(signals) == 0 {
		return []string{"Website found"}
	}
	return signals
}

// head cuts text to at most n bytes without splitting a multibyte rune.
func head(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}

// headSummary is the first 200 characters of the text plus an ellipsis.
func headSummary(text string) string {
	return head(text, 200) + "..."
}

// headBullets splits the first 500 characters on sentence boundaries and
// keeps up to three fragments.
func headBullets(text string) []string {
	text = head(text, 500)
	parts := strings.Split(text, ". ")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	bullets := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			bullets = append(bullets, trimmed)
		}
	}
	return bullets
}

var stopwords = map[string]bool{
	"about": true, "after": true, "also": true, "been": true, "before": true,
	"being": true, "between": true, "both": true, "build": true, "came": true,
	"come": true, "could": true, "does": true, "each": true, "every": true,
	"from": true, "have": true, "here": true, "into": true, "just": true,
	"like": true, "made": true, "make": true, "many": true, "more": true,
	"most": true, "much": true, "need": true, "only": true, "other": true,
	"over": true, "said": true, "same": true, "should": true, "since": true,
	"some": true, "such": true, "than": true, "that": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "through": true, "under": true, "very": true,
	"well": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "will": true, "with": true, "would": true,
	"your": true, "yours": true, "using": true, "learn": true, "read": true,
}

// extractKeywords returns up to ten of the most frequent non-stopword
// terms of four or more letters, most frequent first; ties keep first
// appearance order. Falls back to a generic pool when nothing qualifies.
func extractKeywords(text string) []string {
	lower := strings.ToLower(text)

	type term struct {
		word  string
		count int
		first int
	}

	counts := make(map[string]*term)
	var order []string

	word := strings.Builder{}
	flush := func(pos int) {
		w := word.String()
		word.Reset()
		if len(w) < 4 || stopwords[w] {
			return
		}
		if t, ok := counts[w]; ok {
			t.count++
			return
		}
		counts[w] = &term{word: w, count: 1, first: pos}
		order = append(order, w)
	}

	for i, r := range lower {
		if r >= 'a' && r <= 'z' {
			word.WriteRune(r)
		} else {
			flush(i)
		}
	}
	flush(len(lower))

	if len(order) == 0 {
		return fallbackKeywords
	}

	terms := make([]*term, 0, len(counts))
	for _, w := range order {
		terms = append(terms, counts[w])
	}
	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].count != terms[j].count {
			return terms[i].count > terms[j].count
		}
		return terms[i].first < terms[j].first
	})

	n := len(terms)
	if n > 10 {
		n = 10
	}
	keywords := make([]string, n)
	for i := range n {
		keywords[i] = terms[i].word
	}
	return keywords
}
