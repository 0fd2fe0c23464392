package summarize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSignals_HiringOnly(t *testing.T) {
	signals := extractSignals("We are HIRING great engineers")
	assert.Equal(t, []string{"Hiring page"}, signals)
}

func TestExtractSignals_FixedOrder(t *testing.T) {
	// "demo" appears before "blog" in the text; probe order still wins.
	signals := extractSignals("Book a demo. Read our blog. See pricing.")
	assert.Equal(t, []string{"Blog exists", "Pricing page", "Demo available"}, signals)
}

func TestExtractSignals_Default(t *testing.T) {
	signals := extractSignals("nothing of interest here")
	assert.Equal(t, []string{"Website found"}, signals)
}

func TestExtractSignals_NeedleGroups(t *testing.T) {
	// Any needle of a group triggers its signal exactly once.
	signals := extractSignals("careers, jobs, hiring")
	assert.Equal(t, []string{"Hiring page"}, signals)
}

func TestHeadSummary(t *testing.T) {
	long := strings.Repeat("x", 300)
	sum := headSummary(long)
	assert.Len(t, sum, 203)
	assert.True(t, strings.HasSuffix(sum, "..."))

	assert.Equal(t, "short...", headSummary("short"))
}

func TestHeadSummary_MultibyteBoundary(t *testing.T) {
	// "€" is 3 bytes; the 200-byte cut falls inside a rune.
	sum := headSummary(strings.Repeat("€", 100))
	assert.True(t, utf8.ValidString(sum))
	assert.Len(t, sum, 198+3) // 66 whole runes plus the ellipsis

	bullets := headBullets(strings.Repeat("€", 200))
	require.Len(t, bullets, 1)
	assert.True(t, utf8.ValidString(bullets[0]))
}

func TestHeadBullets(t *testing.T) {
	text := "First point. Second point. Third point. Fourth point."
	bullets := headBullets(text)
	assert.Equal(t, []string{"First point", "Second point", "Third point"}, bullets)
}

func TestExtractKeywords_ContentDerived(t *testing.T) {
	text := "Payments infrastructure for payments companies. Payments processing and fraud detection infrastructure."
	keywords := extractKeywords(text)

	require.NotEmpty(t, keywords)
	assert.Equal(t, "payments", keywords[0])
	assert.Contains(t, keywords, "infrastructure")
	assert.NotContains(t, keywords, "and") // short words dropped
	assert.NotContains(t, keywords, "for")
}

func TestExtractKeywords_Fallback(t *testing.T) {
	assert.Equal(t, []string{"technology", "software", "platform"}, extractKeywords("a b c"))
}

func TestExtractKeywords_CapAtTen(t *testing.T) {
	words := []string{
		"alpha", "bravo", "charlie", "delta", "echoes", "foxtrot",
		"golfing", "hotel", "india", "juliet", "kilos", "limas",
	}
	text := strings.Join(words, " ")
	keywords := extractKeywords(text)
	assert.Len(t, keywords, 10)
}

func TestHeuristic_Summarize(t *testing.T) {
	sum, err := Heuristic{}.Summarize(t.Context(), "We build developer tooling. Our docs are great. Join us, we are hiring.")
	require.NoError(t, err)

	assert.NotEmpty(t, sum.Summary)
	assert.NotEmpty(t, sum.Bullets)
	assert.NotEmpty(t, sum.Keywords)
	assert.Equal(t, []string{"Hiring page", "Documentation"}, sum.Signals)
}
