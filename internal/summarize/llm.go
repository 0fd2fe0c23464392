package summarize

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/scout-api/pkg/anthropic"
)

const analystSystemPrompt = `You are a VC analyst. Extract company information from the text provided.
Return JSON with exactly this structure:
{
  "summary": "1-2 sentence summary of what the company does",
  "bullets": ["3-6 bullet points about what they do"],
  "keywords": ["5-10 keywords"],
  "signals": ["2-4 signals like: blog exists, hiring page, docs, API, pricing page, etc."]
}
Reply with the JSON object only.`

// llmDefaults fills any field the model reply leaves absent.
var llmDefaults = Summary{
	Summary:  "Company data extracted from website.",
	Bullets:  []string{"Data extracted from company website"},
	Keywords: []string{"technology", "software"},
	Signals:  []string{"Website found"},
}

// LLM summarizes page text with a single Anthropic message call requesting
// a structured JSON reply.
type LLM struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
}

// NewLLM creates an LLM strategy.
func NewLLM(client anthropic.Client, model string, timeout time.Duration) *LLM {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LLM{client: client, model: model, timeout: timeout}
}

// Name implements Strategy.
func (l *LLM) Name() string { return "llm" }

// Summarize implements Strategy. A call or parse failure returns an error
// so the chain falls through to the heuristic extractor.
func (l *LLM) Summarize(ctx context.Context, text string) (*Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	resp, err := l.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     l.model,
		MaxTokens: 1024,
		System:    analystSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: "Extract company information from this website text:\n\n" + text},
		},
	})
	if err != nil {
		return nil, err
	}

	return parseReply(resp.Text())
}

// parseReply decodes the model's JSON reply, tolerating code fences, and
// substitutes defaults for absent fields.
func parseReply(reply string) (*Summary, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	var parsed struct {
		Summary  string   `json:"summary"`
		Bullets  []string `json:"bullets"`
		Keywords []string `json:"keywords"`
		Signals  []string `json:"signals"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return nil, eris.Wrap(err, "summarize: parse llm reply")
	}

	sum := Summary{
		Summary:  parsed.Summary,
		Bullets:  parsed.Bullets,
		Keywords: parsed.Keywords,
		Signals:  parsed.Signals,
	}
	if sum.Summary == "" {
		sum.Summary = llmDefaults.Summary
	}
	if len(sum.Bullets) == 0 {
		sum.Bullets = llmDefaults.Bullets
	}
	if len(sum.Keywords) == 0 {
		sum.Keywords = llmDefaults.Keywords
	}
	if len(sum.Signals) == 0 {
		sum.Signals = llmDefaults.Signals
	}
	return &sum, nil
}
