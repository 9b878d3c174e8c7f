// Package insight turns computed statistics into a short LLM-generated
// market commentary via the Cerebras chat-completions API. Generation is a
// total operation: every failure mode maps to a renderable string.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gold-silver-alerts/internal/analysis"
	"gold-silver-alerts/internal/market"
)

// compatFailureMarker identifies a known wire-compatibility failure of the
// upstream API: when a response body cannot be decoded with this marker in
// the error, a templated mock commentary is returned instead of an error
// string.
const compatFailureMarker = "cannot unmarshal"

// Options parameterise the Cerebras client.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Generator produces market commentary.
type Generator struct {
	opts    Options
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewGenerator constructs an insight generator.
func NewGenerator(opts Options, logger zerolog.Logger) *Generator {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.cerebras.ai/v1"
	}
	if opts.Model == "" {
		opts.Model = "llama-4-scout-17b-16e-instruct"
	}

	return &Generator{
		opts:    opts,
		logger:  logger.With().Str("component", "insight").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Prompt builds the natural-language analysis request from the stats.
func Prompt(metal market.Metal, currency market.Currency, stats analysis.Stats) string {
	sign := currency.Sign()
	return fmt.Sprintf(
		"Provide a brief analysis of the current %s market based on this data: Current price %s%s, 4-day change %s%%, high %s%s, low %s%s. What might be influencing the price?",
		metal, sign, stats.Current.StringFixed(2), signedPct(stats.ChangePct),
		sign, stats.High.StringFixed(2), sign, stats.Low.StringFixed(2),
	)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt and returns commentary text. Missing
// credential, transport failure, decode failure, and empty completions each
// map to a distinct string; the caller renders whatever comes back.
func (g *Generator) Generate(ctx context.Context, prompt string, metal market.Metal, changePct decimal.Decimal) string {
	if g.opts.APIKey == "" {
		return "CEREBRAS_API_KEY not found. Cannot generate insights."
	}

	body, err := json.Marshal(chatRequest{
		Model:    g.opts.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return fmt.Sprintf("Error querying Cerebras: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("Error querying Cerebras: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.opts.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn().Err(err).Msg("insight request failed")
		return fmt.Sprintf("Error querying Cerebras: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error querying Cerebras: status %d", resp.StatusCode)
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if strings.Contains(err.Error(), compatFailureMarker) {
			g.logger.Warn().Err(err).Msg("compatibility issue decoding completion; using mock insight")
			return MockInsight(metal, changePct)
		}
		return fmt.Sprintf("Error querying Cerebras: %v", err)
	}

	if len(payload.Choices) == 0 {
		return "Error: Invalid response structure from Cerebras API."
	}
	return payload.Choices[0].Message.Content
}

// MockInsight is the templated fallback commentary.
func MockInsight(metal market.Metal, changePct decimal.Decimal) string {
	return fmt.Sprintf(
		"Mock analysis: The %s market shows a %s%% change over 4 days, likely influenced by macroeconomic factors and supply-demand dynamics.",
		metal, signedPct(changePct),
	)
}

func signedPct(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s
}
