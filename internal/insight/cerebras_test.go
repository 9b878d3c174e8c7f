package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gold-silver-alerts/internal/analysis"
	"gold-silver-alerts/internal/market"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGenerator(Options{APIKey: "test-key", BaseURL: srv.URL}, zerolog.Nop())
}

func TestGenerateMissingKey(t *testing.T) {
	g := NewGenerator(Options{}, zerolog.Nop())
	got := g.Generate(context.Background(), "prompt", market.Gold, decimal.Zero)
	if got != "CEREBRAS_API_KEY not found. Cannot generate insights." {
		t.Fatalf("unexpected missing-key message: %q", got)
	}
}

func TestGenerateSuccess(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", auth)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "llama-4-scout-17b-16e-instruct" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Gold is consolidating."}},
			},
		})
	})

	got := g.Generate(context.Background(), "prompt", market.Gold, decimal.NewFromFloat(1.2))
	if got != "Gold is consolidating." {
		t.Fatalf("unexpected insight: %q", got)
	}
}

func TestGenerateNon200(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	got := g.Generate(context.Background(), "prompt", market.Gold, decimal.Zero)
	if got != "Error querying Cerebras: status 429" {
		t.Fatalf("unexpected error message: %q", got)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	})

	got := g.Generate(context.Background(), "prompt", market.Gold, decimal.Zero)
	if got != "Error: Invalid response structure from Cerebras API." {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestGenerateCompatFallback(t *testing.T) {
	// A type mismatch in the payload triggers the mock commentary rather
	// than an error string.
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": "not-a-list"}`))
	})

	got := g.Generate(context.Background(), "prompt", market.Silver, decimal.NewFromFloat(-3.25))
	want := "Mock analysis: The silver market shows a -3.25% change over 4 days, likely influenced by macroeconomic factors and supply-demand dynamics."
	if got != want {
		t.Fatalf("expected mock fallback %q, got %q", want, got)
	}
}

func TestGenerateMalformedJSON(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices`))
	})

	got := g.Generate(context.Background(), "prompt", market.Gold, decimal.Zero)
	if !strings.HasPrefix(got, "Error querying Cerebras:") {
		t.Fatalf("truncated JSON should surface as an error string, got %q", got)
	}
}

func TestPrompt(t *testing.T) {
	stats := analysis.Stats{
		Current:   decimal.NewFromFloat(2051.50),
		High:      decimal.NewFromFloat(2080.00),
		Low:       decimal.NewFromFloat(2015.75),
		ChangePct: decimal.NewFromFloat(-1.5),
	}

	got := Prompt(market.Gold, market.USD, stats)
	for _, want := range []string{"gold market", "$2051.50", "-1.50%", "$2080.00", "$2015.75"} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q: %s", want, got)
		}
	}
}
