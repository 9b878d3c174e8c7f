package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"gold-silver-alerts/internal/market"
)

func TestSearchMissingKey(t *testing.T) {
	exa := NewExa(Options{}, zerolog.Nop())
	sources, notice := exa.Search(context.Background(), market.Gold, market.USD)
	if sources != nil {
		t.Fatalf("expected no sources, got %v", sources)
	}
	if notice != "EXA_API_KEY not found. Unable to fetch sources." {
		t.Fatalf("unexpected notice: %q", notice)
	}
}

func TestSearchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if key := r.Header.Get("x-api-key"); key != "exa-key" {
			t.Errorf("unexpected api key header %q", key)
		}

		var req struct {
			Query      string `json:"query"`
			NumResults int    `json:"numResults"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.Contains(req.Query, "current gold price USD per ounce today") {
			t.Errorf("unexpected query %q", req.Query)
		}
		if req.NumResults != 5 {
			t.Errorf("expected 5 results requested, got %d", req.NumResults)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Gold steadies", "url": "https://example.com/a", "publishedDate": "2026-08-29"},
				{"title": "Bullion outlook", "url": "https://example.com/b"},
			},
		})
	}))
	defer srv.Close()

	exa := NewExa(Options{APIKey: "exa-key", BaseURL: srv.URL}, zerolog.Nop())
	sources, notice := exa.Search(context.Background(), market.Gold, market.USD)
	if notice != "" {
		t.Fatalf("unexpected notice %q", notice)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Title != "Gold steadies" || sources[0].URL != "https://example.com/a" || sources[0].Published != "2026-08-29" {
		t.Fatalf("unexpected first source %+v", sources[0])
	}
	if sources[1].Published != "" {
		t.Fatalf("missing publishedDate should map to empty string, got %q", sources[1].Published)
	}
}

func TestSearchRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	exa := NewExa(Options{APIKey: "exa-key", BaseURL: srv.URL}, zerolog.Nop())
	sources, notice := exa.Search(context.Background(), market.Silver, market.INR)
	if sources != nil {
		t.Fatalf("expected no sources on failure, got %v", sources)
	}
	if !strings.HasPrefix(notice, "Exa API Error:") {
		t.Fatalf("unexpected notice %q", notice)
	}
}
