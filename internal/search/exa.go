// Package search queries the Exa web-search API for recent articles about
// current metal prices. It is a thin pass-through: no ranking or filtering
// beyond what the upstream returns.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"gold-silver-alerts/internal/market"
)

// Source is one search hit shown on the news tab. Published may be empty.
type Source struct {
	Title     string
	URL       string
	Published string
}

// Options parameterise the Exa client.
type Options struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
}

// Exa implements the source search provider. The underlying HTTP client is
// built lazily exactly once per process.
type Exa struct {
	opts    Options
	logger  zerolog.Logger
	baseURL string

	once   sync.Once
	client *http.Client
}

// NewExa constructs the search provider.
func NewExa(opts Options, logger zerolog.Logger) *Exa {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 5
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.exa.ai"
	}

	return &Exa{
		opts:    opts,
		logger:  logger.With().Str("component", "source_search").Logger(),
		baseURL: baseURL,
	}
}

func (e *Exa) httpClient() *http.Client {
	e.once.Do(func() {
		timeout := e.opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		e.client = &http.Client{Timeout: timeout}
	})
	return e.client
}

type searchRequest struct {
	Query         string `json:"query"`
	NumResults    int    `json:"numResults"`
	UseAutoprompt bool   `json:"useAutoprompt"`
}

type searchResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		PublishedDate string `json:"publishedDate"`
	} `json:"results"`
}

// Search returns up to MaxResults sources for the current price of the
// metal, or nil plus a notice when the credential is missing or the remote
// call fails.
func (e *Exa) Search(ctx context.Context, metal market.Metal, currency market.Currency) ([]Source, string) {
	if e.opts.APIKey == "" {
		return nil, "EXA_API_KEY not found. Unable to fetch sources."
	}

	query := fmt.Sprintf("current %s price %s per ounce today %d", metal, currency, time.Now().Year())

	body, err := json.Marshal(searchRequest{
		Query:         query,
		NumResults:    e.opts.MaxResults,
		UseAutoprompt: true,
	})
	if err != nil {
		return nil, fmt.Sprintf("Exa API Error: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Sprintf("Exa API Error: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.opts.APIKey)

	resp, err := e.httpClient().Do(req)
	if err != nil {
		e.logger.Warn().Err(err).Msg("search request failed")
		return nil, fmt.Sprintf("Exa API Error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.logger.Warn().Int("status", resp.StatusCode).Msg("search returned non-200")
		return nil, fmt.Sprintf("Exa API Error: status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Sprintf("Exa API Error: %v", err)
	}

	sources := make([]Source, 0, len(payload.Results))
	for _, r := range payload.Results {
		sources = append(sources, Source{
			Title:     r.Title,
			URL:       r.URL,
			Published: r.PublishedDate,
		})
	}
	return sources, ""
}
