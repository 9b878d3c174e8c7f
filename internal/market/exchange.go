package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FallbackUSDINR is used whenever the live rate cannot be fetched.
var FallbackUSDINR = decimal.NewFromFloat(83.5)

// ErrNoAPIKey marks a provider whose credential is not configured.
var ErrNoAPIKey = errors.New("api key not configured")

// ExchangeRateOptions parameterise the exchangerate-api client.
type ExchangeRateOptions struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// ExchangeRate fetches USD/INR from exchangerate-api.com.
type ExchangeRate struct {
	opts    ExchangeRateOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewExchangeRate constructs an exchange-rate fetcher.
func NewExchangeRate(opts ExchangeRateOptions, logger zerolog.Logger) *ExchangeRate {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://v6.exchangerate-api.com"
	}

	return &ExchangeRate{
		opts:    opts,
		logger:  logger.With().Str("component", "exchange_rate").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type exchangeRateResponse struct {
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// FetchUSDINR retrieves the live INR-per-USD rate.
func (e *ExchangeRate) FetchUSDINR(ctx context.Context) (decimal.Decimal, error) {
	if e.opts.APIKey == "" {
		return decimal.Decimal{}, ErrNoAPIKey
	}

	url := fmt.Sprintf("%s/v6/%s/latest/USD", e.baseURL, e.opts.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("exchangerate-api status %d", resp.StatusCode)
	}

	var payload exchangeRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode exchangerate-api response: %w", err)
	}

	rate, ok := payload.ConversionRates["INR"]
	if !ok || rate <= 0 {
		return decimal.Decimal{}, errors.New("INR rate missing from response")
	}

	return decimal.NewFromFloat(rate), nil
}

// USDINRWithFallback never fails: any error is downgraded to the fixed
// fallback constant and a notice for the caller to surface.
func (e *ExchangeRate) USDINRWithFallback(ctx context.Context) (decimal.Decimal, string) {
	rate, err := e.FetchUSDINR(ctx)
	if err == nil {
		return rate, ""
	}

	notice := fmt.Sprintf("ExchangeRate-API unavailable (%v); using fallback USD/INR rate of %s.", err, FallbackUSDINR.String())
	if errors.Is(err, ErrNoAPIKey) {
		notice = fmt.Sprintf("EXCHANGERATE_API_KEY not found; using fallback USD/INR rate of %s.", FallbackUSDINR.String())
	}

	e.logger.Warn().Err(err).Msg("falling back to fixed USD/INR rate")
	return FallbackUSDINR, notice
}

var _ RateProvider = (*ExchangeRate)(nil)
