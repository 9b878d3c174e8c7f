package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const timeframeDays = 4 // metalpriceapi free-tier window

// rateSource converts USD prices to INR, falling back internally.
type rateSource interface {
	USDINRWithFallback(ctx context.Context) (decimal.Decimal, string)
}

// HistoricalOptions parameterise the metalpriceapi client.
type HistoricalOptions struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Historical fetches the 4-day price timeframe from metalpriceapi and
// degrades to the mock generator on any failure.
type Historical struct {
	opts    HistoricalOptions
	rates   rateSource
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewHistorical constructs a historical price provider.
func NewHistorical(opts HistoricalOptions, rates rateSource, logger zerolog.Logger) *Historical {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.metalpriceapi.com"
	}

	return &Historical{
		opts:    opts,
		rates:   rates,
		logger:  logger.With().Str("component", "historical").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// FetchSeries returns the series for one render. The result is always
// usable: live data when the API cooperates, the deterministic mock series
// plus a notice otherwise.
func (h *Historical) FetchSeries(ctx context.Context, metal Metal, currency Currency) (Series, Origin, []string) {
	if h.opts.APIKey == "" {
		return Mock(metal, currency), OriginMock, []string{"METALPRICEAPI_KEY not found. Using mock historical data."}
	}

	series, err := h.fetchTimeframe(ctx, metal)
	if err != nil {
		h.logger.Warn().Err(err).Str("metal", string(metal)).Msg("falling back to mock historical data")
		return Mock(metal, currency), OriginMock, []string{fmt.Sprintf("MetalpriceAPI error: %v. Using mock data.", err)}
	}

	var notices []string
	if currency == INR {
		rate, notice := h.rates.USDINRWithFallback(ctx)
		if notice != "" {
			notices = append(notices, notice)
		}
		for i := range series {
			series[i].Price = series[i].Price.Mul(rate)
		}
	}

	return withBands(series), OriginLive, notices
}

type timeframeResponse struct {
	Success bool                          `json:"success"`
	Rates   map[string]map[string]float64 `json:"rates"`
}

func (h *Historical) fetchTimeframe(ctx context.Context, metal Metal) (Series, error) {
	symbol := metal.Symbol()
	now := time.Now()

	params := url.Values{}
	params.Set("api_key", h.opts.APIKey)
	params.Set("start_date", now.AddDate(0, 0, -timeframeDays).Format("2006-01-02"))
	params.Set("end_date", now.Format("2006-01-02"))
	params.Set("base", "USD")
	params.Set("currencies", symbol)

	endpoint := h.baseURL + "/v1/timeframe?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metalpriceapi status %d", resp.StatusCode)
	}

	var payload timeframeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode timeframe response: %w", err)
	}
	if !payload.Success {
		return nil, errors.New("api response unsuccessful")
	}

	return resolveTimeframe(payload.Rates, symbol)
}

// resolveTimeframe turns the per-date quote maps into an ascending series.
// The direct USD<SYM> quote wins; otherwise the bare <SYM> quote is
// inverted. Dates with neither usable quote are dropped.
func resolveTimeframe(rates map[string]map[string]float64, symbol string) (Series, error) {
	dates := make([]string, 0, len(rates))
	for d := range rates {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	one := decimal.NewFromInt(1)
	series := make(Series, 0, len(dates))
	for _, d := range dates {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}

		quotes := rates[d]
		var price decimal.Decimal
		if direct, ok := quotes["USD"+symbol]; ok {
			price = decimal.NewFromFloat(direct)
		} else if inverse, ok := quotes[symbol]; ok && inverse > 0 {
			price = one.Div(decimal.NewFromFloat(inverse))
		} else {
			continue
		}

		series = append(series, Point{Date: day, Price: price})
	}

	if len(series) == 0 {
		return nil, errors.New("no valid price data found")
	}
	return series, nil
}

var _ SeriesProvider = (*Historical)(nil)
