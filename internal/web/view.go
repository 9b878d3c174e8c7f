package web

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"gold-silver-alerts/internal/alerting"
	"gold-silver-alerts/internal/config"
	"gold-silver-alerts/internal/market"
	"gold-silver-alerts/internal/search"
	"gold-silver-alerts/internal/service"
)

// controls is the parsed state of the dashboard form.
type controls struct {
	Metal        market.Metal
	Currency     market.Currency
	AlertEnabled bool
	AlertMode    alerting.Mode
	ThresholdPct decimal.Decimal
	Tab          string
}

// metric is one headline figure on the dashboard.
type metric struct {
	Label string
	Value string
	Delta string
}

// apiStatus reports whether one upstream credential is configured.
type apiStatus struct {
	Name string
	OK   bool
}

// tableRow is one metric/value pair in the detailed statistics tables.
type tableRow struct {
	Metric string
	Value  string
}

// pageView is everything the template needs for one render.
type pageView struct {
	Controls controls

	// Form state flattened to plain strings for the template.
	MetalValue     string
	CurrencyValue  string
	ModeValue      string
	ThresholdValue string
	AlertsOn       bool
	Tab            string
	BaseQuery      string

	Metrics       []metric
	TrendLabel    string
	TrendColor    string
	ChangePct     string
	PositionPct   string
	PositionRatio float64
	AlertMessage  string
	AlertKind     string // "drop" or "rise"
	ChartB64      string
	Insight       string
	StatsLeft     []tableRow
	StatsRight    []tableRow
	Notices       []string

	Sources      []search.Source
	SourceNotice string

	APIStatuses []apiStatus
	DataSource  string
	RenderedAt  string
}

// parseControls reads the form state from query parameters, applying the
// configured defaults and clamping the threshold to the slider range.
func parseControls(get func(string) string, defaults config.AlertingConfig) controls {
	c := controls{
		Metal:        market.ParseMetal(get("metal")),
		Currency:     market.ParseCurrency(get("currency")),
		AlertEnabled: defaults.Enabled,
		AlertMode:    alerting.ParseMode(defaults.Mode),
		ThresholdPct: decimal.NewFromFloat(defaults.ThresholdPct),
		Tab:          "dashboard",
	}

	switch get("tab") {
	case "sources":
		c.Tab = "sources"
	case "about":
		c.Tab = "about"
	}

	// An unchecked checkbox is omitted from the submission, so the form
	// carries a sentinel; only a bare request (no form submit, e.g. a tab
	// link before any refresh) falls back to the configured default.
	if v := get("alerts"); v != "" {
		c.AlertEnabled = v == "on"
	} else if get("submitted") != "" {
		c.AlertEnabled = false
	}
	if v := get("mode"); v != "" {
		c.AlertMode = alerting.ParseMode(v)
	}
	if v := get("threshold"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.ThresholdPct = decimal.NewFromFloat(clamp(f, 1, 10))
		}
	}

	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// buildPageView formats the service view for the template.
func buildPageView(c controls, view *service.View, cfg *config.Config) *pageView {
	sign := c.Currency.Sign()
	money := func(d decimal.Decimal) string { return sign + d.StringFixed(2) }

	changePct := signed(view.Stats.ChangePct)
	changeAbs := view.Stats.Change.StringFixed(2)
	if !strings.HasPrefix(changeAbs, "-") {
		changeAbs = "+" + changeAbs
	}
	delta := fmt.Sprintf("%s%s (%s%%)", sign, changeAbs, changePct)

	alertsValue := "off"
	if c.AlertEnabled {
		alertsValue = "on"
	}
	base := url.Values{}
	base.Set("metal", string(c.Metal))
	base.Set("currency", string(c.Currency))
	base.Set("alerts", alertsValue)
	base.Set("mode", string(c.AlertMode))
	base.Set("threshold", c.ThresholdPct.StringFixed(1))

	pv := &pageView{
		Controls:       c,
		MetalValue:     string(c.Metal),
		CurrencyValue:  string(c.Currency),
		ModeValue:      string(c.AlertMode),
		ThresholdValue: c.ThresholdPct.StringFixed(1),
		AlertsOn:       c.AlertEnabled,
		Tab:            c.Tab,
		BaseQuery:      base.Encode(),
		Metrics: []metric{
			{Label: "Current Price", Value: money(view.Stats.Current), Delta: delta},
			{Label: "Period Low", Value: money(view.Stats.Low)},
			{Label: "Period High", Value: money(view.Stats.High)},
			{Label: "Average", Value: money(view.Stats.Avg)},
		},
		TrendLabel:    view.Trend.Label,
		TrendColor:    view.Trend.Color,
		ChangePct:     changePct,
		PositionRatio: view.PricePosition,
		PositionPct:   fmt.Sprintf("%.1f", view.PricePosition*100),
		Insight:       view.Insight,
		Notices:       view.Notices,
		StatsLeft: []tableRow{
			{Metric: "Current Price", Value: money(view.Stats.Current)},
			{Metric: "Lowest Price", Value: money(view.Stats.Low)},
			{Metric: "Highest Price", Value: money(view.Stats.High)},
		},
		StatsRight: []tableRow{
			{Metric: "Average Price", Value: money(view.Stats.Avg)},
			{Metric: "Volatility", Value: money(view.Stats.Volatility)},
			{Metric: "Price Change", Value: delta},
		},
		APIStatuses: apiStatuses(cfg),
		DataSource:  dataSourceLabel(cfg),
		RenderedAt:  view.GeneratedAt.Format("2006-01-02 15:04:05"),
	}

	if len(view.ChartPNG) > 0 {
		pv.ChartB64 = base64.StdEncoding.EncodeToString(view.ChartPNG)
	}

	if view.Alert != nil {
		pv.AlertMessage = view.Alert.Message
		pv.AlertKind = string(view.Alert.Direction)
	}

	return pv
}

func apiStatuses(cfg *config.Config) []apiStatus {
	return []apiStatus{
		{Name: "Exa API", OK: cfg.Search.APIKey != ""},
		{Name: "MetalpriceAPI (Historical)", OK: cfg.Metals.APIKey != ""},
		{Name: "Cerebras API (Insights)", OK: cfg.Insights.APIKey != ""},
		{Name: "ExchangeRate-API (USD/INR)", OK: cfg.ExchangeRate.APIKey != ""},
	}
}

func dataSourceLabel(cfg *config.Config) string {
	if cfg.Search.APIKey != "" && cfg.Metals.APIKey != "" && cfg.Insights.APIKey != "" && cfg.ExchangeRate.APIKey != "" {
		return "Live APIs"
	}
	return "Mock Data"
}

func signed(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s
}
