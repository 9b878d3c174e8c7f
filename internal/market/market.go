// Package market provides the metal price series used by the dashboard:
// live data from metalpriceapi with USD/INR conversion, and a deterministic
// synthetic series for every failure path. Fetching a series is a total
// operation; callers receive data plus an origin tag, never an error.
package market

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Metal identifies the tracked commodity.
type Metal string

const (
	Gold   Metal = "gold"
	Silver Metal = "silver"
)

// Currency tags every monetary value in the system.
type Currency string

const (
	USD Currency = "USD"
	INR Currency = "INR"
)

// Symbol returns the ISO-style troy-ounce code quoted by metalpriceapi.
func (m Metal) Symbol() string {
	if m == Silver {
		return "XAG"
	}
	return "XAU"
}

// Title returns the display name, capitalised.
func (m Metal) Title() string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseMetal normalises user input, defaulting to gold.
func ParseMetal(s string) Metal {
	if strings.EqualFold(s, string(Silver)) {
		return Silver
	}
	return Gold
}

// ParseCurrency normalises user input, defaulting to USD.
func ParseCurrency(s string) Currency {
	if strings.EqualFold(s, string(INR)) {
		return INR
	}
	return USD
}

// Sign returns the currency symbol used in formatted values.
func (c Currency) Sign() string {
	if c == INR {
		return "₹"
	}
	return "$"
}

// Origin records whether a series came from the live API or the mock
// generator.
type Origin string

const (
	OriginLive Origin = "live"
	OriginMock Origin = "mock"
)

// Point is one daily observation. High and Low are derived bands, not real
// bid/ask: price×1.015 and price×0.985.
type Point struct {
	Date  time.Time
	Price decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
}

// Series is an ascending-by-date run of points, length 4 in practice
// (free-tier window).
type Series []Point

// Prices extracts the price column in series order.
func (s Series) Prices() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// SeriesProvider yields the price series for one dashboard render.
// Implementations never fail: on any upstream problem they return the mock
// series, OriginMock, and human-readable notices.
type SeriesProvider interface {
	FetchSeries(ctx context.Context, metal Metal, currency Currency) (Series, Origin, []string)
}

// RateProvider retrieves the USD to INR conversion rate.
type RateProvider interface {
	FetchUSDINR(ctx context.Context) (decimal.Decimal, error)
}

var (
	bandHigh = decimal.NewFromFloat(1.015)
	bandLow  = decimal.NewFromFloat(0.985)
)

// withBands fills the derived high/low envelope for every point.
func withBands(s Series) Series {
	for i := range s {
		s[i].High = s[i].Price.Mul(bandHigh)
		s[i].Low = s[i].Price.Mul(bandLow)
	}
	return s
}
