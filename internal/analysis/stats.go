// Package analysis holds the pure computations behind the dashboard:
// descriptive statistics, trend classification, moving averages, and RSI.
package analysis

import (
	"math"

	"github.com/shopspring/decimal"

	"gold-silver-alerts/internal/market"
)

var hundred = decimal.NewFromInt(100)

// Stats summarises a price series.
type Stats struct {
	Current    decimal.Decimal
	Low        decimal.Decimal
	High       decimal.Decimal
	Avg        decimal.Decimal
	Change     decimal.Decimal
	ChangePct  decimal.Decimal
	Volatility decimal.Decimal
}

// Compute derives Stats from a non-empty series. Current is the last
// price, Change measures last minus first, and ChangePct is guarded to 0
// when the first price is zero.
func Compute(series market.Series) Stats {
	prices := series.Prices()

	first := prices[0]
	current := prices[len(prices)-1]

	low, high := prices[0], prices[0]
	sum := decimal.Zero
	for _, p := range prices {
		if p.LessThan(low) {
			low = p
		}
		if p.GreaterThan(high) {
			high = p
		}
		sum = sum.Add(p)
	}

	change := current.Sub(first)
	changePct := decimal.Zero
	if !first.IsZero() {
		changePct = change.Div(first).Mul(hundred)
	}

	return Stats{
		Current:    current,
		Low:        low,
		High:       high,
		Avg:        sum.Div(decimal.NewFromInt(int64(len(prices)))),
		Change:     change,
		ChangePct:  changePct,
		Volatility: stddev(prices),
	}
}

// stddev is the sample standard deviation, 0 for fewer than two points.
func stddev(prices []decimal.Decimal) decimal.Decimal {
	n := len(prices)
	if n < 2 {
		return decimal.Zero
	}

	mean := 0.0
	for _, p := range prices {
		mean += p.InexactFloat64()
	}
	mean /= float64(n)

	variance := 0.0
	for _, p := range prices {
		d := p.InexactFloat64() - mean
		variance += d * d
	}
	variance /= float64(n - 1)

	return decimal.NewFromFloat(math.Sqrt(variance))
}

// PricePosition places the current price within the [low, high] range as a
// ratio in [0,1]; 0 when the range is degenerate.
func PricePosition(s Stats) float64 {
	span := s.High.Sub(s.Low)
	if span.IsZero() {
		return 0
	}
	return s.Current.Sub(s.Low).Div(span).InexactFloat64()
}
