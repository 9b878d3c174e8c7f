package analysis

import (
	"github.com/shopspring/decimal"

	"gold-silver-alerts/internal/market"
)

// MovingAverage computes the trailing mean at every point of the series.
// Positions before the window has filled are left at zero.
func MovingAverage(series market.Series, window int) []decimal.Decimal {
	if window <= 0 {
		window = 1
	}

	prices := series.Prices()
	out := make([]decimal.Decimal, len(prices))
	divisor := decimal.NewFromInt(int64(window))

	sum := decimal.Zero
	for i, p := range prices {
		sum = sum.Add(p)
		if i >= window {
			sum = sum.Sub(prices[i-window])
		}
		if i >= window-1 {
			out[i] = sum.Div(divisor)
		}
	}
	return out
}

// RSI computes the Relative Strength Index over the trailing period deltas
// using simple averages. It requires period+1 prices; ok is false below
// that. A zero average loss maps to 100 by convention.
func RSI(prices []decimal.Decimal, period int) (decimal.Decimal, bool) {
	if period <= 0 || len(prices) < period+1 {
		return decimal.Decimal{}, false
	}

	deltas := make([]decimal.Decimal, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		deltas = append(deltas, prices[i].Sub(prices[i-1]))
	}

	gains := decimal.Zero
	losses := decimal.Zero
	for _, d := range deltas[len(deltas)-period:] {
		if d.IsPositive() {
			gains = gains.Add(d)
		} else {
			losses = losses.Sub(d)
		}
	}

	p := decimal.NewFromInt(int64(period))
	avgGain := gains.Div(p)
	avgLoss := losses.Div(p)

	if avgLoss.IsZero() {
		return hundred, true
	}

	rs := avgGain.Div(avgLoss)
	rsi := hundred.Sub(hundred.Div(decimal.NewFromInt(1).Add(rs)))
	return rsi, true
}
