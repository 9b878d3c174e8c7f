package market

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

const mockSeed = 42

var mockBasePrices = map[Metal]decimal.Decimal{
	Gold:   decimal.NewFromInt(2050),
	Silver: decimal.NewFromFloat(24.5),
}

// Mock produces a synthetic 4-day series via a gaussian walk reseeded on
// every call, so successive calls yield identical numbers. The INR path
// always applies the fixed fallback rate, never the live one; the real
// exchange rate is only consulted when real price data exists.
func Mock(metal Metal, currency Currency) Series {
	base, ok := mockBasePrices[metal]
	if !ok {
		base = mockBasePrices[Gold]
	}
	if currency == INR {
		base = base.Mul(FallbackUSDINR)
	}

	rng := rand.New(rand.NewSource(mockSeed))
	step := base.Mul(decimal.NewFromFloat(0.01))

	now := time.Now()
	series := make(Series, 0, timeframeDays)
	walk := decimal.Zero
	for i := timeframeDays; i > 0; i-- {
		walk = walk.Add(decimal.NewFromFloat(rng.NormFloat64()).Mul(step))
		series = append(series, Point{
			Date:  now.AddDate(0, 0, -i),
			Price: base.Add(walk),
		})
	}

	return withBands(series)
}
