package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gold-silver-alerts/internal/market"
)

func seriesOf(prices ...float64) market.Series {
	base := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	s := make(market.Series, len(prices))
	for i, p := range prices {
		d := decimal.NewFromFloat(p)
		s[i] = market.Point{
			Date:  base.AddDate(0, 0, i),
			Price: d,
			High:  d.Mul(decimal.NewFromFloat(1.015)),
			Low:   d.Mul(decimal.NewFromFloat(0.985)),
		}
	}
	return s
}

func TestComputeStats(t *testing.T) {
	stats := Compute(seriesOf(100, 110, 90, 105))

	if stats.Current.Cmp(decimal.NewFromInt(105)) != 0 {
		t.Fatalf("current should be the last price, got %s", stats.Current)
	}
	if stats.Low.Cmp(decimal.NewFromInt(90)) != 0 {
		t.Fatalf("low should be 90, got %s", stats.Low)
	}
	if stats.High.Cmp(decimal.NewFromInt(110)) != 0 {
		t.Fatalf("high should be 110, got %s", stats.High)
	}
	if stats.Avg.Cmp(decimal.NewFromFloat(101.25)) != 0 {
		t.Fatalf("avg should be 101.25, got %s", stats.Avg)
	}
	if stats.Change.Cmp(decimal.NewFromInt(5)) != 0 {
		t.Fatalf("change should be 5, got %s", stats.Change)
	}
	if stats.ChangePct.Cmp(decimal.NewFromInt(5)) != 0 {
		t.Fatalf("change pct should be 5, got %s", stats.ChangePct)
	}

	// min <= current <= max always holds.
	if stats.Low.GreaterThan(stats.Current) || stats.Current.GreaterThan(stats.High) {
		t.Fatal("current must lie within [low, high]")
	}
}

func TestComputeZeroFirstPrice(t *testing.T) {
	stats := Compute(seriesOf(0, 50))
	if !stats.ChangePct.IsZero() {
		t.Fatalf("change pct must be 0 when the first price is 0, got %s", stats.ChangePct)
	}
	if stats.Change.Cmp(decimal.NewFromInt(50)) != 0 {
		t.Fatalf("absolute change is still computed, got %s", stats.Change)
	}
}

func TestComputeSinglePoint(t *testing.T) {
	stats := Compute(seriesOf(42))
	if !stats.Change.IsZero() || !stats.ChangePct.IsZero() {
		t.Fatal("single-point series has zero change")
	}
	if !stats.Volatility.IsZero() {
		t.Fatalf("single-point volatility should be 0, got %s", stats.Volatility)
	}
}

func TestVolatility(t *testing.T) {
	// Sample standard deviation of {2, 4, 4, 4, 5, 5, 7, 9} is ~2.138.
	stats := Compute(seriesOf(2, 4, 4, 4, 5, 5, 7, 9))
	got := stats.Volatility.InexactFloat64()
	if got < 2.13 || got > 2.15 {
		t.Fatalf("expected sample stddev ~2.14, got %f", got)
	}
}

func TestPricePosition(t *testing.T) {
	stats := Compute(seriesOf(100, 110, 90, 105))
	pos := PricePosition(stats)
	if pos < 0.74 || pos > 0.76 {
		t.Fatalf("expected position 0.75, got %f", pos)
	}

	flat := Compute(seriesOf(100, 100))
	if PricePosition(flat) != 0 {
		t.Fatal("degenerate range should report position 0")
	}
}
