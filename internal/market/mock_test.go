package market

import "testing"

func TestMockDeterministic(t *testing.T) {
	first := Mock(Gold, USD)
	second := Mock(Gold, USD)

	if len(first) != 4 || len(second) != 4 {
		t.Fatalf("mock series should have 4 points, got %d and %d", len(first), len(second))
	}

	for i := range first {
		if first[i].Price.Cmp(second[i].Price) != 0 {
			t.Fatalf("point %d differs between successive calls: %s vs %s", i, first[i].Price, second[i].Price)
		}
	}
}

func TestMockINRIgnoresLiveRate(t *testing.T) {
	usd := Mock(Gold, USD)
	inr := Mock(Gold, INR)

	// The INR walk starts from base*83.5; the fixed constant applies even
	// when a live rate would be available, so every point scales exactly.
	for i := range usd {
		want := usd[i].Price.Mul(FallbackUSDINR)
		if inr[i].Price.Cmp(want) != 0 {
			t.Fatalf("point %d: expected %s, got %s", i, want, inr[i].Price)
		}
	}
}

func TestMockBands(t *testing.T) {
	for _, p := range Mock(Silver, USD) {
		if p.Low.GreaterThanOrEqual(p.Price) || p.High.LessThanOrEqual(p.Price) {
			t.Fatalf("band invariant violated: low %s price %s high %s", p.Low, p.Price, p.High)
		}
	}
}
