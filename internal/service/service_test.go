package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gold-silver-alerts/internal/alerting"
	"gold-silver-alerts/internal/market"
	"gold-silver-alerts/internal/search"
	"gold-silver-alerts/internal/storage"
)

// fakeSeries serves a fixed series so the render outcome is deterministic.
type fakeSeries struct {
	prices []float64
	origin market.Origin
}

func (f fakeSeries) FetchSeries(ctx context.Context, metal market.Metal, currency market.Currency) (market.Series, market.Origin, []string) {
	base := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	series := make(market.Series, len(f.prices))
	for i, p := range f.prices {
		d := decimal.NewFromFloat(p)
		series[i] = market.Point{
			Date:  base.AddDate(0, 0, i),
			Price: d,
			High:  d.Mul(decimal.NewFromFloat(1.015)),
			Low:   d.Mul(decimal.NewFromFloat(0.985)),
		}
	}
	return series, f.origin, nil
}

type fakeInsighter struct{ text string }

func (f fakeInsighter) Generate(ctx context.Context, prompt string, metal market.Metal, changePct decimal.Decimal) string {
	return f.text
}

type fakeSearcher struct {
	sources []search.Source
	notice  string
}

func (f fakeSearcher) Search(ctx context.Context, metal market.Metal, currency market.Currency) ([]search.Source, string) {
	return f.sources, f.notice
}

func newTestService(t *testing.T, series market.SeriesProvider) (*Service, *storage.FileStore) {
	t.Helper()
	history := storage.NewFileStore(filepath.Join(t.TempDir(), "history.json"), zerolog.Nop())
	svc := New(series, fakeSearcher{}, fakeInsighter{text: "steady market"}, history, nil, nil, zerolog.Nop())
	return svc, history
}

func TestRenderComputesView(t *testing.T) {
	svc, _ := newTestService(t, fakeSeries{prices: []float64{2000, 2010, 2020, 2040}, origin: market.OriginLive})

	view := svc.Render(context.Background(), Options{Metal: market.Gold, Currency: market.USD})

	if view.Origin != market.OriginLive {
		t.Fatalf("unexpected origin %v", view.Origin)
	}
	if view.Stats.Current.Cmp(decimal.NewFromInt(2040)) != 0 {
		t.Fatalf("unexpected current price %s", view.Stats.Current)
	}
	// 2000 -> 2040 is +2%, not strictly above the strong threshold.
	if view.Trend.Label != "Upward" {
		t.Fatalf("unexpected trend %q", view.Trend.Label)
	}
	if view.Alert != nil {
		t.Fatal("alerts are disabled; none should fire")
	}
	if len(view.ChartPNG) == 0 {
		t.Fatal("expected a rendered chart")
	}
	if view.Insight != "steady market" {
		t.Fatalf("unexpected insight %q", view.Insight)
	}
	if view.PricePosition != 1.0 {
		t.Fatalf("last price at the series high should position at 1.0, got %v", view.PricePosition)
	}
}

func TestRenderFiresDropAlertAndRecordsIt(t *testing.T) {
	svc, history := newTestService(t, fakeSeries{prices: []float64{2000, 1950, 1900, 1880}, origin: market.OriginMock})

	opts := Options{
		Metal:    market.Gold,
		Currency: market.USD,
		Alert: alerting.Config{
			Enabled:      true,
			Mode:         alerting.ModeBoth,
			ThresholdPct: decimal.NewFromFloat(5.0),
		},
	}

	view := svc.Render(context.Background(), opts)

	if view.Alert == nil {
		t.Fatal("a -6% move against a 5% threshold must fire")
	}
	if view.Alert.Direction != alerting.DirectionDrop {
		t.Fatalf("unexpected direction %q", view.Alert.Direction)
	}
	if view.Alert.Message != "ALERT: Gold price dropped by 6.00%!" {
		t.Fatalf("unexpected message %q", view.Alert.Message)
	}

	events, err := history.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 recorded event, got %d", len(events))
	}
	if events[0].Metal != "gold" || events[0].AlertType != "drop" {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestRenderRiseAlert(t *testing.T) {
	svc, _ := newTestService(t, fakeSeries{prices: []float64{24, 25, 26, 25.5}, origin: market.OriginMock})

	opts := Options{
		Metal:    market.Silver,
		Currency: market.USD,
		Alert: alerting.Config{
			Enabled:      true,
			Mode:         alerting.ModeRise,
			ThresholdPct: decimal.NewFromFloat(5.0),
		},
	}

	view := svc.Render(context.Background(), opts)
	if view.Alert == nil || view.Alert.Direction != alerting.DirectionRise {
		t.Fatalf("a +6.25%% move in rise mode must fire, got %+v", view.Alert)
	}
	if view.Alert.Message != "ALERT: Silver price rose by 6.25%!" {
		t.Fatalf("unexpected message %q", view.Alert.Message)
	}
}

func TestRenderNoAlertBelowThreshold(t *testing.T) {
	svc, history := newTestService(t, fakeSeries{prices: []float64{2000, 2010, 2005, 2040}, origin: market.OriginLive})

	opts := Options{
		Metal:    market.Gold,
		Currency: market.USD,
		Alert: alerting.Config{
			Enabled:      true,
			Mode:         alerting.ModeBoth,
			ThresholdPct: decimal.NewFromFloat(5.0),
		},
	}

	view := svc.Render(context.Background(), opts)
	if view.Alert != nil {
		t.Fatalf("+2%% must not fire at a 5%% threshold, got %+v", view.Alert)
	}

	events, err := history.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("no events should be recorded, got %d", len(events))
	}
}

func TestSourcesWithoutSearcher(t *testing.T) {
	history := storage.NewFileStore(filepath.Join(t.TempDir(), "history.json"), zerolog.Nop())
	svc := New(fakeSeries{prices: []float64{1, 2, 3, 4}}, nil, nil, history, nil, nil, zerolog.Nop())

	sources, notice := svc.Sources(context.Background(), market.Gold, market.USD)
	if sources != nil || !strings.Contains(notice, "not configured") {
		t.Fatalf("unexpected result (%v, %q)", sources, notice)
	}
}
