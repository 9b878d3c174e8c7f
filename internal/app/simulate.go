package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"gold-silver-alerts/internal/alerting"
	"gold-silver-alerts/internal/insight"
	"gold-silver-alerts/internal/market"
	"gold-silver-alerts/internal/service"
	"gold-silver-alerts/internal/storage"
)

// SimulateAlert drives one render against a synthetic series with the
// requested percent change, exercising the evaluator, the history file,
// the optional database, and the mailer.
func (a *App) SimulateAlert(ctx context.Context, metalName string, changePct float64) error {
	if changePct == 0 {
		return errors.New("--change must be non-zero")
	}

	metal := market.ParseMetal(metalName)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	history := storage.NewFileStore(a.Config.History.Path, a.Logger)
	provider := &staticSeriesProvider{changePct: decimal.NewFromFloat(changePct)}

	svc := service.New(provider, nil, noInsights{}, history, store, a.newMailer(), a.Logger)

	view := svc.Render(ctx, service.Options{
		Metal:    metal,
		Currency: market.USD,
		Alert: alerting.Config{
			Enabled:      true,
			Mode:         alerting.ParseMode(a.Config.Alerting.Mode),
			ThresholdPct: decimal.NewFromFloat(a.Config.Alerting.ThresholdPct),
		},
	})

	if view.Alert == nil {
		fmt.Fprintf(os.Stdout, "no alert fired: change %.2f%% within threshold %.1f%%\n", changePct, a.Config.Alerting.ThresholdPct)
		return nil
	}

	fmt.Fprintln(os.Stdout, view.Alert.Message)
	return nil
}

// staticSeriesProvider walks linearly from a base price to the price
// implied by the requested change.
type staticSeriesProvider struct {
	changePct decimal.Decimal
}

func (s *staticSeriesProvider) FetchSeries(_ context.Context, metal market.Metal, currency market.Currency) (market.Series, market.Origin, []string) {
	base := decimal.NewFromInt(2050)
	if metal == market.Silver {
		base = decimal.NewFromFloat(24.5)
	}

	last := base.Add(base.Mul(s.changePct).Div(decimal.NewFromInt(100)))
	step := last.Sub(base).Div(decimal.NewFromInt(3))

	now := time.Now()
	series := make(market.Series, 0, 4)
	for i := 0; i < 4; i++ {
		price := base.Add(step.Mul(decimal.NewFromInt(int64(i))))
		high := price.Mul(decimal.NewFromFloat(1.015))
		low := price.Mul(decimal.NewFromFloat(0.985))
		series = append(series, market.Point{
			Date:  now.AddDate(0, 0, i-4),
			Price: price,
			High:  high,
			Low:   low,
		})
	}
	return series, market.OriginMock, nil
}

// noInsights skips commentary generation during simulation.
type noInsights struct{}

func (noInsights) Generate(_ context.Context, _ string, metal market.Metal, changePct decimal.Decimal) string {
	return insight.MockInsight(metal, changePct)
}

var _ market.SeriesProvider = (*staticSeriesProvider)(nil)
var _ service.Insighter = noInsights{}
