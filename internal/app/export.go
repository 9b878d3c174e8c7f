package app

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"time"

	"gold-silver-alerts/internal/chart"
	"gold-silver-alerts/internal/market"
)

// Export fetches the current series (live or mock) and writes it as CSV
// and/or a PNG chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	metal := market.ParseMetal(opts.Metal)
	currency := market.ParseCurrency(opts.Currency)

	series, origin, notices := a.newSeriesProvider().FetchSeries(ctx, metal, currency)
	for _, n := range notices {
		a.Logger.Warn().Msg(n)
	}
	a.Logger.Info().Str("origin", string(origin)).Int("points", len(series)).Msg("exporting series")

	if opts.CSVPath != "" {
		if err := writeSeriesCSV(opts.CSVPath, series); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		png, err := chart.Render(series, metal, currency)
		if err != nil {
			return err
		}
		if err := ensureDir(opts.PNGPath); err != nil {
			return err
		}
		if err := os.WriteFile(opts.PNGPath, png, 0o644); err != nil {
			return err
		}
	}

	return nil
}

func writeSeriesCSV(path string, series market.Series) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"date", "price", "high", "low"}); err != nil {
		return err
	}

	for _, p := range series {
		record := []string{
			p.Date.Format(time.DateOnly),
			p.Price.StringFixed(4),
			p.High.StringFixed(4),
			p.Low.StringFixed(4),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
