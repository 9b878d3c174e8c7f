package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"gold-silver-alerts/internal/storage"
)

// Show prints recorded alerts: newest-first from PostgreSQL when
// configured, otherwise the tail of the history file.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	events, err := a.loadAlerts(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stdout, "no alerts recorded")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tMetal\tPrice\tType")
	for _, e := range events {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%.2f\t%s\n",
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Metal,
			e.Price,
			e.AlertType,
		)
	}
	return writer.Flush()
}

func (a *App) loadAlerts(ctx context.Context, limit int) ([]storage.Event, error) {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	if store != nil {
		defer closeStore()
		return store.ListRecentAlerts(ctx, limit)
	}

	history := storage.NewFileStore(a.Config.History.Path, a.Logger)
	events, err := history.List()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}
