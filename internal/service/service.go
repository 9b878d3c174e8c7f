// Package service orchestrates one dashboard render: series fetch,
// statistics, trend, alert evaluation and recording, chart, insight, and
// source search. Every step is total; the worst case is a fully mock page
// with notices, never a failed render.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gold-silver-alerts/internal/alerting"
	"gold-silver-alerts/internal/analysis"
	"gold-silver-alerts/internal/chart"
	"gold-silver-alerts/internal/insight"
	"gold-silver-alerts/internal/market"
	"gold-silver-alerts/internal/search"
	"gold-silver-alerts/internal/storage"
)

// Searcher yields news sources for the current price.
type Searcher interface {
	Search(ctx context.Context, metal market.Metal, currency market.Currency) ([]search.Source, string)
}

// Insighter produces market commentary from a prompt.
type Insighter interface {
	Generate(ctx context.Context, prompt string, metal market.Metal, changePct decimal.Decimal) string
}

// Options are the user selections driving one render.
type Options struct {
	Metal    market.Metal
	Currency market.Currency
	Alert    alerting.Config
}

// AlertResult describes a fired alert for display.
type AlertResult struct {
	Direction alerting.Direction
	Message   string
}

// View is the full dashboard model for one render.
type View struct {
	Metal         market.Metal
	Currency      market.Currency
	Series        market.Series
	Stats         analysis.Stats
	Trend         analysis.Trend
	Origin        market.Origin
	Notices       []string
	PricePosition float64
	Alert         *AlertResult
	ChartPNG      []byte
	Insight       string
	GeneratedAt   time.Time
}

// Service wires the providers together for the web and CLI layers.
type Service struct {
	series   market.SeriesProvider
	searcher Searcher
	insights Insighter
	history  storage.AlertHistory
	store    *storage.Store
	mailer   *alerting.Mailer
	logger   zerolog.Logger
}

// New constructs the render service. store and mailer may be nil; history
// must not be.
func New(series market.SeriesProvider, searcher Searcher, insights Insighter, history storage.AlertHistory, store *storage.Store, mailer *alerting.Mailer, logger zerolog.Logger) *Service {
	return &Service{
		series:   series,
		searcher: searcher,
		insights: insights,
		history:  history,
		store:    store,
		mailer:   mailer,
		logger:   logger.With().Str("component", "service").Logger(),
	}
}

// Render performs one full dashboard computation.
func (s *Service) Render(ctx context.Context, opts Options) *View {
	series, origin, notices := s.series.FetchSeries(ctx, opts.Metal, opts.Currency)

	stats := analysis.Compute(series)
	trend := analysis.Classify(stats.ChangePct)

	view := &View{
		Metal:         opts.Metal,
		Currency:      opts.Currency,
		Series:        series,
		Stats:         stats,
		Trend:         trend,
		Origin:        origin,
		Notices:       notices,
		PricePosition: analysis.PricePosition(stats),
		GeneratedAt:   time.Now(),
	}

	if opts.Alert.Enabled {
		view.Alert = s.evaluateAlert(ctx, opts, stats, trend)
	}

	png, err := chart.Render(series, opts.Metal, opts.Currency)
	if err != nil {
		s.logger.Error().Err(err).Msg("chart render failed")
	} else {
		view.ChartPNG = png
	}

	if s.insights != nil {
		prompt := insight.Prompt(opts.Metal, opts.Currency, stats)
		view.Insight = s.insights.Generate(ctx, prompt, opts.Metal, stats.ChangePct)
	}

	return view
}

// Sources fetches the news-tab results.
func (s *Service) Sources(ctx context.Context, metal market.Metal, currency market.Currency) ([]search.Source, string) {
	if s.searcher == nil {
		return nil, "Source search is not configured."
	}
	return s.searcher.Search(ctx, metal, currency)
}

// History returns the recorded alert events in insertion order.
func (s *Service) History() ([]storage.Event, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List()
}

func (s *Service) evaluateAlert(ctx context.Context, opts Options, stats analysis.Stats, trend analysis.Trend) *AlertResult {
	fired, direction := alerting.Evaluate(opts.Alert.Mode, opts.Alert.ThresholdPct, stats.ChangePct)
	if !fired {
		return nil
	}

	metalName := opts.Metal.Title()
	var message string
	if direction == alerting.DirectionDrop {
		message = fmt.Sprintf("ALERT: %s price dropped by %s%%!", metalName, stats.ChangePct.Abs().StringFixed(2))
	} else {
		message = fmt.Sprintf("ALERT: %s price rose by %s%%!", metalName, stats.ChangePct.StringFixed(2))
	}

	s.recordAlert(ctx, opts, stats, trend, direction)

	return &AlertResult{Direction: direction, Message: message}
}

// recordAlert appends the event to the history file, mirrors it to
// Postgres when configured, and mails the notification when SMTP is set
// up. Each step is log-and-continue.
func (s *Service) recordAlert(ctx context.Context, opts Options, stats analysis.Stats, trend analysis.Trend, direction alerting.Direction) {
	event := storage.Event{
		Metal:     string(opts.Metal),
		Price:     stats.Current.InexactFloat64(),
		AlertType: string(direction),
		Timestamp: time.Now().UTC(),
	}

	if s.history != nil {
		if err := s.history.Append(event); err != nil {
			s.logger.Error().Err(err).Msg("failed to append alert history")
		}
	}

	if s.store != nil {
		if err := s.store.InsertAlert(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("failed to persist alert to database")
		}
	}

	if s.mailer != nil {
		if err := s.mailer.SendAlert(string(opts.Metal), stats.Current, stats.ChangePct, trend.Label, opts.Currency.Sign()); err != nil {
			s.logger.Error().Err(err).Msg("failed to send alert email")
		}
	}
}
