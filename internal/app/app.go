package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"gold-silver-alerts/internal/alerting"
	"gold-silver-alerts/internal/config"
	"gold-silver-alerts/internal/insight"
	"gold-silver-alerts/internal/market"
	"gold-silver-alerts/internal/search"
	"gold-silver-alerts/internal/service"
	"gold-silver-alerts/internal/storage"
	"gold-silver-alerts/internal/web"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newSeriesProvider() market.SeriesProvider {
	rates := market.NewExchangeRate(market.ExchangeRateOptions{
		APIKey:  a.Config.ExchangeRate.APIKey,
		BaseURL: a.Config.ExchangeRate.BaseURL,
		Timeout: a.Config.ExchangeRate.RequestTimeout,
	}, a.Logger)

	return market.NewHistorical(market.HistoricalOptions{
		APIKey:  a.Config.Metals.APIKey,
		BaseURL: a.Config.Metals.BaseURL,
		Timeout: a.Config.Metals.RequestTimeout,
	}, rates, a.Logger)
}

func (a *App) newMailer() *alerting.Mailer {
	if !a.Config.MailEnabled() {
		return nil
	}
	return alerting.NewMailer(alerting.MailerOptions{
		Server:   a.Config.SMTP.Server,
		Port:     a.Config.SMTP.Port,
		Email:    a.Config.SMTP.Email,
		Password: a.Config.SMTP.Password,
		To:       a.Config.SMTP.To,
	}, a.Logger)
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}

	return store, store.Close, nil
}

// newService assembles the render service with every provider wired.
func (a *App) newService(ctx context.Context) (*service.Service, func(), error) {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if a.Config.Database.DSN == "" {
		a.Logger.Debug().Msg("database.dsn not configured; alert history mirrored to file only")
	}

	searcher := search.NewExa(search.Options{
		APIKey:     a.Config.Search.APIKey,
		BaseURL:    a.Config.Search.BaseURL,
		MaxResults: a.Config.Search.MaxResults,
		Timeout:    a.Config.Search.RequestTimeout,
	}, a.Logger)

	insights := insight.NewGenerator(insight.Options{
		APIKey:  a.Config.Insights.APIKey,
		BaseURL: a.Config.Insights.BaseURL,
		Model:   a.Config.Insights.Model,
		Timeout: a.Config.Insights.RequestTimeout,
	}, a.Logger)

	history := storage.NewFileStore(a.Config.History.Path, a.Logger)

	svc := service.New(a.newSeriesProvider(), searcher, insights, history, store, a.newMailer(), a.Logger)

	closer := func() {}
	if closeStore != nil {
		closer = closeStore
	}
	return svc, closer, nil
}

// Serve runs the dashboard HTTP server until interrupted.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, closeSvc, err := a.newService(ctx)
	if err != nil {
		return err
	}
	defer closeSvc()

	server, err := web.NewServer(a.Config, svc, a.Logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         a.Config.Server.Addr,
		Handler:      server.Handler(),
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.Config.Server.Addr).Msg("dashboard listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info().Msg("shutting down dashboard server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}

// ExportOptions hold parameters for exporting the current series.
type ExportOptions struct {
	Metal    string
	Currency string
	PNGPath  string
	CSVPath  string
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}
