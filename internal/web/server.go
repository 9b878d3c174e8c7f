// Package web serves the dashboard: a single interactive page whose form
// controls drive a full recomputation on every request.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"gold-silver-alerts/internal/alerting"
	"gold-silver-alerts/internal/config"
	"gold-silver-alerts/internal/service"
)

//go:embed templates
var templateFS embed.FS

// Server is the dashboard HTTP server.
type Server struct {
	cfg    *config.Config
	svc    *service.Service
	logger zerolog.Logger
	tmpl   *template.Template
	router chi.Router
}

// NewServer builds the router and parses the page template.
func NewServer(cfg *config.Config, svc *service.Service, logger zerolog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		svc:    svc,
		logger: logger.With().Str("component", "web").Logger(),
		tmpl:   tmpl,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleDashboard)
	r.Get("/healthz", s.handleHealth)
	s.router = r

	return s, nil
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleDashboard recomputes the whole page from the query-string controls.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := parseControls(r.URL.Query().Get, s.cfg.Alerting)

	opts := service.Options{
		Metal:    c.Metal,
		Currency: c.Currency,
		Alert: alerting.Config{
			Enabled:      c.AlertEnabled,
			Mode:         c.AlertMode,
			ThresholdPct: c.ThresholdPct,
		},
	}

	view := s.svc.Render(ctx, opts)
	pv := buildPageView(c, view, s.cfg)

	if c.Tab == "sources" {
		pv.Sources, pv.SourceNotice = s.svc.Sources(ctx, c.Metal, c.Currency)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "dashboard.html.tmpl", pv); err != nil {
		s.logger.Error().Err(err).Msg("template execution failed")
	}
}
