package server

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adit9852/ChurnAI-Dashboard/internal/config"
	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
	"github.com/adit9852/ChurnAI-Dashboard/internal/viz"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/style.css
var styleCSS []byte

// Server renders the dashboard pages and serves the JSON API they consume.
// One dataset per process; derived results are memoized by input parameters.
type Server struct {
	cfg     *config.Settings
	table   *dataset.Table
	builder *viz.Builder
	log     *slog.Logger
	memo    *memoCache
	tmpl    *template.Template
}

// New wires a loaded table into a dashboard server.
func New(cfg *config.Settings, table *dataset.Table, log *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{
		cfg:     cfg,
		table:   table,
		builder: viz.NewBuilder(cfg.Visualization),
		log:     log,
		memo:    newMemoCache(),
		tmpl:    tmpl,
	}, nil
}

// Router assembles the chi router: HTML pages, static assets, and the
// versioned JSON API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(s.log))

	r.Get("/", s.page("overview"))
	r.Get("/detailed", s.page("detailed"))
	r.Get("/prediction", s.page("prediction"))
	r.Get("/segments", s.page("segments"))
	r.Get("/analytics", s.page("analytics"))
	r.Get("/static/style.css", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		_, _ = w.Write(styleCSS)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/overview", s.handleOverview)
		r.Get("/detailed", s.handleDetailed)
		r.Post("/train", s.handleTrain)
		r.Post("/predict", s.handlePredict)
		r.Get("/segments", s.handleSegments)
		r.Get("/analytics/clv", s.handleCLV)
		r.Get("/analytics/risk", s.handleRisk)
		r.Get("/analytics/engagement", s.handleEngagement)
		r.Get("/analytics/recommendations", s.handleRecommendations)
		r.Get("/export/{report}.csv", s.handleExport)
	})
	return r
}

// ListenAndServe runs the HTTP server with the configured timeouts.
func (s *Server) ListenAndServe() error {
	timeout := time.Duration(s.cfg.Server.RequestTimeoutSec) * time.Second
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Router(),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.log.Info("dashboard listening", "addr", s.cfg.Server.Addr, "customers", s.table.Len())
	return srv.ListenAndServe()
}

type pageData struct {
	Title  string
	Active string
}

func (s *Server) page(name string) http.HandlerFunc {
	titles := map[string]string{
		"overview":   "Overview",
		"detailed":   "Detailed Analysis",
		"prediction": "Churn Prediction",
		"segments":   "Customer Segments",
		"analytics":  "Advanced Analytics",
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := s.tmpl.ExecuteTemplate(w, name+".html", pageData{Title: titles[name], Active: name})
		if err != nil {
			s.log.Error("render page", "page", name, "error", err)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"customers": s.table.Len(),
	})
}
