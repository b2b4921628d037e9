// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the interactive form for running the workflow and
// viewing job reports.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mounimanda/agripapers/internal/store"
	"github.com/mounimanda/agripapers/pkg/types"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Runner executes one workflow run. Implemented by agent.Agent.
type Runner interface {
	Run(ctx context.Context, userID, goal string) (*types.JobReport, error)
}

// Reporter fetches stored job reports. Implemented by store.Store.
type Reporter interface {
	FetchJobReport(ctx context.Context, jobID string) (*types.JobReport, error)
}

// defaultGoal pre-fills the form's goal field.
const defaultGoal = "Find the top 3 recent AI research papers on agriculture, summarize them, and store output."

// Server is the web UI server.
type Server struct {
	runner    Runner
	reporter  Reporter
	templates *template.Template
	logger    zerolog.Logger
}

// NewServer builds the server and parses the embedded templates.
func NewServer(runner Runner, reporter Reporter, logger zerolog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Server{
		runner:    runner,
		reporter:  reporter,
		templates: tmpl,
		logger:    logger.With().Str("component", "web").Logger(),
	}, nil
}

// Handler returns the chi router for the UI.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/run", s.handleRun)
	r.Get("/jobs/{jobID}/report.json", s.handleReportJSON)
	r.Get("/healthz", s.handleHealth)

	return r
}

// ListenAndServe runs the UI on addr until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute, // a run blocks on search and LLM calls
		IdleTimeout:  60 * time.Second,
	}
	s.logger.Info().Str("addr", addr).Msg("listening")
	return srv.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		UserID string
		Goal   string
	}{"demo-user", defaultGoal}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error().Err(err).Msg("rendering index")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	userID := r.FormValue("user_id")
	goal := r.FormValue("goal")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if goal == "" {
		goal = defaultGoal
	}

	report, err := s.runner.Run(r.Context(), userID, goal)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("run failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.templates.ExecuteTemplate(w, "report.html", report); err != nil {
		s.logger.Error().Err(err).Msg("rendering report")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	report, err := s.reporter.FetchJobReport(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("fetching report")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", jobID))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		s.logger.Error().Err(err).Msg("encoding report")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
