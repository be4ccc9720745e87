// Package server exposes the exploration engine over HTTP: a thin JSON
// proxy for paper search and citation lookups, a one-shot render endpoint,
// and the usual health and metrics plumbing.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citegraph/citegraph/pkg/errors"
	"github.com/citegraph/citegraph/pkg/pipeline"
	"github.com/citegraph/citegraph/pkg/source"
)

const shutdownTimeout = 10 * time.Second

// Server holds all HTTP handler dependencies.
type Server struct {
	src    source.Source
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server around the given paper source and registers all
// routes. If logger is nil, the package default logger is used.
func New(src source.Source, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		src:    src,
		runner: pipeline.NewRunner(src, logger),
		logger: logger,
		router: chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)

	s.router.Get("/api/search", s.handleSearch)
	s.router.Get("/api/citations/{paperID}", s.handleCitations)
	s.router.Get("/api/render", s.handleRender)
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// GET /api/search?title=… — look up the best match for a paper title.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "title parameter is required")
		return
	}

	p, err := s.src.Search(r.Context(), title)
	if err != nil {
		s.writeSourceError(w, err, "no paper found for title")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GET /api/citations/{paperID} — list the papers a work references.
func (s *Server) handleCitations(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "paperID")
	if paperID == "" {
		writeError(w, http.StatusBadRequest, "paper id is required")
		return
	}

	refs, err := s.src.References(r.Context(), paperID)
	if err != nil {
		s.writeSourceError(w, err, "paper not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"citations": refs})
}

// GET /api/render?title=…&depth=…&format=… — one-shot graph render.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Title:    q.Get("title"),
		Format:   q.Get("format"),
		Detailed: q.Get("detailed") == "true",
	}
	if d := q.Get("depth"); d != "" {
		depth, err := strconv.Atoi(d)
		if err != nil {
			writeError(w, http.StatusBadRequest, "depth must be an integer")
			return
		}
		opts.Depth = depth
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		if errors.Is(err, errors.ErrCodePaperNotFound) {
			writeError(w, http.StatusNotFound, errors.UserMessage(err))
			return
		}
		s.logger.Error("render failed", "title", opts.Title, "err", err)
		writeError(w, http.StatusBadGateway, "upstream fetch failed")
		return
	}

	switch opts.Format {
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case pipeline.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	case pipeline.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifact)
}

// GET /healthz — liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeSourceError(w http.ResponseWriter, err error, msg string) {
	if isNotFound(err) {
		writeError(w, http.StatusNotFound, msg)
		return
	}
	s.logger.Error("upstream error", "err", err)
	writeError(w, http.StatusBadGateway, "upstream fetch failed")
}

func isNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodePaperNotFound) ||
		errors.Is(err, errors.ErrCodeNotFound) ||
		stderrors.Is(err, source.ErrNotFound)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
