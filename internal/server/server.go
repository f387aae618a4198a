// Package server exposes the render cycle over HTTP: table listings,
// previews and PNG charts, plus health and Prometheus endpoints.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"dataviz/internal/config"
	"dataviz/internal/log"
	"dataviz/internal/metrics"
	"dataviz/internal/pipeline"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Server serves one data directory
type Server struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	router   chi.Router
}

// New builds the router for cfg
func New(cfg *config.Config) (*Server, error) {
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := p.Files(); err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, pipeline: p}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Plot-Title", "X-Plot-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())
	s.RegisterRoutes(r)

	s.router = r
	return s, nil
}

// RegisterRoutes mounts the table API on r
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/tables", func(r chi.Router) {
		r.Get("/", s.listTables)
		r.Get("/{name}", s.getTable)
		r.Get("/{name}/plot", s.plotTable)
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on cfg.Server.Address until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.LogWithFields(log.F("address", srv.Addr), log.F("dir", s.pipeline.Dir())).Info("serving charts")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request and counts it by route pattern and status
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

		log.LogWithFields(
			log.F("method", r.Method),
			log.F("route", route),
			log.F("status", status),
			log.F("bytes", ww.BytesWritten()),
			log.F("duration", time.Since(start).String()),
			log.F("request_id", middleware.GetReqID(r.Context())),
		).Debug("http request")
	})
}
