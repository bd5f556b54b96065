package preview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/uploadbox/pkg/live"
	"github.com/vango-dev/uploadbox/pkg/render"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
)

// DefaultMaxUploadBytes bounds a single /attach request.
const DefaultMaxUploadBytes = 64 << 20

// Config configures a preview Server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// Box is the upload box being served. Required.
	Box *uploadbox.Box

	// Hub pushes box updates to browsers. Required; it must be bound to Box.
	Hub *live.Hub

	// API fetches files for the /view route. Nil disables /view.
	API uploadbox.API

	// Downloads serves payloads saved for the browser under /download.
	// Nil disables /download/{token}.
	Downloads *Downloads

	// Gatherer backs /metrics. Nil disables /metrics.
	Gatherer prometheus.Gatherer

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Title is the page title.
	Title string

	// MaxUploadBytes bounds /attach request bodies.
	MaxUploadBytes int64

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// Server is the preview HTTP server.
type Server struct {
	config   Config
	logger   *slog.Logger
	renderer *render.Renderer
	router   chi.Router

	httpServer *http.Server
}

// New creates a Server and its routes.
func New(config Config) (*Server, error) {
	if config.Box == nil || config.Hub == nil {
		return nil, errors.New("preview: Box and Hub are required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Title == "" {
		config.Title = "uploadbox preview"
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		config:   config,
		logger:   config.Logger,
		renderer: render.NewRenderer(render.RendererConfig{}),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/box", s.handleFragment)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/ws", s.config.Hub)

	r.Post("/attach", s.handleAttach)
	r.Get("/server-files", s.handleGetServerFiles)
	r.Put("/server-files", s.handleSetServerFiles)
	r.Get("/pending", s.handlePending)
	r.Post("/actions/{action}", s.handleAction)
	r.Post("/commit", s.handleCommit)

	if s.config.API != nil {
		r.Get("/view", s.handleView)
	}
	if s.config.Downloads != nil {
		r.Get("/download/{token}", s.config.Downloads.ServeHTTP)
	}
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server starting", "address", s.config.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes live connections and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.config.Hub.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}

// requestLogger logs one record per request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debug("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
