package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/hxstate/pkg/middleware"
	"github.com/vango-dev/hxstate/pkg/session"
	"github.com/vango-dev/hxstate/pkg/state"
	"github.com/vango-dev/hxstate/pkg/view"
)

const contentTypeHTML = "text/html; charset=utf-8"

// Server serves the counter and to-do applications.
type Server struct {
	config *ServerConfig

	counter  *state.CounterStore
	todos    *state.TodoStore
	resolver *session.Resolver
	composer *view.Composer
	metrics  *middleware.Metrics

	// newItemID mints to-do item ids.
	newItemID func() string

	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server. Unset fields of config take their defaults; a
// variant whose store is missing is an error.
func New(config *ServerConfig) (*Server, error) {
	if config == nil {
		config = DefaultServerConfig()
	}
	config.applyDefaults()
	if err := config.ValidateConfig(); err != nil {
		return nil, err
	}

	s := &Server{
		config:    config,
		counter:   config.Counter,
		todos:     config.Todos,
		resolver:  config.Resolver,
		composer:  config.Composer,
		metrics:   config.Metrics,
		newItemID: session.NewID,
		logger:    config.Logger.With("component", "server"),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if s.config.Tracing {
		r.Use(middleware.Tracing(s.config.TracingOptions...))
	}
	r.Use(s.metrics.Middleware)
	r.Use(middleware.RequestLogger(s.config.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, s.config.MetricsPath, s.metrics.Handler())
	}

	variant := s.config.Variant
	if variant.counter() {
		page := "/"
		if variant == VariantBoth {
			page = "/counter"
		}
		r.Get(page, s.handleCounterPage)
		r.Post("/name", s.handleSubmitName)
		r.Post("/clicked", s.handleIncrement)
	}
	if variant.todos() {
		r.Get("/", s.handleTodoPage)
		r.Post("/todos", s.handleAdd)
		r.Post("/todos/clear-completed", s.handleClearCompleted)
		r.Patch("/todos/{id}", s.handleToggle)
		r.Delete("/todos/{id}", s.handleDelete)
		r.Get("/todos/edit/{id}", s.handleEditForm)
		r.Post("/todos/update/{id}", s.handleRename)
	}
	return r
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// identity resolves the client and, for a freshly minted identity, sets the
// cookie before anything else is written.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) session.Identity {
	id := s.resolver.Resolve(r)
	if id.New {
		s.resolver.Persist(w, id)
		s.metrics.RecordSessionMinted()
		middleware.MarkNewSession(r.Context())
	}
	return id
}

// fragments writes frags as the response body.
func (s *Server) fragments(w http.ResponseWriter, r *http.Request, action string, frags ...view.Fragment) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := s.composer.Fragments(w, frags...); err != nil {
		s.fail(w, r, action, renderError(err))
	}
}

// Run starts the server and blocks until SIGINT, SIGTERM or a listen error.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	// Set up graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", "address", s.config.Address, "variant", s.config.Variant)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}
