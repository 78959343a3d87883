package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hxstate/internal/config"
	"github.com/vango-dev/hxstate/internal/errors"
	"github.com/vango-dev/hxstate/pkg/middleware"
	"github.com/vango-dev/hxstate/pkg/server"
	"github.com/vango-dev/hxstate/pkg/session"
	"github.com/vango-dev/hxstate/pkg/state"
	"github.com/vango-dev/hxstate/pkg/view"
)

// serveFlags are the command-line overrides of serve.
type serveFlags struct {
	configPath string
	envFiles   []string
	addr       string
	variant    string
	store      string
	dsn        string
	pretty     bool
	lang       string
}

func serveCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

Configuration is read from hxstate.yaml, hxstate.yml or hxstate.json in
the working directory (or the file named by --config), then overridden by
HXSTATE_* environment variables (after loading .env files), then by flags.

Examples:
  hxstate serve
  hxstate serve --variant=todos --store=sqlite --dsn=state.db
  hxstate serve --config=deploy/hxstate.yaml --addr=:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, flags, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file (default: search the working directory)")
	cmd.Flags().StringSliceVar(&flags.envFiles, "env-file", []string{".env", ".env.local"}, "Environment files to load before reading HXSTATE_* variables")
	cmd.Flags().StringVarP(&flags.addr, "addr", "a", "", "Listen address")
	cmd.Flags().StringVar(&flags.variant, "variant", "", "Application variant: counter, todos or both")
	cmd.Flags().StringVar(&flags.store, "store", "", "Store backend: memory, redis, sqlite, postgres or s3")
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "SQLite path or PostgreSQL connection string")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "Indent HTML output")
	cmd.Flags().StringVar(&flags.lang, "lang", "en", "Document language of rendered pages")

	return cmd
}

// loadConfig layers file, environment and flags, then validates.
func loadConfig(flags serveFlags) (*config.Config, error) {
	if err := config.LoadDotEnv(flags.envFiles...); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.variant != "" {
		cfg.Server.Variant = config.Variant(flags.variant)
	}
	if flags.store != "" {
		cfg.Store.Backend = config.Backend(flags.store)
	}
	if flags.dsn != "" {
		cfg.Store.DSN = flags.dsn
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the log section.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// newMetrics returns nil when metrics are disabled.
func newMetrics(cfg *config.Config) *middleware.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return middleware.NewMetrics(
		middleware.WithRegistry(reg),
		middleware.WithNamespace(cfg.Metrics.Namespace),
		middleware.WithConstLabels(prometheus.Labels{"variant": string(cfg.Server.Variant)}),
	)
}

// newServer wires stores and settings into a server.
func newServer(cfg *config.Config, st *stores, flags serveFlags, logger *slog.Logger) (*server.Server, error) {
	var tracing []middleware.TracingOption
	if cfg.Tracing.TracerName != "" {
		tracing = append(tracing, middleware.WithTracerName(cfg.Tracing.TracerName))
	}

	return server.New(&server.ServerConfig{
		Address: cfg.Server.Addr,
		Variant: server.Variant(cfg.Server.Variant),
		Counter: state.NewCounterStore(st.bindings, st.counters),
		Todos:   state.NewTodoStore(st.todos),
		Resolver: session.NewResolver(
			session.WithCookieName(cfg.Server.CookieName),
			session.WithSecureCookies(cfg.Server.SecureCookies),
		),
		Composer:        view.NewComposer(view.Config{Pretty: flags.pretty, Lang: flags.lang}),
		Logger:          logger,
		Metrics:         newMetrics(cfg),
		MetricsPath:     cfg.Metrics.Path,
		Tracing:         cfg.Tracing.Enabled,
		TracingOptions:  tracing,
		ReadTimeout:     cfg.ReadTimeout(),
		WriteTimeout:    cfg.WriteTimeout(),
		ShutdownTimeout: cfg.ShutdownTimeout(),
	})
}

func runServe(ctx context.Context, cfg *config.Config, flags serveFlags, logw io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cfg, logw)
	slog.SetDefault(logger)

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	st, err := openStores(openCtx, cfg)
	if err != nil {
		return errors.New(errors.CodeConfigBackend).
			WithSuggestion("Check the store section of the configuration and that the backend is reachable.").
			Wrap(err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("closing store", "error", err)
		}
	}()
	logger.Info("store ready", "backend", cfg.Store.Backend)

	srv, err := newServer(cfg, st, flags, logger)
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	if cfg.Path() != "" {
		logger.Info("configuration loaded", "path", cfg.Path())
	}
	return srv.Run()
}
