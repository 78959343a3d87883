package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vango-dev/hxstate/pkg/middleware"
	"github.com/vango-dev/hxstate/pkg/session"
	"github.com/vango-dev/hxstate/pkg/state"
	"github.com/vango-dev/hxstate/pkg/view"
)

// Variant selects which application the server mounts.
type Variant string

const (
	// VariantCounter mounts the counter/name application at /.
	VariantCounter Variant = "counter"

	// VariantTodos mounts the to-do application at /.
	VariantTodos Variant = "todos"

	// VariantBoth mounts the to-do application at / and the counter page
	// at /counter.
	VariantBoth Variant = "both"
)

func (v Variant) counter() bool { return v == VariantCounter || v == VariantBoth }
func (v Variant) todos() bool   { return v == VariantTodos || v == VariantBoth }

// ServerConfig holds the dependencies and settings of a Server.
type ServerConfig struct {
	// Address is the address to listen on.
	// Default: ":8080".
	Address string

	// Variant selects the mounted application.
	// Default: VariantBoth.
	Variant Variant

	// Counter stores counter records. Required for the counter variant.
	Counter *state.CounterStore

	// Todos stores to-do lists. Required for the todos variant.
	Todos *state.TodoStore

	// Resolver maps requests to client identities.
	// Default: session.NewResolver().
	Resolver *session.Resolver

	// Composer renders pages and fragments.
	// Default: view.NewComposer(view.Config{}).
	Composer *view.Composer

	// Logger receives handler and lifecycle logs.
	// Default: slog.Default().
	Logger *slog.Logger

	// Metrics records request and action metrics, and is served at
	// MetricsPath. Nil disables both.
	Metrics *middleware.Metrics

	// MetricsPath is where Metrics is served.
	// Default: "/metrics".
	MetricsPath string

	// Tracing enables the OpenTelemetry middleware.
	Tracing bool

	// TracingOptions are passed to middleware.Tracing.
	TracingOptions []middleware.TracingOption

	// ReadHeaderTimeout is the http.Server read header timeout.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ReadTimeout is the http.Server read timeout.
	// Default: 15 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the http.Server write timeout.
	// Default: 15 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the http.Server idle timeout.
	// Default: 60 seconds.
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15 seconds.
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a ServerConfig with in-memory stores.
func DefaultServerConfig() *ServerConfig {
	mem := session.NewMemoryStore()
	return &ServerConfig{
		Address: ":8080",
		Variant: VariantBoth,
		Counter: state.NewCounterStore(
			session.Namespace(mem, "binding:"),
			session.Namespace(mem, "counter:"),
		),
		Todos:             state.NewTodoStore(session.Namespace(mem, "todos:")),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   15 * time.Second,
	}
}

// ValidateConfig reports the first missing dependency.
func (c *ServerConfig) ValidateConfig() error {
	switch c.Variant {
	case VariantCounter, VariantTodos, VariantBoth:
	default:
		return fmt.Errorf("server: unknown variant %q", c.Variant)
	}
	if c.Variant.counter() && c.Counter == nil {
		return fmt.Errorf("server: variant %s requires a counter store", c.Variant)
	}
	if c.Variant.todos() && c.Todos == nil {
		return fmt.Errorf("server: variant %s requires a todo store", c.Variant)
	}
	return nil
}

func (c *ServerConfig) applyDefaults() {
	defaults := DefaultServerConfig()
	if c.Address == "" {
		c.Address = defaults.Address
	}
	if c.Variant == "" {
		c.Variant = defaults.Variant
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
	if c.Resolver == nil {
		c.Resolver = session.NewResolver()
	}
	if c.Composer == nil {
		c.Composer = view.NewComposer(view.Config{})
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaults.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaults.IdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
}
