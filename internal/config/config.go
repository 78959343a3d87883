package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/hxstate/internal/errors"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultCookieName is the cookie that carries the client identity.
	DefaultCookieName = "session"

	// DefaultSQLTable is the default table for the SQL store backends.
	DefaultSQLTable = "hxstate_state"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "HXSTATE_"
)

// ConfigFileNames are searched in order by Load.
var ConfigFileNames = []string{"hxstate.yaml", "hxstate.yml", "hxstate.json"}

// Variant selects which application the server mounts.
type Variant string

const (
	VariantCounter Variant = "counter"
	VariantTodos   Variant = "todos"
	VariantBoth    Variant = "both"
)

// Backend selects the state store implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendRedis    Backend = "redis"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendS3       Backend = "s3"
)

// Config represents the complete hxstate configuration.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Variant is counter, todos or both.
	Variant Variant `json:"variant,omitempty" yaml:"variant,omitempty"`

	// CookieName is the name of the identity cookie.
	CookieName string `json:"cookieName,omitempty" yaml:"cookieName,omitempty"`

	// SecureCookies sets the Secure flag on the identity cookie.
	SecureCookies bool `json:"secureCookies,omitempty" yaml:"secureCookies,omitempty"`

	// ReadTimeout, WriteTimeout and ShutdownTimeout are durations such as "10s".
	ReadTimeout     string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout    string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// StoreConfig selects and configures the state store backend.
type StoreConfig struct {
	Backend Backend `json:"backend,omitempty" yaml:"backend,omitempty"`

	// DSN is the SQLite path or PostgreSQL connection string.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	// SQLTable is the table both SQL backends use.
	SQLTable string `json:"sqlTable,omitempty" yaml:"sqlTable,omitempty"`

	Redis RedisConfig `json:"redis" yaml:"redis"`
	S3    S3Config    `json:"s3" yaml:"s3"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// DB holds state records.
	DB int `json:"db,omitempty" yaml:"db,omitempty"`

	// BindingDB holds identity to state key bindings. When it equals DB,
	// both live in one database and are kept apart by key prefix.
	BindingDB int `json:"bindingDB,omitempty" yaml:"bindingDB,omitempty"`
}

// S3Config configures the S3 backend.
type S3Config struct {
	Bucket       string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix       string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region       string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty" yaml:"usePathStyle,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			Variant:         VariantBoth,
			CookieName:      DefaultCookieName,
			ReadTimeout:     "10s",
			WriteTimeout:    "10s",
			ShutdownTimeout: "15s",
		},
		Store: StoreConfig{
			Backend:  BackendMemory,
			SQLTable: DefaultSQLTable,
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				DB:        1,
				BindingDB: 0,
			},
			S3: S3Config{
				Prefix: "hxstate/",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "hxstate",
			Path:      "/metrics",
		},
		Tracing: TracingConfig{
			TracerName: "github.com/vango-dev/hxstate",
		},
	}
}

// Load loads the first configuration file found in dir. A directory with
// no configuration file yields the defaults.
func Load(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile loads configuration from path. The format follows the extension:
// .json is JSON, anything else is YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No configuration file at " + path).
				WithSuggestion("Pass --config with an existing hxstate.yaml or hxstate.json")
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	cfg := New()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(expanded, cfg)
	} else {
		err = yaml.Unmarshal(expanded, cfg)
	}
	if err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE files into the process environment. Missing
// files are skipped and variables already set are never overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env", ".env.local"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("Failed to load " + p + ": " + err.Error())
		}
	}
	return nil
}

// ApplyEnv overrides fields from HXSTATE_* environment variables.
func (c *Config) ApplyEnv() {
	if v, ok := lookup("ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup("VARIANT"); ok {
		c.Server.Variant = Variant(strings.ToLower(v))
	}
	if v, ok := lookup("STORE"); ok {
		c.Store.Backend = Backend(strings.ToLower(v))
	}
	if v, ok := lookup("DSN"); ok {
		c.Store.DSN = v
	}
	if v, ok := lookup("REDIS_ADDR"); ok {
		c.Store.Redis.Addr = v
	}
	if v, ok := lookup("REDIS_PASSWORD"); ok {
		c.Store.Redis.Password = v
	}
	if v, ok := lookup("S3_BUCKET"); ok {
		c.Store.S3.Bucket = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("SECURE_COOKIES"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Server.SecureCookies = b
		}
	}
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Path returns the path the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills fields a config file left empty.
func (c *Config) applyDefaults() {
	d := New()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.Variant == "" {
		c.Server.Variant = d.Server.Variant
	}
	if c.Server.CookieName == "" {
		c.Server.CookieName = d.Server.CookieName
	}
	if c.Store.Backend == "" {
		c.Store.Backend = d.Store.Backend
	}
	if c.Store.SQLTable == "" {
		c.Store.SQLTable = d.Store.SQLTable
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	invalid := func(detail string) error {
		return errors.New(errors.CodeConfigInvalid).WithDetail(detail)
	}

	switch c.Server.Variant {
	case VariantCounter, VariantTodos, VariantBoth:
	default:
		return invalid("server.variant must be one of counter, todos, both; got " + strconv.Quote(string(c.Server.Variant)))
	}

	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendSQLite, BackendPostgres:
	case BackendS3:
		if c.Store.S3.Bucket == "" {
			return invalid("store.s3.bucket is required for the s3 backend")
		}
	default:
		return invalid("store.backend must be one of memory, redis, sqlite, postgres, s3; got " + strconv.Quote(string(c.Store.Backend)))
	}

	if c.Server.CookieName == "" {
		return invalid("server.cookieName must not be empty")
	}
	if c.Store.Redis.DB < 0 || c.Store.Redis.BindingDB < 0 {
		return invalid("store.redis.db and store.redis.bindingDB must not be negative")
	}

	for name, v := range map[string]string{
		"server.readTimeout":     c.Server.ReadTimeout,
		"server.writeTimeout":    c.Server.WriteTimeout,
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
	} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d < 0 {
			return invalid(name + " must be a non-negative duration such as \"10s\"")
		}
	}

	if _, ok := parseLevel(c.Log.Level); !ok {
		return invalid("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json")
	}
	return nil
}

// ReadTimeout returns the parsed server read timeout, or 0 when unset.
func (c *Config) ReadTimeout() time.Duration { return parseDuration(c.Server.ReadTimeout) }

// WriteTimeout returns the parsed server write timeout, or 0 when unset.
func (c *Config) WriteTimeout() time.Duration { return parseDuration(c.Server.WriteTimeout) }

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	if d := parseDuration(c.Server.ShutdownTimeout); d > 0 {
		return d
	}
	return 15 * time.Second
}

func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// SlogLevel returns the configured log level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
