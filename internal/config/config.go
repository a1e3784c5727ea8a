package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/routepath"
)

const (
	// JSONFileName is the JSON configuration file name.
	JSONFileName = "routekit.json"

	// TOMLFileName is the TOML configuration file name.
	TOMLFileName = "routekit.toml"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultAssetPrefix is the URL prefix assets are served under.
	DefaultAssetPrefix = "/assets"
)

// Environment variables that override file values.
const (
	EnvHost        = "ROUTEKIT_HOST"
	EnvPort        = "ROUTEKIT_PORT"
	EnvHistoryMode = "ROUTEKIT_HISTORY_MODE"
	EnvHistoryBase = "ROUTEKIT_HISTORY_BASE"
	EnvLogLevel    = "ROUTEKIT_LOG_LEVEL"
)

// Config is the complete routekit configuration.
type Config struct {
	// Name is the application name, used as the document title.
	Name string `json:"name,omitempty" toml:"name,omitempty"`

	// Server contains HTTP server settings.
	Server ServerConfig `json:"server,omitempty" toml:"server,omitempty"`

	// History selects the history strategy.
	History HistoryConfig `json:"history,omitempty" toml:"history,omitempty"`

	// Assets configures where the client bundle is served from.
	Assets AssetsConfig `json:"assets,omitempty" toml:"assets,omitempty"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics,omitempty" toml:"metrics,omitempty"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing,omitempty" toml:"tracing,omitempty"`

	// Log configures the structured logger.
	Log LogConfig `json:"log,omitempty" toml:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" toml:"host,omitempty"`
	Port int    `json:"port,omitempty" toml:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" toml:"shutdownTimeout,omitempty"`
}

// HistoryConfig selects how locations map onto URLs.
type HistoryConfig struct {
	// Mode is "web" (real paths) or "hash" (fragment).
	Mode string `json:"mode,omitempty" toml:"mode,omitempty"`

	// Base is the path the application is mounted under.
	Base string `json:"base,omitempty" toml:"base,omitempty"`

	// CaseSensitive makes "/LOGIN" and "/login" different locations.
	CaseSensitive bool `json:"caseSensitive,omitempty" toml:"caseSensitive,omitempty"`
}

// AssetsConfig configures the asset store.
type AssetsConfig struct {
	// Source is "dir" or "s3".
	Source string `json:"source,omitempty" toml:"source,omitempty"`

	// Dir is the local asset directory when Source is "dir".
	Dir string `json:"dir,omitempty" toml:"dir,omitempty"`

	// Prefix is the URL prefix assets are served under.
	Prefix string `json:"prefix,omitempty" toml:"prefix,omitempty"`

	// S3 configures the bucket when Source is "s3".
	S3 S3Config `json:"s3,omitempty" toml:"s3,omitempty"`
}

// S3Config locates assets in an S3 bucket.
type S3Config struct {
	Bucket    string `json:"bucket,omitempty" toml:"bucket,omitempty"`
	KeyPrefix string `json:"keyPrefix,omitempty" toml:"keyPrefix,omitempty"`
	Region    string `json:"region,omitempty" toml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint string `json:"endpoint,omitempty" toml:"endpoint,omitempty"`

	// PathStyle forces path-style bucket addressing.
	PathStyle bool `json:"pathStyle,omitempty" toml:"pathStyle,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" toml:"enabled,omitempty"`
	Path      string `json:"path,omitempty" toml:"path,omitempty"`
	Namespace string `json:"namespace,omitempty" toml:"namespace,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" toml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" toml:"tracerName,omitempty"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" toml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" toml:"format,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Name: "routekit",
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: "10s",
		},
		History: HistoryConfig{
			Mode: "web",
			Base: "/",
		},
		Assets: AssetsConfig{
			Source: "dir",
			Dir:    "public",
			Prefix: DefaultAssetPrefix,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "routekit",
		},
		Tracing: TracingConfig{
			TracerName: "routekit",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from dir, preferring routekit.json over
// routekit.toml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, TOMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("C002").
		WithDetail("No " + JSONFileName + " or " + TOMLFileName + " found in " + dir).
		WithSuggestion("Create " + JSONFileName + " or run with defaults (omit --config)")
}

// LoadFile reads configuration from the given path. The format follows the
// file extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C002").WithDetail("No configuration file at " + path)
		}
		return nil, errors.New("C001").Wrap(err)
	}

	cfg := New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("C001").
				WithDetail("Failed to parse " + path + ": " + err.Error()).
				WithSuggestion("Check that the file is valid TOML")
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("C001").
				WithDetail("Failed to parse " + path + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration as indented JSON.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("C001").Wrap(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("C001").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.History.Mode == "" {
		c.History.Mode = d.History.Mode
	}
	if c.History.Base == "" {
		c.History.Base = d.History.Base
	}
	if c.Assets.Source == "" {
		c.Assets.Source = d.Assets.Source
	}
	if c.Assets.Dir == "" {
		c.Assets.Dir = d.Assets.Dir
	}
	if c.Assets.Prefix == "" {
		c.Assets.Prefix = d.Assets.Prefix
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// ApplyEnv overrides fields from ROUTEKIT_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvHost); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("C003").WithDetail(EnvPort + " must be a number, got " + strconv.Quote(v))
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvHistoryMode); v != "" {
		c.History.Mode = v
	}
	if v := os.Getenv(EnvHistoryBase); v != "" {
		c.History.Base = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("C003").WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Server.Port))
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.New("C001").WithDetail("Invalid shutdownTimeout: " + err.Error())
	}
	switch c.History.Mode {
	case "web", "hash":
	default:
		return errors.New("C004").WithRoute(c.History.Mode)
	}
	if _, err := routepath.NormalizeBase(c.History.Base); err != nil {
		return errors.New("C005").WithRoute(c.History.Base).Wrap(err)
	}
	if !strings.HasPrefix(c.Assets.Prefix, "/") {
		return errors.New("C006").WithDetail("Asset prefix must start with \"/\".")
	}
	switch c.Assets.Source {
	case "dir":
	case "s3":
		if c.Assets.S3.Bucket == "" {
			return errors.New("C006").WithSuggestion("Set assets.s3.bucket")
		}
	default:
		return errors.New("C006").WithRoute(c.Assets.Source)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("C001").WithDetail(err.Error())
	}
	return nil
}

// Address returns host:port for the HTTP listener.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ShutdownTimeout returns the parsed shutdown timeout, defaulting to 10s.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// AssetsPath returns the asset directory resolved against the config dir.
func (c *Config) AssetsPath() string {
	if filepath.IsAbs(c.Assets.Dir) || c.Dir() == "" {
		return c.Assets.Dir
	}
	return filepath.Join(c.Dir(), c.Assets.Dir)
}

// NewLogger builds the slog logger described by the log settings.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}
