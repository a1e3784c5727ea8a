package server

import (
	"net/http"
	"net/url"
	"time"
)

// Config holds server settings.
type Config struct {
	// Address is the listen address (default ":8080").
	Address string

	// Title is the document title.
	Title string

	// AssetPrefix is the URL prefix the asset store is mounted under.
	AssetPrefix string

	// MetricsPath is where metrics are exposed when a gatherer is set.
	MetricsPath string

	// NavPath is the navigation channel endpoint.
	NavPath string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// MaxMessageSize caps a single navigation message.
	MaxMessageSize int64

	// PingInterval is how often the channel pings idle clients. A client
	// that stays silent for twice this long is disconnected.
	PingInterval time.Duration

	// CheckOrigin validates the WebSocket request origin.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		Title:             "routekit",
		AssetPrefix:       "/assets",
		MetricsPath:       "/metrics",
		NavPath:           "/_nav",
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		MaxMessageSize:    16 * 1024,
		PingInterval:      30 * time.Second,
		CheckOrigin:       SameOriginCheck,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.Title == "" {
		out.Title = d.Title
	}
	if out.AssetPrefix == "" {
		out.AssetPrefix = d.AssetPrefix
	}
	if out.MetricsPath == "" {
		out.MetricsPath = d.MetricsPath
	}
	if out.NavPath == "" {
		out.NavPath = d.NavPath
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = d.IdleTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	if out.PingInterval == 0 {
		out.PingInterval = d.PingInterval
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = d.CheckOrigin
	}
	return &out
}

// SameOriginCheck accepts WebSocket requests whose Origin host matches the
// request host. Requests without an Origin header are accepted.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}
