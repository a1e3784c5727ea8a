package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/app"
	"github.com/vango-dev/routekit/internal/config"
	"github.com/vango-dev/routekit/pkg/assets"
	"github.com/vango-dev/routekit/pkg/middleware"
	"github.com/vango-dev/routekit/pkg/server"
)

func serveCmd(configDir *string) *cobra.Command {
	var (
		port int
		host string
		base string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the application",
		Long: `Serve the application over HTTP.

Every GET under the history base is resolved against the route
table. Matches render their view; anything else renders the
not-found page with status 404. Navigation messages are accepted
on the /_nav WebSocket.

Examples:
  routekit serve
  routekit serve --port=3000
  routekit serve --base=/app`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if base != "" {
				cfg.History.Base = base
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := cfg.Log.NewLogger(os.Stderr)
			srv, err := buildServer(ctx, cfg, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "Serving %s on http://%s", cfg.Name, cfg.Address())
			info(out, "History: %s, base %s", cfg.History.Mode, cfg.History.Base)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&base, "base", "", "History base path (default from config)")

	return cmd
}

// buildServer wires the application router, asset store, metrics and
// tracing described by cfg into a server.
func buildServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*server.Server, error) {
	a, err := app.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	r := a.Router()

	opts := server.Options{
		Router: r,
		Config: &server.Config{
			Address:         cfg.Address(),
			Title:           cfg.Name,
			AssetPrefix:     cfg.Assets.Prefix,
			MetricsPath:     cfg.Metrics.Path,
			ShutdownTimeout: cfg.ShutdownTimeout(),
		},
		Logger: logger,
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := middleware.Prometheus(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
		r.BeforeEach(m.Guard())
		r.OnError(m.ErrorHook())
		opts.Metrics = m
		opts.Gatherer = reg
	}

	if cfg.Tracing.Enabled {
		tracing := []middleware.OTelOption{middleware.WithTracerName(cfg.Tracing.TracerName)}
		r.BeforeEach(middleware.OpenTelemetry(tracing...))
		opts.Tracing = tracing
	}

	store, err := assetStore(cfg)
	if err != nil {
		return nil, err
	}
	if store != nil {
		manifest, err := assets.LoadManifest(ctx, store)
		if err != nil {
			logger.Warn("asset manifest unavailable, serving unfingerprinted names", "error", err)
		}
		opts.Assets = store
		opts.Resolver = assets.NewResolver(manifest, cfg.Assets.Prefix)
	}

	return server.New(opts)
}

func assetStore(cfg *config.Config) (assets.Store, error) {
	switch cfg.Assets.Source {
	case "s3":
		s3cfg := cfg.Assets.S3
		client := assets.NewS3Client(assets.S3Options{
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			PathStyle: s3cfg.PathStyle,
		})
		return assets.NewS3Store(client, s3cfg.Bucket, s3cfg.KeyPrefix), nil
	case "dir", "":
		dir := cfg.AssetsPath()
		fi, err := os.Stat(dir)
		if err != nil || !fi.IsDir() {
			return nil, nil
		}
		return assets.NewDirStore(os.DirFS(dir)), nil
	default:
		return nil, fmt.Errorf("unknown asset source %q", cfg.Assets.Source)
	}
}

// discard is used where a command needs a logger but prints its own output.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))
