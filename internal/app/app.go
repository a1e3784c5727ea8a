// Package app is the composition root: it declares the route table and
// builds the router the rest of the program navigates with.
package app

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/routekit/internal/config"
	"github.com/vango-dev/routekit/pkg/router"
	"github.com/vango-dev/routekit/pkg/views"
)

// Routes returns the application route table. Only Login forwards props.
func Routes() router.Table {
	return router.Table{
		{
			Path: "/",
			Name: "Home",
			View: views.Home,
		},
		{
			Path:  "/login",
			Name:  "Login",
			View:  views.Login,
			Props: true,
		},
	}
}

// History returns the history strategy selected by cfg.
func History(cfg config.HistoryConfig) router.History {
	if cfg.Mode == string(router.ModeHash) {
		return router.HashHistory(cfg.Base)
	}
	return router.WebHistory(cfg.Base)
}

// Build constructs the router from the application table. Static
// segments match regardless of letter case.
func Build(history router.History, logger *slog.Logger) (*router.Router, error) {
	return build(history, logger, false)
}

func build(history router.History, logger *slog.Logger, sensitive bool) (*router.Router, error) {
	return router.New(router.Options{
		History:   history,
		Routes:    Routes(),
		Logger:    logger,
		Sensitive: sensitive,
	})
}

// App owns the router and hands it to whatever needs navigation.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	router *router.Router
}

// New builds the application from its configuration.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r, err := build(History(cfg.History), logger, cfg.History.CaseSensitive)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, Logger: logger, router: r}, nil
}

// Router returns the application's routing authority.
func (a *App) Router() *router.Router {
	return a.router
}

var (
	defaultRouter *router.Router
	defaultOnce   sync.Once
)

// Default returns a process-wide router with path-based history rooted at
// "/". It is built on first use and the same instance is returned
// afterwards. The application table is static, so construction cannot fail.
func Default() *router.Router {
	defaultOnce.Do(func() {
		defaultRouter = router.MustNew(router.Options{
			History: router.WebHistory("/"),
			Routes:  Routes(),
		})
	})
	return defaultRouter
}
