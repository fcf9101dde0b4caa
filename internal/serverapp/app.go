// Package serverapp owns the server lifecycle: it assembles the model,
// accessor, engine, and HTTP surface, and tears them down in reverse order.
package serverapp

import (
	"database/sql"
	"fmt"
	"net/http"
	"sync"

	"collection-graphql/internal/config"
	"collection-graphql/internal/engine"
	"collection-graphql/internal/logging"
	"collection-graphql/internal/observability"
)

// App owns runtime resources for the server lifecycle.
type App struct {
	cfg    *config.Config
	logger *logging.Logger

	metrics        *observability.QueryMetrics
	tracerProvider *observability.TracerProvider

	db  *sql.DB
	eng *engine.Engine

	handler http.Handler
	srv     *http.Server

	cleanup cleanupStack

	stateMu      sync.Mutex
	initialized  bool
	started      bool
	serverErrors chan error

	shutdownOnce sync.Once
}

// New creates an App lifecycle wrapper.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &App{cfg: cfg, logger: logger}, nil
}

// Engine exposes the compiled engine, for embedders and tests.
func (a *App) Engine() *engine.Engine {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.eng
}

// Handler exposes the assembled HTTP handler, for tests.
func (a *App) Handler() http.Handler {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.handler
}
