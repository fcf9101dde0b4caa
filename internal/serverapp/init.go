package serverapp

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	gqlhandler "github.com/graphql-go/handler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"collection-graphql/internal/accessor"
	"collection-graphql/internal/engine"
	"collection-graphql/internal/middleware"
	"collection-graphql/internal/model"
	"collection-graphql/internal/observability"
	"collection-graphql/internal/sqlaccessor"
)

// Init initializes all runtime resources. It is idempotent.
func (a *App) Init(ctx context.Context) error {
	a.stateMu.Lock()
	if a.initialized {
		a.stateMu.Unlock()
		return nil
	}
	a.stateMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	cleanup := cleanupStack{}
	success := false
	defer func() {
		if !success {
			cleanup.run(context.Background(), a.logger)
		}
	}()

	var metrics *observability.QueryMetrics
	if a.cfg.Observability.MetricsEnabled {
		metrics = observability.NewQueryMetrics(prometheus.DefaultRegisterer)
	}

	var tracerProvider *observability.TracerProvider
	if a.cfg.Observability.TracingEnabled {
		var err error
		tracerProvider, err = observability.InitTracerProvider(observability.TracingConfig{
			ServiceName:      a.cfg.Observability.ServiceName,
			ServiceVersion:   a.cfg.Observability.ServiceVersion,
			Environment:      a.cfg.Observability.Environment,
			TraceSampleRatio: a.cfg.Observability.TraceSampleRatio,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		cleanup.push("tracer provider", func(shutdownCtx context.Context) error {
			return tracerProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	modelCfg, err := model.LoadFile(a.cfg.Model.File)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	a.logger.Info("model loaded",
		slog.String("file", a.cfg.Model.File),
		slog.Int("schemas", len(modelCfg.Schemas)),
		slog.Int("collections", len(modelCfg.Collections)),
	)

	acc, db, err := a.buildAccessor(ctx)
	if err != nil {
		return err
	}
	if db != nil {
		cleanup.push("database", func(context.Context) error {
			return db.Close()
		})
	}

	eng, err := engine.New(modelCfg, acc,
		engine.WithLogger(a.logger),
		engine.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	handler := a.buildHandler(eng, db, metrics)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}
	cleanup.push("HTTP server", func(shutdownCtx context.Context) error {
		return srv.Shutdown(shutdownCtx)
	})

	a.stateMu.Lock()
	a.metrics = metrics
	a.tracerProvider = tracerProvider
	a.db = db
	a.eng = eng
	a.handler = handler
	a.srv = srv
	a.cleanup = cleanup
	a.initialized = true
	a.stateMu.Unlock()

	success = true
	return nil
}

// buildAccessor picks the storage backend: SQL when a DSN is configured,
// otherwise the in-memory accessor, seeded from a data file when given.
func (a *App) buildAccessor(ctx context.Context) (accessor.Accessor, *sql.DB, error) {
	if dsn := a.cfg.Database.DSN; dsn != "" {
		openCtx := ctx
		if a.cfg.Database.ConnectionTimeout > 0 {
			var cancel context.CancelFunc
			openCtx, cancel = context.WithTimeout(ctx, a.cfg.Database.ConnectionTimeout)
			defer cancel()
		}

		db, err := sqlaccessor.Open(openCtx, dsn, sqlaccessor.PoolConfig{
			MaxOpen:     a.cfg.Database.Pool.MaxOpen,
			MaxIdle:     a.cfg.Database.Pool.MaxIdle,
			MaxLifetime: a.cfg.Database.Pool.MaxLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.logger.Info("connected to database")
		return sqlaccessor.New(db, a.cfg.Naming), db, nil
	}

	if path := a.cfg.Model.DataFile; path != "" {
		mem, err := accessor.NewMemoryFromFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load seed data: %w", err)
		}
		a.logger.Info("in-memory accessor seeded", slog.String("file", path))
		return mem, nil, nil
	}

	a.logger.Info("no database configured, using empty in-memory accessor")
	return accessor.NewMemory(), nil, nil
}

// buildHandler assembles the HTTP surface: the GraphQL endpoint with its
// middleware chain, health, and metrics.
func (a *App) buildHandler(eng *engine.Engine, db *sql.DB, metrics *observability.QueryMetrics) http.Handler {
	schema := eng.Schema()
	var graphql http.Handler = gqlhandler.New(&gqlhandler.Config{
		Schema:   &schema,
		Pretty:   a.cfg.Server.Pretty,
		GraphiQL: a.cfg.Server.GraphiQLEnabled,
	})
	if metrics != nil {
		graphql = middleware.GraphQLMetricsMiddleware(metrics)(graphql)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", graphql)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/graphql", http.StatusFound)
			return
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("/health", healthHandler(db))
	if metrics != nil {
		mux.Handle("/metrics", promhttp.Handler())
		a.logger.Info("metrics endpoint enabled", slog.String("path", "/metrics"))
	}

	handler := middleware.LoggingMiddleware(a.logger)(mux)
	if a.cfg.Observability.MetricsEnabled || a.cfg.Observability.TracingEnabled {
		handler = otelhttp.NewHandler(handler, "http.server",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return httpRootSpanName(r)
			}),
		)
	}
	handler = middleware.CORSMiddleware(middleware.CORSConfig{
		Enabled:        a.cfg.Server.CORSEnabled,
		AllowedOrigins: a.cfg.Server.CORSAllowedOrigins,
		AllowedMethods: a.cfg.Server.CORSAllowedMethods,
		AllowedHeaders: a.cfg.Server.CORSAllowedHeaders,
		MaxAge:         a.cfg.Server.CORSMaxAge,
	})(handler)

	return handler
}

func httpRootSpanName(r *http.Request) string {
	if r == nil {
		return "HTTP /*"
	}
	switch r.URL.Path {
	case "/", "/graphql", "/health", "/metrics":
		return r.Method + " " + r.URL.Path
	default:
		return r.Method + " /*"
	}
}

// healthHandler reports server liveness, pinging the database when one is
// configured.
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintf(w, `{"status":"unhealthy","error":%q}`, err.Error())
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"ok"}`)
	}
}
