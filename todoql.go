package todoql

// todoql.go provides the App type which ties together the store, schema and GraphQL handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/andrewwphillips/todoql/internal/config"
	"github.com/andrewwphillips/todoql/internal/handler"
	"github.com/andrewwphillips/todoql/internal/schema"
	"github.com/andrewwphillips/todoql/internal/store"
)

// App is the application context: created once at startup and shared by all requests
type App struct {
	cfg     *config.Config
	log     logrus.FieldLogger
	db      *store.DB
	repo    *store.TodoRepo
	schema  *ast.Schema
	auth    *handler.Auth
	handler *handler.Handler
}

// New opens (and migrates) the database, loads the schema and creates the GraphQL handler
func New(ctx context.Context, cfg *config.Config, opts ...func(*options)) (*App, error) {
	opt := newOptions(opts)

	s, err := schema.Load()
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: opt.log, schema: s}
	if cfg.Auth.Secret != "" {
		if a.auth, err = handler.NewAuth(cfg.Auth.Secret, cfg.Auth.TTL); err != nil {
			return nil, err
		}
	}

	if a.db, err = store.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, opt.log); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.repo = store.NewTodoRepo(a.db, opt.storeOptions(cfg.Pagination.Lookahead)...)
	a.handler = handler.New(s, a.repo, opt.handlerOptions(a.auth)...)

	a.log.WithFields(logrus.Fields{
		"lookahead": cfg.Pagination.Lookahead,
		"auth":      a.auth != nil,
	}).Info("todo service ready")
	return a, nil
}

// newOptions runs the option closures then sets defaults for any options not supplied
func newOptions(fns []func(*options)) *options {
	opt := &options{}
	for _, fn := range fns {
		fn(opt)
	}
	if opt.log == nil {
		opt.log = logrus.StandardLogger()
	}
	if opt.registry == nil {
		opt.registry = prometheus.NewRegistry()
	}
	return opt
}

// Command executes one GraphQL request ({"query": ..., "variables": ..., "operationName": ...})
// and returns the JSON response.  On failure the error is a *CommandError holding the JSON error response.
func (a *App) Command(ctx context.Context, body []byte) ([]byte, error) {
	return a.handler.Command(ctx, body)
}

// Handler returns an HTTP handler that serves GraphQL at /graphql (POST or websocket) and
// Prometheus metrics at /metrics
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/graphql", a.handler)
	mux.Handle("/metrics", a.handler.MetricsHandler())
	return mux
}

// Schema returns the GraphQL schema as SDL
func (a *App) Schema() string {
	return schema.Format(a.schema)
}

// Token returns a new session token for the shell (or an error if auth.secret is not configured)
func (a *App) Token(session string) (string, error) {
	if a.auth == nil {
		return "", fmt.Errorf("no session token as auth.secret is not set")
	}
	return a.auth.Token(session)
}

// Close releases the database connection pool
func (a *App) Close() error {
	return a.db.Close()
}
