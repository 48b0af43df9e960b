// Package blogapi is a JSON backend for a blogging site built with Echo.
// It serves blog posts, per-user wishlists and comments from a document
// store and issues a short-lived signed credential in an HTTP-only cookie.
package blogapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/blogapi/store"
	"github.com/eringen/blogapi/store/mongostore"
	"github.com/eringen/blogapi/store/sqlitestore"
	"github.com/eringen/blogapi/token"
)

// App wires together the store, token service, middleware and routes.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  store.Store
	Tokens *token.Service
	Cache  *BlogCache

	schemas           *schemaSet
	credentialLimiter *CredentialLimiter
	customRoutes      []func(*App)
}

// New builds an App around an open store. Routes and middleware are
// registered immediately so the App can serve requests through Echo's
// ServeHTTP without calling Start.
func New(cfg Config, st store.Store, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if cfg.TokenSecret == "" {
		return nil, errors.New("blogapi: TokenSecret is required")
	}
	if st == nil {
		return nil, errors.New("blogapi: store is required")
	}

	tokens, err := token.NewService(token.Config{
		Secret:       []byte(cfg.TokenSecret),
		TTL:          cfg.TokenTTL,
		CookieSecure: cfg.CookieSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("blogapi: token service: %w", err)
	}
	schemas, err := newSchemaSet()
	if err != nil {
		return nil, fmt.Errorf("blogapi: load schemas: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)

	a := &App{
		Config:            cfg,
		Echo:              e,
		Store:             st,
		Tokens:            tokens,
		Cache:             NewBlogCache(st, cfg.BlogCacheTTL),
		schemas:           schemas,
		credentialLimiter: NewCredentialLimiter(5, time.Minute),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

// Start serves HTTP on the configured address until Shutdown is called.
func (a *App) Start() error {
	a.Echo.Logger.Infof("blog API listening on %s", a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and closes the store.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	a.credentialLimiter.Stop()
	if cerr := a.Store.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// OpenStore connects the store backend selected by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	cfg.setDefaults()
	switch cfg.StoreDriver {
	case DriverMongo:
		s, err := mongostore.Open(ctx, mongostore.Config{
			URI:         cfg.MongoURI,
			Database:    cfg.DatabaseName,
			MaxPoolSize: cfg.MongoMaxPoolSize,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("blogapi: unknown store driver %q", cfg.StoreDriver)
	}
}
