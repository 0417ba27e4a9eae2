package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"goldenticket/config"
	"goldenticket/storage"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls how NewApp obtains its collaborators
type Options struct {
	// ConfigPath is an explicit settings file; empty searches for appsettings.*
	ConfigPath string

	// Config, when set, is used as-is instead of loading ConfigPath
	Config *config.Config

	// Logger, when set, replaces the console logger
	Logger *zap.SugaredLogger
}

// App represents the Golden Ticket application with all its components.
type App struct {
	Config   *config.Config
	Sugar    *zap.SugaredLogger
	Services *Services

	// Store is the serving data context; the startup handle is already closed
	Store *storage.SQLite

	handler  http.Handler
	server   *http.Server
	listener net.Listener
	serveWg  sync.WaitGroup
}

// NewApp runs the bootstrap sequence. Any error leaves nothing open.
func NewApp(opts Options) (*App, error) {
	app := &App{}

	sugar := opts.Logger
	var level *zap.AtomicLevel
	if sugar == nil {
		logger, atomic, err := InitLogger(zapcore.InfoLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		sugar = logger.Sugar()
		level = &atomic
	}
	app.Sugar = sugar

	sugar.Info("Golden Ticket starting...")

	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = InitConfig(opts.ConfigPath, sugar); err != nil {
			return nil, err
		}
	}
	app.Config = cfg

	if level != nil {
		if lvl, err := zapcore.ParseLevel(cfg.LogLevel()); err == nil {
			level.SetLevel(lvl)
		}
	}
	env := cfg.Env()

	app.Services = &Services{}
	RegisterServices(cfg, sugar, app.Services)

	startup, err := OpenStore(app.Services.StoreFactory, cfg.ConnectionString)
	if err != nil {
		return nil, err
	}
	err = InitStore(startup, env, sugar)
	if closeErr := startup.Close(); closeErr != nil {
		sugar.Warnw("Failed to close startup store", "error", closeErr)
	}
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(app.Services.StoreFactory, cfg.ConnectionString)
	if err != nil {
		return nil, err
	}
	app.Store = store

	router := app.Services.NewRouter(store)
	app.handler = AssemblePipeline(router, app.Services, env, sugar)

	sugar.Infow("Golden Ticket initialized", "environment", cfg.Environment)
	return app, nil
}

// Handler returns the assembled request pipeline
func (a *App) Handler() http.Handler {
	return a.handler
}

// Start binds server.addr and serves in the background. Bind errors are
// returned; later serve errors are logged.
func (a *App) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Config.Server.Addr, err)
	}
	a.listener = ln

	a.server = &http.Server{
		Handler:           a.handler,
		ReadTimeout:       a.Config.Server.ReadTimeout,
		ReadHeaderTimeout: a.Config.Server.ReadTimeout,
		WriteTimeout:      a.Config.Server.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	a.serveWg.Add(1)
	go func() {
		defer a.serveWg.Done()
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Sugar.Errorw("HTTP server stopped", "error", err)
		}
	}()

	a.Sugar.Infow("Now listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address once Start has succeeded
func (a *App) Addr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// WaitForShutdown blocks until SIGINT or SIGTERM.
func (a *App) WaitForShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)
	<-c
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done,
// then closes the serving store.
func (a *App) Shutdown(ctx context.Context) error {
	a.Sugar.Info("Shutting down...")

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop HTTP server: %w", err))
		}
		a.serveWg.Wait()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = a.Sugar.Sync()

	a.Sugar.Info("Shutdown complete")
	return errors.Join(errs...)
}
