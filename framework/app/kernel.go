package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/km-arc/go-wit/framework/config"
	"github.com/km-arc/go-wit/framework/container"
	"github.com/km-arc/go-wit/framework/logging"
	"github.com/km-arc/go-wit/framework/providers"
	"github.com/km-arc/go-wit/framework/routing"
)

const shutdownTimeout = 5 * time.Second

// Application is the top-level application container.
// It embeds the root Container and its ProviderRegistry so user code can
// call app.Bind(), app.BindClass(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	cfg *config.Config
	log logrus.FieldLogger
}

// New loads configuration from envFiles and bootstraps the application.
func New(envFiles ...string) *Application {
	cfg := config.Load(envFiles...)
	return NewWithConfig(cfg, logging.New(cfg.Log))
}

// NewWithConfig bootstraps the application from an already loaded
// configuration. The framework providers are registered but not booted.
func NewWithConfig(cfg *config.Config, log logrus.FieldLogger) *Application {
	opts := []container.Option{
		container.WithCapacity(cfg.Container.Capacity),
		container.WithLogger(log),
	}
	if cfg.Container.Monitor {
		opts = append(opts, container.WithMonitor(logging.NewMonitor(log)))
	}
	c := container.New(opts...)

	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		cfg:       cfg,
		log:       log,
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log},
		&providers.RoutingServiceProvider{},
		&providers.InspectServiceProvider{},
	} {
		if err := app.Providers.Register(p); err != nil {
			panic(err)
		}
	}
	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config returns the configuration the application was built with.
func (a *Application) Config() *config.Config { return a.cfg }

// Logger returns the application logger.
func (a *Application) Logger() logrus.FieldLogger { return a.log }

// Router resolves the HTTP router from the container.
func (a *Application) Router() (*routing.Router, error) {
	return container.Resolve[*routing.Router](a.Container, routing.Key)
}

// Scope creates a child container delegating to the application container
// and sharing its monitor, e.g. for per-request or per-job bindings.
func (a *Application) Scope(opts ...container.Option) *container.Container {
	base := []container.Option{
		container.WithParent(a.Container),
		container.WithMonitor(a.Monitor()),
		container.WithLogger(a.log),
	}
	return container.New(append(base, opts...)...)
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.cfg.App.Port)
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener. It returns nil after a clean
// shutdown.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			_ = ln.Close()
			return err
		}
	}
	router, err := a.Router()
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithFields(logrus.Fields{
			"app":  a.cfg.App.Name,
			"env":  a.cfg.App.Env,
			"addr": ln.Addr().String(),
		}).Info("app: listening")
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("app: shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.cfg.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.cfg.App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
