package providers

import (
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-wit/framework/config"
	"github.com/km-arc/go-wit/framework/container"
	"github.com/km-arc/go-wit/framework/inspect"
	"github.com/km-arc/go-wit/framework/routing"
)

// Keys the framework providers bind.
const (
	ConfigKey = "config"
	LogKey    = "log"
)

// InspectPrefix is where the inspector is mounted on the router.
const InspectPrefix = "/_container"

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Bound keys:
//   - "config"   → *config.Config
//   - "app.name" → string
//   - "app.env"  → string
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	cfg := p.Config
	if cfg == nil {
		cfg = config.Load()
	}
	app.Bind(ConfigKey).ToConstant(cfg)
	app.Bind("app.name").ToConstant(cfg.App.Name)
	app.Bind("app.env").ToConstant(cfg.App.Env)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Bound keys:
//   - "log" → logrus.FieldLogger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger logrus.FieldLogger
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	log := p.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	app.Bind(LogKey).ToConstant(log)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider binds the HTTP router through routing.Provider, so
// the router is built on first use with the logger already injected.
//
// Bound keys:
//   - "router" → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Bind(routing.Key).ToProvider(container.ClassOf[routing.Provider]())
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider mounts the container inspector on the router at
// boot when INSPECT_ENABLED is set.
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(app *container.Container) {}

func (p *InspectServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, ConfigKey)
	if err != nil {
		return err
	}
	if !cfg.Inspect.Enabled {
		return nil
	}
	router, err := container.Resolve[*routing.Router](app, routing.Key)
	if err != nil {
		return err
	}
	router.Mount(InspectPrefix, inspect.New(app).Routes())
	return nil
}
