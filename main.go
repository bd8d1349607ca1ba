package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-wit/framework/app"
	"github.com/km-arc/go-wit/framework/container"
	"github.com/km-arc/go-wit/framework/inspect"
	"github.com/km-arc/go-wit/framework/routing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New() // loads .env automatically
	if err := application.Register(&AppServiceProvider{}); err != nil {
		application.Logger().WithError(err).Fatal("app: register")
	}

	if err := application.Run(ctx); err != nil {
		application.Logger().WithError(err).Fatal("app: exited")
	}
}

// ── Services ──────────────────────────────────────────────────────────────────

// Database stands in for a connection pool; it "connects" on Start.
type Database struct {
	name      string
	log       logrus.FieldLogger
	connected bool
}

func (d *Database) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject("db.name", func(n string) { d.name = n }),
		container.Inject("log", func(l logrus.FieldLogger) { d.log = l }),
	}
}

func (d *Database) Start() error {
	d.connected = true
	d.log.WithField("db", d.name).Info("database: connected")
	return nil
}

// UserRepository reads users from the Database.
type UserRepository struct {
	db *Database
}

func (r *UserRepository) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject(container.TypeKey[Database](), func(db *Database) { r.db = db }),
	}
}

func (r *UserRepository) Find(id string) map[string]any {
	return map[string]any{"id": id, "db": r.db.name}
}

// UserService and Notifier depend on each other.
type UserService struct {
	repo     *UserRepository
	notifier *Notifier
}

func (s *UserService) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject(container.TypeKey[UserRepository](), func(r *UserRepository) { s.repo = r }),
		container.Inject(container.TypeKey[Notifier](), func(n *Notifier) { s.notifier = n }),
	}
}

func (s *UserService) Show(id string) map[string]any {
	user := s.repo.Find(id)
	s.notifier.Notify("user " + id + " viewed")
	return user
}

type Notifier struct {
	users *UserService
	log   logrus.FieldLogger
}

func (n *Notifier) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject(container.TypeKey[UserService](), func(s *UserService) { n.users = s }),
		container.Inject("log", func(l logrus.FieldLogger) { n.log = l }),
	}
}

func (n *Notifier) Notify(msg string) { n.log.Info("notify: " + msg) }

// GreetingProvider renders the welcome message once "app.name" is known.
type GreetingProvider struct {
	name string
}

func (p *GreetingProvider) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject("app.name", func(n string) { p.name = n }),
	}
}

func (p *GreetingProvider) Get() (any, error) {
	return fmt.Sprintf("Welcome to %s!", p.name), nil
}

// RequestContext is bound per request in a child container.
type RequestContext struct {
	users *UserService
	id    string
}

func (rc *RequestContext) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject(container.TypeKey[UserService](), func(s *UserService) { rc.users = s }),
		container.Inject("request.id", func(id string) { rc.id = id }),
	}
}

// ── AppServiceProvider ────────────────────────────────────────────────────────

// AppServiceProvider wires the demo services and their routes.
type AppServiceProvider struct {
	container.BaseProvider
}

func (p *AppServiceProvider) Register(c *container.Container) {
	c.Bind("db.name").ToConstant(os.Getenv("DB_DATABASE"))
	c.BindClass(container.ClassOf[Database]())
	c.BindClass(container.ClassOf[UserRepository]())
	c.BindClass(container.ClassOf[UserService]())
	c.BindClass(container.ClassOf[Notifier]())
	c.Bind("greeting").ToProvider(container.ClassOf[GreetingProvider]())
	c.Tag("services", container.TypeKey[Database](), container.TypeKey[UserService]())
}

func (p *AppServiceProvider) Boot(c *container.Container) error {
	// Starts the database.
	if _, err := c.Tagged("services"); err != nil {
		return err
	}
	router, err := container.Resolve[*routing.Router](c, routing.Key)
	if err != nil {
		return err
	}

	router.Get("/", func(w http.ResponseWriter, req *http.Request) {
		greeting, err := container.Resolve[string](c, "greeting")
		if err != nil {
			inspect.NewResponse(w).Error(http.StatusInternalServerError, err.Error())
			return
		}
		inspect.NewResponse(w).Success(map[string]any{"message": greeting})
	})

	router.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		scope := container.New(container.WithParent(c), container.WithMonitor(c.Monitor()))
		scope.Bind("request.id").ToConstant(routing.Param(req, "id"))
		scope.BindClass(container.ClassOf[RequestContext]())

		rc, err := container.Get[RequestContext](scope)
		if err != nil {
			inspect.NewResponse(w).Error(http.StatusInternalServerError, err.Error())
			return
		}
		inspect.NewResponse(w).Success(rc.users.Show(rc.id))
	})
	return nil
}
