package container

import (
	"errors"
	"reflect"

	"github.com/sirupsen/logrus"
)

const defaultCapacity = 16

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC registry: it maps keys to lazily constructed,
// setter-injected singletons and delegates unknown keys to its parent.
//
// It supports:
//   - Bind / BindClass with To, ToProvider and ToConstant
//   - Make / Resolve / Get (generic)
//   - Parent delegation and shadowing
//   - Tags (group several keys under one name)
//   - Monitor notification on every creation
//
// Setup (Bind, To*, Tag, SetMonitor) is single-writer and must complete
// before Make is called concurrently. After setup the registry is read-only
// and lookups take no lock.
type Container struct {
	bindings map[any]*Binding
	order    []any
	tags     map[string][]any

	parent   *Container
	monitor  Monitor
	injector Injector
	log      logrus.FieldLogger
}

// Option configures a Container.
type Option func(*Container)

// WithParent sets the container unknown keys are delegated to. The parent
// is not owned: it must outlive the child.
func WithParent(parent *Container) Option {
	return func(c *Container) { c.parent = parent }
}

// WithCapacity presizes the registry for n bindings.
func WithCapacity(n int) Option {
	return func(c *Container) {
		if n > 0 {
			c.bindings = make(map[any]*Binding, n)
		}
	}
}

// WithMonitor sets the creation monitor.
func WithMonitor(m Monitor) Option {
	return func(c *Container) { c.monitor = m }
}

// WithInjector replaces the default MethodInjector.
func WithInjector(inj Injector) Option {
	return func(c *Container) {
		if inj != nil {
			c.injector = inj
		}
	}
}

// WithLogger enables debug tracing of bind and create events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Container) { c.log = l }
}

// New creates an empty container.
//
//	parent := container.New()
//	child := container.New(container.WithParent(parent), container.WithCapacity(64))
func New(opts ...Option) *Container {
	c := &Container{
		bindings: make(map[any]*Binding, defaultCapacity),
		tags:     make(map[string][]any),
		injector: MethodInjector{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parent returns the parent container, or nil.
func (c *Container) Parent() *Container { return c.parent }

// SetMonitor sets the creation monitor. Setup phase only.
func (c *Container) SetMonitor(m Monitor) { c.monitor = m }

// Monitor returns the creation monitor, or nil.
func (c *Container) Monitor() Monitor { return c.monitor }

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers an empty binding for key in this container and returns it
// for configuration. It panics with *DuplicateBindError if key is already
// bound here; binding a key that an ancestor binds is allowed and shadows it.
//
//	c.Bind("db_name").ToConstant("db1")
//	c.Bind("other-a").To(container.ClassOf[A]())
func (c *Container) Bind(key any) *Binding {
	if !validKey(key) {
		panic(&InvalidKeyError{Key: key})
	}
	if _, exists := c.bindings[key]; exists {
		panic(&DuplicateBindError{Key: key})
	}
	b := newBinding(key, c)
	c.bindings[key] = b
	c.order = append(c.order, key)
	if c.log != nil {
		c.log.WithField("key", formatKey(key)).Debug("container: bind")
	}
	return b
}

// BindClass binds a class under its own type key.
//
//	c.BindClass(container.ClassOf[A]())
//	a, err := container.Get[A](c)
func (c *Container) BindClass(cls Class) *Binding {
	if !cls.valid() {
		panic(&InvalidKeyError{Key: nil})
	}
	return c.Bind(cls.Type()).To(cls)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make returns the singleton bound to key, constructing and injecting it on
// first use. Keys unknown here are looked up in the parent chain.
//
//	db, err := c.Make("db_name")
func (c *Container) Make(key any) (any, error) {
	return c.get(key, 0)
}

func (c *Container) get(key any, depth int) (any, error) {
	if !validKey(key) {
		return nil, &InvalidKeyError{Key: key}
	}
	b, ok := c.bindings[key]
	if !ok {
		if c.parent != nil {
			return c.parent.get(key, depth+1)
		}
		return nil, &NotBoundError{Key: key}
	}
	return b.resolve(depth)
}

func validKey(key any) bool {
	return key != nil && reflect.TypeOf(key).Comparable()
}

func (c *Container) lookup(key any) (*Binding, bool) {
	if !validKey(key) {
		return nil, false
	}
	b, ok := c.bindings[key]
	return b, ok
}

// inject applies the injector's declarations to instance and then runs its
// Start hook. Dependencies are resolved through this container.
func (c *Container) inject(instance any) error {
	decls, err := c.injector.Discover(instance)
	if err != nil {
		return err
	}
	for _, d := range decls {
		dep, err := c.Make(d.Key)
		if err != nil {
			var nb *NotBoundError
			if d.Optional && errors.As(err, &nb) && nb.Key == d.Key {
				continue
			}
			return err
		}
		if err := d.Set(dep); err != nil {
			return err
		}
	}
	if s, ok := instance.(Startable); ok {
		return s.Start()
	}
	return nil
}

func (c *Container) notify(key any, depth int) {
	if c.log != nil {
		c.log.WithFields(logrus.Fields{"key": formatKey(key), "depth": depth}).Debug("container: create")
	}
	if c.monitor != nil {
		c.monitor.OnCreate(key, depth)
	}
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates keys with a named group. Setup phase only.
//
//	c.Tag("reports", container.TypeKey[CpuReport](), container.TypeKey[MemReport]())
func (c *Container) Tag(tag string, keys ...any) {
	c.tags[tag] = append(c.tags[tag], keys...)
}

// Tagged resolves every key registered under tag, in tag order. It stops at
// the first error.
func (c *Container) Tagged(tag string) ([]any, error) {
	keys := c.tags[tag]
	result := make([]any, 0, len(keys))
	for _, key := range keys {
		v, err := c.Make(key)
		if err != nil {
			return result, err
		}
		result = append(result, v)
	}
	return result, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether key is bound in this container or an ancestor.
func (c *Container) Bound(key any) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if _, ok := cur.lookup(key); ok {
			return true
		}
	}
	return false
}

// Resolved reports whether the binding that Make(key) would use has left
// the Empty state.
func (c *Container) Resolved(key any) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if b, ok := cur.lookup(key); ok {
			return b.State() != Empty
		}
	}
	return false
}

// Keys returns the keys bound in this container, in bind order.
func (c *Container) Keys() []any {
	out := make([]any, len(c.order))
	copy(out, c.order)
	return out
}

// BindingInfo is a point-in-time description of one binding.
type BindingInfo struct {
	Key      string `json:"key"`
	Strategy string `json:"strategy"`
	State    string `json:"state"`
	Depth    int    `json:"depth"`
}

// Snapshot describes every binding visible from this container: its own
// first, then each ancestor's, with Depth counting the delegations.
// Shadowed ancestor bindings are included.
func (c *Container) Snapshot() []BindingInfo {
	var out []BindingInfo
	depth := 0
	for cur := c; cur != nil; cur = cur.parent {
		for _, key := range cur.order {
			b := cur.bindings[key]
			out = append(out, BindingInfo{
				Key:      formatKey(key),
				Strategy: b.Strategy().String(),
				State:    b.State().String(),
				Depth:    depth,
			})
		}
		depth++
	}
	return out
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	db, err := container.Resolve[string](c, "db_name")
func Resolve[T any](c *Container, key any) (T, error) {
	var zero T
	instance, err := c.Make(key)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &WrongTypeError{
			Key:  key,
			Want: reflect.TypeFor[T]().String(),
			Got:  reflect.TypeOf(instance).String(),
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, key any) T {
	v, err := Resolve[T](c, key)
	if err != nil {
		panic(err)
	}
	return v
}

// Get resolves the *T bound under TypeKey[T]().
//
//	a, err := container.Get[A](c)
func Get[T any](c *Container) (*T, error) {
	return Resolve[*T](c, TypeKey[T]())
}
