package container

import (
	"errors"
	"sync"
	"sync/atomic"
)

// State is the lifecycle state of a Binding's singleton slot.
type State int32

const (
	// Empty: nothing constructed yet.
	Empty State = iota
	// Instantiated: the bare instance is published; injection may still be
	// running or may have failed.
	Instantiated
	// Injected: fully wired and started.
	Injected
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Instantiated:
		return "instantiated"
	case Injected:
		return "injected"
	default:
		return "unknown"
	}
}

// Strategy says how a Binding produces its instance.
type Strategy int

const (
	// StrategyNone: Bind was called but To, ToProvider or ToConstant was not.
	StrategyNone Strategy = iota
	// StrategyClass constructs and injects a Class.
	StrategyClass
	// StrategyProvider asks an injected Provider for the value.
	StrategyProvider
	// StrategyConstant returns a precomputed value.
	StrategyConstant
)

func (s Strategy) String() string {
	switch s {
	case StrategyClass:
		return "class"
	case StrategyProvider:
		return "provider"
	case StrategyConstant:
		return "constant"
	default:
		return "none"
	}
}

// Binding is one registry entry: a key, its resolution strategy and the
// singleton slot. Bindings are created by Container.Bind and configured
// once with To, ToProvider or ToConstant.
type Binding struct {
	key       any
	container *Container

	strategy Strategy
	class    Class
	constant any

	// private binding for a provider class bound nowhere in the chain
	providerOwn *Binding

	// mu guards the transition out of Empty only.
	mu       sync.Mutex
	state    atomic.Int32
	instance any
}

func newBinding(key any, c *Container) *Binding {
	return &Binding{key: key, container: c}
}

// Key returns the binding's key.
func (b *Binding) Key() any { return b.key }

// Strategy returns the configured resolution strategy.
func (b *Binding) Strategy() Strategy { return b.strategy }

// State returns the current state of the singleton slot.
func (b *Binding) State() State { return State(b.state.Load()) }

// To binds the key to a directly constructed class.
//
//	c.Bind("other-a").To(container.ClassOf[A]())
func (b *Binding) To(cls Class) *Binding {
	b.configure(StrategyClass)
	if !cls.valid() {
		panic(&BindingError{Key: b.key, Err: errors.New("container: zero Class")})
	}
	b.class = cls
	return b
}

// ToProvider binds the key to the value produced by a Provider class. The
// provider is resolved through the container chain under cls.Type(); if it
// is not bound anywhere it is constructed privately for this binding.
//
//	c.Bind(container.TypeKey[SimpleClass]()).ToProvider(container.ClassOf[SimpleClassProvider]())
func (b *Binding) ToProvider(cls Class) *Binding {
	b.configure(StrategyProvider)
	if !cls.valid() {
		panic(&BindingError{Key: b.key, Err: errors.New("container: zero Class")})
	}
	b.class = cls
	return b
}

// ToConstant binds the key to a precomputed value. The binding is Injected
// immediately.
//
//	c.Bind("db_name").ToConstant("db1")
func (b *Binding) ToConstant(value any) *Binding {
	b.configure(StrategyConstant)
	b.constant = value
	b.instance = value
	b.state.Store(int32(Injected))
	return b
}

func (b *Binding) configure(s Strategy) {
	if b.strategy != StrategyNone {
		panic(&BindingError{Key: b.key, Err: ErrStrategyAlreadySet})
	}
	b.strategy = s
}

// resolve returns the singleton, driving Empty → Instantiated → Injected
// on first use. depth is only reported to the monitor.
func (b *Binding) resolve(depth int) (any, error) {
	if State(b.state.Load()) != Empty {
		return b.instance, nil
	}

	b.mu.Lock()
	if State(b.state.Load()) != Empty {
		b.mu.Unlock()
		return b.instance, nil
	}

	switch b.strategy {
	case StrategyClass:
		instance, err := b.class.construct()
		if err != nil {
			b.mu.Unlock()
			return nil, err
		}
		b.publish(instance, Instantiated)
		b.mu.Unlock()

		b.container.notify(b.key, depth)
		if err := b.container.inject(instance); err != nil {
			return nil, err
		}
		b.state.Store(int32(Injected))
		return instance, nil

	case StrategyProvider:
		defer b.mu.Unlock()
		instance, err := b.provide()
		if err != nil {
			return nil, err
		}
		b.publish(instance, Injected)
		b.container.notify(b.key, depth)
		return instance, nil

	case StrategyConstant:
		// ToConstant publishes eagerly; only reachable through a zero Binding.
		b.mu.Unlock()
		return b.constant, nil

	default:
		b.mu.Unlock()
		return nil, &BindingError{Key: b.key, Err: ErrNoStrategy}
	}
}

// publish stores the instance before the state so that a reader that
// observes a non-Empty state also observes the instance.
func (b *Binding) publish(instance any, s State) {
	b.instance = instance
	b.state.Store(int32(s))
}

func (b *Binding) provide() (any, error) {
	p, err := b.providerInstance()
	if err != nil {
		return nil, err
	}
	provider, ok := p.(Provider)
	if !ok {
		return nil, &BindingError{Key: b.key, Err: ErrNotProvider}
	}
	return provider.Get()
}

func (b *Binding) providerInstance() (any, error) {
	pkey := b.class.Type()
	if b.container.Bound(pkey) {
		return b.container.Make(pkey)
	}
	if b.providerOwn == nil {
		b.providerOwn = newBinding(pkey, b.container)
		b.providerOwn.strategy = StrategyClass
		b.providerOwn.class = b.class
	}
	return b.providerOwn.resolve(0)
}
