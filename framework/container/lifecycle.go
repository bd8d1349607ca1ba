package container

// Startable is implemented by objects that need a post-injection hook.
// Start is called exactly once, right after the object's own setters ran.
// Objects it references may still be mid-injection when the graph is cyclic.
type Startable interface {
	Start() error
}

// Provider produces the value of a binding configured with ToProvider.
// The provider itself is constructed and injected like any other class
// before Get is called.
type Provider interface {
	Get() (any, error)
}

// Monitor observes instance creation. OnCreate is called once per binding,
// when its instance is first created; depth counts the parent delegations
// made before the binding was found.
type Monitor interface {
	OnCreate(key any, depth int)
}

// MonitorFunc adapts a function to Monitor.
type MonitorFunc func(key any, depth int)

// OnCreate implements Monitor.
func (f MonitorFunc) OnCreate(key any, depth int) { f(key, depth) }
