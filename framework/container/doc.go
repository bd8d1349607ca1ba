// Package container provides a minimal IoC (Inversion of Control) container
// with lazily constructed singletons and setter injection.
//
// # Overview
//
// A Container maps keys to Bindings. A key is any comparable value: a type
// key (TypeKey[T] or Class.Type()) or an arbitrary value such as a string or
// an enum constant. Each Binding produces exactly one instance, on the first
// Make that reaches it, by one of three strategies:
//
//	c := container.New()
//
//	// Class bound to itself
//	c.BindClass(container.ClassOf[A]())
//
//	// Class under an arbitrary key (a second, distinct singleton)
//	c.Bind("other-a").To(container.ClassOf[A]())
//
//	// Constant
//	c.Bind("db_name").ToConstant("db1")
//
//	// Value produced by an injected Provider
//	c.Bind(container.TypeKey[SimpleClass]()).ToProvider(container.ClassOf[SimpleClassProvider]())
//
// Binding the same key twice in one container panics with
// *DuplicateBindError. A child container may bind a key its parent binds;
// lookups rooted at the child see the child's binding.
//
// # Injection
//
// After a class instance is constructed, the container's Injector discovers
// its setters and resolves each declared key:
//
//	func (a *A) Injections() []container.Declaration {
//	    return []container.Declaration{
//	        container.Inject(container.TypeKey[B](), a.SetB),
//	        container.Inject("db_name", a.SetName),
//	        container.Optional(container.TypeKey[C](), a.SetC),
//	    }
//	}
//
// Optional declarations whose key is bound nowhere are skipped; the setter
// is never called. If the instance implements Startable, Start runs once
// after its setters.
//
// # Cycles
//
// A class instance is published before its dependencies are resolved, so
// A may inject B while B injects A: when B asks for A, the already
// published (not yet injected) A is returned. Cycles made only of provider
// bindings are not resolvable.
//
// # Concurrency
//
// Bind, To*, Tag and SetMonitor form a single-writer setup phase. After it,
// Make is safe for concurrent use: each binding is constructed and injected
// once, and every caller receives the same instance. A binding that has
// been published is returned without locking, even while its injection is
// still in progress.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.BindClass(container.ClassOf[Mailer]())
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	err := registry.Boot()
package container
