package container_test

import (
	"errors"
	"sync/atomic"

	"github.com/km-arc/go-wit/framework/container"
)

// ── sample graph ──────────────────────────────────────────────────────────────

// A and B reference each other; A also reads the "db_name" constant.
type A struct {
	b    *B
	name string
}

func (a *A) SetB(b *B)        { a.b = b }
func (a *A) SetName(n string) { a.name = n }
func (a *A) B() *B            { return a.b }
func (a *A) Name() string     { return a.name }

func (a *A) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject(container.TypeKey[B](), a.SetB),
		container.Inject("db_name", a.SetName),
	}
}

// B injects A and an optional C, and records what it saw at Start.
type B struct {
	a       *A
	c       *C
	started int

	startSawA bool
}

func (b *B) SetA(a *A) { b.a = a }
func (b *B) SetC(c *C) { b.c = c }

func (b *B) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject(container.TypeKey[A](), b.SetA),
		container.Optional(container.TypeKey[C](), b.SetC),
	}
}

func (b *B) Start() error {
	b.started++
	b.startSawA = b.a != nil
	return nil
}

type C struct {
	started int
}

func (c *C) Start() error {
	c.started++
	return nil
}

// AExtended adds no setters of its own; it inherits A's.
type AExtended struct {
	A
}

// D lives in a child container and needs A from the parent.
type D struct {
	a *A
}

func (d *D) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject(container.TypeKey[A](), func(a *A) { d.a = a }),
	}
}

// X and Y form a cycle; Y records X's name when it starts. Only used
// serially: Y.Start reads X while X may still be injecting.
type X struct {
	y    *Y
	name string
}

func (x *X) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject(container.TypeKey[Y](), func(y *Y) { x.y = y }),
		container.Inject("db_name", func(n string) { x.name = n }),
	}
}

type Y struct {
	x            *X
	xNameAtStart string
}

func (y *Y) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject(container.TypeKey[X](), func(x *X) { y.x = x }),
	}
}

func (y *Y) Start() error {
	y.xNameAtStart = y.x.name
	return nil
}

// ── providers ─────────────────────────────────────────────────────────────────

type SimpleClass struct {
	msg string
}

type SampleStringProvider struct{}

func (p *SampleStringProvider) Get() (any, error) { return "instance by provider", nil }

// SampleSimpleClassProvider needs "message" injected before Get.
type SampleSimpleClassProvider struct {
	msg      string
	instance *SimpleClass
}

func (p *SampleSimpleClassProvider) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject("message", func(m string) { p.msg = m }),
	}
}

func (p *SampleSimpleClassProvider) Get() (any, error) {
	if p.instance == nil {
		p.instance = &SimpleClass{msg: p.msg}
	}
	return p.instance, nil
}

// ── failure fixtures ──────────────────────────────────────────────────────────

var (
	errBoom   = errors.New("boom")
	errSetter = errors.New("setter rejected value")
	errStart  = errors.New("start failed")
)

// NeedsMissing has a mandatory dependency that is never bound.
type NeedsMissing struct {
	name string
}

func (n *NeedsMissing) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject("db_name", func(s string) { n.name = s }),
		container.Inject("missing", func(s string) {}),
	}
}

type RejectingSetter struct{}

func (r *RejectingSetter) Injections() []container.Declaration {
	return []container.Declaration{
		container.InjectE("db_name", func(string) error { return errSetter }),
	}
}

type FailingStart struct{}

func (f *FailingStart) Start() error { return errStart }

// Counted counts its constructions through the Class constructor.
type Counted struct {
	id int64
}

func countedClass(counter *atomic.Int64) container.Class {
	return container.ClassFunc(func() *Counted {
		return &Counted{id: counter.Add(1)}
	})
}

// ── monitor ───────────────────────────────────────────────────────────────────

type creation struct {
	key   any
	depth int
}
