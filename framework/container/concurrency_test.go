package container_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/km-arc/go-wit/framework/container"
)

const workers = 64

func TestConcurrentMake_SingleConstruction(t *testing.T) {
	t.Parallel()

	var constructed atomic.Int64
	c := container.New()
	c.BindClass(countedClass(&constructed))

	start := make(chan struct{})
	results := make([]*Counted, workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			<-start
			v, err := container.Get[Counted](c)
			results[i] = v
			return err
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), constructed.Load())
	for i, v := range results {
		assert.Same(t, results[0], v, "worker %d got a different instance", i)
	}
}

func TestConcurrentMake_ProviderSingleConstruction(t *testing.T) {
	t.Parallel()

	var constructed atomic.Int64
	c := container.New()
	c.BindClass(countedClass(&constructed))
	c.BindClass(container.ClassOf[countedProvider]())
	c.Bind("counted").ToProvider(container.ClassOf[countedProvider]())

	start := make(chan struct{})
	results := make([]any, workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			<-start
			v, err := c.Make("counted")
			results[i] = v
			return err
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), constructed.Load())
	for _, v := range results {
		assert.Same(t, results[0], v)
	}
}

// Goroutines racing into both ends of a cycle must neither deadlock nor
// construct anything twice.
func TestConcurrentMake_MutualDependency(t *testing.T) {
	t.Parallel()

	for round := 0; round < 20; round++ {
		c := newSampleContainer()

		start := make(chan struct{})
		var g errgroup.Group
		for i := 0; i < workers; i++ {
			g.Go(func() error {
				<-start
				var err error
				if i%2 == 0 {
					_, err = container.Get[A](c)
				} else {
					_, err = container.Get[B](c)
				}
				return err
			})
		}
		close(start)
		require.NoError(t, g.Wait())

		a, err := container.Get[A](c)
		require.NoError(t, err)
		b, err := container.Get[B](c)
		require.NoError(t, err)
		assert.Same(t, b, a.b)
		assert.Same(t, a, b.a)
		assert.Equal(t, 1, b.started)
		assert.Equal(t, 1, b.c.started)
	}
}

func TestConcurrentMake_ChildContainers(t *testing.T) {
	t.Parallel()

	var constructed atomic.Int64
	parent := container.New()
	parent.BindClass(countedClass(&constructed))

	children := make([]*container.Container, 8)
	for i := range children {
		children[i] = container.New(container.WithParent(parent))
	}

	start := make(chan struct{})
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		child := children[i%len(children)]
		g.Go(func() error {
			<-start
			_, err := container.Get[Counted](child)
			return err
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), constructed.Load())
}

// countedProvider hands out the Counted singleton.
type countedProvider struct {
	counted *Counted
}

func (p *countedProvider) Injections() []container.Declaration {
	return []container.Declaration{
		container.Inject(container.TypeKey[Counted](), func(c *Counted) { p.counted = c }),
	}
}

func (p *countedProvider) Get() (any, error) { return p.counted, nil }
