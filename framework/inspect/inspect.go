// Package inspect exposes a read-only HTTP view of a container: every
// visible binding with its strategy, lifecycle state and delegation depth.
//
//	router.Mount("/_container", inspect.New(c).Routes())
//
//	GET /_container/healthz
//	GET /_container/bindings            all bindings
//	GET /_container/bindings?state=empty filter by state
//	GET /_container/bindings/{key}      nearest binding for a key
package inspect

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/km-arc/go-wit/framework/container"
	"github.com/km-arc/go-wit/framework/routing"
)

// Inspector serves snapshots of one container.
type Inspector struct {
	c *container.Container
}

// New creates an Inspector for c.
func New(c *container.Container) *Inspector {
	return &Inspector{c: c}
}

// Routes returns the inspector's routes, ready to be mounted.
func (in *Inspector) Routes() http.Handler {
	r := routing.New(nil)
	r.Get("/healthz", in.health)
	r.Get("/bindings", in.list)
	r.Get("/bindings/{key}", in.show)
	return r
}

func (in *Inspector) health(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).JSON(http.StatusOK, envelope{
		"status":   "ok",
		"bindings": len(in.c.Keys()),
	})
}

func (in *Inspector) list(w http.ResponseWriter, r *http.Request) {
	snap := in.c.Snapshot()
	if state := r.URL.Query().Get("state"); state != "" {
		filtered := make([]container.BindingInfo, 0, len(snap))
		for _, b := range snap {
			if b.State == state {
				filtered = append(filtered, b)
			}
		}
		snap = filtered
	}
	if snap == nil {
		snap = []container.BindingInfo{}
	}
	NewResponse(w).Success(snap)
}

// show returns the binding Make would use for the key: the first match in
// snapshot order, which lists the nearest container first. String keys are
// listed quoted and may be requested either way.
func (in *Inspector) show(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(routing.Param(r, "key"))
	if err != nil {
		NewResponse(w).Error(http.StatusBadRequest, "invalid key")
		return
	}
	for _, b := range in.c.Snapshot() {
		if b.Key == key || b.Key == strconv.Quote(key) {
			NewResponse(w).Success(b)
			return
		}
	}
	NewResponse(w).NotFound("binding " + key + " not found")
}
