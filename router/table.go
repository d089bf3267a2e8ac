package router

import (
	"fmt"
	"sync"

	"github.com/indigo-web/stress/http/method"
)

// Phases maps a phase key (Global, Final, Errors or an upper-cased method) to the routes in
// their registration order.
type Phases map[Phase][]Route

// Table is the route table shared by all the workers. Registration takes the write lock,
// while dispatching holds the read lock for the whole phases walk. Handlers therefore must
// never register new routes, as this deadlocks.
type Table struct {
	mu     sync.RWMutex
	phases Phases
}

func NewTable() *Table {
	return &Table{
		phases: make(Phases),
	}
}

// Register adds a handler for the method phase. The method is upper-cased.
func (t *Table) Register(m, path string, handler Handler) *Table {
	if m == Wildcard {
		panic(fmt.Errorf("router: wildcard method isn't allowed for %s, use Middleware instead", path))
	}

	m = method.Normalize(m)
	t.add(m, Route{Method: m, Path: normalizePath(path), Handler: handler})

	return t
}

// Middleware adds a handler to the global phase. It's called for every request with matching
// path (or for every request at all, if the path is Wildcard) before any method handler.
func (t *Table) Middleware(path string, handler Handler) *Table {
	t.add(Global, Route{Method: Wildcard, Path: normalizePath(path), Handler: handler})
	return t
}

// Last adds a handler to the final phase, which is walked after the method phase. It's
// intended for default responses, e.g. Not Found pages.
func (t *Table) Last(path string, handler Handler) *Table {
	t.add(Final, Route{Method: Wildcard, Path: normalizePath(path), Handler: handler})
	return t
}

// ErrorWare adds an error handler. It's called only if one of the handlers failed and the
// request's method and path match (both may be Wildcard). The error itself is available via
// Request.Error.
func (t *Table) ErrorWare(m, path string, handler Handler) *Table {
	if m != Wildcard {
		m = method.Normalize(m)
	}

	t.add(Errors, Route{Method: m, Path: normalizePath(path), Handler: handler})

	return t
}

// View calls the fn with the phases while holding the read lock. The phases must not be
// modified nor retained after fn returns.
func (t *Table) View(fn func(Phases)) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	fn(t.phases)
}

// Len returns the total number of registered routes.
func (t *Table) Len() (n int) {
	t.View(func(phases Phases) {
		for _, routes := range phases {
			n += len(routes)
		}
	})

	return n
}

func (t *Table) add(phase Phase, route Route) {
	if route.Handler == nil {
		panic(fmt.Errorf("router: nil handler for %s %s", route.Method, route.Path))
	}

	t.mu.Lock()
	t.phases[phase] = append(t.phases[phase], route)
	t.mu.Unlock()
}
