package router

import (
	"strings"

	"github.com/indigo-web/stress/http"
)

// Wildcard matches any path or any method, where it's allowed.
const Wildcard = "*"

// Handler processes a request by writing into the response. It returns true if the request
// is fully handled, so no further handlers must be called. A non-nil error stops the normal
// processing and passes the request to the error handlers.
//
// Handlers may be called from different goroutines simultaneously, so they must not capture
// non-synchronized mutable state.
type Handler func(request *http.Request, response *http.Response) (handled bool, err error)

// Route is an immutable registration entry.
type Route struct {
	Method  string
	Path    string
	Handler Handler
}

// Phase is a named group of routes evaluated together.
type Phase = string

const (
	Global Phase = "global"
	Final  Phase = "final"
	Errors Phase = "errors"
)

// MatchesPath reports whether the route's path is either a wildcard or equal to the path.
func (r Route) MatchesPath(path string) bool {
	return r.Path == Wildcard || r.Path == path
}

// MatchesMethod reports whether the route's method is either a wildcard or equal to the method.
func (r Route) MatchesMethod(method string) bool {
	return r.Method == Wildcard || r.Method == method
}

func normalizePath(path string) string {
	if path != Wildcard && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return path
}
