package dispatcher

import (
	"github.com/indigo-web/stress/errors"
	"github.com/indigo-web/stress/http"
	"github.com/indigo-web/stress/router"
)

// Outcome tells how the request went through the phases.
type Outcome uint8

const (
	// Unhandled means no handler returned true and none failed. Nothing was written.
	Unhandled Outcome = iota
	// Handled means one of the global, method or final handlers returned true.
	Handled
	// ErrorHandled means a handler failed and one of the error handlers returned true.
	ErrorHandled
	// ErrorUnhandled means a handler failed, but no error handler returned true.
	ErrorUnhandled
)

func (o Outcome) String() string {
	switch o {
	case Unhandled:
		return "unhandled"
	case Handled:
		return "handled"
	case ErrorHandled:
		return "error handled"
	case ErrorUnhandled:
		return "error unhandled"
	default:
		return "unknown"
	}
}

// Dispatch walks the global, method and final phases in this order, stopping at the first
// handler reporting the request as handled. If any handler fails, the rest is skipped and the
// error handlers are walked instead. The returned error is either the handler's error left
// unhandled, or an error of an error handler itself.
func Dispatch(table *router.Table, request *http.Request, response *http.Response) (outcome Outcome, err error) {
	table.View(func(phases router.Phases) {
		outcome, err = dispatch(phases, request, response)
	})

	return outcome, err
}

func dispatch(phases router.Phases, request *http.Request, response *http.Response) (Outcome, error) {
	normal := [...]struct {
		routes   []router.Route
		wildcard bool
	}{
		{phases[router.Global], true},
		{methodRoutes(phases, request.Method), false},
		{phases[router.Final], true},
	}

	for _, phase := range normal {
		for _, route := range phase.routes {
			if !matches(route, request.Path, phase.wildcard) {
				continue
			}

			handled, err := route.Handler(request, response)
			if err != nil {
				request.Error = errors.Handler(err)
				return dispatchError(phases[router.Errors], request, response)
			}

			if handled {
				return Handled, nil
			}
		}
	}

	return Unhandled, nil
}

func dispatchError(routes []router.Route, request *http.Request, response *http.Response) (Outcome, error) {
	for _, route := range routes {
		if !route.MatchesPath(request.Path) || !route.MatchesMethod(request.Method) {
			continue
		}

		handled, err := route.Handler(request, response)
		if err != nil {
			return ErrorUnhandled, err
		}

		if handled {
			return ErrorHandled, nil
		}
	}

	return ErrorUnhandled, request.Error
}

// methodRoutes protects the named phases from being picked by a request which method token
// accidentally equals to the phase's name.
func methodRoutes(phases router.Phases, method string) []router.Route {
	switch method {
	case router.Global, router.Final, router.Errors:
		return nil
	default:
		return phases[method]
	}
}

func matches(route router.Route, path string, wildcard bool) bool {
	if wildcard {
		return route.MatchesPath(path)
	}

	return route.Path == path
}
