package middleware

import (
	"log"

	"github.com/indigo-web/stress/http"
	"github.com/indigo-web/stress/router"
)

type Logger interface {
	Printf(fmt string, v ...any)
}

// LogRequests logs the method, path and the peer of every request it sees. It never handles
// the request itself, so it's intended to be registered as the very first global handler.
func LogRequests(loggers ...Logger) router.Handler {
	if len(loggers) == 0 {
		loggers = append(loggers, log.Default())
	}

	return func(request *http.Request, _ *http.Response) (bool, error) {
		for _, logger := range loggers {
			logger.Printf("%s %s (%s)", request.Method, request.Path, request.IP())
		}

		return false, nil
	}
}
