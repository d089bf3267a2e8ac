package middleware

import (
	"strings"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/stress/http"
	"github.com/indigo-web/stress/router"
)

const (
	DefaultServerHeader = "stress"
	RequestIDHeader     = "x-request-id"
	requestIDLength     = 20
)

func ServerHeader(customHeaders ...string) router.Handler {
	value := strings.Join(customHeaders, " ")
	if len(value) == 0 {
		value = DefaultServerHeader
	}

	return func(_ *http.Request, response *http.Response) (bool, error) {
		return false, response.SetHeader("server", value)
	}
}

// RequestID tags every response with a random identifier. If the client already sent
// one, it's echoed back instead.
func RequestID() router.Handler {
	return func(request *http.Request, response *http.Response) (bool, error) {
		id := request.Header(RequestIDHeader)
		if len(id) == 0 {
			id = uniuri.NewLen(requestIDLength)
		}

		return false, response.SetHeader(RequestIDHeader, id)
	}
}
