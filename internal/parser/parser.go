package parser

import (
	"bufio"

	"github.com/indigo-web/stress/http"
)

// RequestParser is a general interface for every request head parser. Currently only
// the http1 one is presented.
type RequestParser interface {
	// Parse reads exactly one request head from the reader and fills the request.
	Parse(r *bufio.Reader, request *http.Request) error
}
