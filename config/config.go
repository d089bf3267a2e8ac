package config

import (
	"runtime"
	"time"

	"github.com/indigo-web/stress/http/mime"
)

type (
	HeadersNumber struct {
		Default, Maximal int
	}

	HeadersSpace struct {
		Default, Maximal int
	}

	URIRequestLineSize struct {
		Default, Maximal int
	}
)

type (
	URI struct {
		// RequestLineSize limits the length of the request line (method, path and protocol
		// together). Default is the initial capacity of the buffer storing it.
		RequestLineSize URIRequestLineSize
	}

	Headers struct {
		// Number is responsible for headers storage size.
		// Default value is an initial size of allocated headers storage.
		// Maximal value is maximum number of headers allowed to be presented
		Number HeadersNumber
		// Space limits the amount of memory occupied by request header keys and values.
		Space HeadersSpace
		// Default headers are included into every response implicitly, unless explicitly
		// overridden.
		Default map[string]string `test:"nullable"`
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout limits how long a worker waits for a client to transmit its request
		// head. Slow clients otherwise pin a worker forever.
		ReadTimeout time.Duration
	}

	Response struct {
		// DefaultContentType is set on every fresh response.
		DefaultContentType mime.MIME
		// FileChunkSize is the size of a single chunk read from a file or a stream and
		// written into the socket.
		FileChunkSize int
	}
)

// Config holds settings used across various parts of the server, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	// Workers is the fixed number of connections processed concurrently.
	Workers  int
	URI      URI
	Headers  Headers
	NET      NET
	Response Response
	// Fallback enables a 500 Internal Server Error response when a handler error was not
	// handled by any error handler. Without it the connection is just closed.
	Fallback bool
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Workers: runtime.NumCPU(),
		URI: URI{
			RequestLineSize: URIRequestLineSize{
				Default: 1 * 1024,
				Maximal: 8 * 1024,
			},
		},
		Headers: Headers{
			Number: HeadersNumber{
				Default: 10,
				Maximal: 50,
			},
			Space: HeadersSpace{
				Default: 1 * 1024,  // 1kb for headers must be fairly enough in most cases.
				Maximal: 16 * 1024, // However, there also might be extremely long cookies.
			},
			Default: make(map[string]string),
		},
		NET: NET{
			ReadBufferSize: 4 * 1024,
			ReadTimeout:    90 * time.Second,
		},
		Response: Response{
			DefaultContentType: mime.Plain,
			FileChunkSize:      32 * 1024,
		},
		Fallback: true,
	}
}
