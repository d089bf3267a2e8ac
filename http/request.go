package http

import (
	"net"

	"github.com/indigo-web/stress/kv"
)

type Headers = *kv.Storage

// Request represents an HTTP request head. No body is ever read.
//
// WARNING: strings of the request reference memory owned by the worker, which is reused
// for the next connection. Copy them with strings.Clone if they must
// outlive the handler.
type Request struct {
	// Method is the request method exactly as it was transmitted.
	Method string
	// Path is the request target exactly as it was transmitted, no decoding is done.
	Path string
	// Protocol is the protocol token of the request line. Only HTTP/1.1 passes parsing.
	Protocol string
	// Host and UserAgent are copies of the corresponding headers. Empty if missing.
	Host      string
	UserAgent string
	// Headers holds non-normalized header pairs, even though lookup is case-insensitive.
	// On duplicate keys the last occurrence wins.
	Headers Headers
	// Remote holds the remote address of the connection.
	Remote net.Addr
	// Error is set when the request enters the errors phase.
	Error error
}

func NewRequest(headers Headers, remote net.Addr) *Request {
	return &Request{
		Headers: headers,
		Remote:  remote,
	}
}

// IP returns the IP address of the peer, or nil if unknown.
func (r *Request) IP() net.IP {
	switch addr := r.Remote.(type) {
	case *net.TCPAddr:
		return addr.IP
	case *net.UDPAddr:
		return addr.IP
	case *net.IPAddr:
		return addr.IP
	case nil:
		return nil
	}

	host, _, err := net.SplitHostPort(r.Remote.String())
	if err != nil {
		return nil
	}

	return net.ParseIP(host)
}

// Header returns the header value or an empty string.
func (r *Request) Header(key string) string {
	return r.Headers.Value(key)
}
