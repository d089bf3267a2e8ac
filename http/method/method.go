package method

import "strings"

// Method is an HTTP request method token as it's written on the wire.
type Method = string

const (
	GET     Method = "GET"
	HEAD    Method = "HEAD"
	POST    Method = "POST"
	PUT     Method = "PUT"
	DELETE  Method = "DELETE"
	CONNECT Method = "CONNECT"
	OPTIONS Method = "OPTIONS"
	TRACE   Method = "TRACE"
	PATCH   Method = "PATCH"

	// Any matches every method. It's accepted only where explicitly documented.
	Any Method = "*"
)

// List contains all the well-known HTTP methods.
var List = []Method{GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH}

// Normalize upper-cases the method. Requests are matched against routes case-sensitively,
// so every registered method goes through it.
func Normalize(m string) Method {
	return strings.ToUpper(m)
}

// IsKnown reports whether the method is one of the List.
func IsKnown(m string) bool {
	for _, known := range List {
		if known == m {
			return true
		}
	}

	return false
}
