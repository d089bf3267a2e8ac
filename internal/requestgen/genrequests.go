package requestgen

import (
	"strconv"
	"strings"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/stress/kv"
)

// Headers returns n headers with unique names, the last one of them is always Host.
func Headers(n int) *kv.Storage {
	hdrs := kv.NewPrealloc(n)

	for i := 0; i < n-1; i++ {
		hdrs.Set("x-"+uniuri.NewLen(8)+"-"+strconv.Itoa(i), strings.Repeat("b", 100))
	}

	return hdrs.Set("Host", "localhost")
}

func HeadersBlock(hdrs *kv.Storage) (buff []byte) {
	for key, value := range hdrs.Pairs() {
		buff = append(buff, key+": "+value+"\r\n"...)
	}

	return buff
}

// Generate returns a GET request head with the path and the headers.
func Generate(path string, hdrs *kv.Storage) (request []byte) {
	request = append(request, "GET "+path+" HTTP/1.1\r\n"...)
	request = append(request, HeadersBlock(hdrs)...)

	return append(request, '\r', '\n')
}
