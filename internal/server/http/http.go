package http

import (
	"bufio"
	stderrors "errors"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/indigo-web/stress/config"
	"github.com/indigo-web/stress/dispatcher"
	"github.com/indigo-web/stress/http"
	"github.com/indigo-web/stress/http/status"
	"github.com/indigo-web/stress/internal/parser"
	"github.com/indigo-web/stress/internal/parser/http1"
	"github.com/indigo-web/stress/kv"
	"github.com/indigo-web/stress/router"
)

const fallbackBody = "Internal Server Error"

// OnError is called with every error the server can't pass to the application: parse
// errors, errors left unhandled by the error handlers and errors of error handlers themselves.
type OnError func(error)

// Server processes connections one by one, one request per connection. It owns the parser
// state and the buffers, therefore each worker must have its own instance.
type Server struct {
	cfg     *config.Config
	routes  *router.Table
	codes   *status.Table
	parser  parser.RequestParser
	reader  *bufio.Reader
	headers *kv.Storage
	chunk   []byte
	onError OnError
}

func NewServer(cfg *config.Config, routes *router.Table, codes *status.Table, onError OnError) *Server {
	if onError == nil {
		onError = func(error) {}
	}

	return &Server{
		cfg:     cfg,
		routes:  routes,
		codes:   codes,
		parser:  http1.NewParser(cfg),
		reader:  bufio.NewReaderSize(nil, cfg.NET.ReadBufferSize),
		headers: kv.NewPrealloc(cfg.Headers.Number.Default),
		chunk:   make([]byte, cfg.Response.FileChunkSize),
		onError: onError,
	}
}

// Serve reads a single request from the connection, dispatches it and closes the connection.
func (s *Server) Serve(conn net.Conn) {
	s.headers.Clear()
	s.reader.Reset(conn)
	defer s.reader.Reset(nil)

	if s.cfg.NET.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.NET.ReadTimeout))
	}

	request := http.NewRequest(s.headers, conn.RemoteAddr())
	if err := s.parser.Parse(s.reader, request); err != nil {
		// a client that disconnects without sending anything isn't worth reporting
		if !stderrors.Is(err, io.EOF) {
			s.onError(err)
		}

		_ = conn.Close()
		return
	}

	response := http.NewResponse(conn, s.codes, s.cfg, s.chunk)
	outcome, err := dispatcher.Dispatch(s.routes, request, response)
	if err != nil {
		s.onError(err)
	}

	if outcome == dispatcher.ErrorUnhandled && s.cfg.Fallback && !response.HeadersSent() {
		s.fallback(response)
	}

	if !response.Closed() {
		_ = conn.Close()
	}
}

func (s *Server) fallback(response *http.Response) {
	_ = response.SetStatus(status.InternalServerError)
	_ = response.SetHeader("content-type", s.cfg.Response.DefaultContentType)
	_ = response.SetHeader("content-length", strconv.Itoa(len(fallbackBody)))
	if err := response.String(fallbackBody); err != nil {
		s.onError(err)
	}
}
