package tcp

import (
	stderrors "errors"
	"net"
	"sync/atomic"

	"github.com/indigo-web/stress/errors"
)

// Submitter hands accepted connections over to the processing side.
type Submitter interface {
	Submit(conn net.Conn) error
}

// Server is the accept loop. It never processes connections itself.
type Server struct {
	sock     net.Listener
	pool     Submitter
	shutdown atomic.Bool
}

func NewServer(sock net.Listener, pool Submitter) *Server {
	return &Server{
		sock: sock,
		pool: pool,
	}
}

// Start accepts connections until the listener is closed. After Stop it returns
// errors.ErrShutdown, otherwise the accept error.
func (s *Server) Start() error {
	for {
		conn, err := s.sock.Accept()
		if err != nil {
			if s.shutdown.Load() {
				return errors.ErrShutdown
			}

			var netErr net.Error
			if stderrors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			return err
		}

		if err = s.pool.Submit(conn); err != nil {
			_ = conn.Close()
		}
	}
}

// Stop closes the listener. Connections already accepted are left to be processed.
func (s *Server) Stop() error {
	s.shutdown.Store(true)

	return s.sock.Close()
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.sock.Addr()
}
