package dummy

import (
	"bytes"
	"errors"
	"net"
	"sync"
	"time"
)

var ErrClosed = errors.New("use of closed dummy connection")

// Conn is an in-memory net.Conn. Reads are served from the data it was initialised with,
// writes are recorded and may be inspected via Written. It's safe for concurrent use, so a
// test may inspect it while a worker is still writing.
type Conn struct {
	mu       sync.Mutex
	input    *bytes.Reader
	output   bytes.Buffer
	closed   bool
	closes   int
	remote   net.Addr
	writeErr error
}

func NewConn(data string) *Conn {
	return &Conn{
		input:  bytes.NewReader([]byte(data)),
		remote: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 31337},
	}
}

// NewNopConn returns a connection with nothing to read.
func NewNopConn() *Conn {
	return NewConn("")
}

// FailWrites makes every consequent write fail with the err.
func (c *Conn) FailWrites(err error) *Conn {
	c.mu.Lock()
	c.writeErr = err
	c.mu.Unlock()

	return c
}

func (c *Conn) Read(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrClosed
	}

	return c.input.Read(b)
}

func (c *Conn) Write(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return 0, ErrClosed
	case c.writeErr != nil:
		return 0, c.writeErr
	}

	return c.output.Write(b)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closes++
	if c.closed {
		return ErrClosed
	}

	c.closed = true

	return nil
}

// Written returns everything was written into the connection so far.
func (c *Conn) Written() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.output.String()
}

// Closed reports whether the connection was closed at least once.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// Closes returns how many times Close was called.
func (c *Conn) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closes
}

func (*Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.remote
}

func (*Conn) SetDeadline(time.Time) error {
	return nil
}

func (*Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (*Conn) SetWriteDeadline(time.Time) error {
	return nil
}
