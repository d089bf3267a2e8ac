package tcp

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/indigo-web/stress/errors"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu    sync.Mutex
	conns []net.Conn
	err   error
}

func (c *collector) Submit(conn net.Conn) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	c.conns = append(c.conns, conn)

	return nil
}

func (c *collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.conns)
}

func TestTCP(t *testing.T) {
	t.Run("stop", func(t *testing.T) {
		listener, err := net.Listen("tcp", "localhost:0")
		require.NoError(t, err)

		server := NewServer(listener, new(collector))
		stopCh := make(chan error)
		go func() {
			stopCh <- server.Start()
		}()

		require.NoError(t, server.Stop())
		require.ErrorIs(t, <-stopCh, errors.ErrShutdown)
	})

	t.Run("submits connections", func(t *testing.T) {
		listener, err := net.Listen("tcp", "localhost:0")
		require.NoError(t, err)

		pool := new(collector)
		server := NewServer(listener, pool)
		stopCh := make(chan error)
		go func() {
			stopCh <- server.Start()
		}()

		for range 3 {
			conn, err := net.Dial("tcp", server.Addr().String())
			require.NoError(t, err)
			defer conn.Close()
		}

		require.Eventually(t, func() bool {
			return pool.Len() == 3
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, server.Stop())
		require.ErrorIs(t, <-stopCh, errors.ErrShutdown)
	})

	t.Run("rejected connection is closed", func(t *testing.T) {
		listener, err := net.Listen("tcp", "localhost:0")
		require.NoError(t, err)

		server := NewServer(listener, &collector{err: net.ErrClosed})
		go func() {
			_ = server.Start()
		}()
		defer server.Stop()

		conn, err := net.Dial("tcp", server.Addr().String())
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		n, err := conn.Read(make([]byte, 1))
		require.Zero(t, n)
		require.Error(t, err)
	})
}
