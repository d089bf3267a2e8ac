package pool

import (
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/indigo-web/stress/internal/tcp/dummy"
	"github.com/stretchr/testify/require"
)

func single(process Process) Factory {
	return func() Process {
		return process
	}
}

func TestPool(t *testing.T) {
	t.Run("every connection is processed once", func(t *testing.T) {
		const N = 100
		var processed atomic.Int32
		p := New(4, single(func(conn net.Conn) {
			processed.Add(1)
			_ = conn.Close()
		}), nil)

		conns := make([]*dummy.Conn, N)
		for i := range conns {
			conns[i] = dummy.NewNopConn()
			require.NoError(t, p.Submit(conns[i]))
		}

		p.Close()
		p.Wait()
		require.Equal(t, int32(N), processed.Load())

		for _, conn := range conns {
			require.Equal(t, 1, conn.Closes())
		}
	})

	t.Run("submit never blocks", func(t *testing.T) {
		release := make(chan struct{})
		p := New(1, single(func(net.Conn) {
			<-release
		}), nil)

		for range 10 {
			require.NoError(t, p.Submit(dummy.NewNopConn()))
		}

		require.Eventually(t, func() bool {
			return p.Pending() == 9
		}, time.Second, time.Millisecond)

		close(release)
		p.Close()
		p.Wait()
		require.Zero(t, p.Pending())
	})

	t.Run("fifo", func(t *testing.T) {
		var (
			mu    sync.Mutex
			order []net.Conn
		)

		p := New(1, single(func(conn net.Conn) {
			mu.Lock()
			order = append(order, conn)
			mu.Unlock()
		}), nil)

		var want []net.Conn
		for range 5 {
			conn := dummy.NewNopConn()
			want = append(want, conn)
			require.NoError(t, p.Submit(conn))
		}

		p.Close()
		p.Wait()
		require.Equal(t, want, order)
	})

	t.Run("closed", func(t *testing.T) {
		p := New(2, single(func(net.Conn) {}), nil)
		p.Close()
		require.ErrorIs(t, p.Submit(dummy.NewNopConn()), ErrClosed)
		p.Wait()
	})

	t.Run("panic recovery", func(t *testing.T) {
		var (
			panics    atomic.Int32
			processed atomic.Int32
		)

		p := New(1, single(func(conn net.Conn) {
			if processed.Add(1) == 1 {
				panic("boom")
			}
		}), func(err error) {
			require.Contains(t, err.Error(), "boom")
			panics.Add(1)
		})

		first, second := dummy.NewNopConn(), dummy.NewNopConn()
		require.NoError(t, p.Submit(first))
		require.NoError(t, p.Submit(second))
		p.Close()
		p.Wait()

		require.Equal(t, int32(1), panics.Load())
		require.Equal(t, int32(2), processed.Load())
		require.True(t, first.Closed())
		require.False(t, second.Closed())
	})
}

func TestFactory(t *testing.T) {
	const workers = 3
	var created atomic.Int32

	p := New(workers, func() Process {
		created.Add(1)
		return func(net.Conn) {}
	}, nil)
	p.Close()
	p.Wait()

	require.Equal(t, int32(workers), created.Load())
}
