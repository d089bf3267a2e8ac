package pool

import (
	"errors"
	"fmt"
	"net"
	"sync"
)

var ErrClosed = errors.New("pool is closed")

// Process handles a single connection. It's called from one of the workers.
type Process func(conn net.Conn)

// Factory is called once per worker, so every worker may own a non-shareable state.
type Factory func() Process

// Pool is a fixed set of workers consuming connections from an unbounded FIFO queue.
// Submitting never blocks, so the accept loop is never slowed down by busy workers.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []net.Conn
	closed  bool
	wg      sync.WaitGroup
	onPanic func(error)
}

// New starts n workers, each with its own Process obtained from the factory. A panic raised
// by a process is recovered, reported via the onPanic (if not nil) and the connection is closed.
func New(n int, factory Factory, onPanic func(error)) *Pool {
	if n <= 0 {
		n = 1
	}

	p := &Pool{
		onPanic: onPanic,
	}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(n)

	for range n {
		go p.worker(factory())
	}

	return p
}

// Submit enqueues the connection. It returns ErrClosed if the pool was closed, in which
// case the connection stays owned by the caller.
func (p *Pool) Submit(conn net.Conn) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	p.queue = append(p.queue, conn)
	p.cond.Signal()

	return nil
}

// Pending returns the number of connections waiting for a free worker.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.queue)
}

// Close stops accepting new connections. Already queued ones are still processed.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// Wait blocks until every worker exited. Makes sense only after Close.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) worker(process Process) {
	defer p.wg.Done()

	for {
		conn, ok := p.dequeue()
		if !ok {
			return
		}

		p.run(process, conn)
	}
}

func (p *Pool) dequeue() (net.Conn, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 {
		if p.closed {
			return nil, false
		}

		p.cond.Wait()
	}

	conn := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]

	return conn, true
}

func (p *Pool) run(process Process, conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			if p.onPanic != nil {
				p.onPanic(fmt.Errorf("pool: recovered from panic: %v", r))
			}

			_ = conn.Close()
		}
	}()

	process(conn)
}
