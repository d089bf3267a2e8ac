package stress

import (
	"log"
	"net"
	"sync"

	"github.com/indigo-web/stress/config"
	"github.com/indigo-web/stress/errors"
	"github.com/indigo-web/stress/http/method"
	"github.com/indigo-web/stress/http/status"
	"github.com/indigo-web/stress/internal/server/http"
	"github.com/indigo-web/stress/internal/server/pool"
	"github.com/indigo-web/stress/internal/server/tcp"
	"github.com/indigo-web/stress/router"
	"github.com/indigo-web/stress/router/static"
)

type Logger interface {
	Printf(fmt string, v ...any)
}

// App binds the route table to a listener. Each accepted connection is queued and processed
// by one of the Config.Workers workers: a single request is read, dispatched through the
// route table, and the connection is closed.
type App struct {
	cfg     *config.Config
	routes  *router.Table
	codes   *status.Table
	logger  Logger
	onError func(error)

	mu      sync.Mutex
	server  *tcp.Server
	stopped bool
}

// Option customizes the App at construction time.
type Option func(*App)

// WithErrorHandler sets a process-wide callback receiving errors that the application
// can't handle: parse errors, unhandled handler errors, errors of error handlers and panics.
// By default, they are logged.
func WithErrorHandler(cb func(error)) Option {
	return func(a *App) {
		a.onError = cb
	}
}

// WithLogger replaces the default logger (log.Default()).
func WithLogger(logger Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithFallback toggles the 500 Internal Server Error response for errors left unhandled.
func WithFallback(enabled bool) Option {
	return func(a *App) {
		a.cfg.Fallback = enabled
	}
}

// WithStatusTable replaces the built-in table of reason phrases, e.g. with one loaded via
// status.Parse.
func WithStatusTable(table *status.Table) Option {
	return func(a *App) {
		a.codes = table
	}
}

// New returns a new App instance. Nil config is replaced by config.Default(). The config
// is copied, however its maps are shared, so they must not be modified after the App was created.
func New(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	copied := *cfg
	cfg = &copied

	app := &App{
		cfg:    cfg,
		routes: router.NewTable(),
		codes:  status.Default(),
		logger: log.Default(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.onError == nil {
		app.onError = func(err error) {
			app.logger.Printf("stress: %s", err)
		}
	}

	return app
}

// Routes exposes the underlying route table.
func (a *App) Routes() *router.Table {
	return a.routes
}

// Register adds a handler for the method and the exact path. Methods outside method.List
// are still registered, but a warning is logged, as it's most likely a typo.
func (a *App) Register(m, path string, handler router.Handler) *App {
	if !method.IsKnown(method.Normalize(m)) {
		a.logger.Printf("stress: WARNING: registering %s %s: unknown method", m, path)
	}

	a.routes.Register(m, path, handler)
	return a
}

// Get is a shortcut for registering GET-requests.
func (a *App) Get(path string, handler router.Handler) *App {
	a.routes.Get(path, handler)
	return a
}

// Head is a shortcut for registering HEAD-requests.
func (a *App) Head(path string, handler router.Handler) *App {
	a.routes.Head(path, handler)
	return a
}

// Post is a shortcut for registering POST-requests.
func (a *App) Post(path string, handler router.Handler) *App {
	a.routes.Post(path, handler)
	return a
}

// Put is a shortcut for registering PUT-requests.
func (a *App) Put(path string, handler router.Handler) *App {
	a.routes.Put(path, handler)
	return a
}

// Delete is a shortcut for registering DELETE-requests.
func (a *App) Delete(path string, handler router.Handler) *App {
	a.routes.Delete(path, handler)
	return a
}

// Options is a shortcut for registering OPTIONS-requests.
func (a *App) Options(path string, handler router.Handler) *App {
	a.routes.Options(path, handler)
	return a
}

// Patch is a shortcut for registering PATCH-requests.
func (a *App) Patch(path string, handler router.Handler) *App {
	a.routes.Patch(path, handler)
	return a
}

// Middleware adds a global handler, called before any method handler.
func (a *App) Middleware(path string, handler router.Handler) *App {
	a.routes.Middleware(path, handler)
	return a
}

// Last adds a final handler, called if no method handler handled the request.
func (a *App) Last(path string, handler router.Handler) *App {
	a.routes.Last(path, handler)
	return a
}

// ErrorWare adds an error handler.
func (a *App) ErrorWare(method, path string, handler router.Handler) *App {
	a.routes.ErrorWare(method, path, handler)
	return a
}

// Static serves files from the root directory for every request which path starts with
// the prefix.
func (a *App) Static(prefix, root string) *App {
	return a.Middleware(router.Wildcard, static.Mount(prefix, root))
}

// Listen binds the addr and serves it. It blocks until Stop is called, returning
// errors.ErrShutdown then.
func (a *App) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return a.Serve(listener)
}

// Serve accepts connections from the listener. It blocks until Stop is called, returning
// errors.ErrShutdown then. Before returning, it waits until every already accepted
// connection is processed.
func (a *App) Serve(listener net.Listener) error {
	workers := pool.New(a.cfg.Workers, func() pool.Process {
		return http.NewServer(a.cfg, a.routes, a.codes, a.onError).Serve
	}, a.onError)

	server := tcp.NewServer(listener, workers)

	a.mu.Lock()
	a.server = server
	stopped := a.stopped
	a.mu.Unlock()

	if stopped {
		_ = server.Stop()
	}

	err := server.Start()
	workers.Close()
	workers.Wait()

	return err
}

// Stop closes the listener. Serve (or Listen) returns as soon as queued connections are
// processed. Stopping a not yet started App makes it stop immediately after the start.
func (a *App) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopped = true
	if a.server == nil {
		return nil
	}

	if err := a.server.Stop(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
