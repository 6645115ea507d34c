package oneshot

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/indigo-web/oneshot/cgi"
	"github.com/indigo-web/oneshot/config"
	"github.com/indigo-web/oneshot/internal/logging"
	"github.com/indigo-web/oneshot/internal/protocol/http1"
	"github.com/indigo-web/oneshot/router"
	"github.com/indigo-web/oneshot/static"
	"github.com/indigo-web/oneshot/transport"
)

var ErrNotBound = errors.New("oneshot: the app isn't bound to any address")

// App serves exactly one request per connection: static files for plain GET requests
// and CGI scripts for GET requests with a query string and POST requests. Everything
// else is answered with 404.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	static    router.Handler
	cgi       router.Handler
	hooks     hooks
	transport *transport.TCP
	bound     bool
}

// New returns a new App instance. If cfg is nil, config.Default() is used.
func New(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	logger := logging.New(cfg.Log, os.Stderr)

	return &App{
		cfg:       cfg,
		logger:    logger,
		transport: transport.NewTCP(logger),
	}
}

// Logger replaces the logger built from the config.
func (a *App) Logger(logger *slog.Logger) *App {
	a.logger = logger
	a.transport = transport.NewTCP(logger)
	return a
}

// Static replaces the handler serving plain GET requests.
func (a *App) Static(h router.Handler) *App {
	a.static = h
	return a
}

// CGI replaces the handler serving GET requests with a query and POST requests.
func (a *App) CGI(h router.Handler) *App {
	a.cgi = h
	return a
}

// NotifyOnStart calls the callback right before the accept loop is started.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback after the accept loop is stopped and all the
// connections are served.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Bind validates the config and creates the listening socket. Port 0 lets the system
// pick a free one, which is then available via Addr().
func (a *App) Bind(ip string, port uint16) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	addr := net.JoinHostPort(ip, strconv.Itoa(int(port)))
	if err := a.transport.Bind(addr); err != nil {
		return fmt.Errorf("oneshot: bind %s: %w", addr, err)
	}

	a.bound = true
	return nil
}

// Addr returns the bound address, or nil if the app isn't bound yet.
func (a *App) Addr() net.Addr {
	return a.transport.Addr()
}

// Serve runs the accept loop on the bound socket until Stop is called, then waits
// for all the connections to be served and closes the socket.
func (a *App) Serve() error {
	if !a.bound {
		return ErrNotBound
	}

	scripts := a.cgiHandler()
	r := router.New(a.staticHandler(), scripts)

	a.logger.Info("listening",
		"addr", a.Addr().String(),
		"root", a.cfg.Static.Root,
		"cgi", scripts != nil,
	)
	callIfNotNil(a.hooks.OnStart)

	err := a.transport.Listen(a.cfg.NET, func(conn net.Conn) {
		http1.New(a.cfg, r, a.logger, conn).Serve()
	})
	if err != nil {
		a.logger.Error("accept loop failed", "err", err)
	}

	a.transport.Wait()
	a.transport.Close()
	a.bound = false
	a.logger.Info("stopped")
	callIfNotNil(a.hooks.OnStop)

	return err
}

// Start binds to the address and serves until Stop is called. Errors are returned
// only if the socket cannot be bound or accepting fails fatally.
func (a *App) Start(ip string, port uint16) error {
	if err := a.Bind(ip, port); err != nil {
		return err
	}

	return a.Serve()
}

// Stop stops accepting new connections. The call isn't blocking: Serve returns as soon
// as the accept loop notices it and the rest of the connections are served.
func (a *App) Stop() {
	a.transport.Stop()
}

func (a *App) staticHandler() router.Handler {
	if a.static != nil {
		return a.static
	}

	return static.New(a.cfg.Static)
}

func (a *App) cgiHandler() router.Handler {
	if a.cgi != nil {
		return a.cgi
	}

	if !a.cfg.CGI.Enabled {
		return nil
	}

	return cgi.New(a.cfg)
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
