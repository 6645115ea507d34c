package transport

import (
	"net"

	"github.com/indigo-web/oneshot/config"
)

// Transport owns the listening socket and hands every accepted connection over to the
// callback. The callback runs in its own goroutine.
type Transport interface {
	Bind(addr string) error
	Listen(cfg config.NET, cb func(conn net.Conn)) error
	Addr() net.Addr
	Stop()
	Close()
	Wait()
}
