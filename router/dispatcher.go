package router

import (
	"github.com/indigo-web/oneshot/http"
	"github.com/indigo-web/oneshot/http/status"
)

var _ Router = new(Dispatcher)

// Dispatcher picks either the static or the CGI handler for a request. Every failure is
// answered with the very same NotFound response, regardless of its cause.
type Dispatcher struct {
	static, cgi Handler
}

// New returns a dispatcher. Nil handlers are allowed: requests routed to them fail
// with status.ErrNotImplemented.
func New(static, cgi Handler) *Dispatcher {
	return &Dispatcher{
		static: static,
		cgi:    cgi,
	}
}

func (d *Dispatcher) OnRequest(request *http.Request) (*http.Response, error) {
	var handler Handler

	switch Route(request.Method, len(request.Query) > 0) {
	case StaticFile:
		handler = d.static
	case CGI:
		handler = d.cgi
	default:
		return nil, status.Wrap(status.KindRoute, status.ErrNotRoutable)
	}

	if handler == nil {
		return nil, status.Wrap(status.KindRoute, status.ErrNotImplemented)
	}

	response, err := handler.Handle(request)
	if err != nil {
		return nil, err
	}

	if response == nil {
		return nil, status.Wrap(status.KindInternal, status.ErrInternalServerError)
	}

	return response, nil
}

func (*Dispatcher) OnError(error) *http.Response {
	return NotFound()
}
