package router

import "github.com/indigo-web/oneshot/http/method"

// Kind is the kind of handler a request must be served by.
type Kind uint8

const (
	Invalid Kind = iota
	StaticFile
	CGI
)

func (k Kind) String() string {
	switch k {
	case StaticFile:
		return "static"
	case CGI:
		return "cgi"
	default:
		return "invalid"
	}
}

// Route decides by the method and presence of a query only. GET without a query is a
// static file, GET with a query and any POST are scripts. Nothing else is served.
func Route(meth string, hasQuery bool) Kind {
	switch {
	case meth == method.GET && !hasQuery:
		return StaticFile
	case meth == method.GET, meth == method.POST:
		return CGI
	default:
		return Invalid
	}
}
