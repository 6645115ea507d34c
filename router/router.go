package router

import (
	"github.com/indigo-web/oneshot/http"
)

// Router produces a response for every request, and a response for every failure.
type Router interface {
	OnRequest(request *http.Request) (*http.Response, error)
	OnError(err error) *http.Response
}

// Handler serves one kind of requests, e.g. static files or scripts.
type Handler interface {
	Handle(request *http.Request) (*http.Response, error)
}

type HandlerFunc func(request *http.Request) (*http.Response, error)

func (h HandlerFunc) Handle(request *http.Request) (*http.Response, error) {
	return h(request)
}
