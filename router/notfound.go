package router

import (
	"github.com/indigo-web/oneshot/http"
	"github.com/indigo-web/oneshot/http/mime"
	"github.com/indigo-web/oneshot/http/status"
)

// NotFoundBody is the body of the response every failure is answered with.
const NotFoundBody = "<h1>404 Not Found</h1>"

// NotFound builds the uniform error response: 404 Not Found with a small HTML body and
// its Content-Length.
func NotFound() *http.Response {
	return http.NewResponse().
		Code(status.NotFound).
		ContentType(mime.HTML + "; charset=" + mime.UTF8).
		String(NotFoundBody)
}
