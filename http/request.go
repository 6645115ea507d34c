package http

import (
	"net"
	"strings"
)

// Request represents a single parsed request. Each connection carries exactly one.
type Request struct {
	// Method is the request method token as received, e.g. GET or POST.
	Method string
	// Target is the raw request target, exactly as it appeared in the request line.
	Target string
	// Path is the part of the Target before the first '?'. It isn't decoded.
	Path string
	// Query is everything after the first '?' in the Target, or empty string if there's
	// none.
	Query string
	// Headers keep keys exactly as received, so lookups are case-sensitive.
	Headers map[string]string
	// Body is the request body. It is read only for requests that aren't GET and declare
	// their Content-Length.
	Body []byte
	// Remote holds the remote address, if known.
	Remote net.Addr
}

func NewRequest() *Request {
	return &Request{
		Headers: make(map[string]string),
	}
}

// Header returns a header value and whether it was presented at all.
func (r *Request) Header(key string) (string, bool) {
	value, found := r.Headers[key]
	return value, found
}

// SplitTarget partitions the target on the first '?'. If there is no such, the whole
// target is the path and the query is empty.
func SplitTarget(target string) (path, query string) {
	path, query, _ = strings.Cut(target, "?")
	return path, query
}
