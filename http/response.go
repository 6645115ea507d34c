package http

import (
	"strconv"

	"github.com/indigo-web/oneshot/http/status"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// Fields is everything the serializer needs to know about a response.
type Fields struct {
	Code    status.Code
	Status  status.Status
	Headers map[string]string
	Body    []byte
}

type Response struct {
	fields Fields
}

// NewResponse returns a new instance of the Response object with status code set to 200 OK
// and no headers.
func NewResponse() *Response {
	return &Response{
		fields: Fields{
			Code:    status.OK,
			Status:  status.Text(status.OK),
			Headers: make(map[string]string),
		},
	}
}

// Code sets a Response code and a corresponding status. In case of unknown code, the
// status is left empty and the serializer will fall back to the numeric code only. Call
// Status explicitly after it in this case.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	r.fields.Status = status.Text(code)
	return r
}

// Status sets a custom status text.
func (r *Response) Status(status status.Status) *Response {
	r.fields.Status = status
	return r
}

// Header sets the header value, overriding the previous one if any. Content-Type and
// Content-Length are stored under their canonical names whatever the case is.
func (r *Response) Header(key, value string) *Response {
	switch {
	case strcomp.EqualFold(key, "content-type"):
		key = "Content-Type"
	case strcomp.EqualFold(key, "content-length"):
		key = "Content-Length"
	}

	r.fields.Headers[key] = value
	return r
}

// ContentType is a shorthand for setting the Content-Type header.
func (r *Response) ContentType(value string) *Response {
	return r.Header("Content-Type", value)
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING, and the Content-Length
// accordingly. Changing the passed slice later will affect the response by itself
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	if len(body) == 0 {
		delete(r.fields.Headers, "Content-Length")
		return r
	}

	return r.Header("Content-Length", strconv.Itoa(len(body)))
}

// Expose returns the response fields. Modifying them changes the response.
func (r *Response) Expose() *Fields {
	return &r.fields
}
