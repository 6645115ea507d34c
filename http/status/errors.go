package status

import (
	"errors"
	"os"
)

// HTTPError is a failure that carries the code it'd naturally be answered with. The server
// doesn't disclose it to the client, every failure is answered uniformly, but the code
// is still useful for the logs.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequestLine       = NewError(BadRequest, "malformed request line")
	ErrUnsupportedProtocol  = NewError(HTTPVersionNotSupported, "protocol is not supported")
	ErrBadHeader            = NewError(BadRequest, "malformed header line")
	ErrLengthRequired       = NewError(LengthRequired, "POST request without Content-Length")
	ErrBadContentLength     = NewError(BadRequest, "bad Content-Length value")
	ErrShortBody            = NewError(BadRequest, "request body is shorter than declared")
	ErrBodyTooLarge         = NewError(RequestEntityTooLarge, "request body is too large")
	ErrURITooLong           = NewError(RequestURITooLong, "request line is too long")
	ErrHeaderFieldsTooLarge = NewError(HeaderFieldsTooLarge, "header line is too long")
	ErrTooManyHeaders       = NewError(HeaderFieldsTooLarge, "too many headers")
	ErrNotRoutable          = NewError(MethodNotAllowed, "no handler for such method")
	ErrNotImplemented       = NewError(NotImplemented, "dynamic execution is disabled")
	ErrNotFound             = NewError(NotFound, "not found")
	ErrForbiddenPath        = NewError(Forbidden, "path escapes the root")
	ErrScriptFailed         = NewError(BadGateway, "script execution failed")
	ErrInternalServerError  = NewError(InternalServerError, "internal server error")
)

// Kind tells at which stage a connection failed.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindParse
	KindRoute
	KindFilesystem
	KindCGI
	KindIO
	KindTimeout
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindRoute:
		return "route"
	case KindFilesystem:
		return "filesystem"
	case KindCGI:
		return "cgi"
	case KindIO:
		return "io"
	case KindTimeout:
		return "timeout"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error attaches a Kind to an error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches the kind to the error. Errors caused by an exceeded deadline always become
// KindTimeout. Nil stays nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrDeadlineExceeded) {
		kind = KindTimeout
	}

	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of the outermost *Error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// CodeOf returns the code an error would naturally be answered with.
func CodeOf(err error) Code {
	var h HTTPError
	if errors.As(err, &h) {
		return h.Code
	}

	if KindOf(err) == KindTimeout {
		return RequestTimeout
	}

	return InternalServerError
}
