package status

type (
	Code   uint16
	Status string
)

// Codes the server is able to produce. The handlers may still set any other code, it'll
// be serialized as is.
const (
	OK Code = 200 // RFC 9110, 15.3.1

	BadRequest            Code = 400 // RFC 9110, 15.5.1
	Forbidden             Code = 403 // RFC 9110, 15.5.4
	NotFound              Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed      Code = 405 // RFC 9110, 15.5.6
	RequestTimeout        Code = 408 // RFC 9110, 15.5.9
	LengthRequired        Code = 411 // RFC 9110, 15.5.12
	RequestEntityTooLarge Code = 413 // RFC 9110, 15.5.14
	RequestURITooLong     Code = 414 // RFC 9110, 15.5.15
	HeaderFieldsTooLarge  Code = 431 // RFC 6585, 5

	InternalServerError     Code = 500 // RFC 9110, 15.6.1
	NotImplemented          Code = 501 // RFC 9110, 15.6.2
	BadGateway              Code = 502 // RFC 9110, 15.6.3
	ServiceUnavailable      Code = 503 // RFC 9110, 15.6.4
	GatewayTimeout          Code = 504 // RFC 9110, 15.6.5
	HTTPVersionNotSupported Code = 505 // RFC 9110, 15.6.6
)

// Text returns a text for the HTTP status code. It returns the empty
// string if the code is unknown.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case BadRequest:
		return "Bad Request"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case RequestTimeout:
		return "Request Timeout"
	case LengthRequired:
		return "Length Required"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case RequestURITooLong:
		return "Request URI Too Long"
	case HeaderFieldsTooLarge:
		return "Request Header Fields Too Large"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case BadGateway:
		return "Bad Gateway"
	case ServiceUnavailable:
		return "Service Unavailable"
	case GatewayTimeout:
		return "Gateway Timeout"
	case HTTPVersionNotSupported:
		return "HTTP Version Not Supported"
	}

	return ""
}
