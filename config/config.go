package config

import (
	"errors"
	"strings"
	"time"
)

type (
	URI struct {
		// RequestLineSize limits the length of the request line in bytes, including the
		// line terminator. Longer lines are rejected without being buffered completely.
		RequestLineSize int `mapstructure:"request_line_size"`
	}

	Headers struct {
		// Number is the maximal number of header lines a request may carry.
		Number int `mapstructure:"number"`
		// LineSize limits a single header line, including the line terminator.
		LineSize int `mapstructure:"line_size"`
	}

	Body struct {
		// MaxSize describes the maximal Content-Length that is going to be read. Requests
		// declaring more are rejected before any body byte is consumed.
		MaxSize uint64 `mapstructure:"max_size"`
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int `mapstructure:"read_buffer_size"`
		// ReadTimeout bounds the time a client has to transmit the whole request. Zero
		// disables the deadline.
		ReadTimeout time.Duration `mapstructure:"read_timeout"`
		// WriteTimeout bounds the time the response may take to be written. Zero disables
		// the deadline.
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration `mapstructure:"accept_loop_interrupt_period"`
		// MaxConnections is the number of connections served simultaneously. Once reached,
		// the accept loop waits until some connection is done.
		MaxConnections int64 `mapstructure:"max_connections"`
	}

	Static struct {
		// Root is the document root. The request path is appended to it as is.
		Root string `mapstructure:"root"`
		// DefaultDocument is served when the request path names a directory.
		DefaultDocument string `mapstructure:"default_document"`
	}

	CGI struct {
		Enabled bool `mapstructure:"enabled"`
		// Timeout limits a single script execution.
		Timeout time.Duration `mapstructure:"timeout"`
	}

	Log struct {
		// Level is one of debug, info, warn, error.
		Level string `mapstructure:"level"`
		// Format is either text or json.
		Format string `mapstructure:"format"`
	}
)

// Config holds settings used across the server: limits, timeouts and the document root.
//
// Always start from Default() and modify what's needed, as zero values are mostly invalid.
type Config struct {
	URI     URI     `mapstructure:"uri"`
	Headers Headers `mapstructure:"headers"`
	Body    Body    `mapstructure:"body"`
	NET     NET     `mapstructure:"net"`
	Static  Static  `mapstructure:"static"`
	CGI     CGI     `mapstructure:"cgi"`
	Log     Log     `mapstructure:"log"`
}

// Default returns default config.
func Default() *Config {
	return &Config{
		URI: URI{
			RequestLineSize: 8 * 1024,
		},
		Headers: Headers{
			Number:   50,
			LineSize: 8 * 1024,
		},
		Body: Body{
			MaxSize: 64 * 1024 * 1024,
		},
		NET: NET{
			ReadBufferSize:            4 * 1024,
			ReadTimeout:               30 * time.Second,
			WriteTimeout:              30 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
			MaxConnections:            1024,
		},
		Static: Static{
			Root:            "./wwwroot",
			DefaultDocument: "index.html",
		},
		CGI: CGI{
			Enabled: true,
			Timeout: 10 * time.Second,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

var (
	ErrBadBufferSize    = errors.New("config: read buffer size must be positive")
	ErrBadLimit         = errors.New("config: request line, header line and header number limits must be positive")
	ErrBadTimeout       = errors.New("config: timeouts must not be negative")
	ErrBadInterrupt     = errors.New("config: accept loop interrupt period must be positive")
	ErrBadConnections   = errors.New("config: max connections must be positive")
	ErrNoRoot           = errors.New("config: document root must be set")
	ErrBadDefaultDoc    = errors.New("config: default document must be a plain file name")
	ErrUnknownLogFormat = errors.New("config: log format must be either text or json")
)

// Validate reports the first setting that makes no sense.
func (c *Config) Validate() error {
	switch {
	case c.NET.ReadBufferSize <= 0:
		return ErrBadBufferSize
	case c.URI.RequestLineSize <= 0 || c.Headers.LineSize <= 0 || c.Headers.Number <= 0:
		return ErrBadLimit
	case c.NET.ReadTimeout < 0 || c.NET.WriteTimeout < 0 || c.CGI.Timeout < 0:
		return ErrBadTimeout
	case c.NET.AcceptLoopInterruptPeriod <= 0:
		return ErrBadInterrupt
	case c.NET.MaxConnections <= 0:
		return ErrBadConnections
	case len(c.Static.Root) == 0:
		return ErrNoRoot
	case len(c.Static.DefaultDocument) == 0 || strings.ContainsAny(c.Static.DefaultDocument, `/\`):
		return ErrBadDefaultDoc
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return ErrUnknownLogFormat
	}

	return nil
}
