package http1

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/oneshot/config"
	"github.com/indigo-web/oneshot/http"
	"github.com/indigo-web/oneshot/http/status"
	"github.com/stretchr/testify/require"
)

func getParser(cfg *config.Config, raw string) *Parser {
	return NewParser(cfg, strings.NewReader(raw))
}

func parse(t *testing.T, raw string) *http.Request {
	request, err := getParser(config.Default(), raw).Parse()
	require.NoError(t, err)

	return request
}

func requireParseError(t *testing.T, cfg *config.Config, raw string, kind status.Kind, target error) {
	_, err := getParser(cfg, raw).Parse()
	require.Error(t, err)
	require.Equal(t, kind, status.KindOf(err), err.Error())
	if target != nil {
		require.ErrorIs(t, err, target)
	}
}

type wantedRequest struct {
	Method, Target, Path, Query string
	Headers                     map[string]string
	Body                        string
}

func compareRequests(t *testing.T, wanted wantedRequest, actual *http.Request) {
	require.Equal(t, wanted.Method, actual.Method)
	require.Equal(t, wanted.Target, actual.Target)
	require.Equal(t, wanted.Path, actual.Path)
	require.Equal(t, wanted.Query, actual.Query)

	if wanted.Headers == nil {
		wanted.Headers = map[string]string{}
	}

	require.Equal(t, wanted.Headers, actual.Headers)
	require.Equal(t, wanted.Body, string(actual.Body))
}

// splitReader returns the data in pieces of n bytes, so the parser must reassemble lines
// out of multiple reads.
type splitReader struct {
	data []byte
	n    int
}

func (s *splitReader) Read(b []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}

	n := copy(b, s.data[:min(s.n, len(s.data))])
	s.data = s.data[n:]

	return n, nil
}

type deadlineReader struct {
	data []byte
}

func (d *deadlineReader) Read(b []byte) (int, error) {
	if len(d.data) == 0 {
		return 0, os.ErrDeadlineExceeded
	}

	n := copy(b, d.data)
	d.data = d.data[n:]

	return n, nil
}

func TestParser(t *testing.T) {
	t.Run("simple GET", func(t *testing.T) {
		request := parse(t, "GET /index.html HTTP/1.1\r\n\r\n")
		compareRequests(t, wantedRequest{
			Method: "GET",
			Target: "/index.html",
			Path:   "/index.html",
		}, request)
	})

	t.Run("LF only", func(t *testing.T) {
		request := parse(t, "GET / HTTP/1.0\nHost: localhost\n\n")
		compareRequests(t, wantedRequest{
			Method:  "GET",
			Target:  "/",
			Path:    "/",
			Headers: map[string]string{"Host": "localhost"},
		}, request)
	})

	t.Run("query", func(t *testing.T) {
		request := parse(t, "GET /search?q=1&lang=en HTTP/1.1\r\n\r\n")
		compareRequests(t, wantedRequest{
			Method: "GET",
			Target: "/search?q=1&lang=en",
			Path:   "/search",
			Query:  "q=1&lang=en",
		}, request)
	})

	t.Run("headers keep case and inner spaces", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\nHello: World!\r\nX-Padded:  two spaces\r\ncompact:value\r\n\r\n"
		request := parse(t, raw)
		compareRequests(t, wantedRequest{
			Method: "GET",
			Target: "/",
			Path:   "/",
			Headers: map[string]string{
				"Hello":    "World!",
				"X-Padded": " two spaces",
				"compact":  "value",
			},
		}, request)
	})

	t.Run("value containing colons", func(t *testing.T) {
		request := parse(t, "GET / HTTP/1.1\r\nHost: localhost:8080\r\n\r\n")
		require.Equal(t, "localhost:8080", request.Headers["Host"])
	})

	t.Run("GET ignores Content-Length", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\nContent-Length: 5\r\n\r\nHello"
		request := parse(t, raw)
		require.Empty(t, request.Body)
		require.Equal(t, "5", request.Headers["Content-Length"])
	})

	t.Run("POST with body", func(t *testing.T) {
		raw := "POST /submit HTTP/1.1\r\nContent-Length:5\r\n\r\nHello, world!"
		request := parse(t, raw)
		compareRequests(t, wantedRequest{
			Method:  "POST",
			Target:  "/submit",
			Path:    "/submit",
			Headers: map[string]string{"Content-Length": "5"},
			Body:    "Hello",
		}, request)
	})

	t.Run("POST with zero length", func(t *testing.T) {
		request := parse(t, "POST /submit HTTP/1.1\r\nContent-Length: 0\r\n\r\n")
		require.Empty(t, request.Body)
	})

	t.Run("PUT without length has no body", func(t *testing.T) {
		request := parse(t, "PUT /file HTTP/1.1\r\n\r\nleftovers")
		require.Equal(t, "PUT", request.Method)
		require.Empty(t, request.Body)
	})

	t.Run("PUT with body", func(t *testing.T) {
		request := parse(t, "PUT /file HTTP/1.1\r\nContent-Length: 3\r\n\r\nabc")
		require.Equal(t, "abc", string(request.Body))
	})

	t.Run("arbitrary method and protocol tokens", func(t *testing.T) {
		request := parse(t, "BREW /pot SHTTP/9\r\n\r\n")
		require.Equal(t, "BREW", request.Method)
		require.Equal(t, "/pot", request.Path)
	})

	t.Run("dispersed", func(t *testing.T) {
		raw := "POST /submit?x=y HTTP/1.1\r\nContent-Length: 13\r\nHello: World!\r\n\r\nHello, world!"

		for _, n := range []int{1, 2, 3, 5, 7, 16} {
			t.Run(fmt.Sprint(n), func(t *testing.T) {
				parser := NewParser(config.Default(), &splitReader{data: []byte(raw), n: n})
				request, err := parser.Parse()
				require.NoError(t, err)
				compareRequests(t, wantedRequest{
					Method: "POST",
					Target: "/submit?x=y",
					Path:   "/submit",
					Query:  "x=y",
					Headers: map[string]string{
						"Content-Length": "13",
						"Hello":          "World!",
					},
					Body: "Hello, world!",
				}, request)
			})
		}
	})

	t.Run("one byte reads", func(t *testing.T) {
		raw := "GET /a HTTP/1.1\r\nA: b\r\n\r\n"
		parser := NewParser(config.Default(), iotest.OneByteReader(strings.NewReader(raw)))
		request, err := parser.Parse()
		require.NoError(t, err)
		require.Equal(t, "b", request.Headers["A"])
	})

	t.Run("line longer than read buffer", func(t *testing.T) {
		cfg := config.Default()
		cfg.NET.ReadBufferSize = 16
		path := "/" + strings.Repeat("a", 100)
		request, err := getParser(cfg, "GET "+path+" HTTP/1.1\r\n\r\n").Parse()
		require.NoError(t, err)
		require.Equal(t, path, request.Path)
	})

	t.Run("random headers", func(t *testing.T) {
		headers := make(map[string]string)
		raw := "GET / HTTP/1.1\r\n"
		for i := 0; i < 20; i++ {
			key, value := "X-"+uniuri.NewLen(12), uniuri.NewLen(32)
			headers[key] = value
			raw += key + ": " + value + "\r\n"
		}

		request := parse(t, raw+"\r\n")
		require.Equal(t, headers, request.Headers)
	})
}

func TestParserErrors(t *testing.T) {
	cfg := config.Default()

	t.Run("two tokens", func(t *testing.T) {
		requireParseError(t, cfg, "GET HTTP/1.1\r\n\r\n", status.KindParse, status.ErrBadRequestLine)
	})

	t.Run("four tokens", func(t *testing.T) {
		requireParseError(t, cfg, "GET / HTTP/1.1 extra\r\n\r\n", status.KindParse, status.ErrBadRequestLine)
	})

	t.Run("double space", func(t *testing.T) {
		requireParseError(t, cfg, "GET  / HTTP/1.1\r\n\r\n", status.KindParse, status.ErrBadRequestLine)
	})

	t.Run("empty request line", func(t *testing.T) {
		requireParseError(t, cfg, "\r\n\r\n", status.KindParse, status.ErrBadRequestLine)
	})

	t.Run("not HTTP", func(t *testing.T) {
		requireParseError(t, cfg, "GET / FTP/1.0\r\n\r\n", status.KindParse, status.ErrUnsupportedProtocol)
	})

	t.Run("header without colon", func(t *testing.T) {
		requireParseError(t, cfg, "GET / HTTP/1.1\r\nHello World\r\n\r\n", status.KindParse, status.ErrBadHeader)
	})

	t.Run("header without value", func(t *testing.T) {
		requireParseError(t, cfg, "GET / HTTP/1.1\r\nHello:\r\n\r\n", status.KindParse, status.ErrBadHeader)
		requireParseError(t, cfg, "GET / HTTP/1.1\r\nHello: \r\n\r\n", status.KindParse, status.ErrBadHeader)
	})

	t.Run("header without key", func(t *testing.T) {
		requireParseError(t, cfg, "GET / HTTP/1.1\r\n: value\r\n\r\n", status.KindParse, status.ErrBadHeader)
	})

	t.Run("POST without Content-Length", func(t *testing.T) {
		requireParseError(t, cfg, "POST /submit HTTP/1.1\r\n\r\nHello", status.KindParse, status.ErrLengthRequired)
	})

	t.Run("bad Content-Length", func(t *testing.T) {
		for _, value := range []string{"five", "-5", "5.0", " 5"} {
			raw := "POST / HTTP/1.1\r\nContent-Length: " + value + "\r\n\r\nHello"
			requireParseError(t, cfg, raw, status.KindParse, status.ErrBadContentLength)
		}
	})

	t.Run("short body", func(t *testing.T) {
		raw := "POST /submit HTTP/1.1\r\nContent-Length: 10\r\n\r\nHello"
		requireParseError(t, cfg, raw, status.KindParse, status.ErrShortBody)
	})

	t.Run("body too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.MaxSize = 4
		raw := "POST / HTTP/1.1\r\nContent-Length: 5\r\n\r\nHello"
		requireParseError(t, cfg, raw, status.KindParse, status.ErrBodyTooLarge)
	})

	t.Run("request line too long", func(t *testing.T) {
		cfg := config.Default()
		cfg.URI.RequestLineSize = 32
		raw := "GET /" + strings.Repeat("a", 64) + " HTTP/1.1\r\n\r\n"
		requireParseError(t, cfg, raw, status.KindParse, status.ErrURITooLong)
	})

	t.Run("header line too long", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.LineSize = 32
		raw := "GET / HTTP/1.1\r\nX-Long: " + strings.Repeat("a", 64) + "\r\n\r\n"
		requireParseError(t, cfg, raw, status.KindParse, status.ErrHeaderFieldsTooLarge)
	})

	t.Run("too many headers", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Number = 2
		raw := "GET / HTTP/1.1\r\nA: 1\r\nB: 2\r\nC: 3\r\n\r\n"
		requireParseError(t, cfg, raw, status.KindParse, status.ErrTooManyHeaders)
	})

	t.Run("unterminated headers", func(t *testing.T) {
		requireParseError(t, cfg, "GET / HTTP/1.1\r\nHost: localhost\r\n", status.KindIO, io.ErrUnexpectedEOF)
	})

	t.Run("unterminated request line", func(t *testing.T) {
		requireParseError(t, cfg, "GET / HTTP/1.1", status.KindIO, io.ErrUnexpectedEOF)
	})

	t.Run("nothing at all", func(t *testing.T) {
		requireParseError(t, cfg, "", status.KindIO, io.ErrUnexpectedEOF)
	})

	t.Run("timeout", func(t *testing.T) {
		parser := NewParser(cfg, &deadlineReader{data: []byte("GET / HTTP/1.1\r\n")})
		_, err := parser.Parse()
		require.Equal(t, status.KindTimeout, status.KindOf(err))
		require.ErrorIs(t, err, os.ErrDeadlineExceeded)
	})

	t.Run("timeout while reading body", func(t *testing.T) {
		raw := "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nHello"
		parser := NewParser(cfg, &deadlineReader{data: []byte(raw)})
		_, err := parser.Parse()
		require.Equal(t, status.KindTimeout, status.KindOf(err))
	})
}
