package http1

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/indigo-web/oneshot/config"
	"github.com/indigo-web/oneshot/http"
	"github.com/indigo-web/oneshot/http/method"
	"github.com/indigo-web/oneshot/http/status"
	"github.com/indigo-web/utils/uf"
)

// Parser reads a single request from the stream. The framing is line-based: the request
// line, header lines until an empty one, and optionally exactly Content-Length bytes of
// body.
type Parser struct {
	cfg    *config.Config
	reader *bufio.Reader
	line   []byte
}

func NewParser(cfg *config.Config, r io.Reader) *Parser {
	return &Parser{
		cfg:    cfg,
		reader: bufio.NewReaderSize(r, cfg.NET.ReadBufferSize),
		line:   make([]byte, 0, cfg.NET.ReadBufferSize),
	}
}

// Parse reads and parses the request. Errors are always *status.Error, so their kind
// tells whether the request was malformed or the stream itself failed.
func (p *Parser) Parse() (*http.Request, error) {
	request := http.NewRequest()

	line, err := p.readLine(p.cfg.URI.RequestLineSize, status.ErrURITooLong)
	if err != nil {
		return nil, err
	}

	if err = parseRequestLine(request, line); err != nil {
		return nil, status.Wrap(status.KindParse, err)
	}

	request.Path, request.Query = http.SplitTarget(request.Target)

	for headers := 0; ; headers++ {
		line, err = p.readLine(p.cfg.Headers.LineSize, status.ErrHeaderFieldsTooLarge)
		if err != nil {
			return nil, err
		}

		if len(line) == 0 {
			break
		}

		if headers >= p.cfg.Headers.Number {
			return nil, status.Wrap(status.KindParse, status.ErrTooManyHeaders)
		}

		if err = parseHeader(request.Headers, line); err != nil {
			return nil, status.Wrap(status.KindParse, err)
		}
	}

	if err = p.readBody(request); err != nil {
		return nil, err
	}

	return request, nil
}

// readLine returns the next line without its terminator. The returned slice is valid
// until the next call.
func (p *Parser) readLine(limit int, tooLong error) ([]byte, error) {
	p.line = p.line[:0]

	for {
		chunk, err := p.reader.ReadSlice('\n')
		if len(p.line)+len(chunk) > limit {
			return nil, status.Wrap(status.KindParse, tooLong)
		}

		p.line = append(p.line, chunk...)

		switch err {
		case nil:
			return trimEOL(p.line), nil
		case bufio.ErrBufferFull:
		case io.EOF:
			return nil, status.Wrap(status.KindIO, io.ErrUnexpectedEOF)
		default:
			return nil, status.Wrap(status.KindIO, err)
		}
	}
}

func (p *Parser) readBody(request *http.Request) error {
	value, found := request.Header("Content-Length")

	switch {
	case request.Method == method.POST && !found:
		return status.Wrap(status.KindParse, status.ErrLengthRequired)
	case request.Method == method.GET, !found:
		return nil
	}

	length, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return status.Wrap(status.KindParse, status.ErrBadContentLength)
	}

	if length > p.cfg.Body.MaxSize {
		return status.Wrap(status.KindParse, status.ErrBodyTooLarge)
	}

	if length == 0 {
		return nil
	}

	request.Body = make([]byte, length)
	if _, err = io.ReadFull(p.reader, request.Body); err != nil {
		request.Body = nil

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return status.Wrap(status.KindParse, status.ErrShortBody)
		}

		return status.Wrap(status.KindIO, err)
	}

	return nil
}

// parseRequestLine expects exactly three tokens, separated by single spaces. The protocol
// token is only checked to mention HTTP at all.
func parseRequestLine(request *http.Request, line []byte) error {
	str := uf.B2S(line)

	meth, rest, found := strings.Cut(str, " ")
	if !found {
		return status.ErrBadRequestLine
	}

	target, protocol, found := strings.Cut(rest, " ")
	if !found || strings.IndexByte(protocol, ' ') != -1 {
		return status.ErrBadRequestLine
	}

	if len(meth) == 0 || len(target) == 0 {
		return status.ErrBadRequestLine
	}

	if !strings.Contains(protocol, "HTTP") {
		return status.ErrUnsupportedProtocol
	}

	request.Method = strings.Clone(meth)
	request.Target = strings.Clone(target)

	return nil
}

// parseHeader splits the line on the first colon. The value starts right after it, with
// exactly one space consumed if presented. The rest is kept intact.
func parseHeader(headers map[string]string, line []byte) error {
	str := uf.B2S(line)

	colon := strings.IndexByte(str, ':')
	if colon <= 0 {
		return status.ErrBadHeader
	}

	value := str[colon+1:]
	if len(value) > 0 && value[0] == ' ' {
		value = value[1:]
	}

	if len(value) == 0 {
		return status.ErrBadHeader
	}

	headers[strings.Clone(str[:colon])] = strings.Clone(value)

	return nil
}

func trimEOL(line []byte) []byte {
	line = line[:len(line)-1]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	return line
}
