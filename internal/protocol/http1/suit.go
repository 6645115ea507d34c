package http1

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/oneshot/config"
	"github.com/indigo-web/oneshot/http"
	"github.com/indigo-web/oneshot/http/status"
	"github.com/indigo-web/oneshot/router"
)

// connIDLength is the length of the random id every connection is logged with.
const connIDLength = 8

// Suit serves exactly one request over the connection: parse, route, write and close.
type Suit struct {
	cfg        *config.Config
	router     router.Router
	conn       net.Conn
	parser     *Parser
	serializer *Serializer
	logger     *slog.Logger
}

func New(cfg *config.Config, r router.Router, logger *slog.Logger, conn net.Conn) *Suit {
	return &Suit{
		cfg:        cfg,
		router:     r,
		conn:       conn,
		parser:     NewParser(cfg, conn),
		serializer: NewSerializer(make([]byte, 0, cfg.NET.ReadBufferSize)),
		logger: logger.With(
			"conn", uniuri.NewLen(connIDLength),
			"remote", remoteAddr(conn),
		),
	}
}

// Serve runs the whole exchange. The connection is closed on every path, and no error
// is returned: failures are logged only.
func (s *Suit) Serve() {
	start := time.Now()
	defer s.close()

	request, response, err := s.respond()
	if err != nil {
		s.logFailure(request, err)
	}

	if err = s.write(response); err != nil {
		s.logger.Warn("cannot write response",
			"kind", status.KindOf(err).String(),
			"err", err,
		)
		return
	}

	fields := response.Expose()
	attrs := []any{
		"code", uint16(fields.Code),
		"size", len(fields.Body),
		"duration", time.Since(start),
	}
	if request != nil {
		attrs = append(attrs, "method", request.Method, "path", request.Path)
	}

	s.logger.Info("served", attrs...)
}

// respond never returns nil response. If the request wasn't parsed, it is nil.
func (s *Suit) respond() (*http.Request, *http.Response, error) {
	if err := setDeadline(s.conn.SetReadDeadline, s.cfg.NET.ReadTimeout); err != nil {
		err = status.Wrap(status.KindIO, err)
		return nil, s.router.OnError(err), err
	}

	request, err := s.parser.Parse()
	if err != nil {
		return nil, s.router.OnError(err), err
	}

	request.Remote = s.conn.RemoteAddr()

	response, err := s.handle(request)
	if err != nil {
		return request, s.router.OnError(err), err
	}

	return request, response, nil
}

func (s *Suit) handle(request *http.Request) (response *http.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			response = nil
			err = status.Wrap(status.KindInternal, fmt.Errorf("%w: panic: %v", status.ErrInternalServerError, r))
		}
	}()

	return s.router.OnRequest(request)
}

func (s *Suit) write(response *http.Response) error {
	if err := setDeadline(s.conn.SetWriteDeadline, s.cfg.NET.WriteTimeout); err != nil {
		return status.Wrap(status.KindIO, err)
	}

	return status.Wrap(status.KindIO, s.serializer.Write(s.conn, response))
}

func (s *Suit) close() {
	if err := s.conn.Close(); err != nil {
		s.logger.Debug("cannot close connection", "err", err)
	}
}

func (s *Suit) logFailure(request *http.Request, err error) {
	attrs := []any{
		"kind", status.KindOf(err).String(),
		"code", uint16(status.CodeOf(err)),
		"err", err,
	}
	if request != nil {
		attrs = append(attrs, "method", request.Method, "path", request.Path)
	}

	s.logger.Warn("request failed", attrs...)
}

// setDeadline sets the deadline timeout from now on, or removes it if timeout is zero.
func setDeadline(set func(time.Time) error, timeout time.Duration) error {
	if timeout == 0 {
		return set(time.Time{})
	}

	return set(time.Now().Add(timeout))
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}

	return "unknown"
}
