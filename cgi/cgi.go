package cgi

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/indigo-web/oneshot/config"
	"github.com/indigo-web/oneshot/http"
	"github.com/indigo-web/oneshot/http/status"
	"github.com/indigo-web/oneshot/internal/protocol/http1"
	"github.com/indigo-web/oneshot/router"
	"github.com/indigo-web/oneshot/static"
)

var _ router.Handler = new(Handler)

// waitDelay bounds how long the output is drained after the script was killed, as its
// children may still hold the pipes.
const waitDelay = time.Second

// Handler executes the script the request path points at. The request is passed
// through the environment and the standard input, and whatever the script prints
// becomes the response body.
type Handler struct {
	files   *static.Handler
	timeout time.Duration
}

func New(cfg *config.Config) *Handler {
	return &Handler{
		files:   static.New(cfg.Static),
		timeout: cfg.CGI.Timeout,
	}
}

func (h *Handler) Handle(request *http.Request) (*http.Response, error) {
	script, err := h.files.Resolve(request.Path)
	if err != nil {
		return nil, status.Wrap(status.KindCGI, err)
	}

	ctx := context.Background()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, script)
	cmd.Env = Environ(request)
	cmd.Stdin = bytes.NewReader(request.Body)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err = cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}

		if msg := strings.TrimSpace(stderr.String()); len(msg) > 0 {
			err = fmt.Errorf("%w (stderr: %s)", err, msg)
		}

		return nil, status.Wrap(status.KindCGI, fmt.Errorf("%w: %s: %w", status.ErrScriptFailed, script, err))
	}

	return http.NewResponse().Bytes(stdout.Bytes()), nil
}

// Environ builds the script environment. METHOD, QUERY_STRING and CONTENT_LENGTH are
// always set, along with the conventional CGI/1.1 variables and HTTP_* ones for every
// request header. PATH is inherited.
func Environ(request *http.Request) []string {
	env := []string{
		"METHOD=" + request.Method,
		"QUERY_STRING=" + request.Query,
		"CONTENT_LENGTH=" + strconv.Itoa(len(request.Body)),
		"GATEWAY_INTERFACE=CGI/1.1",
		"REQUEST_METHOD=" + request.Method,
		"REQUEST_URI=" + request.Target,
		"SCRIPT_NAME=" + request.Path,
		"SERVER_PROTOCOL=" + http1.Protocol,
		"SERVER_SOFTWARE=oneshot",
	}

	if path, found := os.LookupEnv("PATH"); found {
		env = append(env, "PATH="+path)
	}

	if request.Remote != nil {
		env = append(env, "REMOTE_ADDR="+request.Remote.String())
	}

	if contentType, found := request.Header("Content-Type"); found {
		env = append(env, "CONTENT_TYPE="+contentType)
	}

	for key, value := range request.Headers {
		env = append(env, "HTTP_"+headerToEnv(key)+"="+value)
	}

	return env
}

func headerToEnv(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '-':
			return '_'
		case 'a' <= r && r <= 'z':
			return r - 'a' + 'A'
		default:
			return r
		}
	}, key)
}
