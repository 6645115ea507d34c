package static

import (
	"fmt"
	"os"
	"strings"

	"github.com/indigo-web/oneshot/config"
	"github.com/indigo-web/oneshot/http"
	"github.com/indigo-web/oneshot/http/mime"
	"github.com/indigo-web/oneshot/http/status"
	"github.com/indigo-web/oneshot/router"
)

var _ router.Handler = new(Handler)

// Handler serves files from the document root. The request path is appended to the root
// as is, without any decoding.
type Handler struct {
	root, index string
}

func New(cfg config.Static) *Handler {
	return &Handler{
		root:  cfg.Root,
		index: cfg.DefaultDocument,
	}
}

// Resolve maps the request path onto the filesystem. If the result is a directory, the
// default document inside it is picked.
func (h *Handler) Resolve(urlPath string) (string, error) {
	if !isSafe(urlPath) {
		return "", status.Wrap(status.KindFilesystem, status.ErrForbiddenPath)
	}

	path := h.root + urlPath
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}

		path += h.index
	}

	return path, nil
}

func (h *Handler) Handle(request *http.Request) (*http.Response, error) {
	path, err := h.Resolve(request.Path)
	if err != nil {
		return nil, err
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, status.Wrap(status.KindFilesystem, fmt.Errorf("%w: %w", status.ErrNotFound, err))
	}

	return http.NewResponse().
		ContentType(mime.Of(path)).
		Bytes(body), nil
}

// isSafe rejects paths which aren't rooted or may climb up out of the root.
func isSafe(path string) bool {
	if len(path) == 0 || path[0] != '/' {
		return false
	}

	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return false
		}
	}

	return !strings.ContainsRune(path, '\\')
}
