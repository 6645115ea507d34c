package mime

import (
	"path/filepath"
	"strings"
)

type MIME = string

const (
	OctetStream MIME = "application/octet-stream"
	Plain       MIME = "text/plain"
	HTML        MIME = "text/html"
	XML         MIME = "text/xml"
	JSON        MIME = "application/json"
	YAML        MIME = "application/yaml"
	PDF         MIME = "application/pdf"
	ZIP         MIME = "application/zip"
	GZIP        MIME = "application/gzip"
	AVIF        MIME = "image/avif"
	CSS         MIME = "text/css"
	GIF         MIME = "image/gif"
	JPEG        MIME = "image/jpeg"
	PNG         MIME = "image/png"
	SVG         MIME = "image/svg+xml"
	ICO         MIME = "image/vnd.microsoft.icon"
	WEBP        MIME = "image/webp"
	JS          MIME = "text/javascript"
	WASM        MIME = "application/wasm"
)

type Charset = string

const UTF8 Charset = "utf-8"

var Extension = map[string]MIME{
	".avif": AVIF,
	".css":  CSS,
	".gif":  GIF,
	".htm":  HTML,
	".html": HTML,
	".jpeg": JPEG,
	".jpg":  JPEG,
	".js":   JS,
	".mjs":  JS,
	".json": JSON,
	".pdf":  PDF,
	".png":  PNG,
	".svg":  SVG,
	".txt":  Plain,
	".wasm": WASM,
	".webp": WEBP,
	".xml":  XML,
	".gz":   GZIP,
	".yaml": YAML,
	".yml":  YAML,
	".zip":  ZIP,
	".ico":  ICO,
}

// DefaultCharset defines charsets, used by default for MIMEs unless explicitly set.
var DefaultCharset = map[MIME]Charset{
	CSS:   UTF8,
	HTML:  UTF8,
	JS:    UTF8,
	XML:   UTF8,
	Plain: UTF8,
}

// Of returns a Content-Type value for the file, guessed by its extension. Unknown
// extensions are reported as OctetStream.
func Of(path string) string {
	mime, found := Extension[strings.ToLower(filepath.Ext(path))]
	if !found {
		return OctetStream
	}

	if charset, ok := DefaultCharset[mime]; ok {
		return mime + "; charset=" + charset
	}

	return mime
}
