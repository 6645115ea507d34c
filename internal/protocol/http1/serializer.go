package http1

import (
	"io"
	"slices"
	"strconv"

	"github.com/indigo-web/oneshot/http"
)

// Protocol is the token every response is written with.
const Protocol = "HTTP/1.1"

// Serializer renders responses in the following layout:
//
//	<protocol> <code> <status>\n
//	<key>:<value>\n (for each header)
//	\n
//	<body>
//
// Headers are emitted sorted by key. Content-Length is always set to the actual body
// length, if the body isn't empty.
type Serializer struct {
	buff []byte
	keys []string
}

func NewSerializer(buff []byte) *Serializer {
	return &Serializer{buff: buff[:0]}
}

// Write renders the response and writes it within a single call. If the writer consumes
// fewer bytes without reporting an error, io.ErrShortWrite is returned.
func (s *Serializer) Write(w io.Writer, response *http.Response) error {
	s.buff = s.Render(s.buff[:0], response)

	n, err := w.Write(s.buff)
	switch {
	case err != nil:
		return err
	case n < len(s.buff):
		return io.ErrShortWrite
	}

	return nil
}

// Render appends the wire form of the response to buff.
func (s *Serializer) Render(buff []byte, response *http.Response) []byte {
	fields := response.Expose()

	buff = append(buff, Protocol...)
	buff = append(buff, ' ')
	buff = strconv.AppendUint(buff, uint64(fields.Code), 10)
	buff = append(buff, ' ')
	buff = append(buff, fields.Status...)
	buff = append(buff, '\n')

	s.keys = s.keys[:0]
	for key := range fields.Headers {
		if key == "Content-Length" {
			continue
		}

		s.keys = append(s.keys, key)
	}

	slices.Sort(s.keys)

	for _, key := range s.keys {
		buff = appendHeader(buff, key, fields.Headers[key])
	}

	if len(fields.Body) > 0 {
		buff = append(buff, "Content-Length:"...)
		buff = strconv.AppendInt(buff, int64(len(fields.Body)), 10)
		buff = append(buff, '\n')
	}

	buff = append(buff, '\n')

	return append(buff, fields.Body...)
}

func appendHeader(buff []byte, key, value string) []byte {
	buff = append(buff, key...)
	buff = append(buff, ':')
	buff = append(buff, value...)
	return append(buff, '\n')
}
