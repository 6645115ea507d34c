package dummy

import (
	"io"
	"net"
	"time"
)

var _ net.Conn = new(Conn)

// Conn is an in-memory net.Conn. Reads are served from Data, and once it's exhausted,
// ReadErr is returned (io.EOF if nil). Everything written is accumulated in Written.
type Conn struct {
	Data    []byte
	ReadErr error
	// Chunk limits how many bytes a single read returns. Zero means unlimited.
	Chunk         int
	Written       []byte
	Writes        int
	WriteErr      error
	Closed        bool
	ReadDeadline  time.Time
	WriteDeadline time.Time
	Remote        net.Addr
}

func NewConn(data string) *Conn {
	return &Conn{Data: []byte(data)}
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if c.Closed {
		return 0, net.ErrClosed
	}

	if len(c.Data) == 0 {
		if c.ReadErr != nil {
			return 0, c.ReadErr
		}

		return 0, io.EOF
	}

	if c.Chunk > 0 && len(b) > c.Chunk {
		b = b[:c.Chunk]
	}

	n = copy(b, c.Data)
	c.Data = c.Data[n:]

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	if c.Closed {
		return 0, net.ErrClosed
	}

	if c.WriteErr != nil {
		return 0, c.WriteErr
	}

	c.Writes++
	c.Written = append(c.Written, b...)

	return len(b), nil
}

func (c *Conn) Close() error {
	c.Closed = true
	return nil
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.Remote
}

func (c *Conn) SetDeadline(t time.Time) error {
	c.ReadDeadline, c.WriteDeadline = t, t
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.ReadDeadline = t
	return nil
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	c.WriteDeadline = t
	return nil
}
