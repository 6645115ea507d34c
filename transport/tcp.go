package transport

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/indigo-web/oneshot/config"
	"golang.org/x/sync/semaphore"
)

var _ Transport = new(TCP)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

type TCP struct {
	l      listener
	wg     *sync.WaitGroup
	stop   *atomic.Bool
	logger *slog.Logger
}

func NewTCP(logger *slog.Logger) *TCP {
	return &TCP{
		wg:     new(sync.WaitGroup),
		stop:   new(atomic.Bool),
		logger: logger,
	}
}

func bindTCP(addr string) (*net.TCPListener, error) {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	return net.ListenTCP("tcp", tcpaddr)
}

func (t *TCP) Bind(addr string) (err error) {
	t.l, err = bindTCP(addr)
	return err
}

// Addr returns the bound address, or nil if not bound yet.
func (t *TCP) Addr() net.Addr {
	if t.l == nil {
		return nil
	}

	return t.l.Addr()
}

// Listen runs the accept loop until Stop is called. At most cfg.MaxConnections callbacks
// run simultaneously; when the limit is reached, no new connections are accepted until
// some slot is released. Accept errors are logged and don't interrupt the loop.
func (t *TCP) Listen(cfg config.NET, cb func(conn net.Conn)) error {
	slots := semaphore.NewWeighted(cfg.MaxConnections)
	var delay time.Duration

	for !t.stop.Load() {
		if !t.admit(slots, cfg.AcceptLoopInterruptPeriod) {
			continue
		}

		conn, err := t.accept(cfg.AcceptLoopInterruptPeriod)
		if err != nil {
			slots.Release(1)

			switch {
			case errors.Is(err, os.ErrDeadlineExceeded):
				continue
			case errors.Is(err, net.ErrClosed):
				if t.stop.Load() {
					return nil
				}

				return err
			}

			delay = min(max(2*delay, minAcceptDelay), maxAcceptDelay)
			t.logger.Error("accept failed", "err", err, "retry_in", delay)
			time.Sleep(delay)
			continue
		}

		delay = 0
		t.wg.Add(1)

		go func(conn net.Conn) {
			defer t.wg.Done()
			defer slots.Release(1)
			defer func() {
				_ = conn.Close()
			}()

			cb(conn)
		}(conn)
	}

	return nil
}

// admit waits for a free slot at most for the period, so the stop flag is checked
// regularly even if all the slots are busy.
func (t *TCP) admit(slots *semaphore.Weighted, period time.Duration) bool {
	if slots.TryAcquire(1) {
		return true
	}

	t.logger.Debug("connection limit reached, waiting for a free slot")
	ctx, cancel := context.WithTimeout(context.Background(), period)
	defer cancel()

	return slots.Acquire(ctx, 1) == nil
}

func (t *TCP) accept(period time.Duration) (net.Conn, error) {
	if err := t.l.SetDeadline(time.Now().Add(period)); err != nil {
		return nil, err
	}

	return t.l.Accept()
}

func (t *TCP) Stop() {
	t.stop.Store(true)
}

func (t *TCP) Close() {
	if t.l != nil {
		_ = t.l.Close()
	}
}

func (t *TCP) Wait() {
	t.wg.Wait()
}
