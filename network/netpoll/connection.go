// Package netpoll adapts github.com/cloudwego/netpoll's Connection to the
// network.Conn surface, and provides the production output.EventLoop /
// output.AsyncStream implementations the outbound write path runs on.
package netpoll

import (
	"errors"
	"io"
	"strings"
	"syscall"

	"github.com/cloudwego/netpoll"
	errs "github.com/favbox/windout/common/errors"
	"github.com/favbox/windout/common/hlog"
	"github.com/favbox/windout/network"
)

// Conn is a trivial, delegating wrapper around a netpoll.Connection. It
// exists only to satisfy network.Conn and normalize a handful of
// netpoll-specific errors; every other method forwards straight through.
type Conn struct {
	network.Conn
}

var _ network.ErrorNormalization = (*Conn)(nil)

func (c *Conn) ToOutputError(err error) error {
	if errors.Is(err, netpoll.ErrConnClosed) || errors.Is(err, syscall.EPIPE) {
		return errs.ErrConnectionClosed
	}
	if errors.Is(err, netpoll.ErrReadTimeout) {
		return errs.ErrTimeout
	}
	return err
}

func (c *Conn) Len() int { return c.Conn.Len() }

func (c *Conn) Peek(n int) (b []byte, err error) {
	b, err = c.Conn.Peek(n)
	return b, normalizeErr(err)
}

func (c *Conn) Skip(n int) error { return c.Conn.Skip(n) }

func (c *Conn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	return n, normalizeErr(err)
}

func (c *Conn) ReadByte() (b byte, err error) {
	b, err = c.Conn.ReadByte()
	return b, normalizeErr(err)
}

func (c *Conn) ReadBinary(n int) (b []byte, err error) {
	b, err = c.Conn.ReadBinary(n)
	return b, normalizeErr(err)
}

func (c *Conn) Release() error { return c.Conn.Release() }

func (c *Conn) Malloc(n int) (buf []byte, err error) { return c.Conn.Malloc(n) }

func (c *Conn) WriteBinary(b []byte) (n int, err error) { return c.Conn.WriteBinary(b) }

func (c *Conn) Flush() error { return c.Conn.Flush() }

// HandleSpecificError reports whether err is expected noise from a peer
// tearing down the connection, safe to downgrade to a debug log line.
func (c *Conn) HandleSpecificError(err error, remoteIP string) (needIgnore bool) {
	if errors.Is(err, netpoll.ErrConnClosed) || errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		if strings.Contains(err.Error(), "when flush") {
			return true
		}
		hlog.SystemLogger().Debugf("netpoll error=%s, remoteAddr=%s", err.Error(), remoteIP)
		return true
	}
	return false
}

func normalizeErr(err error) error {
	if errors.Is(err, netpoll.ErrEOF) {
		return io.EOF
	}
	return err
}

func newConn(c netpoll.Connection) network.Conn {
	return &Conn{Conn: c.(network.Conn)}
}
