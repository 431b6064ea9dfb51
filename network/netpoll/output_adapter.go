package netpoll

import (
	"github.com/bytedance/gopkg/util/gopool"
	"github.com/cloudwego/netpoll"

	errs "github.com/favbox/windout/common/errors"
	"github.com/favbox/windout/output"
)

// connEventLoop gives one netpoll connection a dedicated goroutine to post
// output.SocketOutput drains onto. netpoll itself multiplexes callbacks
// across a goroutine pool rather than pinning one goroutine per
// connection, so this type supplies the "single designated loop goroutine"
// output.EventLoop promises by running a private worker per connection
// instead of reusing netpoll's own callback goroutine.
type connEventLoop struct {
	tasks  chan func()
	closed chan struct{}
}

// newConnEventLoop starts the worker goroutine and returns its handle.
func newConnEventLoop() *connEventLoop {
	el := &connEventLoop{
		tasks:  make(chan func(), 64),
		closed: make(chan struct{}),
	}
	gopool.Go(el.run)
	return el
}

func (el *connEventLoop) run() {
	for {
		select {
		case fn := <-el.tasks:
			fn()
		case <-el.closed:
			return
		}
	}
}

// Post implements output.EventLoop.
func (el *connEventLoop) Post(fn func()) error {
	select {
	case el.tasks <- fn:
		return nil
	case <-el.closed:
		return errs.ErrConnectionClosed
	}
}

// stop retires the worker goroutine. Safe to call more than once.
func (el *connEventLoop) stop() {
	select {
	case <-el.closed:
	default:
		close(el.closed)
	}
}

// connWriteCloser is the subset of netpoll's connection surface a
// half-close needs; asserted against at runtime because netpoll.Connection
// doesn't itself declare CloseWrite.
type connWriteCloser interface {
	CloseWrite() error
}

// asyncStream adapts a netpoll.Connection to output.AsyncStream.
// Malloc/WriteBinary/Flush live on the Writer netpoll.Connection.Writer()
// returns, and they're synchronous, so Write/Shutdown run the I/O inline
// and invoke the callback before returning; they are still only ever
// called from the connection's connEventLoop goroutine, matching the
// contract's "callback runs on the loop goroutine" even though the call
// is not truly async.
type asyncStream struct {
	conn netpoll.Connection
}

func (s *asyncStream) Write(buffers [][]byte, cb func(output.Status, error)) {
	var err error
	w := s.conn.Writer()
	for _, b := range buffers {
		if len(b) == 0 {
			continue
		}
		var dst []byte
		if dst, err = w.Malloc(len(b)); err != nil {
			break
		}
		copy(dst, b)
	}
	if err == nil {
		err = w.Flush()
	}
	cb(statusFor(err), err)
}

func (s *asyncStream) Shutdown(cb func(output.Status, error)) {
	var err error
	if cw, ok := s.conn.(connWriteCloser); ok {
		err = cw.CloseWrite()
	}
	cb(statusFor(err), err)
}

func (s *asyncStream) IsClosed() bool { return !s.conn.IsActive() }

func (s *asyncStream) Dispose() error { return s.conn.Close() }

func statusFor(err error) output.Status {
	if err != nil {
		return output.StatusErr
	}
	return output.StatusOK
}

// connAbort adapts a netpoll.Connection to output.Connection, the
// teardown supervisor onWriteCompleted calls into on the first write
// error.
type connAbort struct {
	conn netpoll.Connection
	loop *connEventLoop
}

func (c *connAbort) Abort() {
	_ = c.conn.Close()
	c.loop.stop()
}

// NewOutput builds the production output.SocketOutput for a netpoll
// connection: a dedicated connEventLoop, a netpoll-backed asyncStream, and
// a connAbort that closes the connection and retires the loop goroutine on
// fatal write errors.
func NewOutput(id uint64, conn netpoll.Connection, opts ...output.Option) *output.SocketOutput {
	loop := newConnEventLoop()
	stream := &asyncStream{conn: conn}
	abort := &connAbort{conn: conn, loop: loop}
	return output.NewSocketOutput(id, stream, loop, abort, opts...)
}
