// Package output implements the outbound write path of a connection: a
// backpressure-aware, batching writer that accepts byte buffers from any
// goroutine and drains them through a single event-loop goroutine.
package output

// Status is the outcome of a submitted async I/O operation, reported back
// through a completion callback.
type Status int8

const (
	// StatusOK means the operation completed without error.
	StatusOK Status = iota
	// StatusErr means the operation's callback carried a non-nil error.
	StatusErr
)

// EventLoop schedules work onto the single goroutine permitted to drive a
// connection's async I/O. Implementations are provided by a transport
// adapter (see network/netpoll's production EventLoop).
type EventLoop interface {
	// Post schedules fn to run on the loop goroutine. It may return an
	// error synchronously if the loop is shutting down; fn is then never
	// invoked.
	Post(fn func()) error
}

// AsyncStream is the low-level, callback-driven write/shutdown/close
// surface SocketOutput drives. Every method must only be called from the
// EventLoop's goroutine, and every callback is invoked on that same
// goroutine.
type AsyncStream interface {
	// Write submits a gathered write of buffers. cb runs once the write
	// completes (or fails) on the loop goroutine.
	Write(buffers [][]byte, cb func(Status, error))
	// Shutdown half-closes the send side. cb runs on the loop goroutine.
	Shutdown(cb func(Status, error))
	// IsClosed reports whether the underlying handle is already closed.
	IsClosed() bool
	// Dispose synchronously closes the underlying handle.
	Dispose() error
}

// BlockPool leases and returns fixed-capacity byte blocks. Implementations
// must be safe for concurrent use.
type BlockPool interface {
	Lease(min int) *Block
	Return(b *Block)
}

// Connection is the supervising object SocketOutput reports fatal write
// errors to.
type Connection interface {
	// Abort idempotently tears the connection down.
	Abort()
}

// Tracer records outbound write lifecycle events. The zero value of every
// method is expected to be a safe no-op so embedding a partial
// implementation never panics.
type Tracer interface {
	ConnectionWrite(id uint64, n int)
	ConnectionWriteCallback(id uint64, status Status)
	ConnectionWroteFin(id uint64, status Status)
	ConnectionStop(id uint64)
}

// NoopTracer implements Tracer with no-ops. It is the default when no
// Tracer option is supplied.
type NoopTracer struct{}

func (NoopTracer) ConnectionWrite(uint64, int)            {}
func (NoopTracer) ConnectionWriteCallback(uint64, Status) {}
func (NoopTracer) ConnectionWroteFin(uint64, Status)      {}
func (NoopTracer) ConnectionStop(uint64)                  {}
