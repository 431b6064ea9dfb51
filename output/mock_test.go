package output

import "sync"

// mockEventLoop queues posted work instead of running it inline: WriteAsync
// calls Post while holding SocketOutput's mutex, so an inline-running mock
// would deadlock the moment drain tried to re-lock it. Tests pump the queue
// explicitly with runAll/runOne once the triggering call has returned,
// standing in for the separate loop goroutine a real EventLoop runs on.
type mockEventLoop struct {
	mu      sync.Mutex
	queue   []func()
	failing bool
}

func (l *mockEventLoop) Post(fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing {
		return errFakeSchedulingFailure
	}
	l.queue = append(l.queue, fn)
	return nil
}

func (l *mockEventLoop) setFailing(v bool) {
	l.mu.Lock()
	l.failing = v
	l.mu.Unlock()
}

// runOne runs the oldest queued task, if any, and reports whether it found
// one.
func (l *mockEventLoop) runOne() bool {
	l.mu.Lock()
	if len(l.queue) == 0 {
		l.mu.Unlock()
		return false
	}
	fn := l.queue[0]
	l.queue = l.queue[1:]
	l.mu.Unlock()
	fn()
	return true
}

// runAll drains the queue, including tasks posted by tasks this call runs.
func (l *mockEventLoop) runAll() {
	for l.runOne() {
	}
}

type errString string

func (e errString) Error() string { return string(e) }

const errFakeSchedulingFailure = errString("mock event loop: posting failed")

// pendingWrite is a recorded AsyncStream.Write call whose callback hasn't
// fired yet.
type pendingWrite struct {
	buffers [][]byte
	cb      func(Status, error)
}

// mockAsyncStream records write/shutdown submissions without resolving
// them, so tests can fire completions on their own schedule (needed to
// exercise the MaxPendingWrites cap and the backpressure drain path).
type mockAsyncStream struct {
	mu sync.Mutex

	closed  bool
	panicky bool

	writes    []*pendingWrite
	shutdowns []func(Status, error)

	disposeCalls int
}

// setPanicky makes every subsequent Write panic instead of recording the
// call, standing in for a stage-1 initiation failure (PipelineInitError).
func (s *mockAsyncStream) setPanicky(v bool) {
	s.mu.Lock()
	s.panicky = v
	s.mu.Unlock()
}

func (s *mockAsyncStream) Write(buffers [][]byte, cb func(Status, error)) {
	s.mu.Lock()
	if s.panicky {
		s.mu.Unlock()
		panic("mock async stream: write initiation failed")
	}
	defer s.mu.Unlock()
	s.writes = append(s.writes, &pendingWrite{buffers: buffers, cb: cb})
}

func (s *mockAsyncStream) Shutdown(cb func(Status, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdowns = append(s.shutdowns, cb)
}

func (s *mockAsyncStream) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *mockAsyncStream) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.disposeCalls++
	return nil
}

// fireOldestWrite resolves the oldest not-yet-resolved Write call.
func (s *mockAsyncStream) fireOldestWrite(status Status, err error) bool {
	s.mu.Lock()
	if len(s.writes) == 0 {
		s.mu.Unlock()
		return false
	}
	w := s.writes[0]
	s.writes = s.writes[1:]
	s.mu.Unlock()
	w.cb(status, err)
	return true
}

// fireOldestShutdown resolves the oldest not-yet-resolved Shutdown call.
func (s *mockAsyncStream) fireOldestShutdown(status Status, err error) bool {
	s.mu.Lock()
	if len(s.shutdowns) == 0 {
		s.mu.Unlock()
		return false
	}
	cb := s.shutdowns[0]
	s.shutdowns = s.shutdowns[1:]
	s.mu.Unlock()
	cb(status, err)
	return true
}

func (s *mockAsyncStream) pendingWriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

// mockConnection counts Abort calls so tests can assert "exactly once"
// style properties.
type mockConnection struct {
	mu     sync.Mutex
	aborts int
}

func (c *mockConnection) Abort() {
	c.mu.Lock()
	c.aborts++
	c.mu.Unlock()
}

func (c *mockConnection) abortCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aborts
}

// countingBlockPool wraps the default mcache-backed pool but tracks lease
// and return counts so tests can assert "every leased block is returned
// exactly once at quiescence" (§8).
type countingBlockPool struct {
	mu       sync.Mutex
	inner    BlockPool
	leased   int
	returned int
}

func newCountingBlockPool() *countingBlockPool {
	return &countingBlockPool{inner: NewBlockPool()}
}

func (p *countingBlockPool) Lease(min int) *Block {
	p.mu.Lock()
	p.leased++
	p.mu.Unlock()
	return p.inner.Lease(min)
}

func (p *countingBlockPool) Return(b *Block) {
	p.mu.Lock()
	p.returned++
	p.mu.Unlock()
	p.inner.Return(b)
}

func (p *countingBlockPool) counts() (leased, returned int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leased, p.returned
}

// syncDispatch runs completions inline, which is fine in tests because
// nothing here re-enters SocketOutput's mutex from a producer callback.
func syncDispatch(fn func()) { fn() }
