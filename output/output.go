package output

import (
	"fmt"
	"sync"

	errs "github.com/favbox/windout/common/errors"
	"github.com/favbox/windout/common/hlog"
	"github.com/favbox/windout/common/timer"
	"github.com/favbox/windout/internal/nocopy"
)

// EndType selects which half of the three-stage teardown pipeline End
// requests.
type EndType int

const (
	// ShutdownSend half-closes the send side once pending writes drain.
	ShutdownSend EndType = iota
	// Disconnect fully closes the connection once pending writes (and any
	// requested shutdown) complete.
	Disconnect
)

func (t EndType) String() string {
	if t == Disconnect {
		return "disconnect"
	}
	return "shutdown-send"
}

// SocketOutput is the per-connection outbound write path: it accepts
// writes from any goroutine, coalesces them into batches, drains those
// batches through a single event-loop goroutine, and signals producers via
// Future under a bounded-memory backpressure policy.
//
// The fields grouped under mu are only ever touched while holding it;
// watchdogCancel is guarded by watchdogMu instead.
type SocketOutput struct {
	nocopy.NoCopy

	id     uint64
	stream AsyncStream
	loop   EventLoop
	conn   Connection
	opts   *Options

	mu                   sync.Mutex
	writesPending        int
	numBytesPreCompleted int
	lastWriteError       error
	nextWriteContext     *writeContext
	tasks                taskQueue

	watchdogMu     sync.Mutex
	watchdogCancel chan struct{}
}

// NewSocketOutput constructs a SocketOutput for one connection. id is an
// opaque identifier threaded through Tracer calls.
func NewSocketOutput(id uint64, stream AsyncStream, loop EventLoop, conn Connection, opts ...Option) *SocketOutput {
	return &SocketOutput{
		id:     id,
		stream: stream,
		loop:   loop,
		conn:   conn,
		opts:   NewOptions(opts),
	}
}

// WriteAsync copies buf into pool-leased blocks, merges them into the
// pending batch, decides whether this call's bytes are admitted
// immediately or queued under backpressure, and (for immediate calls)
// schedules a drain. It never blocks on I/O; it may block briefly on the
// connection's mutex.
//
// A non-nil error return means the loop rejected the scheduling request
// (EventLoop.Post failed synchronously); the returned Future is already
// resolved with the same error in that case. Every other failure surfaces
// through the Future.
func (s *SocketOutput) WriteAsync(buf []byte, immediate, shutdownSend, disconnect bool) (*Future, error) {
	n := len(buf)
	blocks := splitIntoBlocks(s.opts.BlockPool, buf, s.opts.BlockCapacity)

	s.mu.Lock()

	if s.nextWriteContext == nil {
		s.nextWriteContext = &writeContext{out: s}
	}
	ctx := s.nextWriteContext
	ctx.blocks = append(ctx.blocks, blocks...)
	ctx.shutdownSend = ctx.shutdownSend || shutdownSend
	ctx.disconnect = ctx.disconnect || disconnect

	// fut is left uncompleted here even on the fast/non-immediate paths:
	// a scheduling failure below still has to resolve it with that error,
	// and a Future can only be completed once.
	var (
		fut           *Future
		fastPath      bool
		pendingPushed bool
	)
	switch {
	case !immediate:
		// Non-immediate writes are always followed by an immediate one;
		// their bytes drain together, so complete now.
		s.numBytesPreCompleted += n
		fut = newPendingFuture()
	case s.lastWriteError == nil && s.tasks.empty() && s.numBytesPreCompleted+n <= s.opts.MaxBytesPreCompleted:
		s.numBytesPreCompleted += n
		fut = newPendingFuture()
		fastPath = true
	default:
		fut = newPendingFuture()
		s.tasks.push(pendingTask{n: n, fut: fut})
		pendingPushed = true
	}

	var schedulingErr error
	if immediate && s.writesPending < s.opts.MaxPendingWrites {
		if postErr := s.loop.Post(s.drain); postErr != nil {
			ctx.blocks = ctx.blocks[:len(ctx.blocks)-len(blocks)]
			for _, b := range blocks {
				b.Unpin()
				s.opts.BlockPool.Return(b)
			}
			if fastPath {
				s.numBytesPreCompleted -= n
			}
			if pendingPushed {
				s.tasks.items = s.tasks.items[:len(s.tasks.items)-1]
			}
			schedulingErr = errs.New(fmt.Errorf("%w: %w", errs.ErrSchedulingFailed, postErr), errs.ErrorTypeIO, nil).SetMeta("EventLoop.Post")
		} else {
			s.writesPending++
		}
	}

	s.mu.Unlock()

	switch {
	case schedulingErr != nil:
		fut.complete(schedulingErr)
		return fut, schedulingErr
	case !pendingPushed:
		// fastPath and non-immediate calls resolve successfully as soon
		// as scheduling (if attempted) is known to have gone through;
		// pendingPushed futures resolve later, from onWriteCompleted.
		fut.complete(nil)
	}

	if immediate {
		s.disarmWatchdog()
	} else {
		s.armWatchdog()
	}

	return fut, nil
}

// Write is the blocking form of WriteAsync: it returns once the write is
// admitted and, if necessary, waits for the returned Future to resolve.
func (s *SocketOutput) Write(buf []byte, immediate bool) error {
	fut, err := s.WriteAsync(buf, immediate, false, false)
	if err != nil {
		return err
	}
	return fut.Wait()
}

// End requests the given half of the teardown pipeline. Scheduling
// failures are logged rather than returned, matching the fire-and-forget
// shape of the distilled End(endType) contract.
func (s *SocketOutput) End(endType EndType) {
	_, err := s.WriteAsync(nil, true, endType == ShutdownSend, endType == Disconnect)
	if err != nil {
		hlog.SystemLogger().Warnf("output: End(%s) on conn %d failed to schedule: %v", endType, s.id, err)
	}
}

// drain runs on the loop goroutine. It is the function posted by
// EventLoop.Post.
func (s *SocketOutput) drain() {
	s.mu.Lock()
	ctx := s.nextWriteContext
	s.nextWriteContext = nil
	if ctx == nil {
		// Posted speculatively by a call that raced with an earlier
		// drain picking up the same batch; harmless.
		s.writesPending--
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.handlePipelineInitFailure(ctx, r)
		}
	}()
	ctx.doWriteIfNeeded()
}

// handlePipelineInitFailure runs when stage-1 initiation panics
// synchronously on the loop goroutine (PipelineInitError). It is a
// structural failure distinct from an async write error reported through
// onWriteCompleted.
func (s *SocketOutput) handlePipelineInitFailure(ctx *writeContext, cause any) {
	s.mu.Lock()
	s.writesPending--
	s.mu.Unlock()

	for _, b := range ctx.blocks {
		b.Unpin()
		s.opts.BlockPool.Return(b)
	}

	pipelineErr := errs.New(fmt.Errorf("%w: %v", errs.ErrPipelineInit, cause), errs.ErrorTypeIO, cause)
	hlog.SystemLogger().Errorf("output: pipeline init failed on conn %d: %v", s.id, pipelineErr)
	s.conn.Abort()
}

// onWriteCompleted runs on the loop goroutine once a writeContext finishes
// its pass through the three-stage pipeline. It releases blocks, updates
// the pre-completion accounting, wakes eligible producers in FIFO order,
// and re-posts a drain if more data accumulated meanwhile.
func (s *SocketOutput) onWriteCompleted(written []*Block, status Status, err error) {
	var (
		abortNeeded bool
		completions []func()
	)

	s.mu.Lock()

	if err != nil && s.lastWriteError == nil {
		s.lastWriteError = errs.NewIO(err)
		abortNeeded = true
	}

	if s.nextWriteContext != nil {
		// The slot stays occupied; another batch accumulated while this
		// one was in flight.
		if postErr := s.loop.Post(s.drain); postErr != nil {
			s.writesPending--
			hlog.SystemLogger().Warnf("output: failed to re-post drain on conn %d: %v", s.id, postErr)
		}
	} else {
		s.writesPending--
	}

	for _, b := range written {
		s.numBytesPreCompleted -= b.Len()
		b.Unpin()
		s.opts.BlockPool.Return(b)
	}

	bytesLeft := s.opts.MaxBytesPreCompleted - s.numBytesPreCompleted
	for {
		head, ok := s.tasks.peek()
		if !ok || head.n > bytesLeft {
			break
		}
		s.tasks.pop()
		s.numBytesPreCompleted += head.n
		bytesLeft -= head.n

		fut := head.fut
		resolveErr := s.lastWriteError
		completions = append(completions, func() { fut.complete(resolveErr) })
	}

	if s.numBytesPreCompleted < 0 {
		panic("BUG: numBytesPreCompleted went negative at pass boundary")
	}

	s.mu.Unlock()

	for _, c := range completions {
		s.opts.Dispatch(c)
	}

	if abortNeeded {
		s.conn.Abort()
	}
}

// armWatchdog starts (or restarts) the debug watchdog for a non-immediate
// write that hasn't yet been followed by an immediate one. No-op unless
// Options.NonImmediateWatchdog is positive.
func (s *SocketOutput) armWatchdog() {
	d := s.opts.NonImmediateWatchdog
	if d <= 0 {
		return
	}

	cancel := make(chan struct{})
	s.watchdogMu.Lock()
	prev := s.watchdogCancel
	s.watchdogCancel = cancel
	s.watchdogMu.Unlock()
	if prev != nil {
		close(prev)
	}

	t := timer.AcquireTimer(d)
	go func() {
		defer timer.ReleaseTimer(t)
		select {
		case <-t.C:
			hlog.SystemLogger().Warnf("output: non-immediate write on conn %d was not followed by an immediate write within %s", s.id, d)
		case <-cancel:
		}
	}()
}

// disarmWatchdog cancels any watchdog armed by armWatchdog.
func (s *SocketOutput) disarmWatchdog() {
	s.watchdogMu.Lock()
	prev := s.watchdogCancel
	s.watchdogCancel = nil
	s.watchdogMu.Unlock()
	if prev != nil {
		close(prev)
	}
}
