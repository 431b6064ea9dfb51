package output

// writeContext is one batch scheduled for a single pass through the
// write -> shutdown-send -> disconnect pipeline. It is created lazily by
// WriteAsync, retained as SocketOutput.nextWriteContext until the loop
// goroutine picks it up, and destroyed once onWriteCompleted runs.
type writeContext struct {
	out *SocketOutput

	blocks       []*Block
	shutdownSend bool
	disconnect   bool

	status Status
	err    error

	shutdownStatus Status
}

// doWriteIfNeeded is stage 1. It runs on the loop goroutine.
func (c *writeContext) doWriteIfNeeded() {
	if len(c.blocks) == 0 || c.out.stream.IsClosed() {
		c.doShutdownIfNeeded()
		return
	}

	buffers := make([][]byte, len(c.blocks))
	for i, b := range c.blocks {
		b.Pin()
		buffers[i] = b.Bytes()
	}

	c.out.opts.Tracer.ConnectionWrite(c.out.id, sumLen(c.blocks))
	c.out.stream.Write(buffers, func(status Status, err error) {
		c.status = status
		c.err = err
		c.out.opts.Tracer.ConnectionWriteCallback(c.out.id, status)
		c.doShutdownIfNeeded()
	})
}

// doShutdownIfNeeded is stage 2. It runs on the loop goroutine.
func (c *writeContext) doShutdownIfNeeded() {
	if !c.shutdownSend || c.out.stream.IsClosed() {
		c.doDisconnectIfNeeded()
		return
	}

	c.out.stream.Shutdown(func(status Status, err error) {
		c.shutdownStatus = status
		c.out.opts.Tracer.ConnectionWroteFin(c.out.id, status)
		c.doDisconnectIfNeeded()
	})
}

// doDisconnectIfNeeded is stage 3. It runs on the loop goroutine.
func (c *writeContext) doDisconnectIfNeeded() {
	if !c.disconnect || c.out.stream.IsClosed() {
		c.complete()
		return
	}

	_ = c.out.stream.Dispose()
	c.out.opts.Tracer.ConnectionStop(c.out.id)
	c.complete()
}

// complete hands the finished batch back to SocketOutput for accounting.
func (c *writeContext) complete() {
	c.out.onWriteCompleted(c.blocks, c.status, c.err)
}

func sumLen(blocks []*Block) int {
	n := 0
	for _, b := range blocks {
		n += b.Len()
	}
	return n
}
