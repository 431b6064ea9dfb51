package output

import "github.com/bytedance/gopkg/util/gopool"

// dispatchViaGopool is the default Dispatch: it hands a producer-future
// completion to bytedance/gopkg's worker pool so it never runs inline on
// the event-loop goroutine that produced it (see onWriteCompleted, §4.1).
func dispatchViaGopool(fn func()) {
	gopool.Go(fn)
}
