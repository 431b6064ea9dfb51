// Package timer pools *time.Timer values, the way wind's common/timer does,
// so short-lived watchdog timers (e.g. the non-immediate-write watchdog in
// package output) don't allocate on every arm/disarm cycle.
package timer

import (
	"sync"
	"time"
)

var timerPool sync.Pool

// AcquireTimer returns a timer from the pool, armed for timeout.
func AcquireTimer(timeout time.Duration) *time.Timer {
	v := timerPool.Get()
	if v == nil {
		return time.NewTimer(timeout)
	}
	return initTimer(v.(*time.Timer), timeout)
}

// ReleaseTimer stops t and returns it to the pool. Do not touch t after
// calling this.
func ReleaseTimer(t *time.Timer) {
	stopTimer(t)
	timerPool.Put(t)
}

func initTimer(t *time.Timer, timeout time.Duration) *time.Timer {
	if t == nil {
		return time.NewTimer(timeout)
	}
	if t.Reset(timeout) {
		panic("BUG: active timer trapped in initTimer()")
	}
	return t
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
