package output

import "time"

const (
	// defaultMaxPendingWrites bounds the number of simultaneously
	// in-flight drain tasks posted to the event loop.
	defaultMaxPendingWrites = 3
	// defaultMaxBytesPreCompleted is the soft budget of bytes whose
	// producer future has been resolved but whose blocks are still held.
	defaultMaxBytesPreCompleted = 65536
	// defaultBlockCapacity is the fixed size of every leased Block.
	defaultBlockCapacity = 2048
)

// Option configures a SocketOutput, mirroring common/config's
// Option{F func(*Options)} functional-options shape.
type Option struct {
	F func(o *Options)
}

// Options holds SocketOutput's tunable behavior.
type Options struct {
	// MaxPendingWrites caps concurrently in-flight loop-goroutine drains.
	MaxPendingWrites int
	// MaxBytesPreCompleted caps bytes completed-but-not-yet-released.
	MaxBytesPreCompleted int
	// BlockCapacity is the fixed size of every leased Block.
	BlockCapacity int
	// Tracer records write lifecycle events. Defaults to NoopTracer.
	Tracer Tracer
	// BlockPool leases/returns Blocks. Defaults to an mcache-backed pool.
	BlockPool BlockPool
	// Dispatch runs producer-future completions off the loop goroutine.
	// Defaults to a gopool-backed worker pool.
	Dispatch func(func())
	// NonImmediateWatchdog, when positive, arms a timer after every
	// immediate=false WriteAsync call; if no immediate=true call follows
	// before it fires, a warning is logged. Zero disables the watchdog.
	NonImmediateWatchdog time.Duration
}

// Apply runs every opt's F against o, in order.
func (o *Options) Apply(opts []Option) {
	for _, opt := range opts {
		opt.F(o)
	}
}

// NewOptions builds an Options populated with defaults, then applies opts.
func NewOptions(opts []Option) *Options {
	o := &Options{
		MaxPendingWrites:     defaultMaxPendingWrites,
		MaxBytesPreCompleted: defaultMaxBytesPreCompleted,
		BlockCapacity:        defaultBlockCapacity,
		Tracer:               NoopTracer{},
		BlockPool:            NewBlockPool(),
		Dispatch:             dispatchViaGopool,
		NonImmediateWatchdog: 0,
	}
	o.Apply(opts)
	return o
}

// WithMaxPendingWrites overrides MaxPendingWrites.
func WithMaxPendingWrites(n int) Option {
	return Option{F: func(o *Options) { o.MaxPendingWrites = n }}
}

// WithMaxBytesPreCompleted overrides MaxBytesPreCompleted.
func WithMaxBytesPreCompleted(n int) Option {
	return Option{F: func(o *Options) { o.MaxBytesPreCompleted = n }}
}

// WithBlockCapacity overrides BlockCapacity.
func WithBlockCapacity(n int) Option {
	return Option{F: func(o *Options) { o.BlockCapacity = n }}
}

// WithTracer overrides Tracer.
func WithTracer(t Tracer) Option {
	return Option{F: func(o *Options) { o.Tracer = t }}
}

// WithBlockPool overrides BlockPool.
func WithBlockPool(p BlockPool) Option {
	return Option{F: func(o *Options) { o.BlockPool = p }}
}

// WithDispatch overrides Dispatch.
func WithDispatch(d func(func())) Option {
	return Option{F: func(o *Options) { o.Dispatch = d }}
}

// WithNonImmediateWatchdog arms the debug watchdog described in §9 of the
// design: a warning is logged if a non-immediate write is never followed
// by an immediate one within d.
func WithNonImmediateWatchdog(d time.Duration) Option {
	return Option{F: func(o *Options) { o.NonImmediateWatchdog = d }}
}
