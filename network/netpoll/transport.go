package netpoll

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/cloudwego/netpoll"
	"github.com/favbox/windout/common/hlog"
	"github.com/favbox/windout/network"
)

var _ network.Transporter = (*Transport)(nil)

func init() {
	netpoll.SetLoggerOutput(io.Discard)
}

// TransportOptions configures a Transport.
type TransportOptions struct {
	Network          string
	Addr             string
	KeepAliveTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ListenConfig     *net.ListenConfig

	// OnAccept fires when a connection is accepted, before it is handed to
	// the event loop. OnConnect fires once the connection is registered.
	OnAccept  func(conn net.Conn) context.Context
	OnConnect func(ctx context.Context, conn network.Conn) context.Context
}

// Transport drives a netpoll.EventLoop over a bound listener, handing each
// connection's data events to package output through network.OnData.
type Transport struct {
	sync.RWMutex
	opts TransportOptions

	listener  net.Listener
	eventLoop netpoll.EventLoop
}

// NewTransport creates a netpoll-backed Transporter.
func NewTransport(opts TransportOptions) *Transport {
	if opts.Network == "" {
		opts.Network = "tcp"
	}
	return &Transport{opts: opts}
}

// ListenAndServe binds the listener and serves until Shutdown/Close or a
// fatal error.
func (t *Transport) ListenAndServe(onReq network.OnData) (err error) {
	_ = network.UnlinkUdsFile(t.opts.Network, t.opts.Addr)
	if t.opts.ListenConfig != nil {
		t.listener, err = t.opts.ListenConfig.Listen(context.Background(), t.opts.Network, t.opts.Addr)
	} else {
		t.listener, err = net.Listen(t.opts.Network, t.opts.Addr)
	}
	if err != nil {
		return err
	}

	eventLoopOpts := []netpoll.Option{
		netpoll.WithIdleTimeout(t.opts.KeepAliveTimeout),
		netpoll.WithOnPrepare(func(conn netpoll.Connection) context.Context {
			_ = conn.SetReadTimeout(t.opts.ReadTimeout)
			if t.opts.WriteTimeout > 0 {
				_ = conn.SetWriteTimeout(t.opts.WriteTimeout)
			}
			if t.opts.OnAccept != nil {
				return t.opts.OnAccept(newConn(conn))
			}
			return context.Background()
		}),
	}

	if t.opts.OnConnect != nil {
		eventLoopOpts = append(eventLoopOpts, netpoll.WithOnConnect(func(ctx context.Context, conn netpoll.Connection) context.Context {
			return t.opts.OnConnect(ctx, newConn(conn))
		}))
	}

	t.Lock()
	t.eventLoop, err = netpoll.NewEventLoop(func(ctx context.Context, connection netpoll.Connection) error {
		return onReq(ctx, newConn(connection))
	}, eventLoopOpts...)
	t.Unlock()
	if err != nil {
		return err
	}

	hlog.SystemLogger().Infof("listening on %s", t.listener.Addr().String())
	t.RLock()
	el := t.eventLoop
	t.RUnlock()
	return el.Serve(t.listener)
}

// Close tears the transport down without waiting for connections to drain.
func (t *Transport) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	return t.Shutdown(ctx)
}

// Shutdown stops the listener and waits for in-flight connections to close,
// up to ctx's deadline.
func (t *Transport) Shutdown(ctx context.Context) error {
	t.RLock()
	el := t.eventLoop
	t.RUnlock()
	defer func() { _ = network.UnlinkUdsFile(t.opts.Network, t.opts.Addr) }()
	if el == nil {
		return nil
	}
	return el.Shutdown(ctx)
}
