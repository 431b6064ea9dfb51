package network

import "context"

// Transporter accepts connections and drives an event loop over them.
type Transporter interface {
	// ListenAndServe binds addr and serves until Close/Shutdown or a fatal
	// accept error.
	ListenAndServe(OnData) error
	// Close closes the transporter immediately, without waiting for
	// in-flight connections to drain.
	Close() error
	// Shutdown closes the listener and waits for in-flight connections to
	// finish, up to ctx's deadline.
	Shutdown(ctx context.Context) error
}

// OnData is invoked once a connection has data ready to be handled.
type OnData func(ctx context.Context, conn any) error
