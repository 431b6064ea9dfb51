// Package network defines the minimal connection surface windout's output
// path builds on: a bidirectional, buffer-aware net.Conn plus the
// transport-level hooks a netpoll-backed event loop server needs to accept
// connections and hand them to package output.
package network
