// Package serverrun boots a netlog instance: it resolves the process
// logger, opens the runtime, starts collection and serves the HTTP API
// until the context is cancelled or the process receives INT/TERM.
package serverrun
