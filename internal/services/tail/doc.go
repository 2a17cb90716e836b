// Package tailsvc bridges ring reader sessions to streaming transports. It
// owns the per-subscriber pump goroutine, optional CEL filtering, and the
// flush coalescing window consumed by the HTTP SSE controller.
//
// Example:
//
//	svc := tailsvc.New(ring, logger)
//	// Stream everything from the oldest surviving record
//	_ = svc.Tail(ctx, tailsvc.TailOptions{FromOldest: true}, mySink)
//	// Bounded non-blocking drain
//	items, _ := svc.Lines(tailsvc.TailOptions{FromOldest: true, Limit: 100})
package tailsvc

// Performance notes
//
//   - NETLOG_TAIL_FLUSH_MS: optional flush window in ms for the
//     per-subscriber writer. Small windows (2-5ms) coalesce transport writes
//     at high event rates without adding noticeable latency.
//   - NETLOG_TAIL_BUF: buffered queue length per subscriber. Increase for
//     bursty probes or slow clients; the pump never blocks the ring either
//     way, a full queue only delays the subscriber's own reads.
