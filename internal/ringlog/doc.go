// Package ringlog implements netlog's concurrent ring log: a fixed-capacity
// in-memory byte arena of framed connection events with sequence-numbered
// eviction and per-reader cursor sessions.
//
// # Overview
//
// The writer appends variable-length framed records, evicting the oldest
// ones when space runs out. Records carry strictly increasing sequence
// numbers that never reset, so a reader can always tell whether it fell
// behind. A zero length field marks the wraparound sentinel: traversal
// follows it back to offset zero.
//
// Readers open independent sessions. A session's cursor is a
// (sequence, offset) pair; reads render one text line per call, block on an
// append notifier when caught up, and report an eviction gap exactly once
// before resuming at the oldest surviving record.
//
// API surface (internal)
//
//	l, _ := ringlog.New(ringlog.Options{CapacityBytes: 1 << 17})
//
//	// Writer side: bounded-time, never blocks on readers
//	seq, truncated := l.Append(ev)
//	_ = seq
//	_ = truncated // long paths are cut to l.PathLimit(), not rejected
//
//	// Reader side
//	s := l.OpenSession(ringlog.SessionOptions{FromOldest: true})
//	defer s.Close()
//	line, err := s.Next(ctx)        // blocks; ctx cancels the wait
//	line, err = s.TryNext()         // ErrWouldBlock when caught up
//	_ = s.Seek(ringlog.SeekNewest)  // only oldest/newest are seekable
//	_ = s.Readable()                // poll without consuming
//	_, _ = line, err
//
// Error conditions reader code is expected to handle: ErrWouldBlock,
// ErrDataLost (gap reported once, cursor already resynced),
// ErrBufferTooSmall (cursor unmoved), ErrCorruptRecord, ErrSessionClosed.
package ringlog
