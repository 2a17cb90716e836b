// Package id generates compact, time-ordered identifiers.
//
// An ID is sixteen bytes: a big-endian Unix millisecond followed by a
// per-process counter, so byte-wise comparison agrees with creation order.
// A Generator never repeats and never goes backwards, even when the system
// clock does; if the counter runs out inside one millisecond it waits for
// the next one.
//
// netlog tags every reader session with one of these, which makes session
// log lines sortable by open time.
package id
