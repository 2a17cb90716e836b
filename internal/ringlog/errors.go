package ringlog

import "errors"

var (
	// ErrWouldBlock reports that a non-blocking read found nothing new.
	// Expected steady-state signal, not a failure.
	ErrWouldBlock = errors.New("ringlog: would block")

	// ErrDataLost reports that the session's cursor fell behind eviction.
	// The cursor has already been resynced to the oldest surviving record;
	// the next read returns valid data.
	ErrDataLost = errors.New("ringlog: data lost")

	// ErrBufferTooSmall reports that the caller's buffer cannot hold the
	// rendered line. The cursor is not advanced; retry with more capacity.
	ErrBufferTooSmall = errors.New("ringlog: buffer too small")

	// ErrUnsupportedSeek reports a seek target other than oldest or newest.
	ErrUnsupportedSeek = errors.New("ringlog: unsupported seek")

	// ErrCorruptRecord reports a decode-time consistency check failure.
	ErrCorruptRecord = errors.New("ringlog: corrupt record")

	// ErrSessionClosed reports a read on a closed session.
	ErrSessionClosed = errors.New("ringlog: session closed")
)
