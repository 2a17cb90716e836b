package ringlog

import (
	"context"
	"sync"

	"github.com/Feandil/netlog/internal/event"
	logpkg "github.com/Feandil/netlog/pkg/log"
)

// SeekTarget selects a seek destination. Only the oldest and newest
// positions exist; a ring has no stable byte offsets to seek into.
type SeekTarget int

const (
	// SeekOldest moves the cursor to the oldest surviving record.
	SeekOldest SeekTarget = iota
	// SeekNewest moves the cursor past the most recent record.
	SeekNewest
)

// SessionOptions configures OpenSession. The zero value is the default
// behavior.
type SessionOptions struct {
	// FromOldest starts the session at the oldest record regardless of
	// whether earlier sessions exist.
	FromOldest bool
	// BufferBytes overrides the session render buffer size.
	BufferBytes int
}

// Session is a single reader's view of the log: a cursor, a render buffer,
// and blocking state. Sessions are independent; closing one never affects
// the shared log. Methods are safe for concurrent use, serialized by a
// per-session mutex that is released while a read is parked.
type Session struct {
	log *Log
	id  string

	mu      sync.Mutex
	cur     cursor
	buf     []byte
	corrupt bool

	closeOnce sync.Once
	done      chan struct{}
}

// OpenSession creates a reader session. The first session ever opened on
// the log starts at the oldest record so early history is not skipped;
// later sessions start at the newest position unless opts say otherwise.
func (l *Log) OpenSession(opts SessionOptions) *Session {
	l.mu.Lock()
	var cur cursor
	if opts.FromOldest || !l.seededOldest {
		cur = cursor{seq: l.firstSeq, off: l.firstOff}
	} else {
		cur = cursor{seq: l.nextSeq, off: l.nextOff}
	}
	l.seededOldest = true
	l.openSessions++
	l.mu.Unlock()

	bufSize := opts.BufferBytes
	if bufSize <= 0 {
		bufSize = l.sessionBuf
	}
	return &Session{
		log:  l,
		id:   l.ids.Next().String(),
		cur:  cur,
		buf:  make([]byte, 0, bufSize),
		done: make(chan struct{}),
	}
}

// ID returns the session's identifier, used in diagnostics.
func (s *Session) ID() string { return s.id }

// Cursor returns the sequence number the next read will return.
func (s *Session) Cursor() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.seq
}

// Read renders the next record into p as one text line, blocking until a
// record is available or ctx is done. Exactly one line per call.
// ErrDataLost reports an eviction gap; the cursor is already resynced and
// the next Read returns valid data. ErrBufferTooSmall leaves the cursor
// unmoved so the caller can retry with a larger buffer.
func (s *Session) Read(ctx context.Context, p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLine(ctx, p, true)
}

// TryRead is Read without blocking: it returns ErrWouldBlock when the
// cursor is caught up.
func (s *Session) TryRead(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLine(context.Background(), p, false)
}

// ReadEvent returns the next record decoded, with its sequence number,
// blocking until one is available or ctx is done.
func (s *Session) ReadEvent(ctx context.Context) (event.Event, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, seq, next, err := s.step(ctx, true)
	if err != nil {
		return event.Event{}, 0, err
	}
	s.cur = next
	return ev, seq, nil
}

// TryReadEvent is ReadEvent without blocking.
func (s *Session) TryReadEvent() (event.Event, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, seq, next, err := s.step(context.Background(), false)
	if err != nil {
		return event.Event{}, 0, err
	}
	s.cur = next
	return ev, seq, nil
}

// readLine resolves the next record, renders it, and advances the cursor
// only when the rendered line fits in p. Caller holds s.mu.
func (s *Session) readLine(ctx context.Context, p []byte, block bool) (int, error) {
	ev, _, next, err := s.step(ctx, block)
	if err != nil {
		return 0, err
	}
	line := AppendLine(s.buf[:0], &ev)
	s.buf = line[:0]
	if len(line) > len(p) {
		return 0, ErrBufferTooSmall
	}
	s.cur = next
	return copy(p, line), nil
}

// step resolves the record the cursor points at without consuming it,
// parking until one exists when block is set. It returns the record, its
// sequence, and the cursor positioned after it. An eviction gap resyncs
// the cursor and returns ErrDataLost; a skippable corrupt frame advances
// the cursor past it. Caller holds s.mu.
func (s *Session) step(ctx context.Context, block bool) (event.Event, uint64, cursor, error) {
	for {
		if s.isClosed() {
			return event.Event{}, 0, cursor{}, ErrSessionClosed
		}
		if s.corrupt {
			return event.Event{}, 0, cursor{}, ErrCorruptRecord
		}
		ev, next, status, err := s.log.readAt(s.cur)
		if err != nil {
			if next != s.cur {
				s.log.logger.Warn("skipping corrupt record",
					logpkg.Uint64("seq", s.cur.seq), logpkg.Str("session", s.id))
				s.cur = next
				return event.Event{}, 0, cursor{}, err
			}
			s.corrupt = true
			s.log.logger.Error("corrupt record not skippable, terminating session",
				logpkg.Uint64("seq", s.cur.seq), logpkg.Str("session", s.id))
			return event.Event{}, 0, cursor{}, err
		}
		switch status {
		case readAgain:
			if !block {
				return event.Event{}, 0, cursor{}, ErrWouldBlock
			}
			// Drop the session mutex while parked so Readable, Seek and
			// Close stay responsive during a blocking read.
			seq := s.cur.seq
			s.mu.Unlock()
			waitErr := s.waitAppend(ctx, seq)
			s.mu.Lock()
			if waitErr != nil {
				return event.Event{}, 0, cursor{}, waitErr
			}
		case readLost:
			s.cur = next
			return event.Event{}, 0, cursor{}, ErrDataLost
		default:
			return ev, s.cur.seq, next, nil
		}
	}
}

// Next blocks for the next record and returns it as a rendered line.
func (s *Session) Next(ctx context.Context) (string, error) {
	p := make([]byte, s.log.truncLimit+lineOverhead)
	n, err := s.Read(ctx, p)
	if err != nil {
		return "", err
	}
	return string(p[:n]), nil
}

// TryNext is Next without blocking.
func (s *Session) TryNext() (string, error) {
	p := make([]byte, s.log.truncLimit+lineOverhead)
	n, err := s.TryRead(p)
	if err != nil {
		return "", err
	}
	return string(p[:n]), nil
}

// waitAppend blocks until the log grows past seq, ctx is done, or the
// session closes. Called with s.mu released; the arena lock is never
// held here.
func (s *Session) waitAppend(ctx context.Context, seq uint64) error {
	for {
		ch := s.log.notify.channel()
		if _, next := s.log.Snapshot(); next > seq {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return ErrSessionClosed
		}
	}
}

// Seek repositions the cursor. Only SeekOldest and SeekNewest are valid
// targets; anything else returns ErrUnsupportedSeek.
func (s *Session) Seek(target SeekTarget) error {
	switch target {
	case SeekOldest, SeekNewest:
	default:
		return ErrUnsupportedSeek
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if target == SeekOldest {
		s.cur = s.log.oldest()
	} else {
		s.cur = s.log.newest()
	}
	return nil
}

// Readable reports whether a read would return data without blocking.
// It consumes nothing.
func (s *Session) Readable() bool {
	s.mu.Lock()
	seq := s.cur.seq
	s.mu.Unlock()
	_, next := s.log.Snapshot()
	return seq < next
}

// Close releases the session. Idempotent. A blocked Read returns
// ErrSessionClosed. Closing never affects the shared log.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.log.mu.Lock()
		s.log.openSessions--
		s.log.mu.Unlock()
	})
}

func (s *Session) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
