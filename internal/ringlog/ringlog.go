package ringlog

import (
	"fmt"
	"sync"

	"github.com/Feandil/netlog/internal/event"
	"github.com/Feandil/netlog/pkg/id"
	logpkg "github.com/Feandil/netlog/pkg/log"
)

const (
	// DefaultCapacity matches the original device buffer size.
	DefaultCapacity = 1 << 17
	// MinCapacity keeps the truncation limit and sentinel slack workable.
	MinCapacity = 512
	// DefaultSessionBuf sizes each session's render buffer.
	DefaultSessionBuf = 8192
)

// Options configures a Log.
type Options struct {
	// CapacityBytes is the arena size, rounded up to the alignment unit.
	// Defaults to DefaultCapacity; must be at least MinCapacity.
	CapacityBytes int
	// SessionBufBytes sizes each session's render buffer. Defaults to
	// DefaultSessionBuf.
	SessionBufBytes int
	// Hook observes evictions. Defaults to a no-op.
	Hook EvictionHook
	// Logger receives truncation and corruption diagnostics.
	Logger logpkg.Logger
}

// Log is a fixed-capacity in-memory ring of framed connection events:
// a byte arena plus head/tail bookkeeping. One writer, any number of reader
// sessions. The arena mutex is held only for bounded encode and bookkeeping
// work, never across a blocking wait.
type Log struct {
	mu  sync.Mutex
	buf []byte

	firstSeq uint64 // sequence of the oldest live record
	firstOff int    // arena offset of the oldest live record
	nextSeq  uint64 // sequence the next append will take
	nextOff  int    // arena offset the next append will use

	seededOldest bool // the first session ever opened starts at the oldest record
	openSessions int

	truncLimit int
	sessionBuf int

	notify *notifier
	hook   EvictionHook
	ids    *id.Generator
	logger logpkg.Logger
}

// cursor is a reader position: the sequence it wants next and the arena
// offset that record starts at.
type cursor struct {
	seq uint64
	off int
}

type readStatus int

const (
	readOK readStatus = iota
	readAgain
	readLost
)

// New creates an empty Log.
func New(opts Options) (*Log, error) {
	capacity := opts.CapacityBytes
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < MinCapacity {
		return nil, fmt.Errorf("ringlog: capacity %d below minimum %d", capacity, MinCapacity)
	}
	capacity += (-capacity) & (alignUnit - 1)

	sessionBuf := opts.SessionBufBytes
	if sessionBuf <= 0 {
		sessionBuf = DefaultSessionBuf
	}
	hook := opts.Hook
	if hook == nil {
		hook = NopHook{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel))
	}

	return &Log{
		buf:        make([]byte, capacity),
		truncLimit: capacity >> 4,
		sessionBuf: sessionBuf,
		notify:     newNotifier(),
		hook:       hook,
		ids:        id.NewGenerator(),
		logger:     logger.WithComponent("ringlog"),
	}, nil
}

// Capacity returns the arena size in bytes.
func (l *Log) Capacity() int { return len(l.buf) }

// PathLimit returns the longest path stored without truncation.
func (l *Log) PathLimit() int { return l.truncLimit }

// Append stores ev, evicting the oldest records as needed. It returns the
// assigned sequence number and whether the path was truncated. Append never
// blocks on readers and never fails.
func (l *Log) Append(ev event.Event) (uint64, bool) {
	truncated := false
	if len(ev.Path) > l.truncLimit {
		ev.Path = ev.Path[:l.truncLimit]
		truncated = true
	}
	size := encodedSize(len(ev.Path))

	l.mu.Lock()
	evictedMin, evictedMax, evicted := l.makeRoom(size)
	if l.nextOff+size+alignUnit >= len(l.buf) {
		// Too close to the end. The eviction loop freed enough space at
		// the head of the arena, so mark the wrap and start over there.
		putSentinel(l.buf, l.nextOff)
		if l.firstSeq == l.nextSeq {
			l.firstOff = 0
		}
		l.nextOff = 0
	}
	seq := l.nextSeq
	putRecord(l.buf[l.nextOff:l.nextOff+size], &ev)
	l.nextOff += size
	l.nextSeq++
	l.mu.Unlock()

	if truncated {
		l.logger.Warn("truncating path", logpkg.Uint64("seq", seq), logpkg.Int("limit", l.truncLimit))
	}
	if evicted > 0 {
		l.hook.OnEvict(evictedMin, evictedMax)
	}
	l.notify.wake()
	return seq, truncated
}

// makeRoom evicts oldest records until a frame of size bytes plus sentinel
// slack fits in one contiguous run. Returns the evicted sequence range
// (inclusive, meaningful only when n > 0). Caller holds l.mu.
func (l *Log) makeRoom(size int) (minSeq, maxSeq uint64, n int) {
	minSeq = l.firstSeq
	for l.firstSeq < l.nextSeq {
		var free int
		if l.nextOff > l.firstOff {
			// live run sits in the middle: usable space is the larger
			// of the tail gap and the head gap
			free = len(l.buf) - l.nextOff
			if l.firstOff > free {
				free = l.firstOff
			}
		} else {
			free = l.firstOff - l.nextOff
		}
		if free > size+alignUnit {
			break
		}
		l.advanceFirst()
		n++
	}
	return minSeq, l.firstSeq - 1, n
}

// advanceFirst moves the oldest-record cursor past one record, then follows
// a wrap sentinel without consuming a sequence number. Caller holds l.mu and
// guarantees the log is not empty.
func (l *Log) advanceFirst() {
	l.firstOff += int(frameLen(l.buf, l.firstOff))
	l.firstSeq++
	if l.firstSeq == l.nextSeq {
		// empty: keep the cursors joined so the next append restarts
		// a single chain
		l.firstOff = l.nextOff
		return
	}
	if frameLen(l.buf, l.firstOff) == 0 {
		l.firstOff = 0
	}
}

// readAt resolves the record cur points at. readAgain means the cursor is
// caught up; readLost means it fell behind eviction and the returned cursor
// is resynced to the oldest record. A decode failure returns
// ErrCorruptRecord; when the frame boundary is still trustworthy the
// returned cursor skips past the bad frame, otherwise it equals cur.
func (l *Log) readAt(cur cursor) (event.Event, cursor, readStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur.seq >= l.nextSeq {
		return event.Event{}, cur, readAgain, nil
	}
	if cur.seq < l.firstSeq {
		return event.Event{}, cursor{seq: l.firstSeq, off: l.firstOff}, readLost, nil
	}

	off := cur.off
	if off < 0 || off+4 > len(l.buf) {
		return event.Event{}, cur, readOK, ErrCorruptRecord
	}
	if frameLen(l.buf, off) == 0 {
		// the writer wrapped at this position after the cursor was set
		off = 0
	}
	ev, n, err := decodeRecord(l.buf[off:])
	if err != nil {
		if n > 0 {
			return event.Event{}, cursor{seq: cur.seq + 1, off: off + n}, readOK, err
		}
		return event.Event{}, cur, readOK, err
	}
	return ev, cursor{seq: cur.seq + 1, off: off + n}, readOK, nil
}

// Snapshot returns the live sequence window: the oldest surviving sequence
// and the sequence the next append will take.
func (l *Log) Snapshot() (first, next uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.firstSeq, l.nextSeq
}

func (l *Log) oldest() cursor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cursor{seq: l.firstSeq, off: l.firstOff}
}

func (l *Log) newest() cursor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cursor{seq: l.nextSeq, off: l.nextOff}
}

// Stats is a point-in-time structural snapshot of the log.
type Stats struct {
	FirstSeq      uint64 `json:"firstSeq"`
	NextSeq       uint64 `json:"nextSeq"`
	LiveRecords   uint64 `json:"liveRecords"`
	UsedBytes     int    `json:"usedBytes"`
	CapacityBytes int    `json:"capacityBytes"`
	OpenSessions  int    `json:"openSessions"`
}

// Stats returns a consistent snapshot of the log's occupancy.
func (l *Log) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	used := 0
	switch {
	case l.firstSeq == l.nextSeq:
	case l.nextOff > l.firstOff:
		used = l.nextOff - l.firstOff
	default:
		used = len(l.buf) - l.firstOff + l.nextOff
	}
	return Stats{
		FirstSeq:      l.firstSeq,
		NextSeq:       l.nextSeq,
		LiveRecords:   l.nextSeq - l.firstSeq,
		UsedBytes:     used,
		CapacityBytes: len(l.buf),
		OpenSessions:  l.openSessions,
	}
}
