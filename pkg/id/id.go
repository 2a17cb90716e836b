package id

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"
	"time"
)

// ID is a 128-bit identifier that sorts by creation time: the first eight
// bytes carry the Unix millisecond, the last eight a per-process counter.
type ID [16]byte

// String returns the 32-character lowercase hex form.
func (id ID) String() string { return hex.EncodeToString(id[:]) }

// Compare orders two IDs byte-wise, which by construction is also
// chronological order within one process.
func (id ID) Compare(other ID) int { return bytes.Compare(id[:], other[:]) }

// Time returns the millisecond timestamp embedded in the ID.
func (id ID) Time() time.Time {
	ms := binary.BigEndian.Uint64(id[:8])
	return time.UnixMilli(int64(ms))
}

// Generator hands out strictly increasing IDs. The zero value is not
// usable; call NewGenerator.
type Generator struct {
	mu  sync.Mutex
	now func() int64
	ms  int64
	seq uint64
}

// NewGenerator returns a Generator backed by the system clock.
func NewGenerator() *Generator {
	return &Generator{now: func() int64 { return time.Now().UnixMilli() }}
}

// Next returns an ID greater than every ID this generator returned before.
// A clock that jumps backwards does not break the ordering: the generator
// keeps counting in the last millisecond it observed.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now()
	switch {
	case ms > g.ms:
		g.ms, g.seq = ms, 0
	case g.seq == math.MaxUint64:
		// counter exhausted within one millisecond; wait the clock out
		for ms <= g.ms {
			time.Sleep(50 * time.Microsecond)
			ms = g.now()
		}
		g.ms, g.seq = ms, 0
	default:
		g.seq++
	}

	var id ID
	binary.BigEndian.PutUint64(id[:8], uint64(g.ms))
	binary.BigEndian.PutUint64(id[8:], g.seq)
	return id
}
