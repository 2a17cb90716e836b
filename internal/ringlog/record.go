package ringlog

import (
	"encoding/binary"

	"github.com/Feandil/netlog/internal/event"
)

// Framed record layout, little-endian. The header is followed by pathLen
// bytes of path text and zero padding up to alignUnit. totalLen is the
// aligned size of the whole frame; a zero totalLen marks the wraparound
// sentinel, not a record.
const (
	offTotalLen    = 0  // u32
	offPathLen     = 4  // u16
	offTimestampNs = 6  // u64
	offPID         = 14 // u32
	offUID         = 18 // u32
	offAction      = 22 // u8
	offProtocol    = 23 // u8
	offFamily      = 24 // u8
	offSrcPort     = 25 // i32
	offDstPort     = 29 // i32
	offSrcAddr     = 33 // 16 bytes
	offDstAddr     = 49 // 16 bytes
	headerSize     = 65

	alignUnit = 8
)

// encodedSize returns the aligned frame size for a path of pathLen bytes.
func encodedSize(pathLen int) int {
	size := headerSize + pathLen
	size += (-size) & (alignUnit - 1)
	return size
}

// putRecord encodes ev into dst, which must be exactly encodedSize(len(path))
// bytes. The path must already be within the truncation limit.
func putRecord(dst []byte, ev *event.Event) {
	binary.LittleEndian.PutUint32(dst[offTotalLen:], uint32(len(dst)))
	binary.LittleEndian.PutUint16(dst[offPathLen:], uint16(len(ev.Path)))
	binary.LittleEndian.PutUint64(dst[offTimestampNs:], ev.TimestampNs)
	binary.LittleEndian.PutUint32(dst[offPID:], ev.PID)
	binary.LittleEndian.PutUint32(dst[offUID:], ev.UID)
	dst[offAction] = byte(ev.Action)
	dst[offProtocol] = byte(ev.Protocol)
	dst[offFamily] = byte(ev.Family)
	binary.LittleEndian.PutUint32(dst[offSrcPort:], uint32(ev.SrcPort))
	binary.LittleEndian.PutUint32(dst[offDstPort:], uint32(ev.DstPort))
	copy(dst[offSrcAddr:offSrcAddr+16], ev.SrcAddr[:])
	copy(dst[offDstAddr:offDstAddr+16], ev.DstAddr[:])
	n := copy(dst[headerSize:], ev.Path)
	// zero the padding so frames are deterministic
	for i := headerSize + n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// frameLen reads the totalLen field at off. Zero means wraparound sentinel.
func frameLen(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off:])
}

// putSentinel writes the wraparound sentinel at off. Alignment guarantees at
// least 4 bytes of room before the end of the arena.
func putSentinel(buf []byte, off int) {
	binary.LittleEndian.PutUint32(buf[off:], 0)
}

// decodeRecord decodes the frame at the start of src. It returns the event,
// the frame length to skip, and ErrCorruptRecord when a consistency check
// fails. A non-zero length alongside the error means the frame boundary is
// still trustworthy and the caller may skip forward.
func decodeRecord(src []byte) (event.Event, int, error) {
	if len(src) < headerSize {
		return event.Event{}, 0, ErrCorruptRecord
	}
	total := int(binary.LittleEndian.Uint32(src[offTotalLen:]))
	if total < headerSize || total > len(src) || total%alignUnit != 0 {
		return event.Event{}, 0, ErrCorruptRecord
	}
	pathLen := int(binary.LittleEndian.Uint16(src[offPathLen:]))
	if headerSize+pathLen > total {
		return event.Event{}, total, ErrCorruptRecord
	}
	ev := event.Event{
		TimestampNs: binary.LittleEndian.Uint64(src[offTimestampNs:]),
		PID:         binary.LittleEndian.Uint32(src[offPID:]),
		UID:         binary.LittleEndian.Uint32(src[offUID:]),
		Path:        string(src[headerSize : headerSize+pathLen]),
		Action:      event.Action(src[offAction]),
		Protocol:    event.Protocol(src[offProtocol]),
		Family:      event.Family(src[offFamily]),
		SrcPort:     int32(binary.LittleEndian.Uint32(src[offSrcPort:])),
		DstPort:     int32(binary.LittleEndian.Uint32(src[offDstPort:])),
	}
	copy(ev.SrcAddr[:], src[offSrcAddr:offSrcAddr+16])
	copy(ev.DstAddr[:], src[offDstAddr:offDstAddr+16])
	return ev, total, nil
}
