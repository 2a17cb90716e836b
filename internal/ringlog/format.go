package ringlog

import (
	"fmt"
	"net"
	"time"

	"github.com/Feandil/netlog/internal/event"
)

// Syslog priority rendered in the line prefix: facility user (1),
// severity info (6), RFC 5424 style.
const (
	logFacility  = 1
	logSeverity  = 6
	linePriority = logFacility<<3 | logSeverity
)

// lineOverhead bounds the rendered length of everything except the path:
// prefix, timestamp, pid, protocol, two bracketed IPv6 addresses with
// ports, arrow, and uid.
const lineOverhead = 256

// AppendLine renders ev in the device output format and appends it to dst:
//
//	<14>1 - - netlog - - - [12345.678901]: /usr/bin/curl[4242] TCP 10.0.0.2:51234 -> 93.184.216.34:443 (uid=1000)
//
// Connect renders as "->", accept as "<-", close as "<!>"; bind and unknown
// actions print no destination. An unknown address family renders as
// "Unknown" with no port.
func AppendLine(dst []byte, ev *event.Event) []byte {
	sec := ev.TimestampNs / uint64(time.Second)
	usec := ev.TimestampNs % uint64(time.Second) / uint64(time.Microsecond)
	dst = fmt.Appendf(dst, "<%d>1 - - netlog - - - [%5d.%06d]: %s[%d] %s ",
		linePriority, sec, usec, ev.Path, ev.PID, ev.Protocol)
	dst = appendAddr(dst, ev.Family, ev.SrcIP(), ev.SrcPort)
	switch ev.Action {
	case event.ActionConnect:
		dst = append(dst, " -> "...)
	case event.ActionAccept:
		dst = append(dst, " <- "...)
	case event.ActionClose:
		dst = append(dst, " <!> "...)
	case event.ActionBind:
		dst = append(dst, " BIND "...)
		return fmt.Appendf(dst, " (uid=%d)\n", ev.UID)
	default:
		dst = append(dst, " UNK "...)
		return fmt.Appendf(dst, " (uid=%d)\n", ev.UID)
	}
	dst = appendAddr(dst, ev.Family, ev.DstIP(), ev.DstPort)
	return fmt.Appendf(dst, " (uid=%d)\n", ev.UID)
}

// FormatLine renders ev as a string. Convenience wrapper over AppendLine.
func FormatLine(ev *event.Event) string {
	return string(AppendLine(nil, ev))
}

func appendAddr(dst []byte, fam event.Family, ip net.IP, port int32) []byte {
	switch fam {
	case event.FamilyIPv4:
		return fmt.Appendf(dst, "%s:%d", ip, port)
	case event.FamilyIPv6:
		return fmt.Appendf(dst, "[%s]:%d", ip, port)
	default:
		return append(dst, "Unknown"...)
	}
}
