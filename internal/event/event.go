package event

import "net"

// Action identifies the connection lifecycle transition an event records.
type Action uint8

// Actions. The zero value is unknown.
const (
	ActionUnknown Action = 0
	ActionConnect Action = 1
	ActionAccept  Action = 2
	ActionClose   Action = 3
	ActionBind    Action = 4
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionConnect:
		return "connect"
	case ActionAccept:
		return "accept"
	case ActionClose:
		return "close"
	case ActionBind:
		return "bind"
	default:
		return "unknown"
	}
}

// Protocol identifies the transport protocol. Values follow the IP protocol
// numbers so they match what the socket tables report.
type Protocol uint8

// Protocols. The zero value is unknown.
const (
	ProtocolUnknown Protocol = 0
	ProtocolTCP     Protocol = 6
	ProtocolUDP     Protocol = 17
)

// String returns the protocol name as rendered in log lines.
func (p Protocol) String() string {
	switch p {
	case ProtocolTCP:
		return "TCP"
	case ProtocolUDP:
		return "UDP"
	default:
		return "UNK"
	}
}

// Family tags the address representation. Values follow the Linux AF_*
// constants the original socket layer reports.
type Family uint8

// Address families. The zero value is unknown.
const (
	FamilyUnknown Family = 0
	FamilyIPv4    Family = 2
	FamilyIPv6    Family = 10
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "inet"
	case FamilyIPv6:
		return "inet6"
	default:
		return "unknown"
	}
}

// Event is one connection lifecycle observation. Addresses are stored in
// 16-byte raw form; Family decides how many of those bytes are meaningful.
type Event struct {
	TimestampNs uint64
	PID         uint32
	UID         uint32
	Path        string
	Action      Action
	Protocol    Protocol
	Family      Family
	SrcAddr     [16]byte
	DstAddr     [16]byte
	SrcPort     int32
	DstPort     int32
}

// SrcIP returns the source address as a net.IP, or nil when the family is
// unknown.
func (e *Event) SrcIP() net.IP { return ipOf(e.Family, e.SrcAddr) }

// DstIP returns the destination address as a net.IP, or nil when the family
// is unknown.
func (e *Event) DstIP() net.IP { return ipOf(e.Family, e.DstAddr) }

func ipOf(f Family, raw [16]byte) net.IP {
	switch f {
	case FamilyIPv4:
		return net.IP(raw[:4])
	case FamilyIPv6:
		return net.IP(raw[:])
	default:
		return nil
	}
}

// SetSrcIP stores ip in raw form and returns whether it was representable.
// A nil ip zeroes the address.
func (e *Event) SetSrcIP(ip net.IP) bool { return setIP(&e.SrcAddr, e.Family, ip) }

// SetDstIP stores ip in raw form and returns whether it was representable.
func (e *Event) SetDstIP(ip net.IP) bool { return setIP(&e.DstAddr, e.Family, ip) }

func setIP(dst *[16]byte, f Family, ip net.IP) bool {
	*dst = [16]byte{}
	if ip == nil {
		return true
	}
	switch f {
	case FamilyIPv4:
		v4 := ip.To4()
		if v4 == nil {
			return false
		}
		copy(dst[:4], v4)
		return true
	case FamilyIPv6:
		v6 := ip.To16()
		if v6 == nil {
			return false
		}
		copy(dst[:], v6)
		return true
	default:
		return false
	}
}
