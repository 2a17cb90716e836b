// Package probe watches the host for connection lifecycle events and feeds
// them through the whitelist and rate limiter into the ring.
//
// Six probes exist, one per protocol/transition pair, each individually
// toggleable at runtime. The event origin is pluggable through Source; the
// production source sweeps procfs socket tables.
package probe

import (
	"fmt"

	"github.com/Feandil/netlog/internal/event"
)

// Probe names. These are the original module's toggle names and the values
// accepted by the HTTP API and CLI.
const (
	TCPConnect = "tcp_connect"
	TCPAccept  = "tcp_accept"
	TCPClose   = "tcp_close"
	UDPConnect = "udp_connect"
	UDPBind    = "udp_bind"
	UDPClose   = "udp_close"
)

// All lists every probe name in display order.
var All = []string{TCPConnect, TCPAccept, TCPClose, UDPConnect, UDPBind, UDPClose}

// Valid reports whether name is a known probe.
func Valid(name string) bool {
	for _, p := range All {
		if p == name {
			return true
		}
	}
	return false
}

// classify maps an event to the probe that governs it. Events outside the
// six pairs return an error and are discarded by the manager.
func classify(ev *event.Event) (string, error) {
	switch ev.Protocol {
	case event.ProtocolTCP:
		switch ev.Action {
		case event.ActionConnect:
			return TCPConnect, nil
		case event.ActionAccept:
			return TCPAccept, nil
		case event.ActionClose:
			return TCPClose, nil
		}
	case event.ProtocolUDP:
		switch ev.Action {
		case event.ActionConnect:
			return UDPConnect, nil
		case event.ActionBind:
			return UDPBind, nil
		case event.ActionClose:
			return UDPClose, nil
		}
	}
	return "", fmt.Errorf("probe: no probe for %s/%s", ev.Protocol, ev.Action)
}
