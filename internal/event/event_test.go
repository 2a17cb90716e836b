package event

import (
	"net"
	"testing"
)

func TestActionString(t *testing.T) {
	cases := map[Action]string{
		ActionConnect: "connect",
		ActionAccept:  "accept",
		ActionClose:   "close",
		ActionBind:    "bind",
		Action(99):    "unknown",
	}
	for a, want := range cases {
		if got := a.String(); got != want {
			t.Fatalf("action %d: got %q want %q", a, got, want)
		}
	}
}

func TestProtocolString(t *testing.T) {
	if ProtocolTCP.String() != "TCP" || ProtocolUDP.String() != "UDP" {
		t.Fatalf("protocol names wrong")
	}
	if Protocol(200).String() != "UNK" {
		t.Fatalf("unknown protocol should render UNK")
	}
}

func TestIPRoundTripV4(t *testing.T) {
	e := Event{Family: FamilyIPv4}
	if !e.SetSrcIP(net.ParseIP("192.168.0.17")) {
		t.Fatalf("set v4 failed")
	}
	if got := e.SrcIP().String(); got != "192.168.0.17" {
		t.Fatalf("got %q", got)
	}
}

func TestIPRoundTripV6(t *testing.T) {
	e := Event{Family: FamilyIPv6}
	if !e.SetDstIP(net.ParseIP("2001:db8::1")) {
		t.Fatalf("set v6 failed")
	}
	if got := e.DstIP().String(); got != "2001:db8::1" {
		t.Fatalf("got %q", got)
	}
}

func TestIPUnknownFamily(t *testing.T) {
	e := Event{}
	if e.SrcIP() != nil {
		t.Fatalf("unknown family must yield nil IP")
	}
	if e.SetSrcIP(net.ParseIP("10.0.0.1")) {
		t.Fatalf("set on unknown family must fail")
	}
}

func TestSetIPNilZeroes(t *testing.T) {
	e := Event{Family: FamilyIPv4}
	e.SetSrcIP(net.ParseIP("10.1.2.3"))
	if !e.SetSrcIP(nil) {
		t.Fatalf("nil set should succeed")
	}
	if e.SrcAddr != ([16]byte{}) {
		t.Fatalf("address not zeroed")
	}
}
