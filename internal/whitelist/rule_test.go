package whitelist

import (
	"net"
	"testing"

	"github.com/Feandil/netlog/internal/event"
)

func TestParseRuleRoundtrip(t *testing.T) {
	cases := []string{
		"/usr/bin/curl",
		"/usr/bin/curl|i<93.184.216.34>",
		"/usr/bin/curl|<443>",
		"/usr/bin/curl|i<93.184.216.34>|<443>",
		"/usr/bin/curl|i<2001:db8::1>|<8080>",
		"/usr/bin/curl|<0>",
	}
	for _, text := range cases {
		r, err := ParseRule(text)
		if err != nil {
			t.Fatalf("parse %q: %v", text, err)
		}
		if got := r.String(); got != text {
			t.Fatalf("roundtrip %q -> %q", text, got)
		}
	}
}

func TestParseRuleTrimsSpace(t *testing.T) {
	r, err := ParseRule("  /usr/bin/curl|<443>\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.String() != "/usr/bin/curl|<443>" {
		t.Fatalf("got %q", r.String())
	}
}

func TestParseRuleRejects(t *testing.T) {
	cases := []string{
		"",
		"curl",
		"relative/path",
		"|i<10.0.0.1>",
		"/usr/bin/curl|i<10.0.0.1",
		"/usr/bin/curl|i<not-an-ip>",
		"/usr/bin/curl|<70000>",
		"/usr/bin/curl|<-1>",
		"/usr/bin/curl|<x>",
		"/usr/bin/curl|<443>|i<10.0.0.1>",
		"/usr/bin/curl|junk",
	}
	for _, text := range cases {
		if _, err := ParseRule(text); err == nil {
			t.Fatalf("parse %q: expected error", text)
		}
	}
}

func matchEvent(path, daddr string, dport int32) event.Event {
	ev := event.Event{
		Path:     path,
		Action:   event.ActionConnect,
		Protocol: event.ProtocolTCP,
		Family:   event.FamilyIPv4,
		DstPort:  dport,
	}
	if daddr != "" {
		ev.SetDstIP(net.ParseIP(daddr))
	}
	return ev
}

func TestRuleMatch(t *testing.T) {
	cases := []struct {
		rule string
		ev   event.Event
		want bool
	}{
		{"/usr/bin/curl", matchEvent("/usr/bin/curl", "1.2.3.4", 80), true},
		{"/usr/bin/curl", matchEvent("/usr/bin/wget", "1.2.3.4", 80), false},
		{"/usr/bin/curl|i<1.2.3.4>", matchEvent("/usr/bin/curl", "1.2.3.4", 80), true},
		{"/usr/bin/curl|i<1.2.3.4>", matchEvent("/usr/bin/curl", "1.2.3.5", 80), false},
		{"/usr/bin/curl|<443>", matchEvent("/usr/bin/curl", "1.2.3.4", 443), true},
		{"/usr/bin/curl|<443>", matchEvent("/usr/bin/curl", "1.2.3.4", 80), false},
		{"/usr/bin/curl|i<1.2.3.4>|<443>", matchEvent("/usr/bin/curl", "1.2.3.4", 443), true},
		{"/usr/bin/curl|i<1.2.3.4>|<443>", matchEvent("/usr/bin/curl", "1.2.3.4", 80), false},
	}
	for _, tc := range cases {
		r, err := ParseRule(tc.rule)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.rule, err)
		}
		if got := r.Match(&tc.ev); got != tc.want {
			t.Fatalf("rule %q vs %s: match = %v, want %v", tc.rule, tc.ev.Path, got, tc.want)
		}
	}
}

func TestRuleMatchNoDestination(t *testing.T) {
	bindEv := event.Event{
		Path:     "/usr/sbin/dnsmasq",
		Action:   event.ActionBind,
		Protocol: event.ProtocolUDP,
		Family:   event.FamilyUnknown,
	}

	pathOnly, err := ParseRule("/usr/sbin/dnsmasq")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !pathOnly.Match(&bindEv) {
		t.Fatalf("path-only rule must match address-less event")
	}

	withIP, err := ParseRule("/usr/sbin/dnsmasq|i<10.0.0.1>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if withIP.Match(&bindEv) {
		t.Fatalf("address rule must not match address-less event")
	}
}

func TestRuleMatchIPv6(t *testing.T) {
	r, err := ParseRule("/usr/bin/curl|i<2001:db8::1>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := event.Event{Path: "/usr/bin/curl", Family: event.FamilyIPv6}
	ev.SetDstIP(net.ParseIP("2001:db8::1"))
	if !r.Match(&ev) {
		t.Fatalf("ipv6 rule must match")
	}
}
