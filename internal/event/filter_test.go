package event

import (
	"net"
	"testing"
)

func filterEvent() Event {
	ev := Event{
		TimestampNs: 1700000000000000000,
		PID:         4242,
		UID:         1000,
		Path:        "/usr/bin/curl",
		Action:      ActionConnect,
		Protocol:    ProtocolTCP,
		Family:      FamilyIPv4,
		SrcPort:     51234,
		DstPort:     443,
	}
	ev.SetSrcIP(net.ParseIP("10.0.0.2"))
	ev.SetDstIP(net.ParseIP("93.184.216.34"))
	return ev
}

func TestFilterDisabled(t *testing.T) {
	f, err := NewFilter("")
	if err != nil {
		t.Fatalf("empty filter: %v", err)
	}
	if f.Enabled() {
		t.Fatalf("empty filter enabled")
	}
	ev := filterEvent()
	if !f.Eval(&ev) {
		t.Fatalf("disabled filter must match everything")
	}
	var zero Filter
	if !zero.Eval(&ev) {
		t.Fatalf("zero filter must match everything")
	}
}

func TestFilterEval(t *testing.T) {
	ev := filterEvent()
	cases := []struct {
		expr string
		want bool
	}{
		{`action == "connect"`, true},
		{`action == "close"`, false},
		{`protocol == "TCP" && dport == 443`, true},
		{`dport == 80`, false},
		{`path.startsWith("/usr/bin/")`, true},
		{`uid == 1000 && pid == 4242`, true},
		{`daddr == "93.184.216.34"`, true},
		{`saddr == "10.0.0.2" && sport == 51234`, true},
		{`family == "inet6"`, false},
		{`ts_ms > 0`, true},
	}
	for _, tc := range cases {
		f, err := NewFilter(tc.expr)
		if err != nil {
			t.Fatalf("compile %q: %v", tc.expr, err)
		}
		if got := f.Eval(&ev); got != tc.want {
			t.Fatalf("eval %q = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestFilterCompileError(t *testing.T) {
	if _, err := NewFilter(`dport == `); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := NewFilter(`nosuchvar == 1`); err == nil {
		t.Fatalf("expected check error for unknown variable")
	}
}

func TestFilterNonBoolResult(t *testing.T) {
	f, err := NewFilter(`dport`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ev := filterEvent()
	if f.Eval(&ev) {
		t.Fatalf("non-bool result must not match")
	}
}
