package runtime

import (
	"context"
	"net"
	"testing"
	"time"

	cfgpkg "github.com/Feandil/netlog/internal/config"
	"github.com/Feandil/netlog/internal/event"
	"github.com/Feandil/netlog/internal/probe"
)

func quietConfig() cfgpkg.Config {
	cfg := cfgpkg.Default()
	cfg.Log.Level = "error"
	return cfg
}

func TestOpenCloseHealth(t *testing.T) {
	rt, err := Open(Options{Config: quietConfig()})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	defer rt.Close()
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if rt.Ring() == nil || rt.Whitelist() == nil || rt.Probes() == nil || rt.Tail() == nil || rt.Metrics() == nil {
		t.Fatalf("missing component")
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestOpenSeedsWhitelist(t *testing.T) {
	cfg := quietConfig()
	cfg.Whitelist.Rules = []string{"/usr/bin/ssh|<22>", "/usr/sbin/ntpd"}
	cfg.Whitelist.CEL = `uid == 0`
	rt, err := Open(Options{Config: cfg})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()
	if rt.Whitelist().Len() != 2 {
		t.Fatalf("rules: %d", rt.Whitelist().Len())
	}
	if rt.Whitelist().CELExpr() != `uid == 0` {
		t.Fatalf("cel: %q", rt.Whitelist().CELExpr())
	}
}

func TestOpenRejectsBadWhitelistRule(t *testing.T) {
	cfg := quietConfig()
	cfg.Whitelist.Rules = []string{"relative/path"}
	if _, err := Open(Options{Config: cfg}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpenRejectsTinyRing(t *testing.T) {
	cfg := quietConfig()
	cfg.Ring.CapacityBytes = 64
	if _, err := Open(Options{Config: cfg}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpenRejectsBadLogLevel(t *testing.T) {
	cfg := quietConfig()
	cfg.Log.Level = "shout"
	if _, err := Open(Options{Config: cfg}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStartCollects(t *testing.T) {
	src := probe.SourceFunc(func(ctx context.Context, submit func(event.Event)) error {
		ev := event.Event{
			TimestampNs: uint64(time.Now().UnixNano()),
			PID:         1,
			Path:        "/usr/bin/curl",
			Action:      event.ActionConnect,
			Protocol:    event.ProtocolTCP,
			Family:      event.FamilyIPv4,
			DstPort:     443,
		}
		ev.SetDstIP(net.IPv4(10, 0, 0, 9))
		submit(ev)
		<-ctx.Done()
		return ctx.Err()
	})
	rt, err := Open(Options{Config: quietConfig(), Source: src})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := rt.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	deadline := time.After(2 * time.Second)
	for rt.Ring().Stats().NextSeq == 0 {
		select {
		case <-deadline:
			t.Fatalf("no event collected")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
