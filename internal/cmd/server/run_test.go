package serverrun

import (
	"context"
	"testing"
	"time"

	cfgpkg "github.com/Feandil/netlog/internal/config"
)

func TestEnvOr(t *testing.T) {
	t.Setenv("NETLOG_TEST_KEY", "set")
	if got := envOr("NETLOG_TEST_KEY", "fallback"); got != "set" {
		t.Fatalf("envOr = %q", got)
	}
	t.Setenv("NETLOG_TEST_KEY", "")
	if got := envOr("NETLOG_TEST_KEY", "fallback"); got != "fallback" {
		t.Fatalf("envOr with empty value = %q", got)
	}
	if got := envOr("NETLOG_TEST_KEY_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("envOr with unset key = %q", got)
	}
}

func TestListenAddrPrecedence(t *testing.T) {
	cfg := cfgpkg.Default()
	if got := (Options{Config: cfg}).listenAddr(); got != cfg.HTTP.Addr {
		t.Fatalf("config addr: got %q, want %q", got, cfg.HTTP.Addr)
	}
	if got := (Options{HTTPAddr: ":9999", Config: cfg}).listenAddr(); got != ":9999" {
		t.Fatalf("flag addr: got %q", got)
	}
}

func TestBuildLoggerEnvOverride(t *testing.T) {
	t.Setenv("NETLOG_LOG_LEVEL", "debug")
	t.Setenv("NETLOG_LOG_FORMAT", "json")
	_, lc, err := buildLogger(cfgpkg.Default())
	if err != nil {
		t.Fatalf("buildLogger: %v", err)
	}
	if lc.Level != "debug" || lc.Format != "json" {
		t.Fatalf("effective log config = %q/%q", lc.Level, lc.Format)
	}
}

func TestRunRejectsBadLogLevel(t *testing.T) {
	t.Setenv("NETLOG_LOG_LEVEL", "")
	cfg := cfgpkg.Default()
	cfg.Log.Level = "loud"
	if err := Run(context.Background(), Options{Config: cfg}); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

// TestRunStopsOnCancel drives a full server lifecycle: Run must come
// back nil once the context expires.
func TestRunStopsOnCancel(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a live server")
	}
	t.Setenv("NETLOG_LOG_LEVEL", "error")
	cfg := cfgpkg.Default()
	cfg.Probes.PollMs = 3600000

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := Run(ctx, Options{HTTPAddr: "127.0.0.1:0", Config: cfg}); err != nil {
		t.Fatalf("run: %v", err)
	}
}
