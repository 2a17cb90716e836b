package serverrun

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cfgpkg "github.com/Feandil/netlog/internal/config"
	"github.com/Feandil/netlog/internal/runtime"
	httpserver "github.com/Feandil/netlog/internal/server/http"
	logpkg "github.com/Feandil/netlog/pkg/log"
)

// Options carries the resolved server invocation.
type Options struct {
	// HTTPAddr overrides the config listen address when set.
	HTTPAddr string
	Config   cfgpkg.Config
}

// listenAddr resolves the listen address, flag before config.
func (o Options) listenAddr() string {
	if o.HTTPAddr != "" {
		return o.HTTPAddr
	}
	return o.Config.HTTP.Addr
}

// envOr reads key from the environment, falling back to def when unset
// or empty.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// buildLogger derives the process logger from the config with the
// NETLOG_LOG_* variables layered on top. The effective log config is
// returned for startup reporting.
func buildLogger(cfg cfgpkg.Config) (logpkg.Logger, logpkg.Config, error) {
	lc := cfg.Log
	lc.Level = envOr("NETLOG_LOG_LEVEL", lc.Level)
	lc.Format = envOr("NETLOG_LOG_FORMAT", lc.Format)
	l, err := logpkg.ApplyConfig(&lc)
	return l, lc, err
}

// Run starts event collection and the HTTP API and blocks until ctx is
// cancelled or the server fails.
func Run(ctx context.Context, opts Options) error {
	// Layer a signal context over the caller's so a bare context still
	// shuts the server down on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, logCfg, err := buildLogger(opts.Config)
	if err != nil {
		return err
	}
	restore := logpkg.RedirectStdLog(logger)
	defer restore()

	addr := opts.listenAddr()
	logger.Info("Starting netlog server",
		logpkg.Str("http", addr),
		logpkg.Str("level", logCfg.Level),
		logpkg.Str("format", logCfg.Format),
		logpkg.Int("ring_bytes", opts.Config.Ring.CapacityBytes),
		logpkg.Int("poll_ms", opts.Config.Probes.PollMs),
		logpkg.Str("tail_flush_ms", envOr("NETLOG_TAIL_FLUSH_MS", "0")),
		logpkg.Str("tail_buf", envOr("NETLOG_TAIL_BUF", "1024")),
	)

	rt, err := runtime.Open(runtime.Options{Config: opts.Config, Logger: logger})
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := rt.Start(ctx); err != nil {
		return err
	}

	srv := httpserver.New(rt, logger)
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe(ctx, addr) }()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		// ListenAndServe drains on cancel; wait it out so in-flight
		// tails see a clean close.
		return <-serveErr
	}
}
