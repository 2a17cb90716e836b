package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	cfgpkg "github.com/Feandil/netlog/internal/config"
	"github.com/Feandil/netlog/internal/metrics"
	"github.com/Feandil/netlog/internal/probe"
	"github.com/Feandil/netlog/internal/ringlog"
	tailsvc "github.com/Feandil/netlog/internal/services/tail"
	"github.com/Feandil/netlog/internal/whitelist"
	logpkg "github.com/Feandil/netlog/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger logpkg.Logger
	// Source overrides the event source. Defaults to a procfs sweeper.
	Source probe.Source
}

// Runtime wires the ring, filters, probes and facades for a single-node
// instance.
type Runtime struct {
	config  cfgpkg.Config
	logger  logpkg.Logger
	metrics *metrics.Metrics
	ring    *ringlog.Log
	wl      *whitelist.Store
	probes  *probe.Manager
	tail    *tailsvc.Service

	statsStop chan struct{}
}

// Open builds all components from the configuration and returns a Runtime.
// Probes are not collecting until Start is called.
func Open(opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logpkg.ApplyConfig(&opts.Config.Log)
		if err != nil {
			return nil, fmt.Errorf("runtime: logger: %w", err)
		}
	}

	m := metrics.New()
	ring, err := ringlog.New(ringlog.Options{
		CapacityBytes:   opts.Config.Ring.CapacityBytes,
		SessionBufBytes: opts.Config.Ring.SessionBufBytes,
		Hook:            m,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("runtime: ring: %w", err)
	}

	wl := whitelist.NewStore(logger)
	for _, text := range opts.Config.Whitelist.Rules {
		if err := wl.AddText(text); err != nil {
			return nil, fmt.Errorf("runtime: whitelist: %w", err)
		}
	}
	if opts.Config.Whitelist.CEL != "" {
		if err := wl.SetCEL(opts.Config.Whitelist.CEL); err != nil {
			return nil, fmt.Errorf("runtime: whitelist: %w", err)
		}
	}

	source := opts.Source
	if source == nil {
		source = &probe.ProcfsSource{
			Interval: time.Duration(opts.Config.Probes.PollMs) * time.Millisecond,
			Logger:   logger,
		}
	}
	probes, err := probe.NewManager(probe.Options{
		Ring:       ring,
		Whitelist:  wl,
		Metrics:    m,
		Source:     source,
		Logger:     logger,
		Enabled:    opts.Config.Probes.Enabled,
		RatePerSec: opts.Config.Probes.RatePerSec,
		Burst:      opts.Config.Probes.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("runtime: probes: %w", err)
	}

	rt := &Runtime{
		config:    opts.Config,
		logger:    logger,
		metrics:   m,
		ring:      ring,
		wl:        wl,
		probes:    probes,
		tail:      tailsvc.New(ring, logger),
		statsStop: make(chan struct{}),
	}
	go rt.refreshStats()
	return rt, nil
}

// Start begins event collection.
func (r *Runtime) Start(ctx context.Context) error {
	return r.probes.Start(ctx)
}

// Close stops collection and the stats refresher. Safe to call twice.
func (r *Runtime) Close() error {
	r.probes.Stop()
	select {
	case <-r.statsStop:
	default:
		close(r.statsStop)
	}
	return nil
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.ring == nil {
		return errors.New("ring not open")
	}
	return nil
}

// refreshStats mirrors ring occupancy into the gauges once a second.
func (r *Runtime) refreshStats() {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-r.statsStop:
			return
		case <-t.C:
			st := r.ring.Stats()
			r.metrics.SetRingStats(float64(st.LiveRecords), float64(st.UsedBytes), float64(st.OpenSessions))
		}
	}
}

// Ring returns the event store.
func (r *Runtime) Ring() *ringlog.Log { return r.ring }

// Whitelist returns the suppression rule store.
func (r *Runtime) Whitelist() *whitelist.Store { return r.wl }

// Probes returns the probe manager.
func (r *Runtime) Probes() *probe.Manager { return r.probes }

// Tail returns the streaming facade over the ring.
func (r *Runtime) Tail() *tailsvc.Service { return r.tail }

// Metrics returns the metrics registry wrapper.
func (r *Runtime) Metrics() *metrics.Metrics { return r.metrics }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the process logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }
