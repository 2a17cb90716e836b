package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Feandil/netlog/internal/event"
	"github.com/Feandil/netlog/internal/metrics"
	"github.com/Feandil/netlog/internal/ringlog"
	"github.com/Feandil/netlog/internal/whitelist"
	logpkg "github.com/Feandil/netlog/pkg/log"
)

// Options configures a Manager. Ring is required, everything else has a
// working default.
type Options struct {
	Ring      *ringlog.Log
	Whitelist *whitelist.Store
	Metrics   *metrics.Metrics
	Source    Source
	Logger    logpkg.Logger

	// Enabled names the probes active at start. Empty means all.
	Enabled []string
	// RatePerSec caps submissions to the ring. Zero or negative disables
	// the limiter.
	RatePerSec float64
	// Burst is the limiter burst size. Defaults to RatePerSec rounded up,
	// minimum 1.
	Burst int
}

// Manager owns the probe toggles and the submission pipeline. Submit never
// blocks: over-limit events are dropped and counted, not queued.
type Manager struct {
	ring    *ringlog.Log
	wl      *whitelist.Store
	metrics *metrics.Metrics
	source  Source
	logger  logpkg.Logger
	limiter *rate.Limiter

	mu      sync.Mutex
	enabled map[string]bool
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewManager validates opts and builds a stopped manager.
func NewManager(opts Options) (*Manager, error) {
	if opts.Ring == nil {
		return nil, fmt.Errorf("probe: ring is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel))
	}

	enabled := make(map[string]bool, len(All))
	if len(opts.Enabled) == 0 {
		for _, p := range All {
			enabled[p] = true
		}
	} else {
		for _, p := range All {
			enabled[p] = false
		}
		for _, p := range opts.Enabled {
			if !Valid(p) {
				return nil, fmt.Errorf("probe: unknown probe %q", p)
			}
			enabled[p] = true
		}
	}

	var limiter *rate.Limiter
	if opts.RatePerSec > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = int(opts.RatePerSec) + 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), burst)
	}

	return &Manager{
		ring:    opts.Ring,
		wl:      opts.Whitelist,
		metrics: opts.Metrics,
		source:  opts.Source,
		logger:  logger.WithComponent("probes"),
		limiter: limiter,
		enabled: enabled,
	}, nil
}

// Start launches the source. A manager without a source starts successfully
// and only serves Submit calls.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("probe: already started")
	}
	m.running = true
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	if m.source == nil {
		m.logger.Info("started without a source")
		return nil
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.source.Run(runCtx, m.Submit); err != nil && runCtx.Err() == nil {
			m.logger.Error("source stopped", logpkg.Err(err))
		}
	}()
	m.logger.Info("started", logpkg.Int("enabled", m.countEnabled()))
	return nil
}

// Stop cancels the source and waits for it to drain.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("stopped")
}

// Running reports whether Start has been called and Stop has not.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Submit runs one event through the pipeline: classify, probe toggle,
// whitelist, rate limit, append. Safe for concurrent use and never blocks.
func (m *Manager) Submit(ev event.Event) {
	name, err := classify(&ev)
	if err != nil {
		m.logger.Debug("discarding unclassifiable event",
			logpkg.Str("protocol", ev.Protocol.String()), logpkg.Str("action", ev.Action.String()))
		return
	}
	if !m.Enabled(name) {
		return
	}
	if m.metrics != nil {
		m.metrics.ObserveEvent(name)
	}
	if m.wl != nil && m.wl.ShouldSuppress(&ev) {
		if m.metrics != nil {
			m.metrics.ObserveDrop(metrics.DropSuppress)
		}
		return
	}
	if m.limiter != nil && !m.limiter.Allow() {
		if m.metrics != nil {
			m.metrics.ObserveDrop(metrics.DropRateLimit)
		}
		return
	}

	start := time.Now()
	_, truncated := m.ring.Append(ev)
	if m.metrics != nil {
		m.metrics.ObserveAppend(time.Since(start).Seconds())
		if truncated {
			m.metrics.ObserveTruncation()
		}
	}
}

// Enable turns one probe on.
func (m *Manager) Enable(name string) error {
	return m.setEnabled(name, true)
}

// Disable turns one probe off.
func (m *Manager) Disable(name string) error {
	return m.setEnabled(name, false)
}

func (m *Manager) setEnabled(name string, on bool) error {
	if !Valid(name) {
		return fmt.Errorf("probe: unknown probe %q", name)
	}
	m.mu.Lock()
	changed := m.enabled[name] != on
	m.enabled[name] = on
	m.mu.Unlock()
	if changed {
		m.logger.Info("probe toggled", logpkg.Str("probe", name), logpkg.F("enabled", on))
	}
	return nil
}

// Enabled reports whether the named probe is on. Unknown names are off.
func (m *Manager) Enabled(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled[name]
}

// States returns the toggle state of every probe.
func (m *Manager) States() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]bool, len(m.enabled))
	for k, v := range m.enabled {
		out[k] = v
	}
	return out
}

func (m *Manager) countEnabled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, on := range m.enabled {
		if on {
			n++
		}
	}
	return n
}
