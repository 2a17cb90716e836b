package tailsvc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/Feandil/netlog/internal/event"
	"github.com/Feandil/netlog/internal/ringlog"
	logpkg "github.com/Feandil/netlog/pkg/log"
)

const (
	defaultLinesLimit = 100
	maxLinesLimit     = 10000

	// flushBatch forces a flush regardless of the window once this many
	// items are pending.
	flushBatch = 64
)

// Service fans the ring out to streaming subscribers. Each subscriber gets
// its own session, pump goroutine, and buffered queue; a slow subscriber
// falls behind on its own and sees a gap notice, it never stalls the ring.
type Service struct {
	ring   *ringlog.Log
	logger logpkg.Logger

	// flushWindow batches sink sends up to this duration before flushing.
	flushWindow time.Duration
	// subBufLen is the buffered queue length per subscriber.
	subBufLen int

	subsMu     sync.Mutex
	activeSubs int
}

// New returns a Service reading its tunables from the environment.
func New(ring *ringlog.Log, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel))
	}
	return &Service{
		ring:        ring,
		logger:      logger.WithComponent("tail"),
		flushWindow: readFlushWindow(),
		subBufLen:   readSubBufLen(),
	}
}

func readFlushWindow() time.Duration {
	if v := os.Getenv("NETLOG_TAIL_FLUSH_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return 0
}

func readSubBufLen() int {
	if v := os.Getenv("NETLOG_TAIL_BUF"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > 65536 { // cap unbounded values
				n = 65536
			}
			return n
		}
	}
	return 1024
}

// ActiveSubscribers returns the number of attached tail streams.
func (s *Service) ActiveSubscribers() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return s.activeSubs
}

func (s *Service) addSub(d int) {
	s.subsMu.Lock()
	s.activeSubs += d
	s.subsMu.Unlock()
}

// Tail streams rendered lines into sink until ctx is done, the sink's
// context is done (client gone, returns nil), or the limit is reached.
func (s *Service) Tail(ctx context.Context, opts TailOptions, sink Sink) error {
	filter, err := event.NewFilter(opts.Filter)
	if err != nil {
		return fmt.Errorf("tail: filter: %w", err)
	}

	sess := s.ring.OpenSession(ringlog.SessionOptions{FromOldest: opts.FromOldest})
	defer sess.Close()
	s.addSub(1)
	defer s.addSub(-1)
	s.logger.Debug("subscriber attached",
		logpkg.Str("session", sess.ID()), logpkg.F("fromOldest", opts.FromOldest),
		logpkg.Str("filter", opts.Filter))
	defer s.logger.Debug("subscriber detached", logpkg.Str("session", sess.ID()))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	items := make(chan Item, s.subBufLen)
	errCh := make(chan error, 1)
	go func() {
		err := s.pump(runCtx, sess, filter, opts.Limit, items)
		close(items)
		errCh <- err
	}()

	var timer *time.Timer
	var timerC <-chan time.Time
	if s.flushWindow > 0 {
		timer = time.NewTimer(s.flushWindow)
		defer timer.Stop()
		timerC = timer.C
	}

	pending := 0
	for {
		select {
		case <-sink.Context().Done():
			return nil
		case it, ok := <-items:
			if !ok {
				if pending > 0 {
					_ = sink.Flush()
				}
				err := <-errCh
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return ctx.Err()
				}
				return err
			}
			if err := sink.Send(it); err != nil {
				return err
			}
			pending++
			if s.flushWindow == 0 || pending >= flushBatch {
				if err := sink.Flush(); err != nil {
					return err
				}
				pending = 0
			}
		case <-timerC:
			if pending > 0 {
				if err := sink.Flush(); err != nil {
					return err
				}
				pending = 0
			}
			timer.Reset(s.flushWindow)
		}
	}
}

// pump reads the session and pushes filtered items into out. Returns nil
// once limit lines were delivered.
func (s *Service) pump(ctx context.Context, sess *ringlog.Session, filter event.Filter, limit int, out chan<- Item) error {
	sent := 0
	for {
		if limit > 0 && sent >= limit {
			return nil
		}
		ev, seq, err := sess.ReadEvent(ctx)
		if errors.Is(err, ringlog.ErrDataLost) {
			s.logger.Warn("subscriber fell behind eviction", logpkg.Str("session", sess.ID()))
			select {
			case out <- Item{Lost: true}:
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		if err != nil {
			return err
		}
		if !filter.Eval(&ev) {
			continue
		}
		select {
		case out <- Item{Seq: seq, Line: ringlog.FormatLine(&ev)}:
			sent++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Lines drains up to Limit rendered lines without blocking.
func (s *Service) Lines(opts TailOptions) ([]Item, error) {
	filter, err := event.NewFilter(opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("tail: filter: %w", err)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLinesLimit
	}
	if limit > maxLinesLimit {
		limit = maxLinesLimit
	}

	sess := s.ring.OpenSession(ringlog.SessionOptions{FromOldest: opts.FromOldest})
	defer sess.Close()

	items := make([]Item, 0, 16)
	for len(items) < limit {
		ev, seq, err := sess.TryReadEvent()
		if errors.Is(err, ringlog.ErrWouldBlock) {
			break
		}
		if errors.Is(err, ringlog.ErrDataLost) {
			items = append(items, Item{Lost: true})
			continue
		}
		if err != nil {
			return items, err
		}
		if !filter.Eval(&ev) {
			continue
		}
		items = append(items, Item{Seq: seq, Line: ringlog.FormatLine(&ev)})
	}
	return items, nil
}
