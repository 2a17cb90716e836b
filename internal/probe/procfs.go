package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/procfs"

	"github.com/Feandil/netlog/internal/event"
	logpkg "github.com/Feandil/netlog/pkg/log"
)

// Socket states as recorded in the procfs tables.
const (
	stEstablished = 0x01
	stListen      = 0x0a
)

// ProcfsSource synthesizes connection events by sweeping the kernel socket
// tables under /proc/net and diffing them between polls. A row that appears
// becomes a connect, accept or bind; a row that disappears becomes a close.
// Sockets are attributed to processes by resolving the socket inode through
// /proc/<pid>/fd and reading /proc/<pid>/exe.
//
// The first sweep only primes the state: sockets that predate the daemon
// are not events.
type ProcfsSource struct {
	// ProcRoot is the procfs mount point. Defaults to /proc.
	ProcRoot string
	// Interval is the poll period. Defaults to one second.
	Interval time.Duration
	Logger   logpkg.Logger

	logger logpkg.Logger
	prev   map[uint64]sockRow
	attr   map[uint64]attribution
}

// sockRow is one line of a socket table, keyed by inode in the sweep maps.
type sockRow struct {
	proto      event.Protocol
	family     event.Family
	state      int
	localAddr  [16]byte
	localPort  int32
	remoteAddr [16]byte
	remotePort int32
	uid        uint32
	inode      uint64

	pid  uint32
	path string
}

type attribution struct {
	pid  uint32
	path string
}

var sockTables = []struct {
	name   string
	proto  event.Protocol
	family event.Family
	read   func(procfs.FS) (procfs.NetIPSocket, error)
}{
	{"tcp", event.ProtocolTCP, event.FamilyIPv4,
		func(fs procfs.FS) (procfs.NetIPSocket, error) { v, err := fs.NetTCP(); return procfs.NetIPSocket(v), err }},
	{"tcp6", event.ProtocolTCP, event.FamilyIPv6,
		func(fs procfs.FS) (procfs.NetIPSocket, error) { v, err := fs.NetTCP6(); return procfs.NetIPSocket(v), err }},
	{"udp", event.ProtocolUDP, event.FamilyIPv4,
		func(fs procfs.FS) (procfs.NetIPSocket, error) { v, err := fs.NetUDP(); return procfs.NetIPSocket(v), err }},
	{"udp6", event.ProtocolUDP, event.FamilyIPv6,
		func(fs procfs.FS) (procfs.NetIPSocket, error) { v, err := fs.NetUDP6(); return procfs.NetIPSocket(v), err }},
}

// Run polls until ctx is done.
func (s *ProcfsSource) Run(ctx context.Context, submit func(event.Event)) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Second
	}
	s.logger = s.Logger
	if s.logger == nil {
		s.logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel))
	}
	s.logger = s.logger.WithComponent("procfs")
	s.attr = map[uint64]attribution{}

	// prime without emitting
	s.prev, _ = s.snapshot()
	s.logger.Info("primed socket tables",
		logpkg.Int("sockets", len(s.prev)), logpkg.Str("interval", interval.String()))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(submit)
		}
	}
}

// sweep diffs the current tables against the previous ones and emits the
// transitions.
func (s *ProcfsSource) sweep(submit func(event.Event)) {
	curr, listen := s.snapshot()

	for inode, row := range curr {
		if _, ok := s.prev[inode]; ok {
			continue
		}
		if ev, ok := newRowEvent(row, listen); ok {
			submit(ev)
		}
	}
	for inode, row := range s.prev {
		if _, ok := curr[inode]; ok {
			continue
		}
		if ev, ok := goneRowEvent(row); ok {
			submit(ev)
		}
	}

	// drop attributions for sockets that no longer exist
	for inode := range s.attr {
		if _, ok := curr[inode]; !ok {
			delete(s.attr, inode)
		}
	}
	s.prev = curr
}

func (s *ProcfsSource) root() string {
	if s.ProcRoot != "" {
		return s.ProcRoot
	}
	return "/proc"
}

// snapshot reads all four tables and resolves process attribution. The
// second return value is the set of TCP ports with a listener, used to tell
// accepts from connects.
func (s *ProcfsSource) snapshot() (map[uint64]sockRow, map[int32]bool) {
	rows := make(map[uint64]sockRow)
	listen := make(map[int32]bool)
	fs, err := procfs.NewFS(s.root())
	if err != nil {
		s.logger.Warn("procfs unavailable", logpkg.Err(err))
		return rows, listen
	}
	for _, tbl := range sockTables {
		lines, err := tbl.read(fs)
		if err != nil {
			// a table may be absent when the protocol is not compiled in
			if !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("bad socket table", logpkg.Str("file", tbl.name), logpkg.Err(err))
			}
			continue
		}
		for _, ln := range lines {
			if ln.Inode == 0 {
				// TIME_WAIT and orphaned rows carry no inode and
				// cannot be attributed
				continue
			}
			row := lineRow(procfs.NetIPSocket{ln}, tbl.proto, tbl.family)
			rows[row.inode] = row
			if row.proto == event.ProtocolTCP && row.state == stListen {
				listen[row.localPort] = true
			}
		}
	}
	s.resolve(fs, rows)
	return rows, listen
}

// lineRow converts a parsed socket table line into the sweep representation.
func lineRow(lns procfs.NetIPSocket, proto event.Protocol, family event.Family) sockRow {
	ln := lns[0]
	return sockRow{
		proto:      proto,
		family:     family,
		state:      int(ln.St),
		localAddr:  ipBytes(ln.LocalAddr, family),
		localPort:  int32(ln.LocalPort),
		remoteAddr: ipBytes(ln.RemAddr, family),
		remotePort: int32(ln.RemPort),
		uid:        uint32(ln.UID),
		inode:      ln.Inode,
	}
}

func ipBytes(ip net.IP, family event.Family) (out [16]byte) {
	if family == event.FamilyIPv4 {
		if v4 := ip.To4(); v4 != nil {
			copy(out[:4], v4)
		}
		return out
	}
	if v16 := ip.To16(); v16 != nil {
		copy(out[:], v16)
	}
	return out
}

// newRowEvent classifies a socket that appeared since the last sweep.
func newRowEvent(row sockRow, listen map[int32]bool) (event.Event, bool) {
	switch row.proto {
	case event.ProtocolTCP:
		if row.state != stEstablished {
			return event.Event{}, false
		}
		action := event.ActionConnect
		if listen[row.localPort] {
			action = event.ActionAccept
		}
		return rowEvent(row, action), true
	case event.ProtocolUDP:
		if row.remotePort != 0 || row.remoteAddr != ([16]byte{}) {
			return rowEvent(row, event.ActionConnect), true
		}
		return rowEvent(row, event.ActionBind), true
	}
	return event.Event{}, false
}

// goneRowEvent classifies a socket that disappeared since the last sweep.
// A vanished TCP listener is not a connection event.
func goneRowEvent(row sockRow) (event.Event, bool) {
	switch row.proto {
	case event.ProtocolTCP:
		if row.state != stEstablished {
			return event.Event{}, false
		}
		return rowEvent(row, event.ActionClose), true
	case event.ProtocolUDP:
		return rowEvent(row, event.ActionClose), true
	}
	return event.Event{}, false
}

func rowEvent(row sockRow, action event.Action) event.Event {
	return event.Event{
		TimestampNs: uint64(time.Now().UnixNano()),
		PID:         row.pid,
		UID:         row.uid,
		Path:        row.path,
		Action:      action,
		Protocol:    row.proto,
		Family:      row.family,
		SrcAddr:     row.localAddr,
		SrcPort:     row.localPort,
		DstAddr:     row.remoteAddr,
		DstPort:     row.remotePort,
	}
}

// resolve fills pid and path on rows whose inode has a known owner, scanning
// process fd tables for the ones seen for the first time.
func (s *ProcfsSource) resolve(fs procfs.FS, rows map[uint64]sockRow) {
	need := make(map[uint64]bool)
	for inode, row := range rows {
		if a, ok := s.attr[inode]; ok {
			row.pid, row.path = a.pid, a.path
			rows[inode] = row
		} else {
			need[inode] = true
		}
	}
	if len(need) == 0 {
		return
	}

	procs, err := fs.AllProcs()
	if err != nil {
		return
	}
	for _, p := range procs {
		if len(need) == 0 {
			break
		}
		targets, err := p.FileDescriptorTargets()
		if err != nil {
			// no permission or the process is gone
			continue
		}
		exe := ""
		exeRead := false
		for _, target := range targets {
			inode, ok := socketInode(target)
			if !ok || !need[inode] {
				continue
			}
			if !exeRead {
				exe, _ = p.Executable()
				exeRead = true
			}
			a := attribution{pid: uint32(p.PID), path: exe}
			s.attr[inode] = a
			row := rows[inode]
			row.pid, row.path = a.pid, a.path
			rows[inode] = row
			delete(need, inode)
		}
	}
}

// socketInode extracts N from a "socket:[N]" fd link target.
func socketInode(link string) (uint64, bool) {
	if !strings.HasPrefix(link, "socket:[") || !strings.HasSuffix(link, "]") {
		return 0, false
	}
	n, err := strconv.ParseUint(link[len("socket:[") : len(link)-1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
