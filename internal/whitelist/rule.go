// Package whitelist suppresses connection events that match operator-supplied
// rules, either the classic pipe-delimited text format or a CEL expression.
package whitelist

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/Feandil/netlog/internal/event"
)

// Rule suppresses events from one executable, optionally narrowed to a
// destination address and port. Text form:
//
//	/usr/bin/curl
//	/usr/bin/curl|i<93.184.216.34>
//	/usr/bin/curl|<443>
//	/usr/bin/curl|i<93.184.216.34>|<443>
//
// The ip part, when present, comes before the port part.
type Rule struct {
	Path string
	IP   net.IP // nil matches any address
	Port int32  // negative matches any port
}

const (
	ipMark   = "|i<"
	portMark = "|<"
)

// ParseRule parses the text form. The executable must be an absolute path.
func ParseRule(s string) (Rule, error) {
	text := strings.TrimSpace(s)
	path := text
	rest := ""
	if i := strings.IndexByte(text, '|'); i >= 0 {
		path, rest = text[:i], text[i:]
	}
	if path == "" || path[0] != '/' {
		return Rule{}, fmt.Errorf("whitelist: rule %q: executable must be an absolute path", s)
	}
	r := Rule{Path: path, Port: -1}

	if strings.HasPrefix(rest, ipMark) {
		body := rest[len(ipMark):]
		end := strings.IndexByte(body, '>')
		if end < 0 {
			return Rule{}, fmt.Errorf("whitelist: rule %q: unterminated ip part", s)
		}
		ip := net.ParseIP(body[:end])
		if ip == nil {
			return Rule{}, fmt.Errorf("whitelist: rule %q: bad ip %q", s, body[:end])
		}
		r.IP = ip
		rest = body[end+1:]
	}
	if strings.HasPrefix(rest, portMark) {
		body := rest[len(portMark):]
		end := strings.IndexByte(body, '>')
		if end < 0 {
			return Rule{}, fmt.Errorf("whitelist: rule %q: unterminated port part", s)
		}
		port, err := strconv.Atoi(body[:end])
		if err != nil || port < 0 || port > 65535 {
			return Rule{}, fmt.Errorf("whitelist: rule %q: bad port %q", s, body[:end])
		}
		r.Port = int32(port)
		rest = body[end+1:]
	}
	if rest != "" {
		return Rule{}, fmt.Errorf("whitelist: rule %q: trailing %q", s, rest)
	}
	return r, nil
}

// String renders the canonical text form. ParseRule(r.String()) == r.
func (r Rule) String() string {
	var b strings.Builder
	b.WriteString(r.Path)
	if r.IP != nil {
		fmt.Fprintf(&b, "|i<%s>", r.IP)
	}
	if r.Port >= 0 {
		fmt.Fprintf(&b, "|<%d>", r.Port)
	}
	return b.String()
}

// Match reports whether ev falls under this rule: same executable, and the
// destination satisfies whatever address and port constraints are present.
// Events without a destination (bind, unknown family) only match rules that
// carry no address constraint.
func (r Rule) Match(ev *event.Event) bool {
	if ev.Path != r.Path {
		return false
	}
	if r.IP != nil {
		dst := ev.DstIP()
		if dst == nil || !r.IP.Equal(dst) {
			return false
		}
	}
	if r.Port >= 0 && ev.DstPort != r.Port {
		return false
	}
	return true
}
