package event

import (
	"net"
	"strings"

	"github.com/google/cel-go/cel"
)

// Filter wraps a compiled CEL program over event fields. The zero value is
// disabled and matches everything. Disabled or failing evaluations never
// drop into an error path; Eval just answers true or false.
type Filter struct {
	prog    cel.Program
	expr    string
	enabled bool
}

// NewFilter compiles expr into a Filter. An empty expression yields a
// disabled filter. The expression sees these variables:
//
//	path     string  executable path
//	pid      int
//	uid      int
//	action   string  "connect", "accept", "close", "bind", "unknown"
//	protocol string  "TCP", "UDP", "UNK"
//	family   string  "inet", "inet6", "unknown"
//	saddr    string  source address text, "" when the family is unknown
//	sport    int
//	daddr    string  destination address text, "" when the family is unknown
//	dport    int
//	ts_ms    int     event timestamp in milliseconds
func NewFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("path", cel.StringType),
		cel.Variable("pid", cel.IntType),
		cel.Variable("uid", cel.IntType),
		cel.Variable("action", cel.StringType),
		cel.Variable("protocol", cel.StringType),
		cel.Variable("family", cel.StringType),
		cel.Variable("saddr", cel.StringType),
		cel.Variable("sport", cel.IntType),
		cel.Variable("daddr", cel.StringType),
		cel.Variable("dport", cel.IntType),
		cel.Variable("ts_ms", cel.IntType),
	)
	if err != nil {
		return Filter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return Filter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return Filter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return Filter{}, err
	}
	return Filter{prog: prog, expr: expr, enabled: true}, nil
}

// Enabled reports whether a non-empty expression is compiled in.
func (f Filter) Enabled() bool { return f.enabled }

// Expr returns the source expression, "" when disabled.
func (f Filter) Expr() string { return f.expr }

// Eval evaluates the expression against ev. A disabled filter matches
// everything; an evaluation error matches nothing.
func (f Filter) Eval(ev *Event) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"path":     ev.Path,
		"pid":      int64(ev.PID),
		"uid":      int64(ev.UID),
		"action":   ev.Action.String(),
		"protocol": ev.Protocol.String(),
		"family":   ev.Family.String(),
		"saddr":    ipText(ev.SrcIP()),
		"sport":    int64(ev.SrcPort),
		"daddr":    ipText(ev.DstIP()),
		"dport":    int64(ev.DstPort),
		"ts_ms":    int64(ev.TimestampNs / 1e6),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

func ipText(ip net.IP) string {
	if ip == nil {
		return ""
	}
	return ip.String()
}
