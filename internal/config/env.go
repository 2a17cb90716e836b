package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv overlays NETLOG_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("NETLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("NETLOG_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("NETLOG_RING_CAPACITY_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ring.CapacityBytes = n
		}
	}
	if v := os.Getenv("NETLOG_RING_SESSION_BUF_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ring.SessionBufBytes = n
		}
	}
	if v := os.Getenv("NETLOG_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("NETLOG_HTTP_CORS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.HTTP.CORS = b
		}
	}
	if v := os.Getenv("NETLOG_PROBES_ENABLED"); v != "" {
		cfg.Probes.Enabled = splitList(v)
	}
	if v := os.Getenv("NETLOG_PROBES_POLL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Probes.PollMs = n
		}
	}
	if v := os.Getenv("NETLOG_PROBES_RATE_PER_SEC"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Probes.RatePerSec = f
		}
	}
	if v := os.Getenv("NETLOG_PROBES_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Probes.Burst = n
		}
	}
	if v := os.Getenv("NETLOG_WHITELIST_RULES"); v != "" {
		cfg.Whitelist.Rules = splitList(v)
	}
	if v := os.Getenv("NETLOG_WHITELIST_CEL"); v != "" {
		cfg.Whitelist.CEL = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
