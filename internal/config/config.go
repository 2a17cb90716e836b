package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	logpkg "github.com/Feandil/netlog/pkg/log"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	Log       logpkg.Config `json:"log" yaml:"log"`
	Ring      Ring          `json:"ring" yaml:"ring"`
	HTTP      HTTP          `json:"http" yaml:"http"`
	Probes    Probes        `json:"probes" yaml:"probes"`
	Whitelist Whitelist     `json:"whitelist" yaml:"whitelist"`
}

// Ring sizes the in-memory event store.
type Ring struct {
	CapacityBytes   int `json:"capacityBytes" yaml:"capacityBytes"`
	SessionBufBytes int `json:"sessionBufBytes" yaml:"sessionBufBytes"`
}

// HTTP configures the API listener.
type HTTP struct {
	Addr string `json:"addr" yaml:"addr"`
	CORS bool   `json:"cors" yaml:"cors"`
}

// Probes configures event collection.
type Probes struct {
	// Enabled names the probes active at start. Empty means all.
	Enabled []string `json:"enabled" yaml:"enabled"`
	// PollMs is the socket table sweep period in milliseconds.
	PollMs int `json:"pollMs" yaml:"pollMs"`
	// RatePerSec caps events appended to the ring. Zero disables the cap.
	RatePerSec float64 `json:"ratePerSec" yaml:"ratePerSec"`
	Burst      int     `json:"burst" yaml:"burst"`
}

// Whitelist seeds the suppression rules.
type Whitelist struct {
	// Rules in the pipe-delimited text format, one entry each.
	Rules []string `json:"rules" yaml:"rules"`
	// CEL is an optional expression evaluated against every event.
	CEL string `json:"cel" yaml:"cel"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Log: logpkg.Config{
			Level:  "info",
			Format: "text",
		},
		Ring: Ring{
			CapacityBytes:   1 << 17,
			SessionBufBytes: 8 << 10,
		},
		HTTP: HTTP{
			Addr: ":8081",
			CORS: true,
		},
		Probes: Probes{
			PollMs:     1000,
			RatePerSec: 0,
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
