package controllers

import (
	"github.com/Feandil/netlog/internal/ringlog"
	tailsvc "github.com/Feandil/netlog/internal/services/tail"
)

// Common request/response types for HTTP controllers

// ruleReq carries one whitelist rule in text form.
type ruleReq struct {
	Rule string `json:"rule"`
}

// replaceWhitelistReq swaps the entire whitelist state.
type replaceWhitelistReq struct {
	Rules []string `json:"rules"`
	CEL   string   `json:"cel"`
}

// whitelistResp lists the active suppression state.
type whitelistResp struct {
	Rules []string `json:"rules"`
	CEL   string   `json:"cel,omitempty"`
}

// probeToggleReq sets one probe's enabled state.
type probeToggleReq struct {
	Enabled bool `json:"enabled"`
}

// probeResp reports one probe's enabled state.
type probeResp struct {
	Probe   string `json:"probe"`
	Enabled bool   `json:"enabled"`
}

// probesResp reports every probe's enabled state.
type probesResp struct {
	Probes map[string]bool `json:"probes"`
}

// linesResp carries a bounded drain of rendered lines.
type linesResp struct {
	Lines []tailsvc.Item `json:"lines"`
	Count int            `json:"count"`
}

// whitelistStats summarizes the suppression state inside statsResp.
type whitelistStats struct {
	Rules int    `json:"rules"`
	CEL   string `json:"cel,omitempty"`
}

// statsResp aggregates ring occupancy and collection state.
type statsResp struct {
	Ring        ringlog.Stats   `json:"ring"`
	Subscribers int             `json:"subscribers"`
	Probes      map[string]bool `json:"probes"`
	Whitelist   whitelistStats  `json:"whitelist"`
}
