package controllers

import (
	"net/http"

	"github.com/Feandil/netlog/internal/runtime"
)

// GeneralController handles general HTTP endpoints like health and stats.
//
// It provides endpoints for service health monitoring, ring statistics
// and the Prometheus exposition format.
type GeneralController struct {
	rt *runtime.Runtime
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime) *GeneralController {
	return &GeneralController{rt: rt}
}

// RegisterRoutes registers general routes with the given mux.
//
// This method sets up HTTP endpoints for:
// - Health and readiness checks (/v1/healthz, /v1/readyz)
// - Ring and collection statistics (/v1/stats)
// - Prometheus metrics (/metrics)
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/healthz", c.handleHealth)
	mux.HandleFunc("/v1/readyz", c.handleReady)
	mux.HandleFunc("/v1/stats", c.handleStats)
	mux.Handle("/metrics", c.rt.Metrics().Handler())
}

// handleHealth returns the health status of the service.
//
// Returns 200 OK with {"status": "ok"} if healthy, 503 Service Unavailable otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports whether probes are collecting.
//
// Returns 200 OK once Start has been called, 503 before that.
func (c *GeneralController) handleReady(w http.ResponseWriter, r *http.Request) {
	if !c.rt.Probes().Running() {
		writeError(w, http.StatusServiceUnavailable, "not_collecting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStats returns ring occupancy plus collection state.
func (c *GeneralController) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, statsResp{
		Ring:        c.rt.Ring().Stats(),
		Subscribers: c.rt.Tail().ActiveSubscribers(),
		Probes:      c.rt.Probes().States(),
		Whitelist: whitelistStats{
			Rules: c.rt.Whitelist().Len(),
			CEL:   c.rt.Whitelist().CELExpr(),
		},
	})
}
