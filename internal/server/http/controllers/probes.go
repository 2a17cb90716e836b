package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Feandil/netlog/internal/probe"
	"github.com/Feandil/netlog/internal/runtime"
)

// ProbesController handles probe inspection and toggling.
type ProbesController struct {
	rt *runtime.Runtime
}

// NewProbesController creates a new probes controller.
func NewProbesController(rt *runtime.Runtime) *ProbesController {
	return &ProbesController{rt: rt}
}

// RegisterRoutes registers probe routes with the given mux.
func (c *ProbesController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/probes", c.handleList)
	mux.HandleFunc("/v1/probes/", c.handleProbe)
}

// handleList returns the enabled state of every probe.
func (c *ProbesController) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, probesResp{Probes: c.rt.Probes().States()})
}

// handleProbe reads or toggles one probe.
// Path: /v1/probes/{name}
func (c *ProbesController) handleProbe(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/v1/probes/")
	if name == "" {
		writeError(w, http.StatusBadRequest, "Probe name is required")
		return
	}
	if !probe.Valid(name) {
		writeError(w, http.StatusNotFound, "Unknown probe")
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, probeResp{Probe: name, Enabled: c.rt.Probes().Enabled(name)})
	case http.MethodPut:
		var req probeToggleReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		var err error
		if req.Enabled {
			err = c.rt.Probes().Enable(name)
		} else {
			err = c.rt.Probes().Disable(name)
		}
		if err != nil {
			writeError(w, http.StatusNotFound, "Unknown probe")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
