package controllers

import (
	"net/http"

	"github.com/Feandil/netlog/internal/runtime"
	logpkg "github.com/Feandil/netlog/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes
// and manages the lifecycle of individual controllers.
type ControllerRegistry struct {
	general   *GeneralController
	logs      *LogsController
	whitelist *WhitelistController
	probes    *ProbesController
}

// NewControllerRegistry creates a new controller registry.
//
// It initializes all controllers with the provided runtime.
func NewControllerRegistry(rt *runtime.Runtime, logger logpkg.Logger) *ControllerRegistry {
	return &ControllerRegistry{
		general:   NewGeneralController(rt),
		logs:      NewLogsController(rt, logger),
		whitelist: NewWhitelistController(rt),
		probes:    NewProbesController(rt),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
//
// This method sets up all HTTP endpoints for the netlog service:
// general endpoints (health, stats, metrics), log streaming endpoints,
// and whitelist/probe control endpoints.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.logs.RegisterRoutes(mux)
	r.whitelist.RegisterRoutes(mux)
	r.probes.RegisterRoutes(mux)
}
