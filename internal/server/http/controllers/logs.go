package controllers

import (
	"net/http"

	"github.com/Feandil/netlog/internal/event"
	"github.com/Feandil/netlog/internal/runtime"
	tailsvc "github.com/Feandil/netlog/internal/services/tail"
	logpkg "github.com/Feandil/netlog/pkg/log"
)

// LogsController handles the log read endpoints.
//
// It exposes the ring both as a Server-Sent Events stream for live
// followers and as a bounded JSON drain for one-shot readers.
type LogsController struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
}

// NewLogsController creates a new logs controller.
func NewLogsController(rt *runtime.Runtime, logger logpkg.Logger) *LogsController {
	return &LogsController{rt: rt, logger: logger}
}

// RegisterRoutes registers log routes with the given mux.
func (c *LogsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/log/tail", c.handleTailSSE)
	mux.HandleFunc("/v1/log/lines", c.handleLines)
}

// handleTailSSE streams rendered lines over SSE.
// Query params: from=oldest|newest, filter, limit
func (c *LogsController) handleTailSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	opts, ok := tailOptionsFromQuery(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if err := c.rt.Tail().Tail(r.Context(), opts, sseSink{w: w, r: r}); err != nil && r.Context().Err() == nil {
		c.logger.Warn("tail stream ended", logpkg.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to tail")
		return
	}
}

// handleLines drains buffered lines without blocking.
// Query params: from=oldest|newest, filter, limit
func (c *LogsController) handleLines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	opts, ok := tailOptionsFromQuery(w, r)
	if !ok {
		return
	}
	items, err := c.rt.Tail().Lines(opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter expression")
		return
	}
	writeJSON(w, http.StatusOK, linesResp{Lines: items, Count: len(items)})
}

// tailOptionsFromQuery parses the shared tail params. On a bad filter it
// writes a 400 and reports false.
func tailOptionsFromQuery(w http.ResponseWriter, r *http.Request) (tailsvc.TailOptions, bool) {
	var opts tailsvc.TailOptions
	if r.URL.Query().Get("from") == "oldest" {
		opts.FromOldest = true
	}
	if filter := r.URL.Query().Get("filter"); filter != "" {
		// cap filter length at 2KiB
		if len(filter) > 2048 {
			writeError(w, http.StatusBadRequest, "Filter too long")
			return opts, false
		}
		if _, err := event.NewFilter(filter); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid filter expression")
			return opts, false
		}
		opts.Filter = filter
	}
	if limit := queryInt(r, "limit"); limit > 0 {
		opts.Limit = limit
	}
	return opts, true
}
