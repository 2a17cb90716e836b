package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Feandil/netlog/internal/runtime"
)

// WhitelistController handles suppression rule management.
//
// The full rule state lives under /v1/whitelist: GET lists it, POST adds
// one rule, PUT replaces everything, DELETE clears it. Removal of a single
// rule is an action endpoint, matching how the store addresses rules by
// their canonical text.
type WhitelistController struct {
	rt *runtime.Runtime
}

// NewWhitelistController creates a new whitelist controller.
func NewWhitelistController(rt *runtime.Runtime) *WhitelistController {
	return &WhitelistController{rt: rt}
}

// RegisterRoutes registers whitelist routes with the given mux.
func (c *WhitelistController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/whitelist", c.handleWhitelist)
	mux.HandleFunc("/v1/whitelist/remove", c.handleRemove)
}

func (c *WhitelistController) handleWhitelist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.list(w)
	case http.MethodPost:
		c.add(w, r)
	case http.MethodPut:
		c.replace(w, r)
	case http.MethodDelete:
		c.clear(w)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (c *WhitelistController) list(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, whitelistResp{
		Rules: c.rt.Whitelist().List(),
		CEL:   c.rt.Whitelist().CELExpr(),
	})
}

func (c *WhitelistController) add(w http.ResponseWriter, r *http.Request) {
	var req ruleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.rt.Whitelist().AddText(req.Rule); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// replace swaps the whole rule state. Both fields are taken literally: an
// absent or empty cel clears the expression.
func (c *WhitelistController) replace(w http.ResponseWriter, r *http.Request) {
	var req replaceWhitelistReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.rt.Whitelist().Replace(req.Rules); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := c.rt.Whitelist().SetCEL(req.CEL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *WhitelistController) clear(w http.ResponseWriter) {
	c.rt.Whitelist().Clear()
	_ = c.rt.Whitelist().SetCEL("")
	w.WriteHeader(http.StatusNoContent)
}

func (c *WhitelistController) handleRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req ruleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !c.rt.Whitelist().Remove(req.Rule) {
		writeError(w, http.StatusNotFound, "Rule not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
