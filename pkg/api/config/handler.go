package config

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"modelrisk_intake/pkg/api/respond"
	"modelrisk_intake/pkg/core/agent"
)

type Response struct {
	ActiveProvider string   `json:"active_provider"`
	Available      []string `json:"available"`
}

type SwitchRequest struct {
	Provider string `json:"provider"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	AgentMgr *agent.Manager
	logger   *zap.Logger
}

// NewHandler creates a new config handler
func NewHandler(agentMgr *agent.Manager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		AgentMgr: agentMgr,
		logger:   logger,
	}
}

// Register mounts the config routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/config", h.HandleConfig)
	r.Post("/api/config/switch", h.HandleSwitch)
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, Response{
		ActiveProvider: h.AgentMgr.GetActiveProvider(),
		Available:      h.AgentMgr.Available(),
	})
}

func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	var req SwitchRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.AgentMgr.SetGlobalProvider(req.Provider); err != nil {
		respond.Failure(w, h.logger, "config.switch", err)
		return
	}

	h.HandleConfig(w, r)
}
