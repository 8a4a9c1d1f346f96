package api

import (
	"net/http"

	"github.com/planora/weekplanner/internal/api/respond"
)

// HealthHandler exposes the cached service and AI provider health flags.
// Probes run in the background; these endpoints never block on a dependency.
type HealthHandler struct {
	service func() bool
	ai      func() bool
}

// NewHealthHandler creates a health handler from the two health sources. Nil
// sources report unhealthy.
func NewHealthHandler(service, ai func() bool) *HealthHandler {
	return &HealthHandler{service: service, ai: ai}
}

func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, h.service)
}

// CheckAIHealth reports only the chat-completion provider. The service is
// fully usable without it; clients use this to grey out generation buttons.
func (h *HealthHandler) CheckAIHealth(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, h.ai)
}

func writeHealth(w http.ResponseWriter, source func() bool) {
	if source == nil || !source() {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
