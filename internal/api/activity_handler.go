package api

import (
	"net/http"

	"github.com/planora/weekplanner/internal/activity"
	"github.com/planora/weekplanner/internal/api/respond"
)

// ActivityHandler serves the static category-to-activity catalog.
type ActivityHandler struct{}

func NewActivityHandler() *ActivityHandler {
	return &ActivityHandler{}
}

func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": activity.All(),
	})
}
